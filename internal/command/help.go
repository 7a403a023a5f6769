package command

import (
	"context"
	"fmt"

	"github.com/pulselabs/community-pulse-go/internal/domain"
)

type HelpCommand struct {
	deps *Dependencies
}

func NewHelpCommand(deps *Dependencies) *HelpCommand {
	return &HelpCommand{deps: deps}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Command overview"
}

func (c *HelpCommand) Execute(_ context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if c.deps.SendMessage == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, c.deps.Formatter.FormatHelp())
}
