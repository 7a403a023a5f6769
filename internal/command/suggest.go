package command

import (
	"context"
	"fmt"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/service/cache"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

type SuggestCommand struct {
	deps *Dependencies
}

func NewSuggestCommand(deps *Dependencies) *SuggestCommand {
	return &SuggestCommand{deps: deps}
}

func (c *SuggestCommand) Name() string {
	return "suggest"
}

func (c *SuggestCommand) Description() string {
	return "Actionable suggestions based on recent activity"
}

func (c *SuggestCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	key := cache.ReportKey("suggest", cmdCtx.CommunityID, 7)

	report, err := c.deps.cachedReport(ctx, key, func() (string, error) {
		suggestions, err := c.deps.Suggestions.Generate(ctx, cmdCtx.CommunityID)
		if err != nil {
			return "", err
		}
		return c.deps.Formatter.FormatSuggestions(suggestions), nil
	})
	if err != nil {
		c.deps.Logger.Error("Suggest command failed", zap.Error(err))
		if errors.IsValidationError(err) {
			return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, err.Error())
		}
		return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, "Could not build suggestions.")
	}

	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, report)
}
