package command

import (
	"context"
	"fmt"

	"github.com/pulselabs/community-pulse-go/internal/constants"
	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/service/cache"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

type PulseCommand struct {
	deps *Dependencies
}

func NewPulseCommand(deps *Dependencies) *PulseCommand {
	return &PulseCommand{deps: deps}
}

func (c *PulseCommand) Name() string {
	return "pulse"
}

func (c *PulseCommand) Description() string {
	return "Activity snapshot for the community"
}

func (c *PulseCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	days := daysParam(params, constants.DefaultPulseDays)
	key := cache.ReportKey("pulse", cmdCtx.CommunityID, days)

	report, err := c.deps.cachedReport(ctx, key, func() (string, error) {
		pulse, err := c.deps.Health.Pulse(ctx, cmdCtx.CommunityID, days)
		if err != nil {
			return "", err
		}
		return c.deps.Formatter.FormatPulse(pulse), nil
	})
	if err != nil {
		c.deps.Logger.Error("Pulse command failed", zap.Error(err))
		if errors.IsValidationError(err) {
			return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, err.Error())
		}
		return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, "Could not build the pulse report.")
	}

	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, report)
}
