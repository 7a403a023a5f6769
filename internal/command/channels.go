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

type ChannelsCommand struct {
	deps *Dependencies
}

func NewChannelsCommand(deps *Dependencies) *ChannelsCommand {
	return &ChannelsCommand{deps: deps}
}

func (c *ChannelsCommand) Name() string {
	return "channels"
}

func (c *ChannelsCommand) Description() string {
	return "Active, declining and dead channels"
}

func (c *ChannelsCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	days := daysParam(params, constants.DefaultChannelDays)
	key := cache.ReportKey("channels", cmdCtx.CommunityID, days)

	report, err := c.deps.cachedReport(ctx, key, func() (string, error) {
		channelReport, err := c.deps.Channels.Classify(ctx, cmdCtx.CommunityID, days)
		if err != nil {
			return "", err
		}
		return c.deps.Formatter.FormatChannels(channelReport, days), nil
	})
	if err != nil {
		c.deps.Logger.Error("Channels command failed", zap.Error(err))
		if errors.IsValidationError(err) {
			return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, err.Error())
		}
		return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, "Could not build the channel report.")
	}

	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, report)
}
