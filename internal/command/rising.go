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

type RisingCommand struct {
	deps *Dependencies
}

func NewRisingCommand(deps *Dependencies) *RisingCommand {
	return &RisingCommand{deps: deps}
}

func (c *RisingCommand) Name() string {
	return "rising"
}

func (c *RisingCommand) Description() string {
	return "Recently active members on an upward trajectory"
}

func (c *RisingCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	days := daysParam(params, constants.DefaultRisingStarDays)
	key := cache.ReportKey("rising", cmdCtx.CommunityID, days)

	report, err := c.deps.cachedReport(ctx, key, func() (string, error) {
		stars, err := c.deps.Contributors.RisingStars(ctx, cmdCtx.CommunityID, days)
		if err != nil {
			return "", err
		}
		return c.deps.Formatter.FormatRisingStars(stars, days), nil
	})
	if err != nil {
		c.deps.Logger.Error("Rising command failed", zap.Error(err))
		if errors.IsValidationError(err) {
			return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, err.Error())
		}
		return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, "Could not build the rising stars report.")
	}

	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, report)
}
