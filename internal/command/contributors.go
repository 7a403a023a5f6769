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

type ContributorsCommand struct {
	deps *Dependencies
}

func NewContributorsCommand(deps *Dependencies) *ContributorsCommand {
	return &ContributorsCommand{deps: deps}
}

func (c *ContributorsCommand) Name() string {
	return "contributors"
}

func (c *ContributorsCommand) Description() string {
	return "Top contributors ranked by composite score"
}

func (c *ContributorsCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	days := daysParam(params, constants.DefaultContributorDays)
	key := cache.ReportKey("contributors", cmdCtx.CommunityID, days)

	report, err := c.deps.cachedReport(ctx, key, func() (string, error) {
		contributors, err := c.deps.Contributors.TopContributors(ctx, cmdCtx.CommunityID, days)
		if err != nil {
			return "", err
		}
		return c.deps.Formatter.FormatContributors(contributors, days), nil
	})
	if err != nil {
		c.deps.Logger.Error("Contributors command failed", zap.Error(err))
		if errors.IsValidationError(err) {
			return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, err.Error())
		}
		return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, "Could not build the contributor ranking.")
	}

	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, report)
}
