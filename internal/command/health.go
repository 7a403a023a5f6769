package command

import (
	"context"
	"fmt"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/service/cache"
	"go.uber.org/zap"
)

type HealthCommand struct {
	deps *Dependencies
}

func NewHealthCommand(deps *Dependencies) *HealthCommand {
	return &HealthCommand{deps: deps}
}

func (c *HealthCommand) Name() string {
	return "health"
}

func (c *HealthCommand) Description() string {
	return "Community health score with component breakdown"
}

func (c *HealthCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	key := cache.ReportKey("health", cmdCtx.CommunityID, 30)

	report, err := c.deps.cachedReport(ctx, key, func() (string, error) {
		score, err := c.deps.Health.HealthScore(ctx, cmdCtx.CommunityID)
		if err != nil {
			return "", err
		}
		return c.deps.Formatter.FormatHealth(score), nil
	})
	if err != nil {
		c.deps.Logger.Error("Health command failed", zap.Error(err))
		return c.deps.SendError(cmdCtx.CommunityID, cmdCtx.ChannelID, "Could not calculate the health score.")
	}

	return c.deps.SendMessage(cmdCtx.CommunityID, cmdCtx.ChannelID, report)
}
