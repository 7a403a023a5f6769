package command

import (
	"context"
	"time"

	"github.com/pulselabs/community-pulse-go/internal/adapter"
	"github.com/pulselabs/community-pulse-go/internal/analytics"
	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/service/cache"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// ReportCache is the subset of the cache service the commands use.
// Misses and failures both come back as ok=false.
type ReportCache interface {
	GetReport(ctx context.Context, key string) (string, bool)
	SetReport(ctx context.Context, key, report string, ttl time.Duration)
}

type Dependencies struct {
	Health       *analytics.HealthAnalyzer
	Channels     *analytics.ChannelAnalyzer
	Contributors *analytics.ContributorAnalyzer
	Suggestions  *analytics.SuggestionEngine
	Cache        ReportCache
	CacheTTL     time.Duration
	Formatter    *adapter.ResponseFormatter
	SendMessage  func(communityID, channelID, message string) error
	SendError    func(communityID, channelID, message string) error
	Logger       *zap.Logger
}

// cachedReport runs compute only on a cache miss, then stores the
// rendered report under key. A nil cache always recomputes.
func (d *Dependencies) cachedReport(ctx context.Context, key string, compute func() (string, error)) (string, error) {
	if d.Cache != nil {
		if report, ok := d.Cache.GetReport(ctx, key); ok {
			return report, nil
		}
	}

	report, err := compute()
	if err != nil {
		return "", err
	}

	if d.Cache != nil && report != "" {
		d.Cache.SetReport(ctx, key, report, d.CacheTTL)
	}
	return report, nil
}

func daysParam(params map[string]any, defaultDays int) int {
	if v, ok := params["days"]; ok {
		switch d := v.(type) {
		case int:
			if d > 0 {
				return d
			}
		case float64:
			if d > 0 {
				return int(d)
			}
		}
	}
	return defaultDays
}

var _ ReportCache = (*cache.CacheService)(nil)
