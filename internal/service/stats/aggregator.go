package stats

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RollupStore is the slice of the repository the aggregator drives.
type RollupStore interface {
	Communities(ctx context.Context, date time.Time) ([]string, error)
	RollUpDay(ctx context.Context, communityID string, date time.Time) error
}

// ReportInvalidator drops a community's cached reports once fresh
// metrics have landed.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context, communityID string) error
}

var _ RollupStore = (*Repository)(nil)

// Aggregator periodically rolls up the previous UTC day's raw events
// into the daily_metrics table. The roll-up is idempotent, so running
// it again for the same day just refreshes the row.
type Aggregator struct {
	store       RollupStore
	invalidator ReportInvalidator
	logger      *zap.Logger
	interval    time.Duration
	ticker      *time.Ticker
	stopCh      chan struct{}
}

// NewAggregator wires the roll-up loop. invalidator may be nil when no
// report cache is in play.
func NewAggregator(store RollupStore, invalidator ReportInvalidator, interval time.Duration, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		store:       store,
		invalidator: invalidator,
		logger:      logger,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

func (a *Aggregator) Start(ctx context.Context) {
	a.ticker = time.NewTicker(a.interval)

	a.logger.Info("Daily metrics aggregator started",
		zap.Duration("interval", a.interval))

	go func() {
		a.runOnce(ctx)

		for {
			select {
			case <-a.ticker.C:
				a.runOnce(ctx)
			case <-a.stopCh:
				a.logger.Info("Daily metrics aggregator stopped")
				return
			case <-ctx.Done():
				a.logger.Info("Daily metrics aggregator context cancelled")
				return
			}
		}
	}()
}

func (a *Aggregator) Stop() {
	if a.ticker != nil {
		a.ticker.Stop()
	}
	close(a.stopCh)
}

func (a *Aggregator) runOnce(ctx context.Context) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	communities, err := a.store.Communities(ctx, yesterday)
	if err != nil {
		a.logger.Error("Failed to list communities for roll-up", zap.Error(err))
		return
	}

	rolled := 0
	for _, communityID := range communities {
		if err := a.store.RollUpDay(ctx, communityID, yesterday); err != nil {
			a.logger.Error("Failed to roll up daily metrics",
				zap.String("community", communityID),
				zap.Error(err))
			continue
		}
		rolled++

		if a.invalidator != nil {
			if err := a.invalidator.InvalidateReports(ctx, communityID); err != nil {
				a.logger.Warn("Failed to invalidate cached reports",
					zap.String("community", communityID),
					zap.Error(err))
			}
		}
	}

	if rolled > 0 {
		a.logger.Info("Daily metrics rolled up",
			zap.String("date", yesterday.Format("2006-01-02")),
			zap.Int("communities", rolled))
	}
}
