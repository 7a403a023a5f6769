package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

const (
	// activeMessageFloor keeps low-traffic channels out of the active
	// bucket even when they beat a tiny community average.
	activeMessageFloor = 10

	// decliningFactor marks channels well below the community average.
	decliningFactor = 0.3

	maxChannelsPerBucket = 10
)

// ChannelAnalyzer partitions a community's channels into active, dead
// and declining buckets relative to the community-wide average.
type ChannelAnalyzer struct {
	provider StatsProvider
	logger   *zap.Logger
}

func NewChannelAnalyzer(provider StatsProvider, logger *zap.Logger) *ChannelAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelAnalyzer{provider: provider, logger: logger}
}

// Classify buckets every channel with stats in the window. Channels in
// the moderate band (below the active threshold but above the decline
// threshold) are intentionally omitted from all three lists. A
// community with no channels yields three empty lists.
func (ca *ChannelAnalyzer) Classify(ctx context.Context, communityID string, days int) (*domain.ChannelReport, error) {
	if days <= 0 {
		return nil, errors.NewValidationError("days must be positive", "days", days)
	}

	stats, err := ca.provider.ChannelStats(ctx, communityID, days)
	if err != nil {
		ca.logger.Error("Channel stats query failed",
			zap.String("community_id", communityID),
			zap.Int("days", days),
			zap.Error(err),
		)
		return &domain.ChannelReport{
			Active:    []domain.ActiveChannel{},
			Dead:      []domain.DeadChannel{},
			Declining: []domain.DecliningChannel{},
			Degraded:  true,
		}, nil
	}

	report := &domain.ChannelReport{
		Active:    []domain.ActiveChannel{},
		Dead:      []domain.DeadChannel{},
		Declining: []domain.DecliningChannel{},
	}
	if len(stats) == 0 {
		return report, nil
	}

	totalMessages := 0
	for _, ch := range stats {
		totalMessages += ch.MessageCount
	}
	avg := float64(totalMessages) / float64(len(stats))

	for _, ch := range stats {
		switch {
		case float64(ch.MessageCount) >= avg && ch.MessageCount > activeMessageFloor:
			engagement := 0.0
			if ch.MessageCount > 0 {
				engagement = math.Round(float64(ch.UniqueUsers)/float64(ch.MessageCount)*1000) / 10
			}
			report.Active = append(report.Active, domain.ActiveChannel{
				ChannelID:   ch.ChannelID,
				Messages:    ch.MessageCount,
				UniqueUsers: ch.UniqueUsers,
				Engagement:  engagement,
			})
		case ch.MessageCount == 0:
			report.Dead = append(report.Dead, domain.DeadChannel{
				ChannelID:    ch.ChannelID,
				DaysInactive: days,
			})
		case float64(ch.MessageCount) < avg*decliningFactor:
			report.Declining = append(report.Declining, domain.DecliningChannel{
				ChannelID:   ch.ChannelID,
				Messages:    ch.MessageCount,
				UniqueUsers: ch.UniqueUsers,
				DeclinePct:  (avg - float64(ch.MessageCount)) / avg * 100,
			})
		}
	}

	sort.SliceStable(report.Active, func(i, j int) bool {
		return report.Active[i].Messages > report.Active[j].Messages
	})
	sort.SliceStable(report.Declining, func(i, j int) bool {
		return report.Declining[i].DeclinePct > report.Declining[j].DeclinePct
	})

	if len(report.Active) > maxChannelsPerBucket {
		report.Active = report.Active[:maxChannelsPerBucket]
	}
	if len(report.Dead) > maxChannelsPerBucket {
		report.Dead = report.Dead[:maxChannelsPerBucket]
	}
	if len(report.Declining) > maxChannelsPerBucket {
		report.Declining = report.Declining[:maxChannelsPerBucket]
	}

	return report, nil
}
