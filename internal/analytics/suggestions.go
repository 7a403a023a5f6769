package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	declineTrendThreshold  = -15.0
	growthTrendThreshold   = 25.0
	deadChannelMsgCeiling  = 5
	deadChannelCountLimit  = 3
	retentionWarnThreshold = 60.0
	onboardingMinJoins     = 10
)

// SuggestionEngine pattern-matches freshly fetched metrics against a
// fixed rule table. Rules are evaluated independently; any subset may
// fire, in the fixed order below.
type SuggestionEngine struct {
	provider StatsProvider
	logger   *zap.Logger
}

func NewSuggestionEngine(provider StatsProvider, logger *zap.Logger) *SuggestionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionEngine{provider: provider, logger: logger}
}

// Generate returns at least one suggestion. If no rule matches, a
// single "looks healthy" entry is emitted. Provider failure degrades to
// a single explanatory entry.
func (se *SuggestionEngine) Generate(ctx context.Context, communityID string) ([]domain.Suggestion, error) {
	if communityID == "" {
		return nil, errors.NewValidationError("community id must not be empty", "community_id", communityID)
	}

	var (
		trend           float64
		channelActivity []*domain.ChannelActivity
		joinLeave       *domain.JoinLeaveStat
		peakHours       []int
	)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		trend, err = se.provider.ActivityTrend(ctx, communityID, 7)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		channelActivity, err = se.provider.ChannelActivity(ctx, communityID, 30)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		joinLeave, err = se.provider.JoinLeaveStats(ctx, communityID, 30)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		peakHours, err = se.provider.PeakHours(ctx, communityID, 30)
		return err
	})

	if err := p.Wait(); err != nil {
		se.logger.Error("Suggestion stats queries failed",
			zap.String("community_id", communityID),
			zap.Error(err),
		)
		return []domain.Suggestion{{
			Title:       "Suggestions Unavailable",
			Description: "Activity data could not be retrieved. Try again in a few minutes.",
		}}, nil
	}
	if joinLeave == nil {
		joinLeave = &domain.JoinLeaveStat{}
	}

	suggestions := []domain.Suggestion{}

	if trend < declineTrendThreshold {
		suggestions = append(suggestions, domain.Suggestion{
			Title: "📉 Activity Decline Detected",
			Description: fmt.Sprintf("Your community activity has dropped %.0f%% over the last week. "+
				"Consider reviewing recent changes like channel restructuring or rule updates.", math.Abs(trend)),
		})
	}

	deadChannels := 0
	for _, ch := range channelActivity {
		if ch != nil && ch.MessageCount < deadChannelMsgCeiling {
			deadChannels++
		}
	}
	if deadChannels > deadChannelCountLimit {
		suggestions = append(suggestions, domain.Suggestion{
			Title: "🗑️ Consolidate Channels",
			Description: fmt.Sprintf("You have %d nearly inactive channels. "+
				"Consider merging or archiving them to reduce fragmentation.", deadChannels),
		})
	}

	if joinLeave.RetentionRate < retentionWarnThreshold && joinLeave.Joins > onboardingMinJoins {
		suggestions = append(suggestions, domain.Suggestion{
			Title: "👋 Improve Onboarding",
			Description: fmt.Sprintf("Only %.0f%% of new members are staying. "+
				"Create a welcome channel and ensure new members feel engaged.", joinLeave.RetentionRate),
		})
	}

	if len(peakHours) > 0 {
		suggestions = append(suggestions, domain.Suggestion{
			Title: "⏰ Optimize Event Timing",
			Description: fmt.Sprintf("Your community is most active around %02d:00 UTC. "+
				"Schedule important events during these peak hours for maximum engagement.", peakHours[0]),
		})
	}

	if trend > growthTrendThreshold {
		suggestions = append(suggestions, domain.Suggestion{
			Title: "🚀 Capitalize on Growth",
			Description: fmt.Sprintf("Your community is growing fast (%+.0f%%)! "+
				"Now is a great time to establish community guidelines and add moderators.", trend),
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, domain.Suggestion{
			Title:       "✅ Community Looks Healthy",
			Description: "No major issues detected. Keep engaging with your community regularly!",
		})
	}

	return suggestions, nil
}
