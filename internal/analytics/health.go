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

// Component weights for the overall health score. Must sum to 1.0.
var healthWeights = map[string]float64{
	domain.MetricActivity:      0.35,
	domain.MetricGrowth:        0.25,
	domain.MetricEngagement:    0.25,
	domain.MetricChannelHealth: 0.15,
}

// healthMetricOrder fixes iteration order for deterministic output.
var healthMetricOrder = []string{
	domain.MetricActivity,
	domain.MetricGrowth,
	domain.MetricEngagement,
	domain.MetricChannelHealth,
}

// HealthAnalyzer computes the pulse snapshot and the composite health
// score. It holds no state beyond its dependencies; every call fetches
// fresh windowed aggregates from the provider.
type HealthAnalyzer struct {
	provider StatsProvider
	logger   *zap.Logger
}

func NewHealthAnalyzer(provider StatsProvider, logger *zap.Logger) *HealthAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthAnalyzer{provider: provider, logger: logger}
}

// Pulse returns the quick activity snapshot for a community. Provider
// failures degrade to a zero-valued summary with Degraded set rather
// than an error; only invalid arguments fail outright.
func (ha *HealthAnalyzer) Pulse(ctx context.Context, communityID string, days int) (*domain.PulseSummary, error) {
	if days <= 0 {
		return nil, errors.NewValidationError("days must be positive", "days", days)
	}

	var (
		totalMessages int
		activeMembers int
		trend         float64
		peakHours     []int
		quietChannels []string
	)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		totalMessages, err = ha.provider.MessageCount(ctx, communityID, days)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		activeMembers, err = ha.provider.ActiveUsers(ctx, communityID, days)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		trend, err = ha.provider.ActivityTrend(ctx, communityID, days)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		peakHours, err = ha.provider.PeakHours(ctx, communityID, days)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		quietChannels, err = ha.provider.QuietChannels(ctx, communityID, days)
		return err
	})

	if err := p.Wait(); err != nil {
		ha.logger.Error("Pulse stats queries failed",
			zap.String("community_id", communityID),
			zap.Int("days", days),
			zap.Error(err),
		)
		return &domain.PulseSummary{
			DaysAnalyzed:      days,
			LowConfidence:     true,
			ConfidenceWarning: "Error retrieving activity data.",
			Degraded:          true,
		}, nil
	}

	confidence, err := Confidence(totalMessages, days)
	if err != nil {
		return nil, err
	}

	if len(peakHours) > 3 {
		peakHours = peakHours[:3]
	}
	if len(quietChannels) > 3 {
		quietChannels = quietChannels[:3]
	}

	return &domain.PulseSummary{
		TotalMessages: totalMessages,
		ActiveMembers: activeMembers,
		// Roster size is not tracked; active members stand in for now.
		TotalMembers:      activeMembers,
		Trend:             trend,
		PeakHours:         peakHours,
		QuietChannels:     quietChannels,
		DaysAnalyzed:      days,
		Confidence:        confidence,
		LowConfidence:     LowConfidence(confidence),
		ConfidenceWarning: ConfidenceCaveat(totalMessages, confidence),
	}, nil
}

// HealthScore computes the 0-100 composite health score with component
// breakdown, summary and prioritized recommendations.
func (ha *HealthAnalyzer) HealthScore(ctx context.Context, communityID string) (*domain.ScoreBreakdown, error) {
	var (
		messages30      int
		activeUsers30   int
		activeUsers7    int
		trend           float64
		joinLeave       *domain.JoinLeaveStat
		channelActivity []*domain.ChannelActivity
	)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		messages30, err = ha.provider.MessageCount(ctx, communityID, 30)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		activeUsers30, err = ha.provider.ActiveUsers(ctx, communityID, 30)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		activeUsers7, err = ha.provider.ActiveUsers(ctx, communityID, 7)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		trend, err = ha.provider.ActivityTrend(ctx, communityID, 7)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		joinLeave, err = ha.provider.JoinLeaveStats(ctx, communityID, 30)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		channelActivity, err = ha.provider.ChannelActivity(ctx, communityID, 30)
		return err
	})

	if err := p.Wait(); err != nil {
		ha.logger.Error("Health score stats queries failed",
			zap.String("community_id", communityID),
			zap.Error(err),
		)
		return &domain.ScoreBreakdown{
			Components:      map[string]int{},
			Summary:         "Unable to calculate health score right now.",
			Recommendations: []string{"Activity data is temporarily unavailable. Try again in a few minutes."},
			LowConfidence:   true,
			Degraded:        true,
		}, nil
	}
	if joinLeave == nil {
		joinLeave = &domain.JoinLeaveStat{}
	}

	confidence, err := Confidence(messages30, 30)
	if err != nil {
		return nil, err
	}
	lowConfidence := LowConfidence(confidence)

	raw := map[string]float64{
		domain.MetricActivity:      activityScore(messages30, activeUsers30),
		domain.MetricGrowth:        growthScore(trend, joinLeave.RetentionRate),
		domain.MetricEngagement:    engagementScore(activeUsers7, activeUsers30),
		domain.MetricChannelHealth: channelHealthScore(channelActivity),
	}

	components := make(map[string]int, len(raw))
	weighted := 0.0
	for _, name := range healthMetricOrder {
		rounded := int(math.Round(raw[name]))
		components[name] = rounded
		weighted += float64(rounded) * healthWeights[name]
	}
	overall := int(math.Round(weighted))

	lowestMetric := healthMetricOrder[0]
	for _, name := range healthMetricOrder[1:] {
		if components[name] < components[lowestMetric] {
			lowestMetric = name
		}
	}

	summary, priority := healthSummary(overall)
	recommendations := healthRecommendations(overall, priority, components, trend, joinLeave.RetentionRate, len(channelActivity))

	if overall < 60 {
		summary += "\n\nWhat this score means: scores below 60 usually indicate declining engagement. Early intervention prevents larger problems later."
	}
	if lowConfidence {
		summary += fmt.Sprintf("\n\nData quality: limited data detected. Health score accuracy improves after 24-72 hours of activity. Current confidence: %.0f%%", confidence*100)
	}

	return &domain.ScoreBreakdown{
		Overall:         overall,
		Components:      components,
		Summary:         summary,
		Recommendations: recommendations,
		LowestMetric:    lowestMetric,
		Confidence:      confidence,
		LowConfidence:   lowConfidence,
	}, nil
}

// activityScore rates messages per active user per day over 30 days.
// Five messages per user per day saturates the score.
func activityScore(messages30, activeUsers30 int) float64 {
	if activeUsers30 <= 0 {
		return 0
	}
	msgsPerUserPerDay := float64(messages30) / (float64(activeUsers30) * 30)
	return clampScore(msgsPerUserPerDay * 20)
}

// growthScore starts from a neutral 50 and shifts with trend and
// retention, each capped at 25 points of influence.
func growthScore(trend, retentionRate float64) float64 {
	score := 50.0
	score += math.Min(25, math.Max(-25, trend*0.5))
	score += math.Min(25, math.Max(0, retentionRate*0.25))
	return clampScore(score)
}

// engagementScore is the share of 30-day actives still active in the
// last 7 days.
func engagementScore(activeUsers7, activeUsers30 int) float64 {
	if activeUsers30 <= 0 {
		return 0
	}
	return clampScore(float64(activeUsers7) / float64(activeUsers30) * 100)
}

// channelHealthScore is the normalized Shannon entropy of the message
// distribution across channels. Evenly spread activity scores high.
func channelHealthScore(channels []*domain.ChannelActivity) float64 {
	totalMsgs := 0
	for _, ch := range channels {
		if ch != nil && ch.MessageCount > 0 {
			totalMsgs += ch.MessageCount
		}
	}
	if len(channels) == 0 || totalMsgs == 0 {
		return 0
	}

	entropy := 0.0
	for _, ch := range channels {
		if ch == nil || ch.MessageCount <= 0 {
			continue
		}
		p := float64(ch.MessageCount) / float64(totalMsgs)
		entropy -= p * math.Log2(p)
	}

	maxEntropy := 1.0
	if len(channels) > 1 {
		maxEntropy = math.Log2(float64(len(channels)))
	}
	return clampScore(entropy / maxEntropy * 100)
}

func healthSummary(overall int) (summary, priority string) {
	switch {
	case overall >= 80:
		return "🟢 Excellent! Your community is thriving with strong engagement and healthy growth.",
			"Maintain momentum by continuing current strategies."
	case overall >= 60:
		return "🟡 Good health. Your community is stable, but some areas could use improvement.",
			"Focus on boosting your lowest-scoring metric first."
	case overall >= 40:
		return "🟠 Moderate health. Declining engagement detected - act now to prevent further drops.",
			"Priority: address activity and engagement immediately."
	default:
		return "🔴 Critical. Your community needs immediate attention to prevent member loss.",
			"Priority: implement all recommendations this week."
	}
}

func healthRecommendations(overall int, priority string, components map[string]int, trend, retentionRate float64, channelCount int) []string {
	recommendations := []string{}

	if overall < 80 {
		recommendations = append(recommendations, "📌 "+priority)
	}

	if components[domain.MetricActivity] < 50 {
		recommendations = append(recommendations, "🔥 Critical: low activity detected. Host weekly events or start daily discussion topics.")
	}

	if components[domain.MetricGrowth] < 50 {
		if trend < -10 {
			recommendations = append(recommendations, "📉 Urgent: activity declining fast. Review what changed in the last week (channels removed, rules changed, etc.).")
		}
		if retentionRate < 50 {
			recommendations = append(recommendations, "👋 High priority: members leaving quickly. Create a clear onboarding channel and welcome new members within 24h.")
		}
	}

	if components[domain.MetricEngagement] < 50 {
		recommendations = append(recommendations, "💤 Most members are lurking. Try: polls, questions, contests, or recognition programs.")
	}

	if components[domain.MetricChannelHealth] < 50 {
		if channelCount > 10 {
			recommendations = append(recommendations, "📺 Too many channels fragment conversation. Archive channels with <10 messages/week.")
		} else {
			recommendations = append(recommendations, "📺 Activity too concentrated. Create topic-specific channels for different interests.")
		}
	}

	return recommendations
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
