package analytics

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pulselabs/community-pulse-go/internal/domain"
)

func TestHealthScoreWeightedSum(t *testing.T) {
	provider := &fakeProvider{
		messageCounts: map[int]int{30: 4500},
		activeUsers:   map[int]int{30: 30, 7: 20},
		trend:         10,
		joinLeave:     &domain.JoinLeaveStat{Joins: 20, Leaves: 4, RetentionRate: 80},
		channelActivity: []*domain.ChannelActivity{
			{ChannelID: "general", MessageCount: 100},
			{ChannelID: "random", MessageCount: 100},
			{ChannelID: "help", MessageCount: 100},
		},
	}

	ha := NewHealthAnalyzer(provider, nil)
	breakdown, err := ha.HealthScore(context.Background(), "community-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int{
		domain.MetricActivity:      100, // 5 msgs/user/day saturates
		domain.MetricGrowth:        75,  // 50 + 5 (trend) + 20 (retention)
		domain.MetricEngagement:    67,  // 20/30
		domain.MetricChannelHealth: 100, // perfectly even distribution
	}
	for name, score := range want {
		if breakdown.Components[name] != score {
			t.Fatalf("component %s = %d, want %d", name, breakdown.Components[name], score)
		}
	}

	weighted := 0.0
	for name, score := range breakdown.Components {
		if score < 0 || score > 100 {
			t.Fatalf("component %s out of range: %d", name, score)
		}
		weighted += float64(score) * healthWeights[name]
	}
	if breakdown.Overall != int(math.Round(weighted)) {
		t.Fatalf("overall %d does not match weighted component sum %v", breakdown.Overall, weighted)
	}
	if breakdown.Degraded {
		t.Fatalf("expected non-degraded result")
	}
	if len(breakdown.Recommendations) != 0 {
		t.Fatalf("expected no recommendations for a thriving community, got %v", breakdown.Recommendations)
	}
}

func TestHealthScoreZeroHistoryCommunity(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{
		messageCounts: map[int]int{},
		activeUsers:   map[int]int{},
	}, nil)

	breakdown, err := ha.HealthScore(context.Background(), "empty")
	if err != nil {
		t.Fatalf("zero history must be a valid state, got error: %v", err)
	}

	// Growth keeps its neutral 50 baseline; everything else is zero.
	if breakdown.Components[domain.MetricGrowth] != 50 {
		t.Fatalf("expected neutral growth baseline, got %d", breakdown.Components[domain.MetricGrowth])
	}
	for _, name := range []string{domain.MetricActivity, domain.MetricEngagement, domain.MetricChannelHealth} {
		if breakdown.Components[name] != 0 {
			t.Fatalf("expected zero %s, got %d", name, breakdown.Components[name])
		}
	}
	if breakdown.Overall != 13 {
		t.Fatalf("expected overall 13 (rounded 12.5), got %d", breakdown.Overall)
	}
	if !strings.HasPrefix(breakdown.Summary, "🔴") {
		t.Fatalf("expected critical tier summary, got %q", breakdown.Summary)
	}
	if !breakdown.LowConfidence {
		t.Fatalf("expected low confidence with zero messages")
	}
	if !strings.Contains(breakdown.Summary, "Current confidence: 0%") {
		t.Fatalf("expected interpolated confidence percentage, got %q", breakdown.Summary)
	}
	if breakdown.LowestMetric != domain.MetricActivity {
		t.Fatalf("expected Activity as lowest metric, got %s", breakdown.LowestMetric)
	}
	if breakdown.Degraded {
		t.Fatalf("empty data is not a degraded state")
	}
}

func TestHealthScoreConcentratedChannelsScoreZero(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{
		messageCounts: map[int]int{30: 900},
		activeUsers:   map[int]int{30: 10, 7: 10},
		channelActivity: []*domain.ChannelActivity{
			{ChannelID: "general", MessageCount: 900},
			{ChannelID: "random", MessageCount: 0},
			{ChannelID: "help", MessageCount: 0},
		},
	}, nil)

	breakdown, err := ha.HealthScore(context.Background(), "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.Components[domain.MetricChannelHealth] != 0 {
		t.Fatalf("single-channel concentration should score 0 entropy, got %d",
			breakdown.Components[domain.MetricChannelHealth])
	}
}

func TestHealthScoreGrowthRecommendationsBranch(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{
		messageCounts: map[int]int{30: 300},
		activeUsers:   map[int]int{30: 10, 7: 2},
		trend:         -40,
		joinLeave:     &domain.JoinLeaveStat{Joins: 30, Leaves: 25, RetentionRate: 17},
		channelActivity: []*domain.ChannelActivity{
			{ChannelID: "general", MessageCount: 300},
		},
	}, nil)

	breakdown, err := ha.HealthScore(context.Background(), "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Growth = 50 - 25 + 4.25 = 29: both sub-branches should fire.
	var urgent, onboarding bool
	for _, rec := range breakdown.Recommendations {
		if strings.Contains(rec, "declining fast") {
			urgent = true
		}
		if strings.Contains(rec, "leaving quickly") {
			onboarding = true
		}
	}
	if !urgent || !onboarding {
		t.Fatalf("expected both growth recommendations, got %v", breakdown.Recommendations)
	}

	if breakdown.Recommendations[0] != "📌 Priority: implement all recommendations this week." {
		t.Fatalf("expected priority line first, got %q", breakdown.Recommendations[0])
	}
}

func TestHealthScoreDegradesOnProviderFailure(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{err: errors.New("connection refused")}, nil)

	breakdown, err := ha.HealthScore(context.Background(), "c")
	if err != nil {
		t.Fatalf("provider failure must not propagate, got %v", err)
	}
	if !breakdown.Degraded {
		t.Fatalf("expected degraded flag")
	}
	if breakdown.Overall != 0 || len(breakdown.Components) != 0 {
		t.Fatalf("expected zero-valued fallback, got %+v", breakdown)
	}
	if len(breakdown.Recommendations) == 0 {
		t.Fatalf("expected explanatory recommendation in fallback")
	}
}

func TestHealthScoreIdempotent(t *testing.T) {
	provider := &fakeProvider{
		messageCounts: map[int]int{30: 1234},
		activeUsers:   map[int]int{30: 17, 7: 9},
		trend:         -3,
		joinLeave:     &domain.JoinLeaveStat{Joins: 5, Leaves: 1, RetentionRate: 80},
		channelActivity: []*domain.ChannelActivity{
			{ChannelID: "a", MessageCount: 700},
			{ChannelID: "b", MessageCount: 534},
		},
	}
	ha := NewHealthAnalyzer(provider, nil)

	first, err := ha.HealthScore(context.Background(), "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ha.HealthScore(context.Background(), "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must yield identical results:\n%+v\n%+v", first, second)
	}
}

func TestPulseRejectsInvalidDays(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{}, nil)
	if _, err := ha.Pulse(context.Background(), "c", 0); err == nil {
		t.Fatalf("expected validation error for days=0")
	}
	if _, err := ha.Pulse(context.Background(), "c", -7); err == nil {
		t.Fatalf("expected validation error for days=-7")
	}
}

func TestPulseZeroHistoryCommunity(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{
		messageCounts: map[int]int{},
		activeUsers:   map[int]int{},
	}, nil)

	pulse, err := ha.Pulse(context.Background(), "empty", 7)
	if err != nil {
		t.Fatalf("zero history must be a valid state, got error: %v", err)
	}
	if pulse.TotalMessages != 0 || pulse.ActiveMembers != 0 || pulse.Trend != 0 {
		t.Fatalf("expected zero-valued pulse, got %+v", pulse)
	}
	if !pulse.LowConfidence {
		t.Fatalf("expected low confidence flag")
	}
	if !strings.Contains(pulse.ConfidenceWarning, "Very limited data") {
		t.Fatalf("expected very-limited caveat, got %q", pulse.ConfidenceWarning)
	}
	if pulse.Degraded {
		t.Fatalf("empty data is not a degraded state")
	}
}

// The activity trend is a real previous-window comparison supplied by
// the stats provider, not the always-zero stub the feature shipped
// with. The pulse passes the provider's signed percentage through
// untouched.
func TestPulseReportsProviderTrend(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{
		messageCounts: map[int]int{7: 700},
		activeUsers:   map[int]int{7: 25},
		trend:         -20.5,
		peakHours:     []int{14, 20, 9, 3, 1},
		quietChannels: []string{"afk", "archive", "old", "extra"},
	}, nil)

	pulse, err := ha.Pulse(context.Background(), "c", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pulse.Trend != -20.5 {
		t.Fatalf("expected trend -20.5, got %v", pulse.Trend)
	}
	if len(pulse.PeakHours) != 3 || pulse.PeakHours[0] != 14 {
		t.Fatalf("expected top-3 peak hours starting at 14, got %v", pulse.PeakHours)
	}
	if len(pulse.QuietChannels) != 3 || pulse.QuietChannels[0] != "afk" {
		t.Fatalf("expected 3 quietest channels starting with afk, got %v", pulse.QuietChannels)
	}
	if pulse.Confidence != 1.0 || pulse.LowConfidence {
		t.Fatalf("expected full confidence at 100 msgs/day, got %v", pulse.Confidence)
	}
}

func TestPulseDegradesOnProviderFailure(t *testing.T) {
	ha := NewHealthAnalyzer(&fakeProvider{err: errors.New("query timeout")}, nil)

	pulse, err := ha.Pulse(context.Background(), "c", 7)
	if err != nil {
		t.Fatalf("provider failure must not propagate, got %v", err)
	}
	if !pulse.Degraded || !pulse.LowConfidence {
		t.Fatalf("expected degraded low-confidence fallback, got %+v", pulse)
	}
	if pulse.TotalMessages != 0 || pulse.ActiveMembers != 0 {
		t.Fatalf("expected zero-valued fallback, got %+v", pulse)
	}
}
