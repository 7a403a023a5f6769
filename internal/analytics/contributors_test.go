package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulselabs/community-pulse-go/internal/domain"
)

func userWithSpan(t *testing.T, id string, messages, channels, spanDays int) *domain.UserStat {
	t.Helper()
	last := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	first := last.AddDate(0, 0, -spanDays)
	user, err := domain.NewUserStat(id, messages, channels, &first, &last)
	if err != nil {
		t.Fatalf("invalid user stat fixture: %v", err)
	}
	return user
}

func TestTopContributorsCompositeScore(t *testing.T) {
	ca := NewContributorAnalyzer(&fakeProvider{
		userStats: []*domain.UserStat{
			userWithSpan(t, "user-1", 50, 5, 10),
		},
	}, nil)

	contributors, err := ca.TopContributors(context.Background(), "c", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contributors) != 1 {
		t.Fatalf("expected one contributor, got %d", len(contributors))
	}

	// 40 (cohort max messages) + 30 (cohort max channels)
	// + 16 (10-day span hits the >=7d tier: 80% of 20)
	// + 10 (10 msgs/channel hits the top tier).
	if contributors[0].Score != 96.0 {
		t.Fatalf("expected score 96.0, got %v", contributors[0].Score)
	}
	if contributors[0].Consistency != 80 || contributors[0].Engagement != 100 {
		t.Fatalf("unexpected sub-ratings: consistency=%v engagement=%v",
			contributors[0].Consistency, contributors[0].Engagement)
	}
}

func TestTopContributorsSortedAndCapped(t *testing.T) {
	users := []*domain.UserStat{}
	for i := 0; i < 25; i++ {
		users = append(users, userWithSpan(t, string(rune('a'+i)), 10+i*7, 1+i%5, i%20))
	}

	ca := NewContributorAnalyzer(&fakeProvider{userStats: users}, nil)
	contributors, err := ca.TopContributors(context.Background(), "c", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contributors) != 20 {
		t.Fatalf("expected cap of 20, got %d", len(contributors))
	}
	for i := 1; i < len(contributors); i++ {
		if contributors[i].Score > contributors[i-1].Score {
			t.Fatalf("not sorted non-increasing at %d: %v > %v",
				i, contributors[i].Score, contributors[i-1].Score)
		}
	}
	for _, c := range contributors {
		if c.Score < 0 || c.Score > 100 {
			t.Fatalf("score out of range for %s: %v", c.UserID, c.Score)
		}
	}
}

func TestTopContributorsStableTieBreak(t *testing.T) {
	// Identical stats produce identical scores; query order must hold.
	ca := NewContributorAnalyzer(&fakeProvider{
		userStats: []*domain.UserStat{
			userWithSpan(t, "first", 30, 3, 8),
			userWithSpan(t, "second", 30, 3, 8),
			userWithSpan(t, "third", 30, 3, 8),
		},
	}, nil)

	contributors, err := ca.TopContributors(context.Background(), "c", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := []string{"first", "second", "third"}
	for i, want := range order {
		if contributors[i].UserID != want {
			t.Fatalf("tie-break order broken: got %s at %d, want %s", contributors[i].UserID, i, want)
		}
	}
}

func TestTopContributorsSubScoreCaps(t *testing.T) {
	// A user dominating every dimension cannot exceed 40/30/20/10.
	ca := NewContributorAnalyzer(&fakeProvider{
		userStats: []*domain.UserStat{
			userWithSpan(t, "whale", 100000, 200, 300),
			userWithSpan(t, "minnow", 1, 1, 0),
		},
	}, nil)

	contributors, err := ca.TopContributors(context.Background(), "c", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contributors[0].UserID != "whale" || contributors[0].Score != 100.0 {
		t.Fatalf("expected whale at exactly 100.0, got %+v", contributors[0])
	}
}

func TestContributorMissingTimestampsGetNeutralConsistency(t *testing.T) {
	quiet, err := domain.NewUserStat("quiet", 0, 0, nil, nil)
	if err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}

	ca := NewContributorAnalyzer(&fakeProvider{
		userStats: []*domain.UserStat{
			userWithSpan(t, "busy", 40, 4, 20),
			quiet,
		},
	}, nil)

	contributors, err := ca.TopContributors(context.Background(), "c", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range contributors {
		if c.UserID == "quiet" {
			if c.Consistency != 50 {
				t.Fatalf("expected neutral consistency 50, got %v", c.Consistency)
			}
			// 0 messages, 0 channels: only the neutral consistency band counts.
			if c.Score != 10.0 {
				t.Fatalf("expected score 10.0, got %v", c.Score)
			}
			return
		}
	}
	t.Fatalf("quiet user missing from results")
}

func TestTopContributorsEmptyCohort(t *testing.T) {
	ca := NewContributorAnalyzer(&fakeProvider{}, nil)
	contributors, err := ca.TopContributors(context.Background(), "fresh", 30)
	if err != nil {
		t.Fatalf("empty cohort must not be an error, got %v", err)
	}
	if len(contributors) != 0 {
		t.Fatalf("expected empty result, got %+v", contributors)
	}
}

func TestTopContributorsDegradesOnProviderFailure(t *testing.T) {
	ca := NewContributorAnalyzer(&fakeProvider{err: errors.New("db down")}, nil)
	contributors, err := ca.TopContributors(context.Background(), "c", 30)
	if err != nil {
		t.Fatalf("provider failure must not propagate, got %v", err)
	}
	if len(contributors) != 0 {
		t.Fatalf("expected empty fallback, got %+v", contributors)
	}
}

func TestRisingStarsQualificationAndPotential(t *testing.T) {
	ca := NewContributorAnalyzer(&fakeProvider{
		userStats: []*domain.UserStat{
			userWithSpan(t, "steady", 40, 3, 12),   // 2.9/day -> medium
			userWithSpan(t, "meteor", 80, 4, 10),   // 5.7/day -> high
			userWithSpan(t, "focused", 100, 1, 12), // single channel, excluded
			userWithSpan(t, "casual", 10, 3, 12),   // 0.7/day, excluded
		},
	}, nil)

	stars, err := ca.RisingStars(context.Background(), "c", 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stars) != 2 {
		t.Fatalf("expected two rising stars, got %+v", stars)
	}
	if stars[0].UserID != "meteor" || stars[0].Potential != domain.PotentialHigh {
		t.Fatalf("expected meteor first with high potential, got %+v", stars[0])
	}
	if stars[1].UserID != "steady" || stars[1].Potential != domain.PotentialMedium {
		t.Fatalf("expected steady second with medium potential, got %+v", stars[1])
	}
	if stars[0].MessagesPerDay != 5.7 {
		t.Fatalf("expected messages/day rounded to one decimal, got %v", stars[0].MessagesPerDay)
	}
}

func TestRisingStarsCap(t *testing.T) {
	users := []*domain.UserStat{}
	for i := 0; i < 15; i++ {
		users = append(users, userWithSpan(t, string(rune('a'+i)), 40+i, 3, 10))
	}

	ca := NewContributorAnalyzer(&fakeProvider{userStats: users}, nil)
	stars, err := ca.RisingStars(context.Background(), "c", 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stars) != 10 {
		t.Fatalf("expected cap of 10 rising stars, got %d", len(stars))
	}
}
