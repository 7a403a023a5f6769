package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/pulselabs/community-pulse-go/internal/domain"
)

func mustChannelStat(t *testing.T, id string, messages, users int) *domain.ChannelStat {
	t.Helper()
	ch, err := domain.NewChannelStat(id, messages, users)
	if err != nil {
		t.Fatalf("invalid channel stat fixture: %v", err)
	}
	return ch
}

func TestClassifyBucketsChannels(t *testing.T) {
	ca := NewChannelAnalyzer(&fakeProvider{
		channelStats: []*domain.ChannelStat{
			mustChannelStat(t, "general", 100, 25),
			mustChannelStat(t, "afk", 0, 0),
			mustChannelStat(t, "archive", 0, 0),
			mustChannelStat(t, "help", 5, 3),
		},
	}, nil)

	report, err := ca.Classify(context.Background(), "c", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// avg = 105/4 = 26.25; 5 < 26.25*0.3 = 7.875.
	if len(report.Active) != 1 || report.Active[0].ChannelID != "general" {
		t.Fatalf("expected only general active, got %+v", report.Active)
	}
	if len(report.Dead) != 2 {
		t.Fatalf("expected two dead channels, got %+v", report.Dead)
	}
	if len(report.Declining) != 1 || report.Declining[0].ChannelID != "help" {
		t.Fatalf("expected help declining, got %+v", report.Declining)
	}

	wantDecline := (26.25 - 5) / 26.25 * 100
	if math.Abs(report.Declining[0].DeclinePct-wantDecline) > 1e-9 {
		t.Fatalf("decline pct = %v, want %v", report.Declining[0].DeclinePct, wantDecline)
	}
	if report.Dead[0].DaysInactive != 7 {
		t.Fatalf("expected dead channels tagged with the window length, got %d", report.Dead[0].DaysInactive)
	}
}

func TestClassifyBucketsAreDisjoint(t *testing.T) {
	stats := []*domain.ChannelStat{}
	for i, msgs := range []int{0, 3, 11, 47, 250, 0, 8, 90, 1, 30} {
		users := msgs / 3
		stats = append(stats, mustChannelStat(t, fmt.Sprintf("ch-%d", i), msgs, users))
	}

	ca := NewChannelAnalyzer(&fakeProvider{channelStats: stats}, nil)
	report, err := ca.Classify(context.Background(), "c", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]string{}
	record := func(bucket, id string) {
		if prev, ok := seen[id]; ok {
			t.Fatalf("channel %s in both %s and %s", id, prev, bucket)
		}
		seen[id] = bucket
	}
	for _, ch := range report.Active {
		record("active", ch.ChannelID)
	}
	for _, ch := range report.Dead {
		record("dead", ch.ChannelID)
		if ch.ChannelID == "" {
			t.Fatalf("dead entry missing channel id")
		}
	}
	for _, ch := range report.Declining {
		record("declining", ch.ChannelID)
	}

	// Zero-message channels always land in dead.
	if seen["ch-0"] != "dead" || seen["ch-5"] != "dead" {
		t.Fatalf("zero-activity channels must be dead, got %v", seen)
	}
}

func TestClassifySortsAndCapsBuckets(t *testing.T) {
	stats := []*domain.ChannelStat{}
	// 12 busy channels, 12 empty ones, 12 barely active ones around a
	// high average so every bucket overflows its cap.
	for i := 0; i < 12; i++ {
		stats = append(stats, mustChannelStat(t, fmt.Sprintf("busy-%d", i), 500+i, 40))
		stats = append(stats, mustChannelStat(t, fmt.Sprintf("empty-%d", i), 0, 0))
		stats = append(stats, mustChannelStat(t, fmt.Sprintf("slow-%d", i), 1+i%3, 1))
	}

	ca := NewChannelAnalyzer(&fakeProvider{channelStats: stats}, nil)
	report, err := ca.Classify(context.Background(), "c", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Active) != 10 || len(report.Dead) != 10 || len(report.Declining) != 10 {
		t.Fatalf("expected each bucket capped at 10, got %d/%d/%d",
			len(report.Active), len(report.Dead), len(report.Declining))
	}
	for i := 1; i < len(report.Active); i++ {
		if report.Active[i].Messages > report.Active[i-1].Messages {
			t.Fatalf("active bucket not sorted by messages desc: %+v", report.Active)
		}
	}
	for i := 1; i < len(report.Declining); i++ {
		if report.Declining[i].DeclinePct > report.Declining[i-1].DeclinePct {
			t.Fatalf("declining bucket not sorted by decline pct desc: %+v", report.Declining)
		}
	}
}

func TestClassifyNoChannels(t *testing.T) {
	ca := NewChannelAnalyzer(&fakeProvider{}, nil)
	report, err := ca.Classify(context.Background(), "fresh", 7)
	if err != nil {
		t.Fatalf("zero channels must not be an error, got %v", err)
	}
	if len(report.Active) != 0 || len(report.Dead) != 0 || len(report.Declining) != 0 {
		t.Fatalf("expected three empty lists, got %+v", report)
	}
	if report.Degraded {
		t.Fatalf("no channels is not a degraded state")
	}
}

func TestClassifyRejectsInvalidDays(t *testing.T) {
	ca := NewChannelAnalyzer(&fakeProvider{}, nil)
	if _, err := ca.Classify(context.Background(), "c", 0); err == nil {
		t.Fatalf("expected validation error for days=0")
	}
}

func TestClassifyDegradesOnProviderFailure(t *testing.T) {
	ca := NewChannelAnalyzer(&fakeProvider{err: errors.New("broken pipe")}, nil)
	report, err := ca.Classify(context.Background(), "c", 7)
	if err != nil {
		t.Fatalf("provider failure must not propagate, got %v", err)
	}
	if !report.Degraded {
		t.Fatalf("expected degraded flag")
	}
	if len(report.Active)+len(report.Dead)+len(report.Declining) != 0 {
		t.Fatalf("expected empty fallback report, got %+v", report)
	}
}
