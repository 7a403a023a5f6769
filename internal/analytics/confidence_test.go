package analytics

import (
	"strings"
	"testing"
)

func TestConfidenceRejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -1, -30} {
		if _, err := Confidence(100, days); err == nil {
			t.Fatalf("expected error for days=%d", days)
		}
	}
}

func TestConfidenceZeroMessages(t *testing.T) {
	for _, days := range []int{1, 7, 30, 365} {
		c, err := Confidence(0, days)
		if err != nil {
			t.Fatalf("unexpected error for days=%d: %v", days, err)
		}
		if c != 0 {
			t.Fatalf("expected confidence 0 for zero messages over %d days, got %v", days, c)
		}
	}
}

func TestConfidenceSaturatesAtTargetVolume(t *testing.T) {
	for _, days := range []int{1, 7, 30} {
		c, err := Confidence(10*days, days)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != 1.0 {
			t.Fatalf("expected confidence 1.0 at target volume for %d days, got %v", days, c)
		}

		c, err = Confidence(10*days*100, days)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != 1.0 {
			t.Fatalf("expected confidence to cap at 1.0, got %v", c)
		}
	}
}

func TestConfidenceMonotonicInMessageCount(t *testing.T) {
	prev := -1.0
	for count := 0; count <= 400; count += 10 {
		c, err := Confidence(count, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c < prev {
			t.Fatalf("confidence decreased: %v -> %v at count=%d", prev, c, count)
		}
		if c < 0 || c > 1 {
			t.Fatalf("confidence out of range: %v", c)
		}
		prev = c
	}
}

func TestLowConfidenceThreshold(t *testing.T) {
	// 7-day window, target 70 messages. 34 messages -> 0.486.
	c, err := Confidence(34, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !LowConfidence(c) {
		t.Fatalf("expected low confidence at %v", c)
	}

	c, err = Confidence(35, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if LowConfidence(c) {
		t.Fatalf("expected acceptable confidence at %v", c)
	}
}

func TestConfidenceCaveatTiers(t *testing.T) {
	c, _ := Confidence(20, 7)
	caveat := ConfidenceCaveat(20, c)
	if !strings.Contains(caveat, "Very limited data") {
		t.Fatalf("expected very-limited wording for tiny sample, got %q", caveat)
	}

	// 60 messages over 30 days: low confidence but above the 50-message tier.
	c, _ = Confidence(60, 30)
	caveat = ConfidenceCaveat(60, c)
	if !strings.Contains(caveat, "Limited data") || strings.Contains(caveat, "Very limited") {
		t.Fatalf("expected limited-data wording, got %q", caveat)
	}

	c, _ = Confidence(700, 7)
	if got := ConfidenceCaveat(700, c); got != "" {
		t.Fatalf("expected no caveat at full confidence, got %q", got)
	}
}
