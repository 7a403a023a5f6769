package analytics

import (
	"github.com/pulselabs/community-pulse-go/pkg/errors"
)

const (
	// targetMessagesPerDay is the sample volume at which metrics are
	// considered fully trustworthy.
	targetMessagesPerDay = 10

	lowConfidenceThreshold   = 0.5
	veryLimitedDataThreshold = 50
)

// Confidence converts a message sample size over a window into a
// 0.0-1.0 reliability score. Confidence saturates at 1.0 once the
// window averages targetMessagesPerDay messages per day.
func Confidence(messageCount, days int) (float64, error) {
	if days <= 0 {
		return 0, errors.NewValidationError("days must be positive", "days", days)
	}
	if messageCount < 0 {
		messageCount = 0
	}

	confidence := float64(messageCount) / float64(days*targetMessagesPerDay)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence, nil
}

// LowConfidence reports whether a confidence score is too low to
// present without a caveat.
func LowConfidence(confidence float64) bool {
	return confidence < lowConfidenceThreshold
}

// ConfidenceCaveat returns the human-readable caveat for a
// low-confidence result, or "" when the confidence is acceptable.
func ConfidenceCaveat(messageCount int, confidence float64) string {
	if !LowConfidence(confidence) {
		return ""
	}
	if messageCount < veryLimitedDataThreshold {
		return "Very limited data. Results will be more accurate after 24-72 hours of activity."
	}
	return "Limited data. Insights improve with more activity history."
}
