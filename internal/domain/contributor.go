package domain

import "time"

// ContributorScore is one ranked entry in the top-contributors report.
// Score is the 0-100 composite; the sub-scores that produced it are
// carried for display.
type ContributorScore struct {
	UserID        string     `json:"user_id"`
	Score         float64    `json:"score"`
	Messages      int        `json:"messages"`
	ChannelsUsed  int        `json:"channels_used"`
	Engagement    float64    `json:"engagement"`
	Consistency   float64    `json:"consistency"`
	FirstActivity *time.Time `json:"first_activity,omitempty"`
	LastActivity  *time.Time `json:"last_activity,omitempty"`
}

// Rising star potential tiers.
const (
	PotentialHigh   = "high"
	PotentialMedium = "medium"
)

// RisingStar is a recently active user on an upward trajectory.
type RisingStar struct {
	UserID         string  `json:"user_id"`
	Messages       int     `json:"messages"`
	MessagesPerDay float64 `json:"messages_per_day"`
	ChannelsUsed   int     `json:"channels_used"`
	Potential      string  `json:"potential"`
}
