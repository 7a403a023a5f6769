package domain

// ScoreBreakdown is the result of a full health-score computation.
// Overall is the weighted sum of the component scores rounded to the
// nearest integer. Degraded is set when the underlying stats queries
// failed and the zero-valued fallback was returned instead.
type ScoreBreakdown struct {
	Overall         int            `json:"overall"`
	Components      map[string]int `json:"components"`
	Summary         string         `json:"summary"`
	Recommendations []string       `json:"recommendations"`
	LowestMetric    string         `json:"lowest_metric"`
	Confidence      float64        `json:"confidence"`
	LowConfidence   bool           `json:"low_confidence"`
	Degraded        bool           `json:"degraded"`
}

// Health score component names. Keys of ScoreBreakdown.Components.
const (
	MetricActivity      = "Activity"
	MetricGrowth        = "Growth"
	MetricEngagement    = "Engagement"
	MetricChannelHealth = "Channel Health"
)

// PulseSummary is the lightweight activity snapshot behind the pulse
// command. TotalMembers is proxied by ActiveMembers until a roster
// source exists.
type PulseSummary struct {
	TotalMessages     int      `json:"total_messages"`
	ActiveMembers     int      `json:"active_members"`
	TotalMembers      int      `json:"total_members"`
	Trend             float64  `json:"trend"`
	PeakHours         []int    `json:"peak_hours"`
	QuietChannels     []string `json:"quiet_channels"`
	DaysAnalyzed      int      `json:"days_analyzed"`
	Confidence        float64  `json:"confidence"`
	LowConfidence     bool     `json:"low_confidence"`
	ConfidenceWarning string   `json:"confidence_warning,omitempty"`
	Degraded          bool     `json:"degraded"`
}
