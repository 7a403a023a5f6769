package domain

// ActiveChannel is a channel bucketed as active, with the activity that
// earned it the bucket.
type ActiveChannel struct {
	ChannelID   string  `json:"channel_id"`
	Messages    int     `json:"messages"`
	UniqueUsers int     `json:"unique_users"`
	Engagement  float64 `json:"engagement"`
}

// DeadChannel is a channel with no activity in the analyzed window.
type DeadChannel struct {
	ChannelID    string `json:"channel_id"`
	DaysInactive int    `json:"days_inactive"`
}

// DecliningChannel is a channel whose activity fell well below the
// community average. DeclinePct is relative to that average.
type DecliningChannel struct {
	ChannelID   string  `json:"channel_id"`
	Messages    int     `json:"messages"`
	UniqueUsers int     `json:"unique_users"`
	DeclinePct  float64 `json:"decline_pct"`
}

// ChannelReport partitions channels into three disjoint buckets. A
// channel appears in at most one bucket; moderately active channels
// are omitted entirely.
type ChannelReport struct {
	Active    []ActiveChannel    `json:"active"`
	Dead      []DeadChannel      `json:"dead"`
	Declining []DecliningChannel `json:"declining"`
	Degraded  bool               `json:"degraded"`
}
