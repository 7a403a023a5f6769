package domain

import (
	"fmt"
	"time"
)

// HourCount is one bucket of an hourly activity histogram.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WindowStats aggregates message activity over a trailing N-day window.
// HourlyHistogram is ordered by count descending.
type WindowStats struct {
	TotalMessages   int         `json:"total_messages"`
	ActiveUsers     int         `json:"active_users"`
	HourlyHistogram []HourCount `json:"hourly_histogram"`
}

// NewWindowStats validates and constructs a WindowStats record.
func NewWindowStats(totalMessages, activeUsers int, histogram []HourCount) (*WindowStats, error) {
	if totalMessages < 0 {
		return nil, fmt.Errorf("total_messages must be >= 0, got %d", totalMessages)
	}
	if activeUsers < 0 {
		return nil, fmt.Errorf("active_users must be >= 0, got %d", activeUsers)
	}

	sum := 0
	for _, hc := range histogram {
		if hc.Hour < 0 || hc.Hour > 23 {
			return nil, fmt.Errorf("histogram hour out of range: %d", hc.Hour)
		}
		if hc.Count < 0 {
			return nil, fmt.Errorf("histogram count must be >= 0, got %d", hc.Count)
		}
		sum += hc.Count
	}
	if sum > totalMessages {
		return nil, fmt.Errorf("histogram counts (%d) exceed total_messages (%d)", sum, totalMessages)
	}

	return &WindowStats{
		TotalMessages:   totalMessages,
		ActiveUsers:     activeUsers,
		HourlyHistogram: histogram,
	}, nil
}

// ChannelStat is per-channel activity within a window.
type ChannelStat struct {
	ChannelID    string `json:"channel_id"`
	MessageCount int    `json:"message_count"`
	UniqueUsers  int    `json:"unique_users"`
}

// NewChannelStat validates and constructs a ChannelStat record.
func NewChannelStat(channelID string, messageCount, uniqueUsers int) (*ChannelStat, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel_id must not be empty")
	}
	if messageCount < 0 {
		return nil, fmt.Errorf("message_count must be >= 0, got %d", messageCount)
	}
	if uniqueUsers < 0 {
		return nil, fmt.Errorf("unique_users must be >= 0, got %d", uniqueUsers)
	}
	if messageCount > 0 && uniqueUsers > messageCount {
		return nil, fmt.Errorf("unique_users (%d) exceeds message_count (%d)", uniqueUsers, messageCount)
	}

	return &ChannelStat{
		ChannelID:    channelID,
		MessageCount: messageCount,
		UniqueUsers:  uniqueUsers,
	}, nil
}

// ChannelActivity is the reduced per-channel shape used by the entropy
// calculation and the suggestion rules.
type ChannelActivity struct {
	ChannelID    string `json:"channel_id"`
	MessageCount int    `json:"message_count"`
}

// UserStat is per-user activity within a window. FirstActivity and
// LastActivity are both set when MessageCount > 0 and both nil otherwise.
type UserStat struct {
	UserID        string     `json:"user_id"`
	MessageCount  int        `json:"message_count"`
	ChannelsUsed  int        `json:"channels_used"`
	FirstActivity *time.Time `json:"first_activity,omitempty"`
	LastActivity  *time.Time `json:"last_activity,omitempty"`
}

// NewUserStat validates and constructs a UserStat record.
func NewUserStat(userID string, messageCount, channelsUsed int, first, last *time.Time) (*UserStat, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id must not be empty")
	}
	if messageCount < 0 {
		return nil, fmt.Errorf("message_count must be >= 0, got %d", messageCount)
	}
	if channelsUsed < 0 {
		return nil, fmt.Errorf("channels_used must be >= 0, got %d", channelsUsed)
	}
	if messageCount > 0 && (first == nil || last == nil) {
		return nil, fmt.Errorf("activity timestamps required when message_count > 0")
	}
	if first != nil && last != nil && first.After(*last) {
		return nil, fmt.Errorf("first_activity %v is after last_activity %v", first, last)
	}

	return &UserStat{
		UserID:        userID,
		MessageCount:  messageCount,
		ChannelsUsed:  channelsUsed,
		FirstActivity: first,
		LastActivity:  last,
	}, nil
}

// JoinLeaveStat summarizes membership churn within a window.
// RetentionRate is a percentage in [0, 100].
type JoinLeaveStat struct {
	Joins         int     `json:"joins"`
	Leaves        int     `json:"leaves"`
	RetentionRate float64 `json:"retention_rate"`
}
