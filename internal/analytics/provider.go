package analytics

import (
	"context"

	"github.com/pulselabs/community-pulse-go/internal/domain"
)

// StatsProvider is the aggregate query surface the analyzers run over.
// Every call is scoped to one community and a trailing window of `days`
// days ending at query time. Implementations own all I/O; the analyzers
// never touch raw event records.
//
// Empty results for a community with no history are a valid zero-metric
// state, not an error. Errors indicate the query itself failed.
type StatsProvider interface {
	// MessageCount returns the total number of messages in the window.
	MessageCount(ctx context.Context, communityID string, days int) (int, error)

	// ActiveUsers returns the number of distinct users who sent at least
	// one message in the window.
	ActiveUsers(ctx context.Context, communityID string, days int) (int, error)

	// ActivityTrend returns the signed percent change in message volume
	// between the window and the identical-length window preceding it.
	// Zero when the previous window had no messages.
	ActivityTrend(ctx context.Context, communityID string, days int) (float64, error)

	// PeakHours returns UTC hours ordered most active first.
	PeakHours(ctx context.Context, communityID string, days int) ([]int, error)

	// QuietChannels returns channel IDs ordered least active first.
	QuietChannels(ctx context.Context, communityID string, days int) ([]string, error)

	// JoinLeaveStats returns membership churn for the window.
	JoinLeaveStats(ctx context.Context, communityID string, days int) (*domain.JoinLeaveStat, error)

	// ChannelActivity returns per-channel message counts.
	ChannelActivity(ctx context.Context, communityID string, days int) ([]*domain.ChannelActivity, error)

	// ChannelStats returns per-channel message and distinct-user counts,
	// including channels with zero activity in the window.
	ChannelStats(ctx context.Context, communityID string, days int) ([]*domain.ChannelStat, error)

	// UserStats returns per-user counts with first/last activity
	// timestamps, ordered by message count descending.
	UserStats(ctx context.Context, communityID string, days int) ([]*domain.UserStat, error)
}
