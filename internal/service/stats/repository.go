package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/service/database"
	"github.com/pulselabs/community-pulse-go/internal/util"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

// Repository is the PostgreSQL-backed stats store. It records
// anonymized event metadata (never message content) and serves the
// windowed aggregate queries the analyzers consume. Database failures
// come back as ServiceError so callers can degrade instead of failing.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     postgres.DB(),
		logger: logger,
	}
}

func dbErr(message, operation string, cause error) error {
	return errors.NewServiceError(message, "postgres", operation, cause)
}

// EnsureSchema creates the metadata tables and indexes if missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			community_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS member_events (
			id BIGSERIAL PRIMARY KEY,
			community_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			event_type TEXT NOT NULL CHECK (event_type IN ('join', 'leave')),
			created_at TIMESTAMPTZ NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS daily_metrics (
			id BIGSERIAL PRIMARY KEY,
			community_id TEXT NOT NULL,
			date DATE NOT NULL,
			total_messages INT NOT NULL DEFAULT 0,
			active_users INT NOT NULL DEFAULT 0,
			new_members INT NOT NULL DEFAULT 0,
			left_members INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (community_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_community_created
			ON messages (community_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_channel_created
			ON messages (community_id, channel_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_member_events_community_created
			ON member_events (community_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return dbErr("failed to ensure stats schema", "ensure_schema", err)
		}
	}

	r.logger.Info("Stats schema ready")
	return nil
}

// RecordMessage stores message metadata. No content is ever persisted.
func (r *Repository) RecordMessage(ctx context.Context, communityID, channelID, userID string, createdAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (community_id, channel_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		communityID, channelID, userID, createdAt.UTC(),
	)
	if err != nil {
		return dbErr("failed to record message", "record_message", err)
	}
	return nil
}

func (r *Repository) RecordJoin(ctx context.Context, communityID, userID string, createdAt time.Time) error {
	return r.recordMemberEvent(ctx, communityID, userID, "join", createdAt)
}

func (r *Repository) RecordLeave(ctx context.Context, communityID, userID string, createdAt time.Time) error {
	return r.recordMemberEvent(ctx, communityID, userID, "leave", createdAt)
}

func (r *Repository) recordMemberEvent(ctx context.Context, communityID, userID, eventType string, createdAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO member_events (community_id, user_id, event_type, created_at) VALUES ($1, $2, $3, $4)`,
		communityID, userID, eventType, createdAt.UTC(),
	)
	if err != nil {
		return dbErr(fmt.Sprintf("failed to record %s event", eventType), "record_member_event", err)
	}
	return nil
}

// MessageCount returns the total message count in the trailing window.
func (r *Repository) MessageCount(ctx context.Context, communityID string, days int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE community_id = $1 AND created_at >= $2`,
		communityID, windowStart(days),
	).Scan(&count)
	if err != nil {
		return 0, dbErr("failed to query message count", "message_count", err)
	}
	return count, nil
}

// ActiveUsers returns the distinct active-user count in the window.
func (r *Repository) ActiveUsers(ctx context.Context, communityID string, days int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM messages WHERE community_id = $1 AND created_at >= $2`,
		communityID, windowStart(days),
	).Scan(&count)
	if err != nil {
		return 0, dbErr("failed to query active users", "active_users", err)
	}
	return count, nil
}

// ActivityTrend compares the trailing window against the
// identical-length window immediately before it and returns the signed
// percent change. A previous window with no messages yields 0.
func (r *Repository) ActivityTrend(ctx context.Context, communityID string, days int) (float64, error) {
	currentStart := util.WindowStart(days)
	previousStart := util.PreviousWindowStart(days)

	var current, previous int
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE created_at >= $2) AS current_count,
			COUNT(*) FILTER (WHERE created_at >= $3 AND created_at < $2) AS previous_count
		FROM messages
		WHERE community_id = $1 AND created_at >= $3`,
		communityID, currentStart, previousStart,
	).Scan(&current, &previous)
	if err != nil {
		return 0, dbErr("failed to query activity trend", "activity_trend", err)
	}

	if previous == 0 {
		return 0, nil
	}
	return float64(current-previous) / float64(previous) * 100, nil
}

// WindowStats aggregates the window's message total, distinct active
// users, and an hourly UTC histogram ordered by volume descending.
func (r *Repository) WindowStats(ctx context.Context, communityID string, days int) (*domain.WindowStats, error) {
	var totalMessages, activeUsers int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT user_id)
		FROM messages
		WHERE community_id = $1 AND created_at >= $2`,
		communityID, windowStart(days),
	).Scan(&totalMessages, &activeUsers)
	if err != nil {
		return nil, dbErr("failed to query window totals", "window_stats", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE 'UTC')::int AS hour, COUNT(*) AS message_count
		FROM messages
		WHERE community_id = $1 AND created_at >= $2
		GROUP BY hour
		ORDER BY message_count DESC, hour ASC`,
		communityID, windowStart(days),
	)
	if err != nil {
		return nil, dbErr("failed to query hourly histogram", "window_stats", err)
	}
	defer rows.Close()

	histogram := []domain.HourCount{}
	for rows.Next() {
		var hc domain.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, dbErr("failed to scan histogram bucket", "window_stats", err)
		}
		histogram = append(histogram, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to read hourly histogram", "window_stats", err)
	}

	stats, err := domain.NewWindowStats(totalMessages, activeUsers, histogram)
	if err != nil {
		return nil, fmt.Errorf("invalid window stats: %w", err)
	}
	return stats, nil
}

// PeakHours returns UTC hours ordered by message volume descending.
func (r *Repository) PeakHours(ctx context.Context, communityID string, days int) ([]int, error) {
	stats, err := r.WindowStats(ctx, communityID, days)
	if err != nil {
		return nil, err
	}
	return peakHoursFrom(stats), nil
}

// peakHoursFrom flattens the histogram into its hour ordering. The
// histogram is already sorted most active first.
func peakHoursFrom(stats *domain.WindowStats) []int {
	hours := make([]int, 0, len(stats.HourlyHistogram))
	for _, hc := range stats.HourlyHistogram {
		hours = append(hours, hc.Hour)
	}
	return hours
}

// QuietChannels returns channel IDs ordered least active first,
// including channels with no activity inside the window.
func (r *Repository) QuietChannels(ctx context.Context, communityID string, days int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT known.channel_id, COALESCE(windowed.message_count, 0) AS message_count
		FROM (
			SELECT DISTINCT channel_id FROM messages WHERE community_id = $1
		) known
		LEFT JOIN (
			SELECT channel_id, COUNT(*) AS message_count
			FROM messages
			WHERE community_id = $1 AND created_at >= $2
			GROUP BY channel_id
		) windowed ON windowed.channel_id = known.channel_id
		ORDER BY message_count ASC, known.channel_id ASC`,
		communityID, windowStart(days),
	)
	if err != nil {
		return nil, dbErr("failed to query quiet channels", "quiet_channels", err)
	}
	defer rows.Close()

	channels := []string{}
	for rows.Next() {
		var channelID string
		var count int
		if err := rows.Scan(&channelID, &count); err != nil {
			return nil, dbErr("failed to scan quiet channel", "quiet_channels", err)
		}
		channels = append(channels, channelID)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to read quiet channels", "quiet_channels", err)
	}
	return channels, nil
}

// JoinLeaveStats summarizes membership churn for the window. Retention
// is the share of joiners still present: (joins-leaves)/joins, clamped
// to [0,100]. With no joins there was nobody to lose, so 100.
func (r *Repository) JoinLeaveStats(ctx context.Context, communityID string, days int) (*domain.JoinLeaveStat, error) {
	var joins, leaves int
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE event_type = 'join') AS joins,
			COUNT(*) FILTER (WHERE event_type = 'leave') AS leaves
		FROM member_events
		WHERE community_id = $1 AND created_at >= $2`,
		communityID, windowStart(days),
	).Scan(&joins, &leaves)
	if err != nil {
		return nil, dbErr("failed to query join/leave stats", "join_leave_stats", err)
	}

	retention := 100.0
	if joins > 0 {
		retention = float64(joins-leaves) / float64(joins) * 100
		if retention < 0 {
			retention = 0
		}
		if retention > 100 {
			retention = 100
		}
	}

	return &domain.JoinLeaveStat{
		Joins:         joins,
		Leaves:        leaves,
		RetentionRate: retention,
	}, nil
}

// ChannelActivity returns windowed per-channel message counts for every
// channel the community has ever used.
func (r *Repository) ChannelActivity(ctx context.Context, communityID string, days int) ([]*domain.ChannelActivity, error) {
	stats, err := r.ChannelStats(ctx, communityID, days)
	if err != nil {
		return nil, err
	}

	activity := make([]*domain.ChannelActivity, 0, len(stats))
	for _, ch := range stats {
		activity = append(activity, &domain.ChannelActivity{
			ChannelID:    ch.ChannelID,
			MessageCount: ch.MessageCount,
		})
	}
	return activity, nil
}

// ChannelStats returns windowed per-channel message and distinct-user
// counts. Channels with history but no activity inside the window are
// included with zero counts so the classifier can see dead channels.
func (r *Repository) ChannelStats(ctx context.Context, communityID string, days int) ([]*domain.ChannelStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT known.channel_id,
			COALESCE(windowed.message_count, 0) AS message_count,
			COALESCE(windowed.unique_users, 0) AS unique_users
		FROM (
			SELECT DISTINCT channel_id FROM messages WHERE community_id = $1
		) known
		LEFT JOIN (
			SELECT channel_id, COUNT(*) AS message_count, COUNT(DISTINCT user_id) AS unique_users
			FROM messages
			WHERE community_id = $1 AND created_at >= $2
			GROUP BY channel_id
		) windowed ON windowed.channel_id = known.channel_id
		ORDER BY message_count DESC, known.channel_id ASC`,
		communityID, windowStart(days),
	)
	if err != nil {
		return nil, dbErr("failed to query channel stats", "channel_stats", err)
	}
	defer rows.Close()

	stats := []*domain.ChannelStat{}
	for rows.Next() {
		var channelID string
		var messageCount, uniqueUsers int
		if err := rows.Scan(&channelID, &messageCount, &uniqueUsers); err != nil {
			return nil, dbErr("failed to scan channel stat", "channel_stats", err)
		}

		stat, err := domain.NewChannelStat(channelID, messageCount, uniqueUsers)
		if err != nil {
			return nil, fmt.Errorf("invalid channel stat row: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to read channel stats", "channel_stats", err)
	}
	return stats, nil
}

// UserStats returns windowed per-user activity ordered by message count
// descending.
func (r *Repository) UserStats(ctx context.Context, communityID string, days int) ([]*domain.UserStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id,
			COUNT(*) AS message_count,
			COUNT(DISTINCT channel_id) AS channels_used,
			MIN(created_at) AS first_activity,
			MAX(created_at) AS last_activity
		FROM messages
		WHERE community_id = $1 AND created_at >= $2
		GROUP BY user_id
		ORDER BY message_count DESC, user_id ASC`,
		communityID, windowStart(days),
	)
	if err != nil {
		return nil, dbErr("failed to query user stats", "user_stats", err)
	}
	defer rows.Close()

	stats := []*domain.UserStat{}
	for rows.Next() {
		var userID string
		var messageCount, channelsUsed int
		var first, last time.Time
		if err := rows.Scan(&userID, &messageCount, &channelsUsed, &first, &last); err != nil {
			return nil, dbErr("failed to scan user stat", "user_stats", err)
		}

		stat, err := domain.NewUserStat(userID, messageCount, channelsUsed, &first, &last)
		if err != nil {
			return nil, fmt.Errorf("invalid user stat row: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to read user stats", "user_stats", err)
	}
	return stats, nil
}

// Communities returns the IDs of communities that had activity on the
// given UTC date. Used by the daily aggregation job.
func (r *Repository) Communities(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT community_id FROM messages WHERE created_at >= $1 AND created_at < $2`,
		startOfDay(date), startOfDay(date).AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, dbErr("failed to query communities", "communities", err)
	}
	defer rows.Close()

	communities := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbErr("failed to scan community id", "communities", err)
		}
		communities = append(communities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to read communities", "communities", err)
	}
	return communities, nil
}

// RollUpDay aggregates one community's activity for one UTC date into
// the daily_metrics table. Re-running the same day overwrites it.
func (r *Repository) RollUpDay(ctx context.Context, communityID string, date time.Time) error {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_metrics (community_id, date, total_messages, active_users, new_members, left_members)
		SELECT $1, $2::date,
			(SELECT COUNT(*) FROM messages
				WHERE community_id = $1 AND created_at >= $3 AND created_at < $4),
			(SELECT COUNT(DISTINCT user_id) FROM messages
				WHERE community_id = $1 AND created_at >= $3 AND created_at < $4),
			(SELECT COUNT(*) FROM member_events
				WHERE community_id = $1 AND event_type = 'join' AND created_at >= $3 AND created_at < $4),
			(SELECT COUNT(*) FROM member_events
				WHERE community_id = $1 AND event_type = 'leave' AND created_at >= $3 AND created_at < $4)
		ON CONFLICT (community_id, date) DO UPDATE SET
			total_messages = EXCLUDED.total_messages,
			active_users = EXCLUDED.active_users,
			new_members = EXCLUDED.new_members,
			left_members = EXCLUDED.left_members`,
		communityID, dayStart, dayStart, dayEnd,
	)
	if err != nil {
		return dbErr("failed to roll up daily metrics", "roll_up_day", err)
	}
	return nil
}

func windowStart(days int) time.Time {
	return util.WindowStart(days)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
