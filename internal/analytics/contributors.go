package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

// Sub-score caps of the contributor composite. They sum to 100.
const (
	messageScoreCap    = 40.0
	channelScoreCap    = 30.0
	consistencyCap     = 20.0
	engagementScoreCap = 10.0

	maxContributors = 20
	maxRisingStars  = 10

	risingStarMinPerDay      = 2.0
	risingStarMinChannels    = 2
	risingStarHighPotential  = 5.0
	defaultConsistencyRating = 50.0
)

// ContributorAnalyzer scores and ranks users against the cohort of
// users active in the same window.
type ContributorAnalyzer struct {
	provider StatsProvider
	logger   *zap.Logger
}

func NewContributorAnalyzer(provider StatsProvider, logger *zap.Logger) *ContributorAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContributorAnalyzer{provider: provider, logger: logger}
}

// TopContributors ranks the window's active users by composite score,
// highest first, capped at 20. Ties keep query order (stable sort).
// Provider failure degrades to an empty list.
func (ca *ContributorAnalyzer) TopContributors(ctx context.Context, communityID string, days int) ([]domain.ContributorScore, error) {
	if days <= 0 {
		return nil, errors.NewValidationError("days must be positive", "days", days)
	}

	userStats, err := ca.provider.UserStats(ctx, communityID, days)
	if err != nil {
		ca.logger.Error("User stats query failed",
			zap.String("community_id", communityID),
			zap.Int("days", days),
			zap.Error(err),
		)
		return []domain.ContributorScore{}, nil
	}
	if len(userStats) == 0 {
		return []domain.ContributorScore{}, nil
	}

	maxMessages, maxChannels := cohortMaxes(userStats)

	contributors := make([]domain.ContributorScore, 0, len(userStats))
	for _, user := range userStats {
		contributors = append(contributors, domain.ContributorScore{
			UserID:        user.UserID,
			Score:         contributorScore(user, maxMessages, maxChannels),
			Messages:      user.MessageCount,
			ChannelsUsed:  user.ChannelsUsed,
			Engagement:    engagementRating(user),
			Consistency:   consistencyRating(user),
			FirstActivity: user.FirstActivity,
			LastActivity:  user.LastActivity,
		})
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Score > contributors[j].Score
	})

	if len(contributors) > maxContributors {
		contributors = contributors[:maxContributors]
	}
	return contributors, nil
}

// RisingStars filters a shorter window's cohort for users with high
// sustained daily activity across multiple channels.
func (ca *ContributorAnalyzer) RisingStars(ctx context.Context, communityID string, days int) ([]domain.RisingStar, error) {
	contributors, err := ca.TopContributors(ctx, communityID, days)
	if err != nil {
		return nil, err
	}

	stars := make([]domain.RisingStar, 0, len(contributors))
	for _, c := range contributors {
		perDay := float64(c.Messages) / float64(days)
		if perDay < risingStarMinPerDay || c.ChannelsUsed < risingStarMinChannels {
			continue
		}

		potential := domain.PotentialMedium
		if perDay >= risingStarHighPotential {
			potential = domain.PotentialHigh
		}
		stars = append(stars, domain.RisingStar{
			UserID:         c.UserID,
			Messages:       c.Messages,
			MessagesPerDay: math.Round(perDay*10) / 10,
			ChannelsUsed:   c.ChannelsUsed,
			Potential:      potential,
		})
	}

	sort.SliceStable(stars, func(i, j int) bool {
		return stars[i].MessagesPerDay > stars[j].MessagesPerDay
	})

	if len(stars) > maxRisingStars {
		stars = stars[:maxRisingStars]
	}
	return stars, nil
}

func cohortMaxes(users []*domain.UserStat) (maxMessages, maxChannels int) {
	for _, u := range users {
		if u.MessageCount > maxMessages {
			maxMessages = u.MessageCount
		}
		if u.ChannelsUsed > maxChannels {
			maxChannels = u.ChannelsUsed
		}
	}
	return maxMessages, maxChannels
}

// contributorScore combines the four sub-scores and rounds to one
// decimal. Message and channel scores are relative to the cohort
// maximum; consistency and engagement are absolute tiers scaled into
// their point bands.
func contributorScore(user *domain.UserStat, maxMessages, maxChannels int) float64 {
	messageScore := 0.0
	if maxMessages > 0 {
		messageScore = math.Min(messageScoreCap, float64(user.MessageCount)/float64(maxMessages)*messageScoreCap)
	}

	channelScore := 0.0
	if maxChannels > 0 {
		channelScore = math.Min(channelScoreCap, float64(user.ChannelsUsed)/float64(maxChannels)*channelScoreCap)
	}

	consistencyScore := consistencyRating(user) * (consistencyCap / 100)
	engagementScore := engagementRating(user) * (engagementScoreCap / 100)

	total := messageScore + channelScore + consistencyScore + engagementScore
	return math.Round(total*10) / 10
}

// consistencyRating tiers the span between first and last activity on
// a 0-100 scale. Users with missing timestamps get the neutral middle.
func consistencyRating(user *domain.UserStat) float64 {
	if user.FirstActivity == nil || user.LastActivity == nil {
		return defaultConsistencyRating
	}

	spanDays := int(user.LastActivity.Sub(*user.FirstActivity).Hours() / 24)
	switch {
	case spanDays >= 14:
		return 100
	case spanDays >= 7:
		return 80
	case spanDays >= 3:
		return 60
	case spanDays >= 1:
		return 40
	default:
		return 20
	}
}

// engagementRating tiers average messages per channel used on a 0-100
// scale. Spreading activity across channels rates higher.
func engagementRating(user *domain.UserStat) float64 {
	if user.ChannelsUsed == 0 {
		return 0
	}

	avgPerChannel := float64(user.MessageCount) / float64(user.ChannelsUsed)
	switch {
	case avgPerChannel >= 10:
		return 100
	case avgPerChannel >= 5:
		return 80
	case avgPerChannel >= 2:
		return 60
	case avgPerChannel >= 1:
		return 40
	default:
		return 20
	}
}
