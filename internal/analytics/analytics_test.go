package analytics

import (
	"context"

	"github.com/pulselabs/community-pulse-go/internal/domain"
)

// fakeProvider returns canned aggregates. Windowed counts are keyed by
// days so tests can distinguish the 7-day and 30-day queries.
type fakeProvider struct {
	messageCounts   map[int]int
	activeUsers     map[int]int
	trend           float64
	peakHours       []int
	quietChannels   []string
	joinLeave       *domain.JoinLeaveStat
	channelActivity []*domain.ChannelActivity
	channelStats    []*domain.ChannelStat
	userStats       []*domain.UserStat
	err             error
}

func (f *fakeProvider) MessageCount(_ context.Context, _ string, days int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.messageCounts[days], nil
}

func (f *fakeProvider) ActiveUsers(_ context.Context, _ string, days int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.activeUsers[days], nil
}

func (f *fakeProvider) ActivityTrend(_ context.Context, _ string, _ int) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.trend, nil
}

func (f *fakeProvider) PeakHours(_ context.Context, _ string, _ int) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.peakHours, nil
}

func (f *fakeProvider) QuietChannels(_ context.Context, _ string, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quietChannels, nil
}

func (f *fakeProvider) JoinLeaveStats(_ context.Context, _ string, _ int) (*domain.JoinLeaveStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.joinLeave == nil {
		return &domain.JoinLeaveStat{}, nil
	}
	return f.joinLeave, nil
}

func (f *fakeProvider) ChannelActivity(_ context.Context, _ string, _ int) ([]*domain.ChannelActivity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.channelActivity, nil
}

func (f *fakeProvider) ChannelStats(_ context.Context, _ string, _ int) ([]*domain.ChannelStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.channelStats, nil
}

func (f *fakeProvider) UserStats(_ context.Context, _ string, _ int) ([]*domain.UserStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userStats, nil
}
