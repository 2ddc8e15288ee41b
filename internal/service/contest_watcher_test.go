package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"math_arena_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLiveSource struct {
	mu       sync.Mutex
	contests []model.Contest
}

func (f *fakeLiveSource) FindLive(now time.Time) ([]model.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var live []model.Contest
	for _, c := range f.contests {
		if c.Status(now) == model.ContestLive {
			live = append(live, c)
		}
	}
	return live, nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls map[uint]int
}

func (f *countingInvalidator) Invalidate(_ context.Context, contestID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[uint]int{}
	}
	f.calls[contestID]++
	return nil
}

func (f *countingInvalidator) count(contestID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[contestID]
}

func TestWatcherInvalidatesCacheOnceAtContestEnd(t *testing.T) {
	// A contest still live when the watcher first polls, closing moments
	// later. Its countdown ticks once per second, so expiry lands on the
	// tick after the window closes.
	source := &fakeLiveSource{contests: []model.Contest{
		{BaseModel: model.BaseModel{ID: 7}, Name: "Closing Round",
			StartTime: time.Now().Add(-60*time.Minute + 100*time.Millisecond), DurationMinutes: 60},
	}}
	cache := &countingInvalidator{}

	watcher := NewContestWatcher(source, cache)
	go watcher.Run(10 * time.Millisecond)
	defer watcher.Stop()

	require.Eventually(t, func() bool {
		return cache.count(7) > 0
	}, 3*time.Second, 10*time.Millisecond)

	// Later polls see the contest as finished and must not re-attach it.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, cache.count(7))
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	watcher := NewContestWatcher(&fakeLiveSource{}, nil)
	go watcher.Run(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	watcher.Stop()
	watcher.Stop()
}
