package service

import (
	"context"
	"sync"
	"time"

	"math_arena_backend/internal/model"
	"math_arena_backend/pkg/logger"

	"go.uber.org/zap"
)

type LiveContestSource interface {
	FindLive(now time.Time) ([]model.Contest, error)
}

// ContestWatcher attaches a countdown to every live contest so that exactly
// one expiry action runs when a contest's window closes: the cached
// leaderboard preview is dropped and the end is logged. Finished countdowns
// are detached; the at-most-once guarantee lives in Countdown itself.
type ContestWatcher struct {
	Contests LiveContestSource
	Cache    LeaderboardInvalidator

	mu      sync.Mutex
	watched map[uint]*Countdown

	stop     chan struct{}
	stopOnce sync.Once
}

func NewContestWatcher(contests LiveContestSource, cache LeaderboardInvalidator) *ContestWatcher {
	return &ContestWatcher{
		Contests: contests,
		Cache:    cache,
		watched:  make(map[uint]*Countdown),
		stop:     make(chan struct{}),
	}
}

// Run polls for live contests on the given interval until Stop.
func (w *ContestWatcher) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.sync()
	for {
		select {
		case <-ticker.C:
			w.sync()
		case <-w.stop:
			return
		}
	}
}

func (w *ContestWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	for id, countdown := range w.watched {
		countdown.Stop()
		delete(w.watched, id)
	}
}

func (w *ContestWatcher) sync() {
	contests, err := w.Contests.FindLive(time.Now())
	if err != nil {
		logger.Log.Error("contest watcher poll failed", zap.Error(err))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, contest := range contests {
		if _, ok := w.watched[contest.ID]; ok {
			continue
		}
		w.watch(contest)
	}
}

// watch must be called with w.mu held.
func (w *ContestWatcher) watch(contest model.Contest) {
	contestID := contest.ID
	countdown := NewCountdown(contest.EndTime(), nil, func() {
		logger.Log.Info("contest finished",
			zap.Uint("contest_id", contestID),
			zap.String("name", contest.Name))

		if w.Cache != nil {
			if err := w.Cache.Invalidate(context.Background(), contestID); err != nil {
				logger.Log.Warn("leaderboard cache invalidation at contest end failed",
					zap.Uint("contest_id", contestID), zap.Error(err))
			}
		}

		w.mu.Lock()
		if c, ok := w.watched[contestID]; ok {
			c.Stop()
			delete(w.watched, contestID)
		}
		w.mu.Unlock()
	})

	w.watched[contestID] = countdown
	countdown.Start()
}
