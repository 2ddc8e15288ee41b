package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"math_arena_backend/internal/model"
	"math_arena_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PreviewLimit caps the leaderboard preview regardless of what the ranking
// query returns.
const PreviewLimit = 10

// previewTTL matches the preview's client polling interval; within one
// interval a cached copy is always fresh enough.
const previewTTL = 30 * time.Second

type LeaderboardSource interface {
	GetLeaderboard(contestID uint, limit int) ([]model.LeaderboardEntry, error)
}

// LeaderboardService consumes ranked rows from the aggregation query and
// never re-derives rank; a missing rank falls back to positional order.
type LeaderboardService struct {
	Source LeaderboardSource
	Redis  *redis.Client
}

func NewLeaderboardService(source LeaderboardSource, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		Source: source,
		Redis:  rdb,
	}
}

func previewKey(contestID uint) string {
	return fmt.Sprintf("leaderboard:preview:%d", contestID)
}

// Preview returns at most PreviewLimit entries, rank ascending, served from
// the Redis cache while the cached copy is younger than the poll interval.
// Cache trouble degrades to a direct query, never to an error.
func (s *LeaderboardService) Preview(ctx context.Context, contestID uint) ([]model.LeaderboardEntry, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, previewKey(contestID)).Bytes()
		if err == nil {
			var entries []model.LeaderboardEntry
			if jsonErr := json.Unmarshal(cached, &entries); jsonErr == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed",
				zap.Uint("contest_id", contestID), zap.Error(err))
		}
	}

	entries, err := s.Source.GetLeaderboard(contestID, PreviewLimit)
	if err != nil {
		return nil, err
	}
	if len(entries) > PreviewLimit {
		entries = entries[:PreviewLimit]
	}
	normalizeRanks(entries)

	if s.Redis != nil {
		if payload, jsonErr := json.Marshal(entries); jsonErr == nil {
			if err := s.Redis.Set(ctx, previewKey(contestID), payload, previewTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed",
					zap.Uint("contest_id", contestID), zap.Error(err))
			}
		}
	}

	return entries, nil
}

// Full returns every ranked row in the order the query produced them.
func (s *LeaderboardService) Full(ctx context.Context, contestID uint) ([]model.LeaderboardEntry, error) {
	entries, err := s.Source.GetLeaderboard(contestID, 0)
	if err != nil {
		return nil, err
	}
	normalizeRanks(entries)
	return entries, nil
}

// Invalidate drops the cached preview after a scoring change or at contest
// end.
func (s *LeaderboardService) Invalidate(ctx context.Context, contestID uint) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, previewKey(contestID)).Err()
}

// normalizeRanks fills a positional rank where the query did not provide
// one; it never reorders or rewrites ranks the query produced.
func normalizeRanks(entries []model.LeaderboardEntry) {
	for i := range entries {
		if entries[i].Rank == 0 {
			entries[i].Rank = i + 1
		}
	}
}
