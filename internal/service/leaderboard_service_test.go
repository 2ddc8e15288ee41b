package service

import (
	"context"
	"errors"
	"testing"

	"math_arena_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaderboardSource struct {
	entries []model.LeaderboardEntry
	err     error
	calls   int
}

func (f *fakeLeaderboardSource) GetLeaderboard(contestID uint, limit int) ([]model.LeaderboardEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := append([]model.LeaderboardEntry(nil), f.entries...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func rankedEntries(n int) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, n)
	for i := range entries {
		entries[i] = model.LeaderboardEntry{
			UserID:   string(rune('a' + i)),
			Username: "solver",
			Score:    100 * (n - i),
			Rank:     i + 1,
		}
	}
	return entries
}

func newLeaderboardFixture(t *testing.T) (*LeaderboardService, *fakeLeaderboardSource, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &fakeLeaderboardSource{entries: rankedEntries(3)}
	return NewLeaderboardService(source, rdb), source, mr
}

func TestPreviewCapsAtTenEntries(t *testing.T) {
	svc, source, _ := newLeaderboardFixture(t)
	source.entries = rankedEntries(15)

	entries, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, PreviewLimit)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 10, entries[9].Rank)
}

func TestPreviewServesFromCacheWithinTTL(t *testing.T) {
	svc, source, _ := newLeaderboardFixture(t)

	first, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)

	// A second read within the TTL never touches the source.
	second, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
}

func TestPreviewRefetchesAfterTTL(t *testing.T) {
	svc, source, mr := newLeaderboardFixture(t)

	_, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)

	mr.FastForward(previewTTL)

	_, err = svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestPreviewCachePerContest(t *testing.T) {
	svc, source, _ := newLeaderboardFixture(t)

	_, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Preview(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "each contest warms its own cache key")
}

func TestInvalidateDropsCachedPreview(t *testing.T) {
	svc, source, _ := newLeaderboardFixture(t)
	ctx := context.Background()

	_, err := svc.Preview(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, 1))

	source.entries = rankedEntries(5)
	entries, err := svc.Preview(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
	assert.Len(t, entries, 5)
}

func TestPreviewDegradesWhenRedisDown(t *testing.T) {
	svc, _, mr := newLeaderboardFixture(t)
	mr.Close()

	entries, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err, "cache trouble degrades to a direct query")
	assert.Len(t, entries, 3)
}

func TestPreviewWithoutRedis(t *testing.T) {
	source := &fakeLeaderboardSource{entries: rankedEntries(2)}
	svc := NewLeaderboardService(source, nil)

	entries, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NoError(t, svc.Invalidate(context.Background(), 1))
}

func TestFullFillsMissingRanksPositionally(t *testing.T) {
	source := &fakeLeaderboardSource{entries: []model.LeaderboardEntry{
		{UserID: "a", Username: "ada", Score: 300},
		{UserID: "b", Username: "blaise", Score: 200},
		{UserID: "c", Username: "carl", Score: 100},
	}}
	svc := NewLeaderboardService(source, nil)

	entries, err := svc.Full(context.Background(), 1)
	require.NoError(t, err)
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Fatalf("entry %d: rank %d, want positional %d", i, entry.Rank, i+1)
		}
	}
}

func TestFullKeepsQueryRanks(t *testing.T) {
	// Ties share a rank; the fallback must not rewrite them.
	source := &fakeLeaderboardSource{entries: []model.LeaderboardEntry{
		{UserID: "a", Score: 300, Rank: 1},
		{UserID: "b", Score: 300, Rank: 1},
		{UserID: "c", Score: 100, Rank: 3},
	}}
	svc := NewLeaderboardService(source, nil)

	entries, err := svc.Full(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestPreviewPropagatesSourceError(t *testing.T) {
	source := &fakeLeaderboardSource{err: errors.New("ranking query missing")}
	svc := NewLeaderboardService(source, nil)

	_, err := svc.Preview(context.Background(), 1)
	assert.Error(t, err)
}
