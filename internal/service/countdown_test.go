package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Minute, "00:30:00"},
		{90*time.Minute + 5*time.Second, "01:30:05"},
		{26 * time.Hour, "26:00:00"},
		{time.Second, "00:00:01"},
		{500 * time.Millisecond, "00:00:00"},
		{0, "00:00:00"},
		{-time.Hour, "00:00:00"},
	}

	for _, tc := range cases {
		if got := FormatRemaining(tc.d); got != tc.want {
			t.Fatalf("FormatRemaining(%v)=%q want %q", tc.d, got, tc.want)
		}
	}
}

// collector records ticks and expiry notifications from a countdown.
type collector struct {
	mu      sync.Mutex
	ticks   []string
	expired int
}

func (c *collector) onTick(remaining string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, remaining)
}

func (c *collector) onExpire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expired++
}

func (c *collector) snapshot() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ticks...), c.expired
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	col := &collector{}
	cd := NewCountdown(time.Now().Add(-time.Second), col.onTick, col.onExpire)
	cd.interval = time.Millisecond
	cd.Start()
	defer cd.Stop()

	// Let many ticks fire past the expired instant.
	require.Eventually(t, func() bool {
		ticks, _ := col.snapshot()
		return len(ticks) >= 10
	}, time.Second, time.Millisecond)

	ticks, expired := col.snapshot()
	assert.Equal(t, 1, expired, "expiry must fire exactly once")
	for _, tick := range ticks {
		assert.Equal(t, "00:00:00", tick, "an expired countdown never shows a negative duration")
	}
}

func TestCountdownTicksDownThenExpires(t *testing.T) {
	// A synthetic clock stepping 10 simulated seconds per tick drives the
	// countdown through live ticks into expiry.
	base := time.Now()
	var step int
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		step++
		return base.Add(time.Duration(step) * 10 * time.Second)
	}

	col := &collector{}
	cd := NewCountdown(base.Add(35*time.Second), col.onTick, col.onExpire)
	cd.interval = time.Millisecond
	cd.now = now
	cd.Start()
	defer cd.Stop()

	require.Eventually(t, func() bool {
		_, expired := col.snapshot()
		return expired == 1
	}, time.Second, time.Millisecond)

	ticks, _ := col.snapshot()
	require.GreaterOrEqual(t, len(ticks), 4)
	assert.Equal(t, "00:00:25", ticks[0])
	assert.Equal(t, "00:00:15", ticks[1])
	assert.Equal(t, "00:00:05", ticks[2])
	assert.Equal(t, "00:00:00", ticks[3])

	// Later ticks stay clamped and never re-fire expiry.
	require.Eventually(t, func() bool {
		ticks, _ := col.snapshot()
		return len(ticks) >= 8
	}, time.Second, time.Millisecond)

	ticks, expired := col.snapshot()
	assert.Equal(t, 1, expired)
	assert.Equal(t, "00:00:00", ticks[len(ticks)-1])
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	cd := NewCountdown(time.Now().Add(time.Hour), nil, nil)
	cd.Start()
	cd.Stop()
	cd.Stop()
}
