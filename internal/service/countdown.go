package service

import (
	"fmt"
	"sync"
	"time"
)

// FormatRemaining renders a duration as HH:MM:SS, clamped at 00:00:00.
// Hours are not wrapped at 24 so a long contest shows e.g. 26:00:00.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total / 60) % 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Countdown ticks once per second toward a fixed end instant. Every tick
// re-derives end minus now instead of decrementing a counter, so a paused
// process cannot drift. The expiry callback fires at most once; later ticks
// keep reporting 00:00:00 without re-firing.
type Countdown struct {
	end      time.Time
	interval time.Duration
	now      func() time.Time

	onTick   func(remaining string)
	onExpire func()

	mu    sync.Mutex
	fired bool

	stop     chan struct{}
	stopOnce sync.Once
}

func NewCountdown(end time.Time, onTick func(string), onExpire func()) *Countdown {
	return &Countdown{
		end:      end,
		interval: time.Second,
		now:      time.Now,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

// Start evaluates once immediately, then on every tick until Stop.
func (c *Countdown) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.tick()
		for {
			select {
			case <-ticker.C:
				c.tick()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop releases the ticker. Safe to call more than once.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Countdown) tick() {
	remaining := c.end.Sub(c.now())
	if c.onTick != nil {
		c.onTick(FormatRemaining(remaining))
	}
	if remaining > 0 {
		return
	}

	c.mu.Lock()
	alreadyFired := c.fired
	c.fired = true
	c.mu.Unlock()

	if !alreadyFired && c.onExpire != nil {
		c.onExpire()
	}
}
