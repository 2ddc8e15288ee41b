package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testContest(start time.Time, minutes int) *Contest {
	return &Contest{
		Name:            "Test Round",
		StartTime:       start,
		DurationMinutes: minutes,
	}
}

func TestContestStatus(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	contest := testContest(start, 60)

	cases := []struct {
		name string
		now  time.Time
		want ContestStatus
	}{
		{"well before start", start.Add(-24 * time.Hour), ContestUpcoming},
		{"one ns before start", start.Add(-time.Nanosecond), ContestUpcoming},
		{"exactly at start", start, ContestLive},
		{"mid contest", start.Add(30 * time.Minute), ContestLive},
		{"one ns before end", start.Add(60*time.Minute - time.Nanosecond), ContestLive},
		{"exactly at end", start.Add(60 * time.Minute), ContestFinished},
		{"long after end", start.Add(48 * time.Hour), ContestFinished},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, contest.Status(tc.now))
		})
	}
}

// The three statuses must partition the time line: every instant maps to
// exactly one of them.
func TestContestStatusExhaustive(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	contest := testContest(start, 90)

	for offset := -120; offset <= 240; offset++ {
		now := start.Add(time.Duration(offset) * time.Minute)
		status := contest.Status(now)

		matches := 0
		if now.Before(contest.StartTime) && status == ContestUpcoming {
			matches++
		}
		if !now.Before(contest.StartTime) && now.Before(contest.EndTime()) && status == ContestLive {
			matches++
		}
		if !now.Before(contest.EndTime()) && status == ContestFinished {
			matches++
		}
		if matches != 1 {
			t.Fatalf("offset %d: status %q does not partition the time line", offset, status)
		}
	}
}

func TestContestStatusZeroDuration(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	contest := testContest(start, 0)

	// End equals start: never live for any observable instant, finished
	// from the start instant on.
	assert.Equal(t, ContestUpcoming, contest.Status(start.Add(-time.Second)))
	assert.Equal(t, ContestFinished, contest.Status(start))
	assert.Equal(t, ContestFinished, contest.Status(start.Add(time.Second)))
	assert.Equal(t, start, contest.EndTime())
}

func TestContestEndTime(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	contest := testContest(start, 45)
	assert.Equal(t, start.Add(45*time.Minute), contest.EndTime())
}

func TestTimeUntilStart(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	contest := testContest(start, 60)

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"days away", start.Add(-(50*time.Hour + 30*time.Minute)), "2d 2h 30m"},
		{"hours away", start.Add(-(3*time.Hour + 5*time.Minute)), "0d 3h 5m"},
		{"minutes away", start.Add(-90 * time.Second), "0d 0h 1m"},
		{"under a minute", start.Add(-30 * time.Second), "0d 0h 0m"},
		{"at start", start, "Started"},
		{"after start", start.Add(time.Minute), "Started"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, contest.TimeUntilStart(tc.now))
		})
	}
}
