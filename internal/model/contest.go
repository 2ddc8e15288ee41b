package model

import (
	"fmt"
	"time"
)

type ContestStatus string

const (
	ContestUpcoming ContestStatus = "upcoming"
	ContestLive     ContestStatus = "live"
	ContestFinished ContestStatus = "finished"
)

type Contest struct {
	BaseModel
	Name            string    `gorm:"size:200;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	StartTime       time.Time `gorm:"not null;index" json:"startTime"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`
}

func (Contest) TableName() string {
	return "contests"
}

func (c *Contest) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// Status evaluates the contest window [start, end) against now. A contest
// with zero duration is live for a zero-width instant and then finished.
func (c *Contest) Status(now time.Time) ContestStatus {
	if now.Before(c.StartTime) {
		return ContestUpcoming
	}
	if now.Before(c.EndTime()) {
		return ContestLive
	}
	return ContestFinished
}

// TimeUntilStart renders the remaining wait as "Nd Nh Nm" by floor division,
// or "Started" once the difference is no longer positive.
func (c *Contest) TimeUntilStart(now time.Time) string {
	diff := c.StartTime.Sub(now)
	if diff <= 0 {
		return "Started"
	}
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
