package model

import "time"

// LeaderboardEntry is produced entirely by the ranking query; the rest of
// the application only displays it. Rank may be zero when the query cannot
// provide one, in which case callers fall back to positional order.
type LeaderboardEntry struct {
	UserID             string     `json:"user_id"`
	Username           string     `json:"username"`
	Score              int        `json:"score"`
	Rank               int        `json:"rank,omitempty"`
	LastSubmissionTime *time.Time `json:"last_submission_time,omitempty"`
}
