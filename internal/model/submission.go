package model

import "time"

// Submission holds at most one row per (problem, user); resubmission
// replaces the previous answer. IsCorrect is computed once at submission
// time and never recomputed.
type Submission struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProblemID   uint      `gorm:"not null;uniqueIndex:idx_problem_user" json:"problemId"`
	UserID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_problem_user" json:"userId"`
	Answer      string    `gorm:"size:255;not null" json:"answer"`
	IsCorrect   bool      `gorm:"not null" json:"isCorrect"`
	SubmittedAt time.Time `gorm:"not null" json:"submittedAt"`

	Problem *Problem `gorm:"foreignKey:ProblemID" json:"problem,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
