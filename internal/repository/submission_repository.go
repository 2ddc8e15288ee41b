package repository

import (
	"math_arena_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// Upsert writes the submission with last-write-wins semantics on the
// (problem_id, user_id) key; a resubmission replaces the stored answer and
// verdict instead of adding a row.
func (r *SubmissionRepository) Upsert(submission *model.Submission) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "problem_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "is_correct", "submitted_at"}),
	}).Create(submission).Error
}

func (r *SubmissionRepository) FindByUserAndProblem(userID string, problemID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Where("user_id = ? AND problem_id = ?", userID, problemID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindByUserAndProblemIDs(userID string, problemIDs []uint) ([]model.Submission, error) {
	var submissions []model.Submission
	if len(problemIDs) == 0 {
		return submissions, nil
	}
	err := r.DB.Where("user_id = ? AND problem_id IN ?", userID, problemIDs).Find(&submissions).Error
	return submissions, err
}

// CountCorrectByUserAndContest counts the user's solved problems in one
// contest, used for the contest-complete signal.
func (r *SubmissionRepository) CountCorrectByUserAndContest(userID string, contestID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Joins("JOIN problems ON problems.id = submissions.problem_id").
		Where("submissions.user_id = ? AND submissions.is_correct = ? AND problems.contest_id = ?", userID, true, contestID).
		Count(&count).Error
	return count, err
}

// FindHistoryByUser returns the user's submissions newest first with the
// problem and its contest preloaded, for the profile page.
func (r *SubmissionRepository) FindHistoryByUser(userID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.
		Preload("Problem").
		Preload("Problem.Contest").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}
