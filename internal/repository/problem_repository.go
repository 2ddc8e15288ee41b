package repository

import (
	"math_arena_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) FindByContestID(contestID uint) ([]model.Problem, error) {
	var problems []model.Problem
	err := r.DB.Where("contest_id = ?", contestID).Order("id").Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) FindByID(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.First(&problem, id).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *ProblemRepository) CountByContest(contestID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Problem{}).Where("contest_id = ?", contestID).Count(&count).Error
	return count, err
}
