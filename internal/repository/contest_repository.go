package repository

import (
	"time"

	"math_arena_backend/internal/model"

	"gorm.io/gorm"
)

type ContestRepository struct {
	DB *gorm.DB
}

func NewContestRepository(db *gorm.DB) *ContestRepository {
	return &ContestRepository{DB: db}
}

// FindAll returns all contests, newest start first, matching the dashboard
// ordering.
func (r *ContestRepository) FindAll() ([]model.Contest, error) {
	var contests []model.Contest
	err := r.DB.Order("start_time DESC").Find(&contests).Error
	return contests, err
}

func (r *ContestRepository) FindByID(id uint) (*model.Contest, error) {
	var contest model.Contest
	err := r.DB.First(&contest, id).Error
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

// FindLive returns contests whose window [start, start + duration) contains
// now. The end instant is derived in SQL since it is not stored.
func (r *ContestRepository) FindLive(now time.Time) ([]model.Contest, error) {
	var contests []model.Contest
	err := r.DB.
		Where("start_time <= ? AND DATE_ADD(start_time, INTERVAL duration_minutes MINUTE) > ?", now, now).
		Find(&contests).Error
	return contests, err
}
