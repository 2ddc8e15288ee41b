package service

import (
	"errors"

	"math_arena_backend/internal/model"
	"math_arena_backend/internal/util"

	"gorm.io/gorm"
)

type SubmissionHistoryStore interface {
	FindHistoryByUser(userID string) ([]model.Submission, error)
}

// ProfileService serves the read-only profile page: the identity row plus
// the submission history with problems and contests joined in.
type ProfileService struct {
	Users       UserStore
	Submissions SubmissionHistoryStore
}

func NewProfileService(users UserStore, submissions SubmissionHistoryStore) *ProfileService {
	return &ProfileService{
		Users:       users,
		Submissions: submissions,
	}
}

func (s *ProfileService) GetProfile(userID string) (*model.User, []model.Submission, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	history, err := s.Submissions.FindHistoryByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	return user, history, nil
}
