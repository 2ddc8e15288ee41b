package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"math_arena_backend/internal/model"
	"math_arena_backend/internal/util"
	"math_arena_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubmissionStore interface {
	Upsert(submission *model.Submission) error
	FindByUserAndProblem(userID string, problemID uint) (*model.Submission, error)
	CountCorrectByUserAndContest(userID string, contestID uint) (int64, error)
}

// LeaderboardInvalidator drops cached leaderboard rows after a scoring
// change so the 30 second preview cache never outlives a correct answer by
// more than its TTL.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context, contestID uint) error
}

type SubmitResult struct {
	Submission *model.Submission `json:"submission"`
	Correct    bool              `json:"correct"`
	// ContestComplete is true only when this submission turned the
	// caller's last unsolved problem into a solved one; clients use it to
	// redirect to the leaderboard.
	ContestComplete bool `json:"contestComplete"`
}

type SubmissionService struct {
	Contests    ContestStore
	Problems    ProblemStore
	Submissions SubmissionStore
	Cache       LeaderboardInvalidator

	now func() time.Time
}

func NewSubmissionService(contests ContestStore, problems ProblemStore, submissions SubmissionStore, cache LeaderboardInvalidator) *SubmissionService {
	return &SubmissionService{
		Contests:    contests,
		Problems:    problems,
		Submissions: submissions,
		Cache:       cache,
		now:         time.Now,
	}
}

// Submit evaluates an answer against the stored one and upserts the
// (problem, user) submission. Nothing is written when the contest window
// has closed or the identity is missing.
func (s *SubmissionService) Submit(ctx context.Context, userID string, contestID, problemID uint, answer string) (*SubmitResult, error) {
	if userID == "" {
		return nil, util.ErrUserNotFound
	}

	contest, err := s.Contests.FindByID(contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContestNotFound
		}
		return nil, err
	}

	problem, err := s.Problems.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}
	if problem.ContestID != contest.ID {
		return nil, util.ErrProblemNotFound
	}

	now := s.now()
	if !now.Before(contest.EndTime()) {
		return nil, util.ErrContestEnded
	}

	previous, err := s.Submissions.FindByUserAndProblem(userID, problemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submission := &model.Submission{
		ProblemID:   problemID,
		UserID:      userID,
		Answer:      strings.TrimSpace(answer),
		IsCorrect:   AnswersMatch(answer, problem.Answer),
		SubmittedAt: now,
	}

	if err := s.Submissions.Upsert(submission); err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Submission: submission,
		Correct:    submission.IsCorrect,
	}

	if submission.IsCorrect {
		if s.Cache != nil {
			if err := s.Cache.Invalidate(ctx, contestID); err != nil {
				logger.Log.Warn("leaderboard cache invalidation failed",
					zap.Uint("contest_id", contestID), zap.Error(err))
			}
		}

		// The complete signal fires only on the transition to solved, so
		// resubmitting a correct answer cannot fire it again.
		if previous == nil || !previous.IsCorrect {
			total, err := s.Problems.CountByContest(contestID)
			if err != nil {
				return result, nil
			}
			correct, err := s.Submissions.CountCorrectByUserAndContest(userID, contestID)
			if err != nil {
				return result, nil
			}
			result.ContestComplete = total > 0 && correct == total
		}
	}

	return result, nil
}
