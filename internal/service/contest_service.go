package service

import (
	"time"

	"math_arena_backend/internal/model"
)

type ContestStore interface {
	FindAll() ([]model.Contest, error)
	FindByID(id uint) (*model.Contest, error)
}

type ProblemStore interface {
	FindByContestID(contestID uint) ([]model.Problem, error)
	FindByID(id uint) (*model.Problem, error)
	CountByContest(contestID uint) (int64, error)
}

type SubmissionReader interface {
	FindByUserAndProblemIDs(userID string, problemIDs []uint) ([]model.Submission, error)
}

// ContestSummary decorates a contest row with its derived status for the
// dashboard listing.
type ContestSummary struct {
	model.Contest
	Status         model.ContestStatus `json:"status"`
	TimeUntilStart string              `json:"timeUntilStart,omitempty"`
}

// ContestDetail is the contest page payload: the contest, its problems
// (answers stripped by the model's serialization) and the caller's own
// submissions for those problems.
type ContestDetail struct {
	Contest     model.Contest       `json:"contest"`
	Status      model.ContestStatus `json:"status"`
	EndTime     time.Time           `json:"endTime"`
	Problems    []model.Problem     `json:"problems"`
	Submissions []model.Submission  `json:"submissions"`
}

// ContestClock is polled once per second by clients rendering the
// countdown; Remaining counts down to the contest end while live.
type ContestClock struct {
	Status         model.ContestStatus `json:"status"`
	Remaining      string              `json:"remaining"`
	TimeUntilStart string              `json:"timeUntilStart,omitempty"`
	EndTime        time.Time           `json:"endTime"`
}

type ContestService struct {
	Contests    ContestStore
	Problems    ProblemStore
	Submissions SubmissionReader

	now func() time.Time
}

func NewContestService(contests ContestStore, problems ProblemStore, submissions SubmissionReader) *ContestService {
	return &ContestService{
		Contests:    contests,
		Problems:    problems,
		Submissions: submissions,
		now:         time.Now,
	}
}

func (s *ContestService) ListContests() ([]ContestSummary, error) {
	contests, err := s.Contests.FindAll()
	if err != nil {
		return nil, err
	}

	now := s.now()
	summaries := make([]ContestSummary, 0, len(contests))
	for _, contest := range contests {
		summary := ContestSummary{
			Contest: contest,
			Status:  contest.Status(now),
		}
		if summary.Status == model.ContestUpcoming {
			summary.TimeUntilStart = contest.TimeUntilStart(now)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *ContestService) GetContest(contestID uint, userID string) (*ContestDetail, error) {
	contest, err := s.Contests.FindByID(contestID)
	if err != nil {
		return nil, err
	}

	problems, err := s.Problems.FindByContestID(contestID)
	if err != nil {
		return nil, err
	}

	problemIDs := make([]uint, 0, len(problems))
	for _, p := range problems {
		problemIDs = append(problemIDs, p.ID)
	}

	submissions, err := s.Submissions.FindByUserAndProblemIDs(userID, problemIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &ContestDetail{
		Contest:     *contest,
		Status:      contest.Status(now),
		EndTime:     contest.EndTime(),
		Problems:    problems,
		Submissions: submissions,
	}, nil
}

func (s *ContestService) Clock(contestID uint) (*ContestClock, error) {
	contest, err := s.Contests.FindByID(contestID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	clock := &ContestClock{
		Status:  contest.Status(now),
		EndTime: contest.EndTime(),
	}

	switch clock.Status {
	case model.ContestUpcoming:
		clock.Remaining = FormatRemaining(contest.EndTime().Sub(now))
		clock.TimeUntilStart = contest.TimeUntilStart(now)
	case model.ContestLive:
		clock.Remaining = FormatRemaining(contest.EndTime().Sub(now))
	default:
		clock.Remaining = FormatRemaining(0)
	}
	return clock, nil
}
