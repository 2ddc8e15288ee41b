package controller

import (
	"errors"
	"net/http"
	"strconv"

	"math_arena_backend/internal/service"
	"math_arena_backend/internal/util"
	"math_arena_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContestController struct {
	ContestService    *service.ContestService
	SubmissionService *service.SubmissionService
}

func NewContestController(contestService *service.ContestService, submissionService *service.SubmissionService) *ContestController {
	return &ContestController{
		ContestService:    contestService,
		SubmissionService: submissionService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (c *ContestController) List(ctx *gin.Context) {
	contests, err := c.ContestService.ListContests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, contests)
}

func (c *ContestController) Get(ctx *gin.Context) {
	contestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.ContestService.GetContest(contestID, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

func (c *ContestController) Clock(ctx *gin.Context) {
	contestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	clock, err := c.ContestService.Clock(contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, clock)
}

type SubmitRequest struct {
	Answer string `json:"answer" binding:"required"`
}

func (c *ContestController) Submit(ctx *gin.Context) {
	contestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	problemID, ok := parseIDParam(ctx, "problemID")
	if !ok {
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Error(ctx, http.StatusUnauthorized, util.ErrUserNotFound.Error())
		return
	}

	result, err := c.SubmissionService.Submit(ctx.Request.Context(), claims.UserID, contestID, problemID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrContestEnded):
			monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
			util.Error(ctx, http.StatusForbidden, util.ErrContestEnded.Error())
		case errors.Is(err, util.ErrContestNotFound), errors.Is(err, util.ErrProblemNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUserNotFound):
			util.Error(ctx, http.StatusUnauthorized, util.ErrUserNotFound.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if result.Correct {
		monitoring.SubmissionCounter.WithLabelValues("correct").Inc()
	} else {
		monitoring.SubmissionCounter.WithLabelValues("incorrect").Inc()
	}

	util.Success(ctx, result)
}
