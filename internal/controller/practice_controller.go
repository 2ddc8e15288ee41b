package controller

import (
	"errors"
	"net/http"

	"math_arena_backend/internal/service"
	"math_arena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	Generator *service.GeneratorService
}

func NewPracticeController(generator *service.GeneratorService) *PracticeController {
	return &PracticeController{
		Generator: generator,
	}
}

type GenerateRequest struct {
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
}

func (c *PracticeController) Generate(ctx *gin.Context) {
	var req GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.Generator.Generate(ctx.Request.Context(), req.Difficulty)
	if err != nil {
		if errors.Is(err, util.ErrGenerationFailed) {
			util.Error(ctx, http.StatusBadGateway, util.ErrGenerationFailed.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, problem)
}

type CheckRequest struct {
	Answer   string `json:"answer" binding:"required"`
	Expected string `json:"expected" binding:"required"`
}

// Check is the stateless practice-zone verdict: the generated answer never
// touches the database, the same trim-and-fold rule as contest submissions
// is applied and the result is returned as-is.
func (c *PracticeController) Check(ctx *gin.Context) {
	var req CheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"correct": service.AnswersMatch(req.Answer, req.Expected)})
}
