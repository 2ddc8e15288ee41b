package controller

import (
	"net/http"

	"math_arena_backend/internal/service"
	"math_arena_backend/internal/util"
	"math_arena_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// leaderboardUnavailable is the fixed diagnostic shown when the ranking
// query cannot be executed. No automatic retry; the client reloads manually.
const leaderboardUnavailable = "Could not fetch leaderboard. Make sure the get_leaderboard ranking query is available."

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{
		LeaderboardService: leaderboardService,
	}
}

// Preview serves the top-10 slice polled by live contest pages.
func (c *LeaderboardController) Preview(ctx *gin.Context) {
	contestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.LeaderboardService.Preview(ctx.Request.Context(), contestID)
	if err != nil {
		logger.Log.Error("leaderboard preview failed", zap.Uint("contest_id", contestID), zap.Error(err))
		util.Error(ctx, http.StatusInternalServerError, leaderboardUnavailable)
		return
	}
	util.Success(ctx, entries)
}

// Full serves the complete ranked set, fetched once per page load.
func (c *LeaderboardController) Full(ctx *gin.Context) {
	contestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.LeaderboardService.Full(ctx.Request.Context(), contestID)
	if err != nil {
		logger.Log.Error("leaderboard fetch failed", zap.Uint("contest_id", contestID), zap.Error(err))
		util.Error(ctx, http.StatusInternalServerError, leaderboardUnavailable)
		return
	}
	util.Success(ctx, entries)
}
