package app

import (
	"math_arena_backend/internal/config"
	"math_arena_backend/internal/middleware"
	"math_arena_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes: the sign-in surface and operational endpoints.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.GET("/confirm", c.auth.Confirm)
		public.POST("/login", c.auth.Login)
	}

	// Everything else requires a session.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.profile.GetProfile)

		contests := authGroup.Group("/contests")
		{
			contests.GET("", c.contest.List)
			contests.GET("/:id", c.contest.Get)
			contests.GET("/:id/clock", c.contest.Clock)
			contests.GET("/:id/leaderboard", c.leaderboard.Full)
			contests.GET("/:id/leaderboard/preview", c.leaderboard.Preview)
			contests.POST("/:id/problems/:problemID/submit", c.contest.Submit)
		}

		practice := authGroup.Group("/practice")
		{
			practice.POST("/generate", c.practice.Generate)
			practice.POST("/check", c.practice.Check)
		}
	}
}
