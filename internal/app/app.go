package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"math_arena_backend/internal/config"
	"math_arena_backend/internal/controller"
	"math_arena_backend/internal/repository"
	"math_arena_backend/internal/service"
	"math_arena_backend/pkg/database"
	"math_arena_backend/pkg/email"
	"math_arena_backend/pkg/logger"
	"math_arena_backend/pkg/monitoring"
	"math_arena_backend/pkg/security"
	"math_arena_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	contest     *repository.ContestRepository
	problem     *repository.ProblemRepository
	submission  *repository.SubmissionRepository
	leaderboard *repository.LeaderboardRepository
}

type services struct {
	auth        *service.AuthService
	profile     *service.ProfileService
	contest     *service.ContestService
	submission  *service.SubmissionService
	leaderboard *service.LeaderboardService
	generator   *service.GeneratorService
	watcher     *service.ContestWatcher
}

type controllers struct {
	auth        *controller.AuthController
	profile     *controller.ProfileController
	contest     *controller.ContestController
	leaderboard *controller.LeaderboardController
	practice    *controller.PracticeController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		contest:     repository.NewContestRepository(db),
		problem:     repository.NewProblemRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		leaderboard: repository.NewLeaderboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	var mailer service.ConfirmationMailer
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPClient(&cfg.SMTP)
	} else {
		logger.Log.Warn("SMTP not configured, confirmation mails will not be sent")
	}

	s.auth = service.NewAuthService(repos.user, mailer, cfg)
	s.profile = service.NewProfileService(repos.user, repos.submission)
	s.contest = service.NewContestService(repos.contest, repos.problem, repos.submission)
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, rdb)
	s.submission = service.NewSubmissionService(repos.contest, repos.problem, repos.submission, s.leaderboard)
	s.generator = service.NewGeneratorService(cfg.AI)
	s.watcher = service.NewContestWatcher(repos.contest, s.leaderboard)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		profile:     controller.NewProfileController(s.profile),
		contest:     controller.NewContestController(s.contest, s.submission),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		practice:    controller.NewPracticeController(s.generator),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	go s.watcher.Run(time.Minute)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The leaderboard cache degrades to direct queries without Redis.
		logger.Log.Warn("Failed to initialize redis, leaderboard cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("math-arena", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app
}

// ReloadConfig applies a hot-reloaded configuration. Only fields read at
// request time (JWT secret, CORS origins, generator credentials) take
// effect without a restart.
func (a *App) ReloadConfig(cfg *config.Config) {
	*a.Config = *cfg
	logger.Log.Info("Configuration reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.watcher != nil {
		a.services.watcher.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
