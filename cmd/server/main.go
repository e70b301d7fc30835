package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/config"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/database"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/handlers"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/middleware"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/routes"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/seeds"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/services"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/tracing"
)

const rotationInterval = time.Hour

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Env)
	logger.Info().Str("environment", cfg.Env).Msg("Starting CareerVision gamification service...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
		Environment: cfg.Env,
		Version:     cfg.ServiceVersion,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	// 1. Storage
	database.Connect()
	database.InitRedis()

	logger.Info().Msg("🔄 Running Database Migrations...")
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	logger.Info().Msg("✅ Database Migrations Complete")

	store := repository.NewGormStore(database.DB)

	var cache services.Cache
	if database.Redis != nil {
		cache = database.NewRedisCache(database.Redis, "leaderboard:")
	}
	cacheTTL := time.Duration(cfg.LeaderboardCacheTTL) * time.Second

	// 2. Services
	clock := services.SystemClock
	h := handlers.NewGamificationHandler(
		services.NewProfileService(store, cache),
		services.NewScoringService(store, cache, clock),
		services.NewProgressService(store, clock),
		services.NewLeaderboardService(store, cache, cacheTTL),
		services.NewChallengeService(store, cache, clock),
		services.NewQuestService(store, clock),
	)

	// 3. Daily challenge / weekly quest rotation
	rootCtx, stopRotation := context.WithCancel(context.Background())
	defer stopRotation()

	var scheduler gocron.Scheduler
	if cfg.RotationEnabled {
		catalog, err := seeds.LoadCatalog()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to load seed catalog")
		}
		scheduler, err = catalog.Rotation(store, clock).StartScheduler(rootCtx, rotationInterval)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to start rotation scheduler")
		}
		logger.Info().Dur("interval", rotationInterval).Msg("Catalog rotation scheduled")
	}

	// 4. Setup Router
	r := gin.New()

	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(middleware.AttachTraceContext())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("/api")
	routes.RegisterGamificationRoutes(api, h, middleware.RequireSameUser(cfg.JWTSecret))

	var redisCheck handlers.HealthChecker
	if database.Redis != nil {
		redisCheck = func(ctx context.Context) error {
			return database.Redis.Ping(ctx).Err()
		}
	}
	health := handlers.Health(func(ctx context.Context) error { return database.Ping(database.DB) }, redisCheck)
	r.GET("/health", health)
	api.GET("/gamification/health", health)

	// 5. Start Server with graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("🛑 Shutting down server gracefully...")

	if scheduler != nil {
		stopRotation()
		if err := scheduler.Shutdown(); err != nil {
			logger.Warn().Err(err).Msg("Rotation scheduler did not stop cleanly")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn().Err(err).Msg("Tracer provider did not flush cleanly")
	}

	logger.Info().Msg("✅ Server exited gracefully")
}
