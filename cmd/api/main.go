package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthbite/backend/config"
	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/api"
	"github.com/pageza/healthbite/backend/internal/database"
	"github.com/pageza/healthbite/backend/internal/logger"
	"github.com/pageza/healthbite/backend/internal/middleware"
	"github.com/pageza/healthbite/backend/internal/server"
	"github.com/pageza/healthbite/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		// Continue without rate limiting or token revocation.
		zlog.Warn("redis unavailable", zap.Error(err))
		redisClient = nil
	}
	var revocations service.RevocationStore
	if redisClient != nil {
		defer redisClient.Close()
		revocations = service.NewRedisRevocationStore(redisClient)
	}

	var images service.ImageStore
	s3cfg, err := config.NewS3Config(ctx, cfg.S3)
	if err != nil {
		zlog.Warn("image storage disabled", zap.Error(err))
	} else if s3cfg != nil {
		images = service.NewS3ImageStore(s3cfg)
	}

	if cfg.LLM.APIKey == "" {
		zlog.Warn("no LLM API key configured, recipe submissions will be rejected")
	}
	analyzer := ai.NewAnalyzer(cfg.LLM.AI(), nil)

	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL, revocations)
	recipeService := service.NewRecipeService(db, analyzer, service.NewPageScraper(), images)
	limiter := middleware.NewSubmissionRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	srv := server.New(cfg, api.Dependencies{
		DB:      db,
		Auth:    authService,
		Recipes: recipeService,
		Limiter: limiter,
	}, zlog)

	zlog.Info("starting server",
		zap.String("env", string(cfg.Env)),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("db_driver", cfg.DB.Driver),
		zap.Bool("rate_limit", limiter.Enabled()),
		zap.Bool("image_store", images != nil),
	)
	if err := srv.Run(ctx); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
