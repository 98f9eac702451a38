package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/database"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/router"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/server"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init(false)
		logger.ErrorLogger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.Environment != config.Production)
	gin.SetMode(cfg.Environment.GinMode())

	ctx := context.Background()

	db, err := database.New(cfg)
	if err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.DatabaseURL(), cfg.MigrationsDir); err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to run migrations")
	}

	var redisClient *redis.Client
	var tokens service.ITokenStore
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.ErrorLogger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()
		tokens = service.NewRedisTokenStore(redisClient)
	} else {
		logger.InfoLogger.Warn("Redis not configured; sessions and rate limits are kept in memory")
		tokens = service.NewMemoryTokenStore()
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.WithError(err).Fatal("Failed to configure object storage")
	}
	storage := service.NewImageService(s3Config)
	email := service.NewEmailService(cfg.SMTP)

	engine := router.SetupRouter(&router.Dependencies{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Auth:         service.NewAuthService(db, cfg.JWTSecret, tokens, email, cfg.FrontendURL),
		Roles:        service.NewRoleService(db),
		Reservations: service.NewReservationService(db, email),
		Catalog:      service.NewCatalogService(db, storage),
		Gallery:      service.NewGalleryService(db, storage),
		Settings:     service.NewSettingsService(db),
	})

	srv := server.New(cfg, engine)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.ErrorLogger.WithError(err).Fatal("Server error")
		}
		return
	case sig := <-quit:
		logger.InfoLogger.WithField("signal", sig.String()).Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.ErrorLogger.WithError(err).Error("Server shutdown error")
	}
	logger.InfoLogger.Info("Server stopped")
}
