package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/allertrack/backend/config"
	"github.com/pageza/allertrack/backend/internal/api"
	"github.com/pageza/allertrack/backend/internal/database"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/server"
	"github.com/pageza/allertrack/backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx := context.Background()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", "environment", config.GetEnvironment())

	// Initialize database
	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	s3, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}

	generator, err := service.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	ocr, err := service.NewImageOCR(ctx, cfg, generator, logger)
	if err != nil {
		return err
	}

	// Initialize services
	creds := service.NewCredentialService(service.WithResetTokenTTL(cfg.ResetTokenTTL))
	var docOpts []service.DocumentOption
	if s3 != nil {
		logger.Info("archiving uploads", "bucket", s3.BucketName)
		docOpts = append(docOpts, service.WithArchive(s3))
	}

	srv := server.New(cfg, api.Dependencies{
		DB:             db,
		Auth:           service.NewAuthService(db, creds, cfg.JWTSecret, cfg.JWTExpiry),
		Allergies:      service.NewAllergyService(db),
		Resets:         service.NewPasswordResetService(db, creds, service.NewEmailService(cfg, logger), cfg.JWTSecret, cfg.FrontendURL, logger),
		Profiles:       service.NewProfileService(db),
		Oracle:         service.NewOracleService(generator, logger),
		Documents:      service.NewDocumentService(ocr, logger, docOpts...),
		OracleLimiter:  middleware.NewOracleRateLimiter(redisClient, cfg.RateLimitPerHour, logger),
		OracleTimeout:  cfg.OracleTimeout,
		UploadMaxBytes: cfg.UploadMaxBytes,
		TokenTTL:       cfg.JWTExpiry,
		SecureCookies:  config.IsProduction(),
		Logger:         logger,
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server stopped")
	return nil
}
