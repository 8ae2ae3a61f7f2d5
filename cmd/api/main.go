package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/config"
	"github.com/pageza/nutriscan/backend/internal/logger"
	"github.com/pageza/nutriscan/backend/internal/metrics"
	"github.com/pageza/nutriscan/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == config.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	deps := server.Dependencies{
		Metrics: metrics.NewCollector(),
		Logger:  zl,
	}

	if cfg.StorageEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3cfg, err := config.NewS3Config(ctx, cfg)
		cancel()
		if err != nil {
			zl.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		deps.Objects = s3cfg.Client
		zl.Info("image storage enabled",
			zap.String("bucket", s3cfg.BucketName),
			zap.String("public_base_url", s3cfg.PublicBaseURL))
	} else {
		zl.Warn("image storage disabled, transient image URLs will be returned")
	}

	srv := server.New(cfg, deps)

	errChan := make(chan error, 1)
	go func() {
		zl.Info("Starting server",
			zap.String("environment", string(cfg.Environment)),
			zap.String("addr", cfg.Address()))
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zl.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		zl.Info("Received signal", zap.String("signal", sig.String()))
	}

	zl.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server shutdown error", zap.Error(err))
		return
	}
	zl.Info("Server stopped")
}
