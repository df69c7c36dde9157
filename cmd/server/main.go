package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/api"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/buildconfig"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/config"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/logging"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/seed"
	"go.uber.org/zap"
)

func main() {
	bootLogger, _ := zap.NewProduction()

	if err := config.Load(); err != nil {
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(logging.Options{Level: config.LogLevel(), File: config.LogFile()})
	if err != nil {
		bootLogger.Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting gym assistant",
		zap.String("version", buildconfig.Version()),
		zap.String("commit", buildconfig.Commit()))

	ctx := context.Background()

	stores, err := api.OpenStores(ctx, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	app := api.NewApp(stores, logger)

	if path := config.SeedFile(); path != "" {
		if _, err := seed.LoadFile(ctx, path, app.Knowledge, logger); err != nil {
			logger.Warn("seed import failed", zap.String("path", path), zap.Error(err))
		}
	}

	// Start background services
	app.Expirer.Start()
	app.Limiter.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	// Stop background services
	app.Limiter.Stop()
	app.Expirer.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
