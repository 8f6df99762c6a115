package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/app"
	"github.com/allisson/bizdata/internal/config"
)

// RunServer starts the API server, the metrics server and the expiry sweeper.
// Blocks until SIGINT/SIGTERM or a fatal server error, then stops the servers,
// drains the mail queue and closes the stores within ServerShutdownTimeout.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg, version)

	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("db_driver", cfg.DBDriver),
		slog.Bool("redis", cfg.RedisURL != ""),
	)

	// Get HTTP server from container (this initializes all dependencies)
	server, err := container.HTTPServer()
	if err != nil {
		closeContainer(container, logger)
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		closeContainer(container, logger)
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	sweeper, err := container.ExpirySweeper()
	if err != nil {
		closeContainer(container, logger)
		return fmt.Errorf("failed to initialize expiry sweeper: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sweeperCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go func() {
		_ = sweeper.Start(sweeperCtx)
	}()

	serverErr := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", runErr))
	}

	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer shutdownCancel()

	// The container stops both servers before draining the mail queue.
	if err := container.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, err)
	}

	return runErr
}
