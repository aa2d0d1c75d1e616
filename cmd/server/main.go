package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/app"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/config"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/logging"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)

	if err := run(logger, cfg); err != nil {
		logger.Error("friendrec api exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("start friend service: %w", err)
	}
	defer application.Close(context.Background())

	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: application.Graph},
		API:              server.NewAPIHandlers(logger, application.Service),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
	}))

	served := make(chan error, 1)
	go func() { served <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-served:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
