package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/app"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/config"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/graphdb"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/logging"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/repository"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/service"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/socialgraph"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		profilesPath = flag.String("profiles", cfg.Data.Path, "Path to the profiles CSV")
		workers      = flag.Int("workers", cfg.Graph.SyncWorkers, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "ingest")
	if err := run(logger, cfg, *profilesPath, *workers); err != nil {
		logger.Error("ingestion failed", "error", err, "path", *profilesPath)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config.Config, profilesPath string, workers int) error {
	if _, err := os.Stat(profilesPath); err != nil {
		return fmt.Errorf("%w: %s", errMissingDataset, profilesPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	profiles, err := service.LoadProfiles(ctx, "csv", profilesPath, nil)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return errors.New("profiles dataset empty")
	}
	// Reject inconsistent networks before touching the database.
	session, err := socialgraph.NewSession(profiles)
	if err != nil {
		return fmt.Errorf("invalid network: %w", err)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	ingestor := service.NewBulkIngestor(logger, repository.New(graphClient), workers)

	start := time.Now()
	logger.Info("ingesting network", "users", len(profiles), "friendships", session.Graph().EdgeCount(), "workers", workers)
	summary, err := ingestor.IngestNetwork(ctx, session.Snapshot())
	if err != nil {
		return fmt.Errorf("ingest network: %w", err)
	}

	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"profiles", summary.Profiles,
		"friendships", summary.Friendships,
		"friendships_created", summary.FriendshipsCreated,
		"persons", summary.Persons,
	)
	return nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graphdb.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	client, err := app.BuildGraphClient(ctx, cfg.Graph)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
