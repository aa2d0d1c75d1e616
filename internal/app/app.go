// Package app assembles the friend service from configuration. It is shared
// by the HTTP server and the command-line tools.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/classifier"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/config"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/graphdb"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/repository"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/service"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/socialgraph"
)

// App owns the loaded network and its optional graph mirror.
type App struct {
	Config  config.Config
	Graph   graphdb.Client
	Service *service.FriendService

	logger *slog.Logger
}

// New loads the network named by cfg.Data, connects the Neo4j mirror when a
// graph URI is configured, and optionally syncs and trains.
func New(ctx context.Context, logger *slog.Logger, cfg config.Config) (*App, error) {
	return NewWithClient(ctx, logger, cfg, nil)
}

// NewWithClient is New with a pre-built graph client. A nil client falls back
// to cfg.Graph.
func NewWithClient(ctx context.Context, logger *slog.Logger, cfg config.Config, client graphdb.Client) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Graph: client, logger: logger}

	if a.Graph == nil && cfg.Graph.URI != "" {
		c, err := BuildGraphClient(ctx, cfg.Graph)
		if err != nil {
			return nil, fmt.Errorf("connect graph: %w", err)
		}
		a.Graph = c
	}

	var repo service.NetworkRepository
	if a.Graph != nil {
		repo = repository.New(a.Graph)
	}

	profiles, err := service.LoadProfiles(ctx, cfg.Data.Source, cfg.Data.Path, repo)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	session, err := socialgraph.NewSession(profiles)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("build network: %w", err)
	}

	opts, err := serviceOptions(cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Service, err = service.NewFriendService(logger, session, repo, opts)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	logger.Info("network loaded",
		"source", cfg.Data.Source,
		"users", session.Graph().NodeCount(),
		"friendships", session.Graph().EdgeCount(),
	)

	if cfg.Graph.SyncOnStart && repo != nil && cfg.Data.Source != "graph" {
		if _, err := a.Service.Sync(ctx, cfg.Graph.SyncWorkers); err != nil {
			logger.Warn("graph sync failed", "error", err)
		}
	}

	if cfg.Classifier.TrainOnStart {
		if _, err := a.Service.Retrain(ctx); err != nil {
			if a.Service.Mode() == domain.ScoringProbability {
				a.Close(ctx)
				return nil, fmt.Errorf("train %s: %w", cfg.Classifier.Kind, err)
			}
			logger.Warn("training failed", "kind", cfg.Classifier.Kind, "error", err)
		}
	}
	return a, nil
}

// Close releases the graph client, if any.
func (a *App) Close(ctx context.Context) {
	if a.Graph == nil {
		return
	}
	if err := a.Graph.Close(ctx); err != nil {
		a.logger.Warn("closing graph client failed", "error", err)
	}
}

// BuildGraphClient connects to Neo4j using the graph section of the config.
func BuildGraphClient(ctx context.Context, cfg config.GraphConfig) (graphdb.Client, error) {
	if cfg.URI == "" {
		return nil, graphdb.ErrMissingURI
	}
	return graphdb.NewNeo4jClient(ctx, graphdb.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
		QueryTimeout:   cfg.QueryTimeout,
	})
}

func serviceOptions(cfg config.Config) (service.Options, error) {
	kind, err := classifier.ParseKind(cfg.Classifier.Kind)
	if err != nil {
		return service.Options{}, err
	}
	mode := domain.ScoringMode(cfg.Recommend.Mode)
	switch mode {
	case domain.ScoringProbability, domain.ScoringBlend:
	default:
		return service.Options{}, fmt.Errorf("unknown scoring mode %q", cfg.Recommend.Mode)
	}

	training := classifier.DefaultOptions()
	training.TestFraction = cfg.Classifier.TestFraction
	training.Seed = cfg.Classifier.Seed
	training.KNNNeighbors = cfg.Classifier.KNNNeighbors
	training.ForestTrees = cfg.Classifier.ForestTrees

	return service.Options{
		Kind:         kind,
		Mode:         mode,
		DefaultLimit: cfg.Recommend.DefaultLimit,
		MaxLimit:     cfg.Recommend.MaxLimit,
		Training:     training,
	}, nil
}
