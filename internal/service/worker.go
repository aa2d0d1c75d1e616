package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return "multiple errors: " + strings.Join(parts, "; ")
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// IngestSummary counts what a bulk ingestion wrote. Persons is the number
// of Person nodes the database reports once every write has landed.
type IngestSummary struct {
	Profiles           int
	Friendships        int
	FriendshipsCreated int
	Persons            int64
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// BulkIngestor mirrors a whole network into the graph repository with a
// bounded number of concurrent writes.
type BulkIngestor struct {
	logger  *slog.Logger
	repo    NetworkRepository
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(logger *slog.Logger, repo NetworkRepository, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkIngestor{logger: logger, repo: repo, workers: workers}
}

// IngestNetwork writes every profile, then every friendship once. Nodes go
// first so edge merges always find both endpoints.
func (bi *BulkIngestor) IngestNetwork(ctx context.Context, profiles []domain.Profile) (IngestSummary, error) {
	if ensurer, ok := bi.repo.(schemaEnsurer); ok {
		if err := ensurer.EnsureSchema(ctx); err != nil {
			return IngestSummary{}, err
		}
	}

	err := bi.run(ctx, len(profiles), func(ctx context.Context, idx int) error {
		return bi.repo.UpsertProfile(ctx, profiles[idx])
	})
	if err != nil {
		return IngestSummary{Profiles: len(profiles)}, err
	}

	pairs := uniquePairs(profiles)
	var created atomic.Int64
	err = bi.run(ctx, len(pairs), func(ctx context.Context, idx int) error {
		ok, err := bi.repo.UpsertFriendship(ctx, pairs[idx][0], pairs[idx][1])
		if ok {
			created.Add(1)
		}
		return err
	})

	summary := IngestSummary{
		Profiles:           len(profiles),
		Friendships:        len(pairs),
		FriendshipsCreated: int(created.Load()),
	}
	if err != nil {
		return summary, err
	}

	persons, err := bi.repo.CountProfiles(ctx)
	if err != nil {
		return summary, fmt.Errorf("count persons after ingest: %w", err)
	}
	summary.Persons = persons
	if persons < int64(summary.Profiles) {
		bi.logger.Warn("graph holds fewer persons than ingested",
			"persons", persons,
			"profiles", summary.Profiles,
		)
	}

	bi.logger.Info("network ingested",
		"profiles", summary.Profiles,
		"friendships", summary.Friendships,
		"created", summary.FriendshipsCreated,
		"persons", summary.Persons,
		"workers", bi.workers,
	)
	return summary, nil
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(ctx context.Context, idx int) error) error {
	if total == 0 {
		return nil
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		taskErr TaskError
	)
	g.SetLimit(bi.workers)

	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			err := workerFn(ctx, idx)
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			mu.Lock()
			taskErr.append(err)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return taskErr.asError()
}

// uniquePairs lists each undirected friendship once, in the order its first
// endpoint appears.
func uniquePairs(profiles []domain.Profile) [][2]string {
	seen := make(map[[2]string]struct{})
	var pairs [][2]string
	for _, p := range profiles {
		for _, friend := range p.Friends {
			if friend == "" || friend == p.ID {
				continue
			}
			key := [2]string{p.ID, friend}
			if friend < p.ID {
				key = [2]string{friend, p.ID}
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, [2]string{p.ID, friend})
		}
	}
	return pairs
}
