// Package recommend finds friend-of-friend candidates for a seed user and
// ranks them.
//
// The search is exactly two hops: the seed's friends are expanded once and
// their friends become candidates unless they are the seed or already one of
// its friends. It is not a configurable k-hop search.
package recommend

import (
	"fmt"
	"sort"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// GraphView is the read-only graph contract the engine traverses.
type GraphView interface {
	HasNode(id string) bool
	HasEdge(a, b string) bool
	Neighbors(id string) []string
}

// Option adjusts a single FindRecommendations call.
type Option func(*options)

type options struct {
	explain bool
}

// WithExplanation attaches the feature vector behind each score.
func WithExplanation() Option {
	return func(o *options) { o.explain = true }
}

// Engine is not safe for concurrent use with graph mutations.
type Engine struct {
	graph  GraphView
	scorer Scorer
}

// NewEngine wires a graph and a scorer.
func NewEngine(graph GraphView, scorer Scorer) *Engine {
	return &Engine{graph: graph, scorer: scorer}
}

// Scorer returns the scorer used for ranking.
func (e *Engine) Scorer() Scorer {
	return e.scorer
}

type queueItem struct {
	id    string
	depth int
}

// FindRecommendations returns candidates two hops from seed ordered by score,
// highest first. Ties keep discovery order. A seed without candidates yields
// an empty slice.
func (e *Engine) FindRecommendations(seed string, opts ...Option) ([]domain.Recommendation, error) {
	if !e.graph.HasNode(seed) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownUser, seed)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	queue := []queueItem{{id: seed, depth: 0}}
	visited := make(map[string]struct{})
	index := make(map[string]int)
	results := make([]domain.Recommendation, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[current.id]; ok {
			continue
		}
		visited[current.id] = struct{}{}

		for _, neighbor := range e.graph.Neighbors(current.id) {
			switch current.depth {
			case 0:
				queue = append(queue, queueItem{id: neighbor, depth: 1})
			case 1:
				if neighbor == seed || e.graph.HasEdge(seed, neighbor) {
					continue
				}
				if i, ok := index[neighbor]; ok {
					results[i].Via = append(results[i].Via, current.id)
					continue
				}
				score, err := e.scorer.Score(seed, neighbor)
				if err != nil {
					return nil, fmt.Errorf("score candidate %s: %w", neighbor, err)
				}
				rec := domain.Recommendation{
					UserID: neighbor,
					Score:  score.Value,
					Via:    []string{current.id},
				}
				if o.explain {
					features := score.Features
					rec.Features = &features
				}
				index[neighbor] = len(results)
				results = append(results, rec)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
