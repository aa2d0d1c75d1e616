// Package socialgraph holds the in-memory profile store and the undirected
// friendship graph derived from it.
//
// Neither Graph nor ProfileStore is safe for concurrent use. The owner of a
// Session must serialize edits against queries.
package socialgraph

import (
	"fmt"
	"slices"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// Graph is an undirected simple graph keyed by user identifier. Neighbor
// iteration follows edge insertion order, which keeps traversals deterministic.
type Graph struct {
	order     []string
	adjacency map[string][]string
	edges     map[string]map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edges:     make(map[string]map[string]struct{}),
	}
}

// AddNode inserts id and reports whether it was new.
func (g *Graph) AddNode(id string) bool {
	if _, ok := g.adjacency[id]; ok {
		return false
	}
	g.order = append(g.order, id)
	g.adjacency[id] = nil
	g.edges[id] = make(map[string]struct{})
	return true
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.adjacency[id]
	return ok
}

// AddEdge connects a and b. Both nodes must already exist. It reports whether
// the edge was new.
func (g *Graph) AddEdge(a, b string) (bool, error) {
	if a == b {
		return false, fmt.Errorf("%w: %s", domain.ErrSelfFriendship, a)
	}
	if !g.HasNode(a) {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownUser, a)
	}
	if !g.HasNode(b) {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownUser, b)
	}
	if g.HasEdge(a, b) {
		return false, nil
	}
	g.adjacency[a] = append(g.adjacency[a], b)
	g.adjacency[b] = append(g.adjacency[b], a)
	g.edges[a][b] = struct{}{}
	g.edges[b][a] = struct{}{}
	return true, nil
}

// RemoveEdge disconnects a and b and reports whether an edge was removed.
func (g *Graph) RemoveEdge(a, b string) bool {
	if !g.HasEdge(a, b) {
		return false
	}
	delete(g.edges[a], b)
	delete(g.edges[b], a)
	g.adjacency[a] = removeValue(g.adjacency[a], b)
	g.adjacency[b] = removeValue(g.adjacency[b], a)
	return true
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	set, ok := g.edges[a]
	if !ok {
		return false
	}
	_, ok = set[b]
	return ok
}

// Neighbors returns a copy of the neighbors of id, nil if id is unknown.
func (g *Graph) Neighbors(id string) []string {
	return slices.Clone(g.adjacency[id])
}

// Degree returns the number of neighbors of id.
func (g *Graph) Degree(id string) int {
	return len(g.adjacency[id])
}

// Nodes returns node identifiers in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, neighbors := range g.adjacency {
		total += len(neighbors)
	}
	return total / 2
}

func removeValue(values []string, target string) []string {
	idx := slices.Index(values, target)
	if idx < 0 {
		return values
	}
	return slices.Delete(values, idx, idx+1)
}
