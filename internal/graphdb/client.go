// Package graphdb is the thin client the repository uses to mirror the social
// network into a Bolt-compatible graph database.
package graphdb

import (
	"context"
	"errors"
	"time"
)

// Client runs parameterized Cypher inside managed transactions.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the collected records and the write counters of one statement.
type Result struct {
	Records  []Record
	Counters Counters
}

// Counters reports what a write statement changed.
type Counters struct {
	NodesCreated         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// Record maps returned column names to values.
type Record map[string]any

// Options configures a Neo4j client.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	QueryTimeout   time.Duration
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
