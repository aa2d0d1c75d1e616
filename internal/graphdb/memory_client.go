package graphdb

import (
	"context"
	"maps"
	"sync"
)

// AccessMode distinguishes read from write statements in a MemoryClient log.
type AccessMode int

const (
	ReadAccess AccessMode = iota
	WriteAccess
)

// Statement is one Cypher call observed by a MemoryClient.
type Statement struct {
	Mode   AccessMode
	Query  string
	Params map[string]any
}

// Responder computes the answer for a statement.
type Responder func(Statement) (Result, error)

// MemoryClient records statements and answers them from queued results or a
// Responder. Queued results take precedence.
type MemoryClient struct {
	mu        sync.Mutex
	log       []Statement
	queued    map[AccessMode][]Result
	responder Responder
	err       error
	pingErr   error
	closed    bool
}

// NewMemoryClient returns a client that answers every statement with an
// empty Result.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{queued: make(map[AccessMode][]Result)}
}

// WithError makes every subsequent statement fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError makes VerifyConnectivity fail with err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
	return m
}

// WithResponder installs fn as the fallback answer source.
func (m *MemoryClient) WithResponder(fn Responder) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = fn
	return m
}

// Enqueue appends a result for the next statement of the given mode.
func (m *MemoryClient) Enqueue(mode AccessMode, res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued[mode] = append(m.queued[mode], res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(WriteAccess, cypher, params)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(ReadAccess, cypher, params)
}

func (m *MemoryClient) execute(mode AccessMode, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	stmt := Statement{Mode: mode, Query: cypher, Params: maps.Clone(params)}
	m.log = append(m.log, stmt)

	if queue := m.queued[mode]; len(queue) > 0 {
		m.queued[mode] = queue[1:]
		return queue[0], nil
	}
	if m.responder != nil {
		return m.responder(stmt)
	}
	return Result{}, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Statements returns every observed statement in call order.
func (m *MemoryClient) Statements() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.log...)
}

// Writes returns only the write statements.
func (m *MemoryClient) Writes() []Statement {
	return m.filter(WriteAccess)
}

// Reads returns only the read statements.
func (m *MemoryClient) Reads() []Statement {
	return m.filter(ReadAccess)
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MemoryClient) filter(mode AccessMode) []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Statement
	for _, stmt := range m.log {
		if stmt.Mode == mode {
			out = append(out, stmt)
		}
	}
	return out
}
