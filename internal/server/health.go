package server

import (
	"context"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/graphdb"
)

// HealthService is consulted by /healthz.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService pings the Neo4j mirror. With a nil client the mirror is
// disabled and Probe always succeeds.
type GraphHealthService struct {
	Client graphdb.Client
}

// Probe checks connectivity to the mirror.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

// Enabled reports whether a mirror is configured.
func (s GraphHealthService) Enabled() bool {
	return s.Client != nil
}
