package server

import (
	"context"
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
// A process that booted degraded carries an unavailable client, so its probe
// keeps failing with graph.ErrUnavailable until the store comes back.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("graph store: %w", err)
	}
	return nil
}
