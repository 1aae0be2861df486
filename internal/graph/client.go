package graph

import (
	"context"
	"errors"
)

// Client defines the minimal contract the repository needs to talk to the
// underlying graph store.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record holds one result row keyed by the aliases of the query's RETURN
// clause. Values keep whatever dynamic type the driver produced; the
// repository coerces them before they reach domain types.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

// ErrUnavailable indicates the graph store could not be reached. Callers can
// match it with errors.Is to distinguish connectivity problems from query
// failures.
var ErrUnavailable = errors.New("graph store unavailable")
