// Package repository contains the Cypher statements and record coercion for
// the fraud graph. Every exported method issues one or more statements
// through the graph client and converts the raw records into domain types;
// business rules such as deduplication and recommendation wording live in the
// service layer.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SoganiJ/InsuraX/internal/graph"
)

// Repository executes fraud-graph statements against a graph client.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

const pingCypher = `RETURN 1 AS ok`

// Ping issues a trivial read to confirm the graph store answers queries.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.client.ExecuteRead(ctx, pingCypher, nil); err != nil {
		return fmt.Errorf("ping graph store: %w", err)
	}
	return nil
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt(value any) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	default:
		return nil
	}
}

func toFloat64Slice(value any) []float64 {
	switch v := value.(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			out = append(out, toFloat64(item))
		}
		return out
	default:
		return nil
	}
}

// nameOrUnknown and emailOrFallback supply the placeholder strings the
// dashboard expects for nodes loaded without contact details.
func nameOrUnknown(value any) string {
	if s := toString(value); s != "" {
		return s
	}
	return "Unknown"
}

func emailOrFallback(value any) string {
	if s := toString(value); s != "" {
		return s
	}
	return "No email"
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
