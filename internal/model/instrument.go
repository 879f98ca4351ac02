package model

import (
	"context"

	"github.com/cohergraph/cohergraph/internal/graph"
	"github.com/cohergraph/cohergraph/internal/metrics"
)

// Instrumented wraps a prediction client and counts heuristic fallbacks.
type Instrumented struct {
	inner *Client
}

func Instrument(inner *Client) *Instrumented {
	return &Instrumented{inner: inner}
}

func (m *Instrumented) Predict(ctx context.Context, g *graph.Graph) (float64, []float64, error) {
	score, importances, err := m.inner.Predict(ctx, g)
	if err != nil {
		metrics.OracleFailures.Inc()
	}
	return score, importances, err
}
