package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/graph"
)

func testGraph() *graph.Graph {
	return &graph.Graph{
		NodeFeatures: [][]float64{{0.1, 0.2, 0.0}, {0.3, 0.4, 1.0}},
		Edges:        []graph.Edge{{Source: 0, Target: 1}, {Source: 1, Target: 0}},
		Weights:      []float64{0.8, 0.8},
	}
}

func TestNewClientAbsentWithoutURL(t *testing.T) {
	if c := NewClient(config.OracleConfig{}); c != nil {
		t.Error("expected nil client when no URL is configured")
	}
}

func TestPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}

		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.NodeFeatures) != 2 {
			t.Errorf("expected 2 nodes, got %d", len(req.NodeFeatures))
		}
		if len(req.EdgeIndex) != 2 || req.EdgeIndex[0] != [2]int{0, 1} {
			t.Errorf("unexpected edge index %v", req.EdgeIndex)
		}

		json.NewEncoder(w).Encode(predictResponse{
			Score:           0.85,
			NodeImportances: []float64{0.6, 0.4},
		})
	}))
	defer srv.Close()

	client := NewClient(config.OracleConfig{URL: srv.URL, TimeoutSec: 5})

	score, importances, err := client.Predict(context.Background(), testGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.85 {
		t.Errorf("score = %v, want 0.85", score)
	}
	if len(importances) != 2 {
		t.Errorf("expected 2 importances, got %d", len(importances))
	}
}

func TestPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(config.OracleConfig{URL: srv.URL})

	if _, _, err := client.Predict(context.Background(), testGraph()); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestPredictRejectsImportanceLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{
			Score:           0.5,
			NodeImportances: []float64{0.1, 0.2, 0.3},
		})
	}))
	defer srv.Close()

	client := NewClient(config.OracleConfig{URL: srv.URL})

	if _, _, err := client.Predict(context.Background(), testGraph()); err == nil {
		t.Error("expected error for mismatched importance length")
	}
}

func TestPredictAllowsEmptyImportances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{Score: 0.7})
	}))
	defer srv.Close()

	client := NewClient(config.OracleConfig{URL: srv.URL})

	score, importances, err := client.Predict(context.Background(), testGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.7 {
		t.Errorf("score = %v, want 0.7", score)
	}
	if importances != nil {
		t.Errorf("expected nil importances, got %v", importances)
	}
}

func TestPredictUnreachableService(t *testing.T) {
	client := NewClient(config.OracleConfig{URL: "http://127.0.0.1:1", TimeoutSec: 1})

	if _, _, err := client.Predict(context.Background(), testGraph()); err == nil {
		t.Error("expected error for unreachable service")
	}
}
