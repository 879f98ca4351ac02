package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/graph"
)

// Client queries an external graph scoring service for a coherence estimate
// and per-node importance weights. The service is optional; callers must
// tolerate every failure mode here.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

type predictRequest struct {
	NodeFeatures [][]float64 `json:"node_features"`
	EdgeIndex    [][2]int    `json:"edge_index"`
	EdgeWeights  []float64   `json:"edge_weights"`
}

type predictResponse struct {
	Score           float64   `json:"score"`
	NodeImportances []float64 `json:"node_importances"`
}

// NewClient creates a model oracle client. Returns nil when no URL is
// configured, which callers treat as "oracle absent".
func NewClient(cfg config.OracleConfig) *Client {
	if cfg.URL == "" {
		return nil
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.URL,
	}
}

// Predict sends the graph to the scoring service and returns its scalar
// estimate and node importances.
func (c *Client) Predict(ctx context.Context, g *graph.Graph) (float64, []float64, error) {
	edgeIndex := make([][2]int, len(g.Edges))
	for i, e := range g.Edges {
		edgeIndex[i] = [2]int{e.Source, e.Target}
	}

	jsonBody, err := json.Marshal(predictRequest{
		NodeFeatures: g.NodeFeatures,
		EdgeIndex:    edgeIndex,
		EdgeWeights:  g.Weights,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(jsonBody))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, nil, fmt.Errorf("scoring service error (status %d): %s", resp.StatusCode, string(body))
	}

	var predResp predictResponse
	if err := json.Unmarshal(body, &predResp); err != nil {
		return 0, nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(predResp.NodeImportances) != 0 && len(predResp.NodeImportances) != g.NumNodes() {
		return 0, nil, fmt.Errorf("importance length %d does not match %d nodes",
			len(predResp.NodeImportances), g.NumNodes())
	}

	return predResp.Score, predResp.NodeImportances, nil
}
