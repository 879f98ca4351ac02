package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cohergraph/cohergraph/internal/config"
)

const (
	defaultMaxConcurrent = 4
	defaultTimeout       = 30 * time.Second
)

// LocalClient talks to a self-hosted sentence-embedding bridge exposing an
// OpenAI-compatible /embeddings endpoint. Batches are dispatched with
// bounded concurrency.
type LocalClient struct {
	httpClient    *http.Client
	baseURL       string
	model         string
	dimension     int
	batchSize     int
	maxConcurrent int
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewLocalClient creates a client for a self-hosted embedding service.
func NewLocalClient(cfg config.EmbeddingConfig) (*LocalClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("local embedding provider requires a base URL")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	return &LocalClient{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		dimension:     cfg.Dimension,
		batchSize:     batchSize,
		maxConcurrent: defaultMaxConcurrent,
	}, nil
}

// EmbedTexts generates embeddings for a list of texts.
func (c *LocalClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))

	sem := make(chan struct{}, c.maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		go func(start int, batch []string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			embeddings, err := c.embedBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("batch at offset %d: %w", start, err)
				}
				return
			}
			for i, emb := range embeddings {
				results[start+i] = emb
			}
		}(start, texts[start:end])
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

// Dimension returns the configured embedding dimension.
func (c *LocalClient) Dimension() int {
	return c.dimension
}

func (c *LocalClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	jsonBody, err := json.Marshal(embeddingRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service error (status %d): %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index < len(embeddings) {
			embeddings[data.Index] = data.Embedding
		}
	}

	for i, emb := range embeddings {
		if emb == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}

	return embeddings, nil
}
