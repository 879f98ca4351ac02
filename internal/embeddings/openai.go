package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cohergraph/cohergraph/internal/config"
)

// OpenAIProvider generates embeddings through the OpenAI API.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	dimension int
	batchSize int
}

// NewOpenAIProvider creates an OpenAI-backed embedder.
func NewOpenAIProvider(cfg config.EmbeddingConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		dimension: cfg.Dimension,
		batchSize: batchSize,
	}, nil
}

// EmbedTexts generates embeddings for the given texts, batched.
func (p *OpenAIProvider) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(p.model),
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}

		for _, data := range resp.Data {
			idx := start + data.Index
			if idx < len(results) {
				results[idx] = data.Embedding
			}
		}
	}

	for i, emb := range results {
		if emb == nil {
			return nil, fmt.Errorf("no embedding returned for text %d", i)
		}
	}

	return results, nil
}

// Dimension returns the configured embedding dimension.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}
