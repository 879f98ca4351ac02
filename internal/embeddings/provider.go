package embeddings

import (
	"context"
	"fmt"

	"github.com/cohergraph/cohergraph/internal/config"
)

// Embedder maps sentences to fixed-length vectors. Implementations must
// return one row per input text, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// NewEmbedder constructs the configured embedding provider.
func NewEmbedder(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "local":
		return NewLocalClient(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
