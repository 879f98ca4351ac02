package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/cohergraph/cohergraph/pkg/logger"
)

// Cache stores sentence embeddings keyed by content hash. Cache failures
// are never fatal; callers log and continue.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, embedding []float32) error
	GetMulti(ctx context.Context, keys []string) (map[string][]float32, error)
	SetMulti(ctx context.Context, embeddings map[string][]float32) error
}

// CacheKey derives a stable cache key from the model name and text.
func CacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model + ":" + text))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// CachedEmbedder wraps an Embedder with a cache layer.
type CachedEmbedder struct {
	embedder Embedder
	cache    Cache
	model    string
}

// NewCachedEmbedder wraps embedder so repeated sentences skip the provider.
func NewCachedEmbedder(embedder Embedder, cache Cache, model string) *CachedEmbedder {
	return &CachedEmbedder{embedder: embedder, cache: cache, model: model}
}

// EmbedTexts returns embeddings, serving repeats from cache.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = CacheKey(c.model, text)
	}

	cached, err := c.cache.GetMulti(ctx, keys)
	if err != nil {
		logger.Warn("embedding cache read failed", zap.Error(err))
		cached = make(map[string][]float32)
	}

	var uncachedTexts []string
	var uncachedIndices []int
	for i, key := range keys {
		if _, ok := cached[key]; !ok {
			uncachedTexts = append(uncachedTexts, texts[i])
			uncachedIndices = append(uncachedIndices, i)
		}
	}

	var fresh [][]float32
	if len(uncachedTexts) > 0 {
		fresh, err = c.embedder.EmbedTexts(ctx, uncachedTexts)
		if err != nil {
			return nil, err
		}

		toCache := make(map[string][]float32, len(fresh))
		for i, idx := range uncachedIndices {
			toCache[keys[idx]] = fresh[i]
		}
		if err := c.cache.SetMulti(ctx, toCache); err != nil {
			logger.Warn("embedding cache write failed", zap.Error(err))
		}
	}

	results := make([][]float32, len(texts))
	freshIdx := 0
	for i, key := range keys {
		if emb, ok := cached[key]; ok {
			results[i] = emb
		} else {
			results[i] = fresh[freshIdx]
			freshIdx++
		}
	}

	return results, nil
}

// Dimension returns the underlying embedder's dimension.
func (c *CachedEmbedder) Dimension() int {
	return c.embedder.Dimension()
}

// NoOpCache never stores anything. Useful in tests.
type NoOpCache struct{}

func (NoOpCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	return nil, false, nil
}

func (NoOpCache) Set(ctx context.Context, key string, embedding []float32) error {
	return nil
}

func (NoOpCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	return make(map[string][]float32), nil
}

func (NoOpCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	return nil
}
