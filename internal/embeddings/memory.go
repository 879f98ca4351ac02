package embeddings

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process embedding cache with TTL eviction.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. Entries expire after defaultTTL
// and are swept every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	if val, found := c.cache.Get(key); found {
		return val.([]float32), true, nil
	}
	return nil, false, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, embedding []float32) error {
	c.cache.Set(key, embedding, gocache.DefaultExpiration)
	return nil
}

func (c *MemoryCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	found := make(map[string][]float32)
	for _, key := range keys {
		if val, ok := c.cache.Get(key); ok {
			found[key] = val.([]float32)
		}
	}
	return found, nil
}

func (c *MemoryCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	for key, emb := range embeddings {
		c.cache.Set(key, emb, gocache.DefaultExpiration)
	}
	return nil
}
