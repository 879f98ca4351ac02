package embeddings

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type stubEmbedder struct {
	dimension int
	calls     [][]string
	err       error
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1.0}
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int {
	return s.dimension
}

func TestCacheKeyDependsOnModelAndText(t *testing.T) {
	a := CacheKey("model-a", "hello")
	b := CacheKey("model-b", "hello")
	c := CacheKey("model-a", "world")

	if a == b {
		t.Error("keys for different models collide")
	}
	if a == c {
		t.Error("keys for different texts collide")
	}
	if a != CacheKey("model-a", "hello") {
		t.Error("key not stable for identical input")
	}
	if len(a) != 16 {
		t.Errorf("key length = %d, want 16", len(a))
	}
}

func TestCachedEmbedderServesRepeatsFromCache(t *testing.T) {
	stub := &stubEmbedder{dimension: 2}
	cache := NewMemoryCache(time.Minute, time.Minute)
	embedder := NewCachedEmbedder(stub, cache, "test-model")

	texts := []string{"first sentence", "second sentence"}

	got1, err := embedder.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got2, err := embedder.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(stub.calls))
	}
	if !reflect.DeepEqual(got1, got2) {
		t.Errorf("cached result differs: %v vs %v", got1, got2)
	}
}

func TestCachedEmbedderFetchesOnlyMisses(t *testing.T) {
	stub := &stubEmbedder{dimension: 2}
	cache := NewMemoryCache(time.Minute, time.Minute)
	embedder := NewCachedEmbedder(stub, cache, "test-model")

	if _, err := embedder.EmbedTexts(context.Background(), []string{"alpha"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := embedder.EmbedTexts(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if len(stub.calls) != 2 {
		t.Fatalf("provider called %d times, want 2", len(stub.calls))
	}
	if !reflect.DeepEqual(stub.calls[1], []string{"beta"}) {
		t.Errorf("second call fetched %v, want only the miss [beta]", stub.calls[1])
	}
}

func TestCachedEmbedderPreservesInputOrder(t *testing.T) {
	stub := &stubEmbedder{dimension: 2}
	cache := NewMemoryCache(time.Minute, time.Minute)
	embedder := NewCachedEmbedder(stub, cache, "test-model")

	// Prime the cache with the middle text only.
	if _, err := embedder.EmbedTexts(context.Background(), []string{"bb"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := embedder.EmbedTexts(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLens := []float32{1, 2, 3}
	for i, row := range got {
		if row[0] != wantLens[i] {
			t.Errorf("row %d = %v, want first component %v", i, row, wantLens[i])
		}
	}
}

func TestCachedEmbedderPropagatesProviderError(t *testing.T) {
	stub := &stubEmbedder{err: errors.New("provider down")}
	cache := NewMemoryCache(time.Minute, time.Minute)
	embedder := NewCachedEmbedder(stub, cache, "test-model")

	if _, err := embedder.EmbedTexts(context.Background(), []string{"text"}); err == nil {
		t.Error("expected provider error to propagate")
	}
}

func TestCachedEmbedderEmptyInput(t *testing.T) {
	stub := &stubEmbedder{}
	embedder := NewCachedEmbedder(stub, NoOpCache{}, "test-model")

	got, err := embedder.EmbedTexts(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result for empty input, got %v", got)
	}
	if len(stub.calls) != 0 {
		t.Error("provider called for empty input")
	}
}

func TestNoOpCacheNeverHits(t *testing.T) {
	stub := &stubEmbedder{}
	embedder := NewCachedEmbedder(stub, NoOpCache{}, "test-model")

	texts := []string{"same text"}
	if _, err := embedder.EmbedTexts(context.Background(), texts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := embedder.EmbedTexts(context.Background(), texts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.calls) != 2 {
		t.Errorf("provider called %d times, want 2 with no-op cache", len(stub.calls))
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "k1", []float32{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, found, err := cache.Get(ctx, "k1")
	if err != nil || !found {
		t.Fatalf("Get(k1) = found=%v err=%v, want hit", found, err)
	}
	if !reflect.DeepEqual(got, []float32{1, 2, 3}) {
		t.Errorf("Get(k1) = %v, want [1 2 3]", got)
	}

	if _, found, _ := cache.Get(ctx, "missing"); found {
		t.Error("Get(missing) reported a hit")
	}

	multi, err := cache.GetMulti(ctx, []string{"k1", "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(multi) != 1 {
		t.Errorf("GetMulti returned %d entries, want 1", len(multi))
	}
}
