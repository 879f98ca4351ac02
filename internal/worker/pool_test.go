package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPoolRaisesInvalidConcurrency(t *testing.T) {
	for _, n := range []int{-3, 0} {
		if got := NewPool(n).Workers(); got != 1 {
			t.Errorf("NewPool(%d).Workers() = %d, want 1", n, got)
		}
	}
}

func TestRunVisitsEveryIndexOnce(t *testing.T) {
	p := NewPool(4)

	var mu sync.Mutex
	seen := make(map[int]int)

	p.Run(context.Background(), 50, func(ctx context.Context, i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})

	if len(seen) != 50 {
		t.Fatalf("visited %d indices, want 50", len(seen))
	}
	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d visited %d times", i, count)
		}
	}
}

func TestRunZeroTasks(t *testing.T) {
	p := NewPool(4)

	called := false
	p.Run(context.Background(), 0, func(ctx context.Context, i int) {
		called = true
	})

	if called {
		t.Error("fn called for empty task set")
	}
}

func TestRunMoreWorkersThanTasks(t *testing.T) {
	p := NewPool(16)

	var count atomic.Int64
	p.Run(context.Background(), 3, func(ctx context.Context, i int) {
		count.Add(1)
	})

	if count.Load() != 3 {
		t.Errorf("fn called %d times, want 3", count.Load())
	}
}

func TestRunStopsDispatchOnCancel(t *testing.T) {
	p := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	var count atomic.Int64
	p.Run(ctx, 100, func(ctx context.Context, i int) {
		if count.Add(1) == 3 {
			cancel()
		}
		time.Sleep(time.Millisecond)
	})

	// The single worker cancels during task three; at most one more index
	// can already be in the channel.
	if got := count.Load(); got > 5 {
		t.Errorf("ran %d tasks after early cancel, expected dispatch to stop", got)
	}
}

func TestRunBlocksUntilCompletion(t *testing.T) {
	p := NewPool(8)

	var running atomic.Int64
	p.Run(context.Background(), 20, func(ctx context.Context, i int) {
		running.Add(1)
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
	})

	if got := running.Load(); got != 0 {
		t.Errorf("Run returned with %d tasks still in flight", got)
	}
}
