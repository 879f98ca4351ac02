package worker

import (
	"context"
	"sync"
)

// Pool fans indexed tasks out over a fixed number of goroutines. Batch
// evaluation writes each result into a caller-owned slice slot, so no
// result channel or ordering pass is needed.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given concurrency. Values below one are
// raised to one.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the pool's concurrency.
func (p *Pool) Workers() int {
	return p.workers
}

// Run invokes fn for every index in [0, n) using up to Workers goroutines
// and blocks until all invocations return. A cancelled context stops the
// dispatch of indices not yet started; running tasks observe ctx themselves.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}

	indices := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > n {
		workers = n
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return
		case indices <- i:
		}
	}

	close(indices)
	wg.Wait()
}
