// Package worker provides a generic concurrent worker pool for fan-out/fan-in
// over independent work items. The agent hub uses it to step several
// transition models in parallel, one goroutine per model at a time.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// Result pairs a processed value with its original index to preserve ordering.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Pool fans out items of type I to a fixed number of goroutine workers
// and collects results of type T preserving the original input order.
type Pool[I, T any] struct {
	concurrency int
}

// NewPool creates a worker pool with the given concurrency.
// If concurrency <= 0, defaults to runtime.NumCPU().
func NewPool[I, T any](concurrency int) *Pool[I, T] {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Pool[I, T]{concurrency: concurrency}
}

// Concurrency reports the worker cap.
func (p *Pool[I, T]) Concurrency() int {
	return p.concurrency
}

// Process distributes items across workers, applies fn to each, and returns
// results in the same order as the input slice. Errors from individual items
// are captured per-result rather than aborting the whole batch. Items not yet
// started when ctx is cancelled report ctx.Err().
func (p *Pool[I, T]) Process(ctx context.Context, items []I, fn func(context.Context, I) (T, error)) []Result[T] {
	if len(items) == 0 {
		return nil
	}

	// Cap concurrency to number of items
	workers := p.concurrency
	if workers > len(items) {
		workers = len(items)
	}

	type job struct {
		index int
		item  I
	}

	jobs := make(chan job, len(items))
	results := make([]Result[T], len(items))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results[j.index] = Result[T]{Index: j.index, Err: err}
					continue
				}
				val, err := fn(ctx, j.item)
				results[j.index] = Result[T]{
					Index: j.index,
					Value: val,
					Err:   err,
				}
			}
		}()
	}

	for i, item := range items {
		jobs <- job{index: i, item: item}
	}
	close(jobs)

	wg.Wait()

	return results
}
