// Package batch runs independent operations with a bounded number in flight.
//
// The bound is a counting permit, not a worker pool: every operation gets its
// own goroutine, and a buffered channel limits how many run concurrently.
// Results come back in submission order with per-item failure isolation, so a
// single bad input never aborts the rest of the batch.
package batch

import (
	"context"
	"sync"
)

// Result holds the outcome of one batch slot. Exactly one of Value or Err is
// meaningful; Err is nil on success.
type Result[T any] struct {
	Value T
	Err   error
}

// Run executes fn for indices 0..n-1 with at most limit operations in flight.
// A limit below one is treated as one. The returned slice has length n and
// slot i always corresponds to input i.
//
// Context cancellation stops items that have not yet acquired a permit; items
// already running are left to observe ctx themselves.
func Run[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, index int) (T, error)) []Result[T] {
	results := make([]Result[T], n)
	if n <= 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	permits := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			select {
			case permits <- struct{}{}:
			case <-ctx.Done():
				results[index].Err = ctx.Err()
				return
			}
			defer func() { <-permits }()
			results[index].Value, results[index].Err = fn(ctx, index)
		}(i)
	}
	wg.Wait()
	return results
}

// SuccessCount returns how many slots completed without error.
func SuccessCount[T any](results []Result[T]) int {
	count := 0
	for _, r := range results {
		if r.Err == nil {
			count++
		}
	}
	return count
}

// Errors returns the non-nil errors in slot order.
func Errors[T any](results []Result[T]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
