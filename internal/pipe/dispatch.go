// Package pipe holds the bounded fan-out/fan-in used for catalog requests and
// git operations.
package pipe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	MaxConcurrency   = 100
	MaxRatePerSecond = 1000
)

// Limits bounds a Dispatch. Concurrency below 1 is treated as 1.
// RatePerSecond of 0 disables start-rate limiting.
type Limits struct {
	Concurrency   int
	RatePerSecond int
}

// Dispatch runs work for every item with at most limits.Concurrency calls in flight
// and returns every result, indexed like items. A failing unit never stops the others;
// failures travel inside R.
func Dispatch[T, R any](ctx context.Context, items []T, limits Limits, work func(context.Context, T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	indexes := make(chan int, len(items))
	for i := range items {
		indexes <- i
	}
	close(indexes)

	var source <-chan int = indexes
	if limits.RatePerSecond > 0 {
		source = RateLimit(ctx, source, limits.RatePerSecond, max(limits.Concurrency, 1))
	}

	var group errgroup.Group
	group.SetLimit(max(limits.Concurrency, 1))
	for i := range source {
		group.Go(func() error {
			results[i] = work(ctx, items[i])
			return nil
		})
	}
	_ = group.Wait()
	return results
}
