package pipe

import (
	"context"
	"time"
)

// RateLimit forwards items from input at no more than ratePerSecond items per second.
// The output channel is closed when input is drained or ctx is done. Rates too high
// to space out by a ticker forward items unthrottled.
func RateLimit[T any](ctx context.Context, input <-chan T, ratePerSecond int, bufferSize int) <-chan T {
	output := make(chan T, bufferSize)
	go func() {
		defer close(output)
		interval := time.Duration(0)
		if ratePerSecond > 0 {
			interval = time.Second / time.Duration(ratePerSecond)
		}
		if interval <= 0 {
			for item := range input {
				select {
				case <-ctx.Done():
					return
				case output <- item:
				}
			}
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for item := range input {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			output <- item
		}
	}()
	return output
}
