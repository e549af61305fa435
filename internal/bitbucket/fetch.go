package bitbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"bbsync/internal/log"
)

const PageSize = 500

// FetchError describes a listing that could not be retrieved. Message is always
// shown, Cause only in verbose mode.
type FetchError struct {
	Message string
	Cause   string
	Timeout bool
}

func (e *FetchError) Error() string {
	return e.Message
}

// Detailed renders the message followed by the cause.
func (e *FetchError) Detailed() string {
	if e.Cause == "" {
		return e.Message
	}
	return e.Message + "\nCause: " + e.Cause
}

// RetryPolicy controls how timed out page requests are retried. Timeouts is shared
// by every fetch of a run: each timeout increments it and the wait before the retry
// is Backoff times its new value.
type RetryPolicy struct {
	Retries  int
	Backoff  time.Duration
	Timeouts *atomic.Int64
	// Sleep waits for d or until ctx is done. Nil means a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (p RetryPolicy) wait(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchPaginated requests every page of path, sequentially from start 0, and
// returns the accumulated values. naming identifies the listing in errors.
func FetchPaginated[T any](ctx context.Context, client Getter, naming string, path string, pageSize int, policy RetryPolicy) ([]T, error) {
	if policy.Timeouts == nil {
		policy.Timeouts = new(atomic.Int64)
	}
	var all []T
	start := 0
	for {
		page, err := fetchPage[T](ctx, client, naming, fmt.Sprintf("%s?limit=%d&start=%d", path, pageSize, start), policy)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Values...)
		if page.IsLastPage {
			return all, nil
		}
		if page.Size <= 0 {
			return nil, &FetchError{
				Message: fmt.Sprintf("Failed fetching %s from bitbucket, empty page at start %d is not the last page.", naming, start),
			}
		}
		start += page.Size
	}
}

func fetchPage[T any](ctx context.Context, client Getter, naming string, pagePath string, policy RetryPolicy) (Page[T], error) {
	var page Page[T]
	for attempt := 1; ; attempt++ {
		resp, err := client.Get(ctx, pagePath)
		if err != nil {
			var transportErr *TransportError
			if !errors.As(err, &transportErr) || !transportErr.Timeout {
				return page, &FetchError{
					Message: fmt.Sprintf("Failed fetching %s from bitbucket.", naming),
					Cause:   err.Error(),
				}
			}
			n := policy.Timeouts.Add(1)
			if attempt > policy.Retries {
				return page, &FetchError{
					Message: fmt.Sprintf("Failed fetching %s from bitbucket, timed out %d times.", naming, attempt),
					Cause:   err.Error(),
					Timeout: true,
				}
			}
			backoff := policy.Backoff * time.Duration(n)
			logger.Log.Warnf("%s timed out (attempt %d of %d), retrying in %s", pagePath, attempt, policy.Retries+1, backoff)
			if err := policy.wait(ctx, backoff); err != nil {
				return page, &FetchError{
					Message: fmt.Sprintf("Failed fetching %s from bitbucket.", naming),
					Cause:   err.Error(),
				}
			}
			continue
		}
		if resp.StatusCode >= 300 {
			return page, &FetchError{
				Message: fmt.Sprintf("Failed fetching %s from bitbucket, status code: %s.", naming, resp.StatusText()),
				Cause:   fmt.Sprintf("Body: '%s'", resp.Body),
			}
		}
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return page, &FetchError{
				Message: fmt.Sprintf("Failed fetching %s from bitbucket, bad json format.", naming),
				Cause:   err.Error(),
			}
		}
		return page, nil
	}
}
