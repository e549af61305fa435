package syncCommand

import (
	"context"
	"errors"
	"fmt"

	"bbsync/internal/gitrepo"
	"bbsync/internal/pipe"
	"bbsync/internal/report"
)

// ErrNotStarted is the cause of a failure for a repository whose sync never began
// because the run was cancelled.
var ErrNotStarted = errors.New("sync not started")

type Options struct {
	Synchronizer  gitrepo.Synchronizer
	Concurrency   int
	RatePerSecond int
	// Progress is called once per finished repository, from the worker goroutine.
	Progress func(gitrepo.Outcome)
}

// Sync brings every repository up to date with at most options.Concurrency git
// operations in flight. A failing repository never stops the others.
func Sync(ctx context.Context, repos []gitrepo.Repository, options Options) report.Report {
	limits := pipe.Limits{Concurrency: options.Concurrency, RatePerSecond: options.RatePerSecond}
	outcomes := pipe.Dispatch(ctx, repos, limits, func(ctx context.Context, repo gitrepo.Repository) gitrepo.Outcome {
		outcome := options.Synchronizer.Sync(ctx, repo)
		if options.Progress != nil {
			options.Progress(outcome)
		}
		return outcome
	})

	// A cancelled rate limiter stops handing out work; those slots stay zero.
	for i, outcome := range outcomes {
		if outcome.Repository == (gitrepo.Repository{}) {
			outcomes[i] = notStarted(ctx, repos[i])
		}
	}
	return report.Aggregate(outcomes)
}

func notStarted(ctx context.Context, repo gitrepo.Repository) gitrepo.Outcome {
	cause := ErrNotStarted
	if err := ctx.Err(); err != nil {
		cause = fmt.Errorf("%w: %w", ErrNotStarted, err)
	}
	return gitrepo.Outcome{
		Repository: repo,
		Kind:       gitrepo.Failed,
		Err:        &gitrepo.SyncError{Repository: repo.String(), Step: "not synced", Err: cause},
	}
}
