package gitrepo

import "context"

// Synchronizer brings one local working copy in line with its remote.
type Synchronizer interface {
	Sync(ctx context.Context, repo Repository) Outcome
}
