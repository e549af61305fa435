package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"bbsync/internal/color"
	"bbsync/internal/counter"
	"bbsync/internal/gitrepo"
	"bbsync/internal/log"
	"bbsync/internal/metrics"
	"bbsync/internal/pipe"
)

type CatalogOptions struct {
	// Client overrides the HTTP client built from the connection.
	Client  Getter
	Metrics *metrics.Metrics
	// Progress counts catalog entries whose repositories have been listed.
	Progress *counter.Counter
	Timeouts *atomic.Int64
	Sleep    func(ctx context.Context, d time.Duration) error
}

type catalog struct {
	conn     Connection
	client   Getter
	policy   RetryPolicy
	progress *counter.Counter
}

type entryRepositories struct {
	records []RepositoryRecord
	err     error
}

// FetchCatalog lists the repositories of the selected projects and users, sorted by
// project key and name. Failing to list the projects or users at all is fatal; a
// failing repository listing of a single entry is logged and skipped.
func FetchCatalog(ctx context.Context, conn Connection, opts CatalogOptions) ([]gitrepo.Repository, error) {
	c := catalog{
		conn:     conn,
		client:   opts.Client,
		progress: opts.Progress,
		policy: RetryPolicy{
			Retries:  conn.Retries,
			Backoff:  conn.Backoff,
			Timeouts: opts.Timeouts,
			Sleep:    opts.Sleep,
		},
	}
	if c.client == nil {
		c.client = NewClient(conn, opts.Metrics)
	}
	if c.progress == nil {
		c.progress = counter.NewCounter()
	}
	if c.policy.Timeouts == nil {
		c.policy.Timeouts = new(atomic.Int64)
	}

	entries, err := c.entries(ctx)
	if err != nil {
		return nil, err
	}
	entries = FilterEntries(entries, conn.Keys)
	logger.Log.Infof("Listing repositories of %d catalog entries", len(entries))
	c.progress.AddTotal(len(entries))

	results := pipe.Dispatch(ctx, entries, pipe.Limits{Concurrency: conn.HTTPConcurrency}, c.fetchRepositories)

	var repos []gitrepo.Repository
	for _, result := range results {
		if result.err != nil {
			c.logFetchError(result.err)
			continue
		}
		repos = append(repos, ExtractRepositories(result.records, conn)...)
	}
	repos = FilterRepositories(repos, conn.Keys)
	repos = lo.UniqBy(repos, func(repo gitrepo.Repository) string {
		return repo.String()
	})
	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].ProjectKey != repos[j].ProjectKey {
			return repos[i].ProjectKey < repos[j].ProjectKey
		}
		return repos[i].Name < repos[j].Name
	})
	logger.Log.Infof("Found %s repositories", color.FgGreen("%d", len(repos)))
	return repos, nil
}

func (c catalog) entries(ctx context.Context) ([]CatalogEntry, error) {
	switch c.conn.Source {
	case SourceUsers:
		return c.users(ctx)
	case SourceAll:
		users, usersErr := c.users(ctx)
		projects, projectsErr := c.projects(ctx)
		switch {
		case usersErr != nil && projectsErr != nil:
			return nil, combineFetchErrors(usersErr, projectsErr)
		case usersErr != nil:
			logger.Log.Warnf("Failed loading user repos due to '%v'", usersErr)
		case projectsErr != nil:
			logger.Log.Warnf("Failed loading project repos due to '%v'", projectsErr)
		}
		return append(users, projects...), nil
	default:
		return c.projects(ctx)
	}
}

func (c catalog) projects(ctx context.Context) ([]CatalogEntry, error) {
	logger.Log.Infof("Started fetching projects..")
	projects, err := FetchPaginated[ProjectDescriptor](ctx, c.client, "projects", "/rest/api/1.0/projects", PageSize, c.policy)
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p ProjectDescriptor, _ int) CatalogEntry {
		return ProjectCatalogEntry(p)
	}), nil
}

func (c catalog) users(ctx context.Context) ([]CatalogEntry, error) {
	logger.Log.Infof("Started fetching users..")
	users, err := FetchPaginated[UserDescriptor](ctx, c.client, "users", "/rest/api/1.0/users", PageSize, c.policy)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u UserDescriptor, _ int) CatalogEntry {
		return UserCatalogEntry(u)
	}), nil
}

func (c catalog) fetchRepositories(ctx context.Context, entry CatalogEntry) entryRepositories {
	defer c.progress.Add(1)
	records, err := FetchPaginated[RepositoryRecord](ctx, c.client, entry.String(), entry.ReposPath(), PageSize, c.policy)
	return entryRepositories{records: records, err: err}
}

func (c catalog) logFetchError(err error) {
	var fetchErr *FetchError
	if c.conn.Verbose && errors.As(err, &fetchErr) {
		logger.Log.Errorf("%s Cause: %s", fetchErr.Message, fetchErr.Cause)
		return
	}
	logger.Log.Errorf("%v", err)
}

func combineFetchErrors(usersErr, projectsErr error) error {
	combined := &FetchError{
		Message: fmt.Sprintf("Failed loading user repos due to '%v'. Failed loading project repos due to '%v'", usersErr, projectsErr),
	}
	var u, p *FetchError
	if errors.As(usersErr, &u) && errors.As(projectsErr, &p) {
		combined.Cause = fmt.Sprintf("users: %s; projects: %s", u.Cause, p.Cause)
		combined.Timeout = u.Timeout && p.Timeout
	}
	return combined
}
