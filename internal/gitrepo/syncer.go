package gitrepo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"bbsync/internal/color"
	"bbsync/internal/gitremote"
	"bbsync/internal/log"
	"bbsync/internal/metrics"
	"bbsync/internal/sh"
)

type Options struct {
	OutputDirectory string
	// ResetState discards local changes and checks out the default branch before updating.
	ResetState bool
}

// Syncer clones absent repositories and fast-forwards present ones to their
// remote default branch.
type Syncer struct {
	runner  sh.Runner
	options Options
	metrics *metrics.Metrics
}

// GitEnv is the environment every git process runs with. Prompting for a missing
// credential would hang a batch run, and the parsers expect untranslated output.
var GitEnv = []string{"GIT_TERMINAL_PROMPT=0", "LC_ALL=C"}

func NewSyncer(runner sh.Runner, options Options, m *metrics.Metrics) *Syncer {
	if options.OutputDirectory == "" {
		options.OutputDirectory = "."
	}
	return &Syncer{runner: runner, options: options, metrics: m}
}

func (s *Syncer) Sync(ctx context.Context, repo Repository) Outcome {
	start := time.Now()
	outcome := s.sync(ctx, repo)
	s.metrics.RepoSync(outcome.Kind.String(), start)
	if outcome.Failed() {
		logger.Log.Errorf("%s: %v", color.FgRed("%s", repo.String()), outcome.Err)
	} else {
		logger.Log.Infof("%s: %s", color.FgMagenta("%s", repo.String()), outcome.Kind)
	}
	return outcome
}

func (s *Syncer) sync(ctx context.Context, repo Repository) Outcome {
	dir := repo.Dir(s.options.OutputDirectory)
	exists, err := dirExists(dir)
	if err != nil {
		return failed(repo, "failed checking local directory", err)
	}
	if !exists {
		return s.clone(ctx, repo)
	}
	return s.update(ctx, repo, dir)
}

func (s *Syncer) clone(ctx context.Context, repo Repository) Outcome {
	projectDir := repo.ProjectDir(s.options.OutputDirectory)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return failed(repo, "failed creating directory "+projectDir, err)
	}
	if _, err := s.git(ctx, projectDir, "clone", repo.URL, repo.Name); err != nil {
		return failed(repo, "failed git clone", err)
	}
	return Outcome{Repository: repo, Kind: Cloned}
}

func (s *Syncer) update(ctx context.Context, repo Repository, dir string) Outcome {
	var defaultBranch string
	var err error
	if s.options.ResetState {
		if _, err := s.git(ctx, dir, "reset", "--hard"); err != nil {
			return failed(repo, "failed git reset --hard", err)
		}
		if defaultBranch, err = s.defaultBranch(ctx, dir); err != nil {
			return failed(repo, "failed resolving default branch", err)
		}
		if _, err := s.git(ctx, dir, "checkout", "--force", defaultBranch); err != nil {
			return failed(repo, "failed checkout of "+defaultBranch, err)
		}
	} else if defaultBranch, err = s.defaultBranch(ctx, dir); err != nil {
		return failed(repo, "failed resolving default branch", err)
	}

	// HEAD may sit on another branch; updates are measured on the default branch.
	before, err := branchHash(dir, defaultBranch)
	if err != nil {
		return failed(repo, "failed reading "+defaultBranch, err)
	}

	current, err := inspectHead(dir)
	if err != nil {
		return failed(repo, "failed reading local HEAD", err)
	}
	if current.Branch == defaultBranch {
		if _, err := s.git(ctx, dir, "pull", "--autostash", "--ff-only", "--rebase"); err != nil {
			return failed(repo, "failed git pull", err)
		}
	} else {
		refspec := defaultBranch + ":" + defaultBranch
		if _, err := s.git(ctx, dir, "fetch", "origin", refspec); err != nil {
			return failed(repo, "failed fetching "+defaultBranch, err)
		}
		if _, err := s.git(ctx, dir, "pull", "--autostash", "--ff-only", "--rebase"); err != nil {
			logger.Log.Debugf("%s: pull on %q before switching branch failed: %s", repo, current.Branch, sh.Cause(err))
		}
		if _, err := s.git(ctx, dir, "checkout", "--force", defaultBranch); err != nil {
			return failed(repo, "failed checkout of "+defaultBranch, err)
		}
	}

	s.prune(ctx, repo, dir, defaultBranch)

	after, err := inspectHead(dir)
	if err != nil {
		return failed(repo, "failed reading local HEAD", err)
	}
	if after.Hash != before {
		return Outcome{Repository: repo, Kind: Updated}
	}
	return Outcome{Repository: repo, Kind: UpToDate}
}

func (s *Syncer) defaultBranch(ctx context.Context, dir string) (string, error) {
	out, err := s.git(ctx, dir, "remote", "show", "origin")
	if err != nil {
		return "", err
	}
	return parseDefaultBranch(out)
}

// prune deletes local branches already merged into defaultBranch. Failures are
// only logged.
func (s *Syncer) prune(ctx context.Context, repo Repository, dir string, defaultBranch string) {
	out, err := s.git(ctx, dir, "branch", "--merged", defaultBranch)
	if err != nil {
		logger.Log.Warnf("%s: could not list merged branches: %s", repo, sh.Cause(err))
		return
	}
	for _, branch := range parseMergedBranches(out, defaultBranch) {
		if _, err := s.git(ctx, dir, "branch", "-d", branch); err != nil {
			logger.Log.Warnf("%s: could not delete merged branch %s: %s", repo, branch, sh.Cause(err))
			continue
		}
		logger.Log.Infof("%s: deleted merged branch %s", repo, color.FgYellow("%s", branch))
	}
}

func (s *Syncer) git(ctx context.Context, dir string, args ...string) (string, error) {
	logger.Log.Debugf("[%s] %s", dir, redactedCommandLine(args))
	out, err := s.runner.Run(ctx, sh.DirectoryPath(dir), "git", args...)
	if err != nil {
		logger.Log.Debugf("[%s] git %s failed: %s", dir, args[0], sh.Cause(err))
		return out.Stdout, err
	}
	return out.Stdout, nil
}

func redactedCommandLine(args []string) string {
	redacted := make([]string, len(args))
	for i, arg := range args {
		if strings.Contains(arg, "://") {
			arg = gitremote.Redact(arg)
		}
		redacted[i] = arg
	}
	return sh.CommandLine("git", redacted...)
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s %s", o.Kind.Tag(), o.Err)
	}
	return fmt.Sprintf("%s %s", o.Kind.Tag(), o.Repository)
}
