package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbsync/internal/metrics"
	"bbsync/internal/sh"
)

var testCtx = context.Background()

func TestSyncer_cloneWhenAbsent(t *testing.T) {
	output := t.TempDir()
	runner := newScriptedRunner(nil)
	repo := Repository{ProjectKey: "proj", Name: "repo", URL: "ssh://git@example.com/proj/repo.git"}

	outcome := NewSyncer(runner, Options{OutputDirectory: output}, nil).Sync(testCtx, repo)

	require.NoError(t, outcome.Err)
	assert.Equal(t, Cloned, outcome.Kind)
	assert.Equal(t, []string{"git clone ssh://git@example.com/proj/repo.git repo"}, runner.Calls())
	assert.DirExists(t, filepath.Join(output, "proj"))
}

func TestSyncer_cloneFailure(t *testing.T) {
	runner := newScriptedRunner(map[string]scriptedResponse{
		"clone ssh://git@example.com/proj/repo.git repo": {
			err: exitError("git clone", "fatal: repository not found\nfatal: Could not read from remote repository."),
		},
	})
	repo := Repository{ProjectKey: "proj", Name: "repo", URL: "ssh://git@example.com/proj/repo.git"}
	m := metrics.New()

	outcome := NewSyncer(runner, Options{OutputDirectory: t.TempDir()}, m).Sync(testCtx, repo)

	assert.Equal(t, Failed, outcome.Kind)
	assert.Equal(t, "proj/repo failed git clone. Cause: fatal: repository not found", outcome.Err.Error())
	var syncErr *SyncError
	require.True(t, errors.As(outcome.Err, &syncErr))
	var exitErr *sh.ExitError
	assert.True(t, errors.As(outcome.Err, &exitErr))
}

// localRepo prepares {output}/proj/repo as a git repository on testDefaultBranch.
func localRepo(t *testing.T) (string, Repository) {
	t.Helper()
	requireGit(t)
	output := t.TempDir()
	repo := Repository{ProjectKey: "proj", Name: "repo", URL: "ssh://git@example.com/proj/repo.git"}
	mustInitRepo(t, repo.Dir(output), "file", "initial")
	return output, repo
}

func TestSyncer_defaultBranchUnknown(t *testing.T) {
	output, repo := localRepo(t)
	runner := newScriptedRunner(map[string]scriptedResponse{
		"remote show origin": {stdout: "* remote origin\n  HEAD branch: (unknown)"},
	})

	outcome := NewSyncer(runner, Options{OutputDirectory: output}, nil).Sync(testCtx, repo)

	assert.Equal(t, Failed, outcome.Kind)
	assert.True(t, errors.Is(outcome.Err, ErrDefaultBranchUnknown), "got %v", outcome.Err)
	assert.Equal(t, []string{"git remote show origin"}, runner.Calls())
}

func TestSyncer_onDefaultBranchPulls(t *testing.T) {
	output, repo := localRepo(t)
	runner := newScriptedRunner(map[string]scriptedResponse{
		"remote show origin":    {stdout: "  HEAD branch: " + testDefaultBranch},
		"branch --merged trunk": {stdout: "* trunk\n  old"},
		"branch -d old":         {err: exitError("git branch -d old", "error: branch 'old' not found.")},
	})

	outcome := NewSyncer(runner, Options{OutputDirectory: output}, nil).Sync(testCtx, repo)

	require.NoError(t, outcome.Err, "prune failures must not fail the sync")
	assert.Equal(t, UpToDate, outcome.Kind)
	assert.Equal(t, []string{
		"git remote show origin",
		"git pull --autostash --ff-only --rebase",
		"git branch --merged trunk",
		"git branch -d old",
	}, runner.Calls())
}

func TestSyncer_offDefaultBranchFetchesFirst(t *testing.T) {
	output, repo := localRepo(t)
	mustExec(t, repo.Dir(output), "git", "checkout", "-q", "-b", "topic")
	runner := newScriptedRunner(map[string]scriptedResponse{
		"remote show origin": {stdout: "  HEAD branch: " + testDefaultBranch},
		"pull --autostash --ff-only --rebase": {
			err: exitError("git pull", "There is no tracking information for the current branch."),
		},
	})

	outcome := NewSyncer(runner, Options{OutputDirectory: output}, nil).Sync(testCtx, repo)

	require.NoError(t, outcome.Err)
	assert.Equal(t, UpToDate, outcome.Kind, "leaving topic for an unchanged trunk brings no new commits")
	assert.Equal(t, []string{
		"git remote show origin",
		"git fetch origin trunk:trunk",
		"git pull --autostash --ff-only --rebase",
		"git checkout --force trunk",
		"git branch --merged trunk",
	}, runner.Calls())
}

func TestSyncer_fetchFailureIsTerminal(t *testing.T) {
	output, repo := localRepo(t)
	mustExec(t, repo.Dir(output), "git", "checkout", "-q", "-b", "topic")
	runner := newScriptedRunner(map[string]scriptedResponse{
		"remote show origin": {stdout: "  HEAD branch: " + testDefaultBranch},
		"fetch origin trunk:trunk": {
			err: exitError("git fetch", " ! [rejected]        trunk      -> trunk  (non-fast-forward)"),
		},
	})

	outcome := NewSyncer(runner, Options{OutputDirectory: output}, nil).Sync(testCtx, repo)

	assert.Equal(t, Failed, outcome.Kind)
	assert.Equal(t, "proj/repo failed fetching trunk. Cause: ! [rejected]        trunk      -> trunk  (non-fast-forward)", outcome.Err.Error())
	assert.Len(t, runner.Calls(), 2)
}

func TestSyncer_resetRunsBeforeResolvingBranch(t *testing.T) {
	output, repo := localRepo(t)
	runner := newScriptedRunner(map[string]scriptedResponse{
		"remote show origin": {stdout: "  HEAD branch: " + testDefaultBranch},
	})

	outcome := NewSyncer(runner, Options{OutputDirectory: output, ResetState: true}, nil).Sync(testCtx, repo)

	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{
		"git reset --hard",
		"git remote show origin",
		"git checkout --force trunk",
		"git pull --autostash --ff-only --rebase",
		"git branch --merged trunk",
	}, runner.Calls())
}

func TestSyncer_notADirectory(t *testing.T) {
	output := t.TempDir()
	repo := Repository{ProjectKey: "proj", Name: "repo", URL: "ssh://x/y"}
	require.NoError(t, os.MkdirAll(repo.ProjectDir(output), 0o755))
	require.NoError(t, os.WriteFile(repo.Dir(output), []byte("x"), 0o644))

	outcome := NewSyncer(newScriptedRunner(nil), Options{OutputDirectory: output}, nil).Sync(testCtx, repo)

	assert.Equal(t, Failed, outcome.Kind)
}

func TestOutcomeKind_Tag(t *testing.T) {
	tests := []struct {
		kind OutcomeKind
		want string
	}{
		{Cloned, "c"},
		{Updated, "U"},
		{UpToDate, "u"},
		{Failed, "!"},
	}
	for _, tt := range tests {
		if got := tt.kind.Tag(); got != tt.want {
			t.Errorf("%s.Tag() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
