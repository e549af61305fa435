package gitrepo

import (
	"errors"
	"fmt"

	"bbsync/internal/sh"
)

type OutcomeKind int

const (
	Failed OutcomeKind = iota
	Cloned
	Updated
	UpToDate
)

// Tag is the one-character marker printed per repository.
func (k OutcomeKind) Tag() string {
	switch k {
	case Cloned:
		return "c"
	case Updated:
		return "U"
	case UpToDate:
		return "u"
	default:
		return "!"
	}
}

func (k OutcomeKind) String() string {
	switch k {
	case Cloned:
		return "cloned"
	case Updated:
		return "updated"
	case UpToDate:
		return "up_to_date"
	default:
		return "failed"
	}
}

type Outcome struct {
	Repository Repository
	Kind       OutcomeKind
	Err        error
}

func (o Outcome) Failed() bool {
	return o.Kind == Failed
}

// ErrDefaultBranchUnknown is returned when the remote does not report its HEAD branch.
var ErrDefaultBranchUnknown = errors.New("default branch unknown")

// SyncError ties a failed step to the repository it happened in.
type SyncError struct {
	Repository string
	Step       string
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s %s. Cause: %s", e.Repository, e.Step, sh.Cause(e.Err))
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func failed(repo Repository, step string, err error) Outcome {
	return Outcome{
		Repository: repo,
		Kind:       Failed,
		Err:        &SyncError{Repository: repo.String(), Step: step, Err: err},
	}
}
