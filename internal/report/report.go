// Package report folds per-repository sync outcomes into the run summary.
package report

import (
	"fmt"
	"io"

	"github.com/samber/lo"

	"bbsync/internal/color"
	"bbsync/internal/gitrepo"
)

type Report struct {
	Total    int
	Cloned   int
	Updated  int
	UpToDate int
	Failed   int
	// Failures keeps the order of the outcomes.
	Failures []gitrepo.Outcome
}

func Aggregate(outcomes []gitrepo.Outcome) Report {
	count := func(kind gitrepo.OutcomeKind) int {
		return lo.CountBy(outcomes, func(o gitrepo.Outcome) bool { return o.Kind == kind })
	}
	failures := lo.Filter(outcomes, func(o gitrepo.Outcome, _ int) bool { return o.Failed() })
	return Report{
		Total:    len(outcomes),
		Cloned:   count(gitrepo.Cloned),
		Updated:  count(gitrepo.Updated),
		UpToDate: count(gitrepo.UpToDate),
		Failed:   len(failures),
		Failures: failures,
	}
}

// Succeeded is the number of repositories that were cloned, updated or already current.
func (r Report) Succeeded() int {
	return r.Cloned + r.Updated + r.UpToDate
}

// Render prints the counts, then each failure unless quiet.
func (r Report) Render(w io.Writer, quiet bool) error {
	if _, err := fmt.Fprintf(w, "%d repositories: %s cloned, %s updated, %s up to date\n",
		r.Total,
		color.FgGreen("%d", r.Cloned),
		color.FgGreen("%d", r.Updated),
		color.FgCyan("%d", r.UpToDate),
	); err != nil {
		return err
	}
	if r.Failed == 0 {
		_, err := fmt.Fprintln(w, "0 failures")
		return err
	}
	if _, err := fmt.Fprintf(w, "%s failures\n", color.FgRed("%d", r.Failed)); err != nil {
		return err
	}
	if quiet {
		return nil
	}
	for _, failure := range r.Failures {
		if _, err := fmt.Fprintf(w, "  %s\n", failure.Err); err != nil {
			return err
		}
	}
	return nil
}
