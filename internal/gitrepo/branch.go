package gitrepo

import (
	"fmt"
	"regexp"
	"strings"
)

// to parse output of "git remote show origin"
//
//	HEAD branch: main
var headBranchRgx = regexp.MustCompile(`(?m)^\s*HEAD branch:\s*(\S+)\s*$`)

func parseDefaultBranch(remoteShow string) (string, error) {
	match := headBranchRgx.FindStringSubmatch(remoteShow)
	if match == nil {
		return "", fmt.Errorf("%w: no HEAD branch reported by origin", ErrDefaultBranchUnknown)
	}
	if match[1] == "(unknown)" {
		return "", fmt.Errorf("%w: origin reported HEAD branch (unknown)", ErrDefaultBranchUnknown)
	}
	return match[1], nil
}

// parseMergedBranches returns the branches listed by "git branch --merged" that may
// be deleted: not the checked out one, not one checked out in another worktree, not
// a detached HEAD entry and never keep.
func parseMergedBranches(output string, keep string) []string {
	var branches []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "+") {
			continue
		}
		name := strings.TrimSpace(line)
		if strings.HasPrefix(name, "(") || name == keep {
			continue
		}
		branches = append(branches, name)
	}
	return branches
}
