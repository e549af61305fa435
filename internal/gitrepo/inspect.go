package gitrepo

import (
	"errors"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// headState is what HEAD points at in a local working copy.
type headState struct {
	Branch string // empty when detached or unborn
	Hash   string // empty when unborn
}

func inspectHead(dir string) (headState, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return headState{}, err
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return headState{}, nil
	}
	if err != nil {
		return headState{}, err
	}
	state := headState{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		state.Branch = ref.Name().Short()
	}
	return state, nil
}

// branchHash is the commit the local default branch points at, falling back to the
// remote-tracking branch when there is no local one yet. Empty when neither exists.
func branchHash(dir, branch string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return "", err
	}
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName("origin", branch),
	} {
		ref, err := repo.Reference(name, true)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		return ref.Hash().String(), nil
	}
	return "", nil
}

func dirExists(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, errors.New(dir + " exists and is not a directory")
	}
	return true, nil
}
