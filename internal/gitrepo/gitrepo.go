package gitrepo

import (
	"path/filepath"
)

// Repository is one resolved unit of work: a remote to clone into
// {output}/{ProjectKey}/{Name}. Both key and name are lowercase.
type Repository struct {
	ProjectKey string
	Name       string
	URL        string
}

func (r Repository) String() string {
	return r.ProjectKey + "/" + r.Name
}

func (r Repository) ProjectDir(outputDirectory string) string {
	return filepath.Join(outputDirectory, r.ProjectKey)
}

func (r Repository) Dir(outputDirectory string) string {
	return filepath.Join(outputDirectory, r.ProjectKey, r.Name)
}
