package bitbucket

import (
	"fmt"
	"strings"
)

// Page is one page of a paginated Bitbucket Server listing.
type Page[T any] struct {
	IsLastPage bool `json:"isLastPage"`
	Size       int  `json:"size"`
	Limit      int  `json:"limit"`
	Start      int  `json:"start"`
	Values     []T  `json:"values"`
}

type ProjectDescriptor struct {
	Key string `json:"key"`
}

type UserDescriptor struct {
	Slug        string `json:"slug"`
	Active      bool   `json:"active"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type EntryKind int

const (
	ProjectEntry EntryKind = iota
	UserEntry
)

// CatalogEntry is a project or a user owning repositories. Key is the project key
// or the user slug.
type CatalogEntry struct {
	Kind EntryKind
	Key  string
}

func ProjectCatalogEntry(p ProjectDescriptor) CatalogEntry {
	return CatalogEntry{Kind: ProjectEntry, Key: p.Key}
}

func UserCatalogEntry(u UserDescriptor) CatalogEntry {
	return CatalogEntry{Kind: UserEntry, Key: u.Slug}
}

// ReposPath is the REST path listing the repositories of the entry.
func (e CatalogEntry) ReposPath() string {
	switch e.Kind {
	case UserEntry:
		return fmt.Sprintf("/rest/api/1.0/users/%s/repos", e.Key)
	default:
		return fmt.Sprintf("/rest/api/latest/projects/%s/repos", e.Key)
	}
}

// FilterKey is what a selected key is compared against. Personal repositories of a
// user live in the project "~slug".
func (e CatalogEntry) FilterKey() string {
	switch e.Kind {
	case UserEntry:
		return "~" + strings.ToLower(e.Key)
	default:
		return strings.ToLower(e.Key)
	}
}

func (e CatalogEntry) String() string {
	switch e.Kind {
	case UserEntry:
		return "user " + e.Key
	default:
		return "project " + e.Key
	}
}

type CloneLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type RepositoryLinks struct {
	Clone []CloneLink `json:"clone"`
}

type RepositoryRecord struct {
	Slug    string            `json:"slug"`
	ScmID   string            `json:"scmId"`
	State   string            `json:"state"`
	Project ProjectDescriptor `json:"project"`
	Links   RepositoryLinks   `json:"links"`
}
