package bitbucket

import (
	"strings"

	"github.com/samber/lo"

	"bbsync/internal/gitremote"
	"bbsync/internal/gitrepo"
	"bbsync/internal/log"
)

// Eligible reports whether the record is an available git repository.
func (r RepositoryRecord) Eligible() bool {
	return strings.TrimSpace(r.ScmID) == "git" && strings.TrimSpace(r.State) == "AVAILABLE"
}

// CloneURL returns the href of the first clone link named name.
func (r RepositoryRecord) CloneURL(name string) (string, bool) {
	link, found := lo.Find(r.Links.Clone, func(link CloneLink) bool {
		return strings.TrimSpace(link.Name) == name
	})
	return link.Href, found
}

// ExtractRepositories turns catalog records into sync units. Ineligible records and
// records without a clone link for the configured clone type are dropped.
func ExtractRepositories(records []RepositoryRecord, conn Connection) []gitrepo.Repository {
	linkName := conn.CloneType.LinkName()
	return lo.FilterMap(records, func(record RepositoryRecord, _ int) (gitrepo.Repository, bool) {
		if !record.Eligible() {
			logger.Log.Debugf("Skipping %s/%s (scmId %q, state %q)", record.Project.Key, record.Slug, record.ScmID, record.State)
			return gitrepo.Repository{}, false
		}
		url, found := record.CloneURL(linkName)
		if !found {
			logger.Log.Debugf("Skipping %s/%s, no %s clone link", record.Project.Key, record.Slug, linkName)
			return gitrepo.Repository{}, false
		}
		return gitrepo.Repository{
			ProjectKey: strings.ToLower(record.Project.Key),
			Name:       strings.ToLower(record.Slug),
			URL:        cloneURL(url, conn),
		}, true
	})
}

// cloneURL embeds the credentials in http_saved_login mode. A URL that cannot carry
// them is kept unchanged.
func cloneURL(url string, conn Connection) string {
	if conn.CloneType != CloneHTTPSavedLogin || !conn.hasBasicAuth() {
		return url
	}
	withCredentials, err := gitremote.WithCredentials(url, conn.Username, conn.Password)
	if err != nil {
		logger.Log.Debugf("Keeping clone URL as is: %v", err)
		return url
	}
	return withCredentials
}
