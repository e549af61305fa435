package bitbucket

import (
	"strings"

	"github.com/samber/lo"

	"bbsync/internal/gitrepo"
)

// NormalizeKeys lowercases and deduplicates selected keys, dropping blanks.
func NormalizeKeys(keys []string) []string {
	normalized := lo.FilterMap(keys, func(key string, _ int) (string, bool) {
		key = strings.ToLower(strings.TrimSpace(key))
		return key, key != ""
	})
	return lo.Uniq(normalized)
}

// FilterEntries keeps the entries whose filter key is selected. No keys selects all.
func FilterEntries(entries []CatalogEntry, keys []string) []CatalogEntry {
	selected := NormalizeKeys(keys)
	if len(selected) == 0 {
		return entries
	}
	return lo.Filter(entries, func(entry CatalogEntry, _ int) bool {
		return lo.Contains(selected, entry.FilterKey())
	})
}

// FilterRepositories keeps the repositories whose project key is selected. No keys
// selects all.
func FilterRepositories(repos []gitrepo.Repository, keys []string) []gitrepo.Repository {
	selected := NormalizeKeys(keys)
	if len(selected) == 0 {
		return repos
	}
	return lo.Filter(repos, func(repo gitrepo.Repository, _ int) bool {
		return lo.Contains(selected, strings.ToLower(repo.ProjectKey))
	})
}
