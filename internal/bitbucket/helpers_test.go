package bitbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeGetter answers requests with respond and records the requested paths.
type fakeGetter struct {
	mu      sync.Mutex
	paths   []string
	respond func(call int, path string) (Response, error)
}

func (f *fakeGetter) Get(_ context.Context, path string) (Response, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	call := len(f.paths)
	f.mu.Unlock()
	return f.respond(call, path)
}

func (f *fakeGetter) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

var errTimedOut = &TransportError{URL: "http://bitbucket.test", Err: errors.New("i/o timeout"), Timeout: true}

func jsonResponse(t *testing.T, v any) Response {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return Response{StatusCode: http.StatusOK, Status: "200 OK", Body: body}
}

// recordingSleep stores requested waits instead of sleeping.
type recordingSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordingSleep) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func repoRecord(project, slug string, links ...CloneLink) RepositoryRecord {
	return RepositoryRecord{
		Slug:    slug,
		ScmID:   "git",
		State:   "AVAILABLE",
		Project: ProjectDescriptor{Key: project},
		Links:   RepositoryLinks{Clone: links},
	}
}

func sshLink(project, slug string) CloneLink {
	return CloneLink{Name: "ssh", Href: fmt.Sprintf("ssh://git@bitbucket.test:7999/%s/%s.git", strings.ToLower(project), slug)}
}

func httpLink(project, slug string) CloneLink {
	return CloneLink{Name: "http", Href: fmt.Sprintf("https://bitbucket.test/scm/%s/%s.git", strings.ToLower(project), slug)}
}

// fakeServer serves a Bitbucket catalog, one item per page, so pagination is
// exercised on every listing.
type fakeServer struct {
	projects []ProjectDescriptor
	users    []UserDescriptor
	repos    map[string][]RepositoryRecord // keyed by repos path
	failing  map[string]int                // path -> status code
}

func (s *fakeServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, ok := s.failing[r.URL.Path]; ok {
			http.Error(w, `{"errors":[{"message":"nope"}]}`, status)
			return
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		switch {
		case r.URL.Path == "/rest/api/1.0/projects":
			writePage(t, w, s.projects, start)
		case r.URL.Path == "/rest/api/1.0/users":
			writePage(t, w, s.users, start)
		default:
			records, ok := s.repos[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			writePage(t, w, records, start)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writePage[T any](t *testing.T, w http.ResponseWriter, values []T, start int) {
	page := Page[T]{Start: start, Limit: 1, IsLastPage: true}
	if start < len(values) {
		page.Values = values[start : start+1]
		page.Size = 1
		page.IsLastPage = start+1 >= len(values)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		t.Errorf("encode: %v", err)
	}
}
