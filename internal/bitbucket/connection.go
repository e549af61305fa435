package bitbucket

import (
	"time"
)

type CloneType string

const (
	CloneSSH            CloneType = "ssh"
	CloneHTTP           CloneType = "http"
	CloneHTTPSavedLogin CloneType = "http_saved_login"
)

var CloneTypes = []CloneType{CloneSSH, CloneHTTP, CloneHTTPSavedLogin}

// LinkName is the clone link name the server uses for this clone type.
func (c CloneType) LinkName() string {
	if c == CloneHTTPSavedLogin {
		return string(CloneHTTP)
	}
	return string(c)
}

type Source string

const (
	SourceProjects Source = "projects"
	SourceUsers    Source = "users"
	SourceAll      Source = "all"
)

var Sources = []Source{SourceProjects, SourceUsers, SourceAll}

// Connection is the validated, read-only description of how to talk to the server
// and which part of its catalog to retrieve.
type Connection struct {
	BaseURL  string
	Username string
	Password string
	// Token is sent as a bearer token instead of basic auth when set.
	Token string

	CloneType       CloneType
	HTTPConcurrency int
	HTTPTimeout     time.Duration
	Retries         int
	Backoff         time.Duration

	Source Source
	// Keys are project keys or "~user" keys to include. Empty means everything.
	Keys    []string
	Verbose bool
}

func (c Connection) hasBasicAuth() bool {
	return c.Username != "" && c.Password != ""
}
