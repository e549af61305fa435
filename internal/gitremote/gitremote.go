// Package gitremote manipulates git remote URLs as handed out by the server catalog.
package gitremote

import (
	"fmt"
	"net/url"
	"strings"
)

const schemeSeparator = "://"

// WithCredentials returns rawURL with user and password embedded as userinfo.
// Any user already present in rawURL is replaced. URLs without a scheme separator
// (scp-like ssh remotes, plain paths) are rejected.
func WithCredentials(rawURL, user, password string) (string, error) {
	i := strings.Index(rawURL, schemeSeparator)
	if i < 0 {
		return "", fmt.Errorf("URL %s didn't contain '%s'", Redact(rawURL), schemeSeparator)
	}
	scheme, rest := rawURL[:i], rawURL[i+len(schemeSeparator):]
	authority, path := splitAuthority(rest)
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		authority = authority[at+1:]
	}
	return scheme + schemeSeparator + url.UserPassword(user, password).String() + "@" + authority + path, nil
}

// Redact masks the password of rawURL so it can be logged.
func Redact(rawURL string) string {
	i := strings.Index(rawURL, schemeSeparator)
	if i < 0 {
		return rawURL
	}
	scheme, rest := rawURL[:i], rawURL[i+len(schemeSeparator):]
	authority, path := splitAuthority(rest)
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return rawURL
	}
	userinfo, host := authority[:at], authority[at+1:]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		userinfo = userinfo[:colon] + ":xxxxx"
	}
	return scheme + schemeSeparator + userinfo + "@" + host + path
}

func splitAuthority(rest string) (authority, path string) {
	if slash := strings.Index(rest, "/"); slash >= 0 {
		return rest[:slash], rest[slash:]
	}
	return rest, ""
}
