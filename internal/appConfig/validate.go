package appConfig

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"bbsync/internal/bitbucket"
	"bbsync/internal/ext"
	"bbsync/internal/pipe"
)

// ConfigError is a configuration problem found before any I/O.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

func configError(field, format string, a ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// Settings is a validated configuration.
type Settings struct {
	Connection       bitbucket.Connection
	GitConcurrency   int
	GitRatePerSecond int
	ResetState       bool
	GitQuiet         bool
	Verbose          bool
	OutputDirectory  string
	MetricsFile      string
}

// Validate applies defaults, resolves the password from the environment when asked
// to, checks every value and creates the output directory.
func (c *AppConfig) Validate() (*Settings, error) {
	server := strings.TrimRight(strings.TrimSpace(c.Server), "/")
	if server == "" {
		return nil, configError("server", "a server URL is required")
	}
	serverURL, err := url.Parse(server)
	if err != nil || (serverURL.Scheme != "http" && serverURL.Scheme != "https") || serverURL.Host == "" {
		return nil, configError("server", "%q is not an http(s) URL", server)
	}

	password := c.Password
	if c.PasswordFromEnv {
		password = os.Getenv(PasswordEnvVar)
		if password == "" {
			return nil, configError("password", "environment variable %s is empty", PasswordEnvVar)
		}
	}

	cloneType := bitbucket.CloneType(strings.ToLower(ext.DefaultValue(c.CloneType, string(bitbucket.CloneSSH))))
	if !lo.Contains(bitbucket.CloneTypes, cloneType) {
		return nil, configError("cloneType", "%q is not one of %v", c.CloneType, bitbucket.CloneTypes)
	}
	if cloneType == bitbucket.CloneHTTPSavedLogin && (c.Username == "" || password == "") {
		return nil, configError("cloneType", "%s needs both a username and a password", cloneType)
	}

	source := bitbucket.Source(strings.ToLower(ext.DefaultValue(c.Source, string(bitbucket.SourceProjects))))
	if !lo.Contains(bitbucket.Sources, source) {
		return nil, configError("source", "%q is not one of %v", c.Source, bitbucket.Sources)
	}

	keys := bitbucket.NormalizeKeys(c.Keys)
	if c.All && len(keys) > 0 {
		return nil, configError("keys", "selecting keys and all at once is ambiguous")
	}
	if !c.All && len(keys) == 0 {
		return nil, configError("keys", "select at least one key or all")
	}

	httpConcurrency := ext.DefaultValue(c.HTTPConcurrency, DefaultHTTPConcurrency)
	if err := checkConcurrency("concurrentHttp", httpConcurrency); err != nil {
		return nil, err
	}
	gitConcurrency := ext.DefaultValue(c.GitConcurrency, DefaultGitConcurrency)
	if err := checkConcurrency("concurrentGit", gitConcurrency); err != nil {
		return nil, err
	}
	if c.GitRatePerSecond < 0 || c.GitRatePerSecond > pipe.MaxRatePerSecond {
		return nil, configError("gitRatePerSecond", "%d is outside 0..%d", c.GitRatePerSecond, pipe.MaxRatePerSecond)
	}

	retries := DefaultRetries
	if c.Retries != nil {
		retries = *c.Retries
	}
	if retries < 0 {
		return nil, configError("retries", "must not be negative")
	}
	httpTimeout := ext.DefaultValue(c.HTTPTimeout, DefaultHTTPTimeout)
	if httpTimeout < 0 {
		return nil, configError("httpTimeout", "must be positive")
	}
	backoff := DefaultBackoff
	if c.Backoff != nil {
		backoff = *c.Backoff
	}
	if backoff < 0 {
		return nil, configError("backoff", "must not be negative")
	}

	outputDirectory := ext.DefaultValue(strings.TrimSpace(c.OutputDirectory), DefaultOutputDirectory)
	if err := os.MkdirAll(outputDirectory, os.ModePerm); err != nil {
		return nil, configError("outputDirectory", "cannot create %s: %v", outputDirectory, err)
	}

	return &Settings{
		Connection: bitbucket.Connection{
			BaseURL:         server,
			Username:        c.Username,
			Password:        password,
			Token:           c.Token,
			CloneType:       cloneType,
			HTTPConcurrency: httpConcurrency,
			HTTPTimeout:     httpTimeout,
			Retries:         retries,
			Backoff:         backoff,
			Source:          source,
			Keys:            keys,
			Verbose:         c.HTTPVerbose,
		},
		GitConcurrency:   gitConcurrency,
		GitRatePerSecond: c.GitRatePerSecond,
		ResetState:       c.ResetState,
		GitQuiet:         c.GitQuiet,
		Verbose:          c.Verbose,
		OutputDirectory:  outputDirectory,
		MetricsFile:      c.MetricsFile,
	}, nil
}

func checkConcurrency(field string, value int) error {
	if value < 1 || value > pipe.MaxConcurrency {
		return configError(field, "%d is outside 1..%d", value, pipe.MaxConcurrency)
	}
	return nil
}

// Describe summarizes the settings for the log, without credentials.
func (s *Settings) Describe() string {
	selection := "all keys"
	if len(s.Connection.Keys) > 0 {
		selection = strings.Join(s.Connection.Keys, ",")
	}
	return fmt.Sprintf("server=%s source=%s keys=%s clone=%s http=%d git=%d timeout=%s retries=%d backoff=%s output=%s",
		s.Connection.BaseURL, s.Connection.Source, selection, s.Connection.CloneType,
		s.Connection.HTTPConcurrency, s.GitConcurrency, s.Connection.HTTPTimeout.Round(time.Millisecond),
		s.Connection.Retries, s.Connection.Backoff, s.OutputDirectory)
}
