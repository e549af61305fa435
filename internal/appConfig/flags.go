package appConfig

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	typex "bbsync/type"
)

// Flags holds command line values. Only flags given on the command line override
// the configuration file.
type Flags struct {
	ConfigFile string

	Server    string
	Username  string
	Password  string
	Token     string
	CloneType string

	HTTPConcurrency  int
	GitConcurrency   int
	GitRatePerSecond int
	HTTPTimeout      time.Duration
	Retries          int
	Backoff          time.Duration

	Keys   []string
	Source string

	OutputDirectory string
	MetricsFile     string

	PasswordFromEnv typex.NullableBool
	All             typex.NullableBool
	ResetState      typex.NullableBool
	GitQuiet        typex.NullableBool
	HTTPVerbose     typex.NullableBool
	Verbose         typex.NullableBool
}

func AddFlags(cmd *cobra.Command) *Flags {
	f := &Flags{}
	fs := cmd.Flags()

	fs.StringVar(&f.ConfigFile, "config", "", "Configuration file (default: ./"+ConfigFileName+" or ~/"+ConfigFileName+")")

	fs.StringVarP(&f.Server, "server", "s", "", "Bitbucket Server base URL, e.g. https://bitbucket.example.com")
	fs.StringVarP(&f.Username, "username", "u", "", "Username for basic auth")
	fs.StringVarP(&f.Password, "password", "w", "", "Password for basic auth")
	fs.StringVar(&f.Token, "token", "", "HTTP access token, sent as bearer token instead of basic auth")
	fs.StringVar(&f.CloneType, "clone_type", "ssh", "Clone link to use: ssh, http or http_saved_login")

	fs.IntVarP(&f.HTTPConcurrency, "concurrent_http", "b", DefaultHTTPConcurrency, "Concurrent catalog requests (1-100)")
	fs.IntVarP(&f.GitConcurrency, "concurrent_git", "g", DefaultGitConcurrency, "Concurrent git operations (1-100)")
	fs.IntVar(&f.GitRatePerSecond, "git_rate", 0, "Maximum git operations started per second (0 = no limit)")
	fs.DurationVar(&f.HTTPTimeout, "http_timeout", DefaultHTTPTimeout, "Timeout of a single catalog request")
	fs.IntVar(&f.Retries, "retries", DefaultRetries, "Retries of a timed out catalog request")
	fs.DurationVar(&f.Backoff, "backoff", DefaultBackoff, "Backoff unit, multiplied by the number of timeouts so far (0 = retry at once)")

	fs.StringSliceVarP(&f.Keys, "key", "k", nil, "Project key or ~user to sync (repeatable)")
	fs.StringVar(&f.Source, "source", "projects", "Catalog to list: projects, users or all")

	fs.StringVar(&f.OutputDirectory, "output_directory", DefaultOutputDirectory, "Directory to sync repositories into")
	fs.StringVar(&f.MetricsFile, "metrics_file", "", "Write run metrics in Prometheus text format to this file")

	boolFlag(fs, &f.PasswordFromEnv, "env_password", "W", "Read the password from "+PasswordEnvVar)
	boolFlag(fs, &f.All, "all", "A", "Sync every repository the catalog lists")
	boolFlag(fs, &f.ResetState, "reset", "R", "Discard local changes and check out the default branch before updating")
	boolFlag(fs, &f.GitQuiet, "git_quiet", "Q", "Only print failure counts, not the failures")
	boolFlag(fs, &f.HTTPVerbose, "http_verbose", "H", "Print the cause of catalog request failures")
	boolFlag(fs, &f.Verbose, "verbose", "v", "Verbose (debug) logging to the log file")

	return f
}

func boolFlag(fs *pflag.FlagSet, value *typex.NullableBool, name, shorthand, usage string) {
	flag := fs.VarPF(value, name, shorthand, usage)
	flag.NoOptDefVal = "true"
}

// ApplyTo copies every flag given on the command line into config.
func (f *Flags) ApplyTo(config *AppConfig, fs *pflag.FlagSet) {
	setString := func(name string, target *string, value string) {
		if fs.Changed(name) {
			*target = value
		}
	}
	setInt := func(name string, target *int, value int) {
		if fs.Changed(name) {
			*target = value
		}
	}
	setDuration := func(name string, target *time.Duration, value time.Duration) {
		if fs.Changed(name) {
			*target = value
		}
	}

	setString("server", &config.Server, f.Server)
	setString("username", &config.Username, f.Username)
	setString("password", &config.Password, f.Password)
	setString("token", &config.Token, f.Token)
	setString("clone_type", &config.CloneType, f.CloneType)
	setString("source", &config.Source, f.Source)
	setString("output_directory", &config.OutputDirectory, f.OutputDirectory)
	setString("metrics_file", &config.MetricsFile, f.MetricsFile)

	setInt("concurrent_http", &config.HTTPConcurrency, f.HTTPConcurrency)
	setInt("concurrent_git", &config.GitConcurrency, f.GitConcurrency)
	setInt("git_rate", &config.GitRatePerSecond, f.GitRatePerSecond)
	if fs.Changed("retries") {
		retries := f.Retries
		config.Retries = &retries
	}
	setDuration("http_timeout", &config.HTTPTimeout, f.HTTPTimeout)
	if fs.Changed("backoff") {
		backoff := f.Backoff
		config.Backoff = &backoff
	}

	if fs.Changed("key") {
		config.Keys = f.Keys
	}

	config.PasswordFromEnv = f.PasswordFromEnv.Val(config.PasswordFromEnv)
	config.All = f.All.Val(config.All)
	config.ResetState = f.ResetState.Val(config.ResetState)
	config.GitQuiet = f.GitQuiet.Val(config.GitQuiet)
	config.HTTPVerbose = f.HTTPVerbose.Val(config.HTTPVerbose)
	config.Verbose = f.Verbose.Val(config.Verbose)
}
