package appConfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

const ConfigFileName = "bbsync.yaml"

// PasswordEnvVar holds the password when passwordFromEnv is set.
const PasswordEnvVar = "BITBUCKET_PASSWORD"

const (
	DefaultHTTPConcurrency = 20
	DefaultGitConcurrency  = 3
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultRetries         = 2
	DefaultBackoff         = time.Second
	DefaultOutputDirectory = "."
)

// AppConfig is the raw configuration as read from the config file and overridden by
// flags. Validate turns it into Settings.
type AppConfig struct {
	Server          string `yaml:"server"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	PasswordFromEnv bool   `yaml:"passwordFromEnv"`
	Token           string `yaml:"token"`
	CloneType       string `yaml:"cloneType"`

	HTTPConcurrency  int            `yaml:"concurrentHttp"`
	GitConcurrency   int            `yaml:"concurrentGit"`
	GitRatePerSecond int            `yaml:"gitRatePerSecond"` // 0 is interpreted as no limit
	HTTPTimeout      time.Duration  `yaml:"httpTimeout"`
	Retries          *int           `yaml:"retries"`
	Backoff          *time.Duration `yaml:"backoff"`

	Keys   []string `yaml:"keys"`
	All    bool     `yaml:"all"`
	Source string   `yaml:"source"`

	ResetState      bool   `yaml:"reset"`
	GitQuiet        bool   `yaml:"gitQuiet"`
	HTTPVerbose     bool   `yaml:"httpVerbose"`
	Verbose         bool   `yaml:"verbose"`
	OutputDirectory string `yaml:"outputDirectory"`
	MetricsFile     string `yaml:"metricsFile"`
}

// LoadConfig reads configFile. With an empty name, bbsync.yaml is looked up in the
// current directory and then in the home directory; finding none yields an empty
// configuration.
func LoadConfig(configFile string) (*AppConfig, error) {
	configFilePath := configFile
	if configFilePath == "" {
		var found bool
		configFilePath, found = findConfigFile(ConfigFileName)
		if !found {
			return &AppConfig{}, nil
		}
	}

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var config AppConfig
	err = yaml.UnmarshalStrict(data, &config)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", configFilePath, err)
	}
	return &config, nil
}

func findConfigFile(configFileName string) (string, bool) {
	configFilePath := filepath.Join(".", configFileName)
	if _, err := os.Stat(configFilePath); err == nil {
		return configFilePath, true
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	configFilePath = filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(configFilePath); err == nil {
		return configFilePath, true
	}
	return "", false
}
