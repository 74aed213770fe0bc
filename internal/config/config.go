package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL     = "http://localhost:8080"
	DefaultPollInterval   = time.Second
	DefaultRequestTimeout = 5 * time.Second
	DefaultLogFile        = "relevance-review.log"
)

// Environment variables read by Load.
const (
	EnvConfig         = "RELEVANCE_REVIEW_CONFIG"
	EnvBackendURL     = "RELEVANCE_REVIEW_BACKEND_URL"
	EnvPollInterval   = "RELEVANCE_REVIEW_POLL_INTERVAL"
	EnvRequestTimeout = "RELEVANCE_REVIEW_REQUEST_TIMEOUT"
	EnvLogFile        = "RELEVANCE_REVIEW_LOG_FILE"
)

// Config holds application configuration
type Config struct {
	BackendURL     string        `yaml:"backend_url"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogFile        string        `yaml:"log_file"`
	Debug          bool          `yaml:"debug"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		BackendURL:     DefaultBackendURL,
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load loads configuration from config file and environment variables
// Environment variables take precedence over config file values
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file first
	if err := cfg.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Exists reports whether a config file is present.
func Exists() bool {
	path := getConfigPath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) loadFromFile() error {
	configPath := getConfigPath()
	if configPath == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	if url := os.Getenv(EnvBackendURL); url != "" {
		c.BackendURL = url
	}
	if s := os.Getenv(EnvPollInterval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		c.PollInterval = d
	}
	if s := os.Getenv(EnvRequestTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		c.RequestTimeout = d
	}
	if path := os.Getenv(EnvLogFile); path != "" {
		c.LogFile = path
	}
	return nil
}

// Validate checks that the configuration can drive a session.
func (c *Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		errs = append(errs, fmt.Errorf("backend_url must start with http:// or https://, got %q", c.BackendURL))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// LogPath returns where the session log is written. Relative names are
// placed in the config directory.
func (c *Config) LogPath() (string, error) {
	name := c.LogFile
	if name == "" {
		name = DefaultLogFile
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// getConfigPath returns the path to the config file
// Priority: $RELEVANCE_REVIEW_CONFIG > ~/.config/relevance-review/config.yaml
func getConfigPath() string {
	if configPath := os.Getenv(EnvConfig); configPath != "" {
		return configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "relevance-review", "config.yaml")
}

func GetConfigDir() (string, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return "", fmt.Errorf("cannot determine config path")
	}
	return filepath.Dir(configPath), nil
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

// Save writes the config file, creating its directory.
func (c *Config) Save() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# relevance-review configuration\n# Environment variables RELEVANCE_REVIEW_* override these values\n\n")
	return os.WriteFile(getConfigPath(), append(header, data...), 0600)
}
