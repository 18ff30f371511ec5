// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
)

// Environment variables that override file values.
const (
	EnvAPIURL  = "RESUME_ANALYZER_API_URL"
	EnvTimeout = "RESUME_ANALYZER_TIMEOUT"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Backend
	APIURL  string `json:"api_url,omitempty" yaml:"api_url,omitempty"` // Base address of the analysis backend
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // Request timeout, e.g. "30s"; empty means none

	// Behavior
	Demo      bool   `json:"demo,omitempty" yaml:"demo,omitempty"`             // Serve sample data instead of calling the backend
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`       // Print detailed debug information
	LogJSON   bool   `json:"log_json,omitempty" yaml:"log_json,omitempty"`     // Emit logs as JSON
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"` // Directory for exported resumes

	// Session API
	ServerAddr string `json:"server_addr,omitempty" yaml:"server_addr,omitempty"` // Listen address of the serve command
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:     apiclient.DefaultBaseURL,
		OutputDir:  ".",
		ServerAddr: ":8080",
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the path
// ends in .yaml or .yml. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides file values with the environment. Unset variables are ignored.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		c.Timeout = v
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since every field has a default.
func (c *Config) Validate() error {
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'api_url' must be an http(s) URL, got %q", c.APIURL)
		}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if c.OutputDir != "" {
		info, err := os.Stat(c.OutputDir)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: output_dir is not a directory: %s", c.OutputDir)
		}
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid 'timeout' %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.ServerAddr == "" {
		result.ServerAddr = defaults.ServerAddr
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
