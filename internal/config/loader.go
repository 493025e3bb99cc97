package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".refusalscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .refusalscan configuration file.
type File struct {
	// Markers overrides the structural marker selectors. Only non-empty
	// fields override the defaults.
	Markers Markers `yaml:"markers,omitempty"`

	// Defaults overrides crawl defaults.
	Defaults Defaults `yaml:"defaults,omitempty"`
}

// Defaults holds crawl settings configurable from the file.
// CLI flags take precedence over these values.
type Defaults struct {
	// MaxDepth overrides the traversal depth bound. Zero means unset.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// Timeout overrides the per-request timeout. Zero means unset.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header. Empty means unset.
	UserAgent string `yaml:"userAgent,omitempty"`

	// ContinueOnError sets branch-failure isolation. Nil means unset.
	ContinueOnError *bool `yaml:"continueOnError,omitempty"`
}

// LoadConfigFile loads marker and default overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .refusalscan in the current directory
// 3. Look for .refusalscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply overlays the file's settings onto cfg. Marker overrides are merged
// selector by selector; defaults only apply where set.
func (cf *File) Apply(cfg *Config) {
	cfg.Markers = cfg.Markers.merge(cf.Markers)

	if cf.Defaults.MaxDepth > 0 {
		cfg.MaxDepth = cf.Defaults.MaxDepth
	}
	if cf.Defaults.Timeout > 0 {
		cfg.Timeout = cf.Defaults.Timeout
	}
	if cf.Defaults.UserAgent != "" {
		cfg.UserAgent = cf.Defaults.UserAgent
	}
	if cf.Defaults.ContinueOnError != nil {
		cfg.ContinueOnError = *cf.Defaults.ContinueOnError
	}
}
