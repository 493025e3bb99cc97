package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. Changes to defaults must be intentional; these tests serve
// as living documentation.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected Timeout to be 60s, got %v", cfg.Timeout)
		}
	})

	t.Run("default MaxDepth is 32", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxDepth != 32 {
			t.Errorf("expected MaxDepth to be 32, got %d", cfg.MaxDepth)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("branch isolation is on by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.ContinueOnError {
			t.Error("expected ContinueOnError to default to true")
		}
	})

	t.Run("default markers match the report-site template", func(t *testing.T) {
		t.Parallel()
		if cfg.Markers.Region != "#user-content" {
			t.Errorf("expected region marker '#user-content', got %q", cfg.Markers.Region)
		}
		if cfg.Markers.Details != "table#details" {
			t.Errorf("expected details marker 'table#details', got %q", cfg.Markers.Details)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.SeedURLs = []string{"http://reports.example.gov/ora_oasis/index.html"}
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("missing seed URL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SeedURLs = nil
		if err := cfg.Validate(); !errors.Is(err, ErrNoSeedURL) {
			t.Errorf("expected ErrNoSeedURL, got %v", err)
		}
	})

	t.Run("zero timeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero max depth", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDepth = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxDepth) {
			t.Errorf("expected ErrInvalidMaxDepth, got %v", err)
		}
	})

	t.Run("negative max body size", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CSVReport = true
		cfg.JSONReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("empty marker selector", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Markers.Details = ""
		if err := cfg.Validate(); !errors.Is(err, ErrEmptyMarker) {
			t.Errorf("expected ErrEmptyMarker, got %v", err)
		}
	})
}

// TestLoadConfigFile tests YAML loading and overlay behavior.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("marker and default overrides apply", func(t *testing.T) {
		t.Parallel()

		content := `markers:
  region: "#content"
  details: "table.refusal-details"
defaults:
  maxDepth: 5
  userAgent: "custom-agent/1.0"
  continueOnError: false
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.Markers.Region != "#content" {
			t.Errorf("expected overridden region marker, got %q", cfg.Markers.Region)
		}
		if cfg.Markers.Details != "table.refusal-details" {
			t.Errorf("expected overridden details marker, got %q", cfg.Markers.Details)
		}
		// Unset selectors keep their defaults
		if cfg.Markers.List != "ul" {
			t.Errorf("expected default list marker 'ul', got %q", cfg.Markers.List)
		}
		if cfg.MaxDepth != 5 {
			t.Errorf("expected MaxDepth 5, got %d", cfg.MaxDepth)
		}
		if cfg.UserAgent != "custom-agent/1.0" {
			t.Errorf("expected overridden user agent, got %q", cfg.UserAgent)
		}
		if cfg.ContinueOnError {
			t.Error("expected ContinueOnError to be overridden to false")
		}
	})

	t.Run("malformed YAML fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("markers: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

// TestFindConfigFile tests the explicit-path branch of config discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "my.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
