package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for a small, focused report-site crawl; larger sites can
// override them via CLI flags or the configuration file.
const (
	// DefaultTimeout is the per-request connection timeout. Government
	// report servers are often slow, so the default is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxDepth bounds the traversal recursion. The report sites this
	// tool targets are three levels deep (index -> country index -> detail),
	// but the bound is kept well above that so a restructured site does not
	// silently lose records. Exceeding the bound fails the branch rather
	// than the process.
	DefaultMaxDepth = 32

	// DefaultBatchSize is the number of concurrent crawls when multiple
	// seed URLs are given. Each individual crawl remains sequential.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies refusalscan in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler traffic.
	DefaultUserAgent = "refusalscan/1.0 (+https://github.com/fdacrawl/refusalscan)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is ample for report pages while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "refusalscan"
)

// Config holds all configuration options for refusalscan.
// It is populated from CLI flags and the optional configuration file and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// SeedURLs is the list of report-index URLs to crawl.
	// Must contain at least one absolute http(s) URL.
	SeedURLs []string

	// Timeout is the connection timeout for each HTTP request.
	Timeout time.Duration

	// MaxDepth is the maximum recursion depth for the traversal.
	// Depth 0 is the seed page itself.
	MaxDepth int

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// BatchSize is the number of concurrent crawls when processing
	// multiple seed URLs.
	BatchSize int

	// ContinueOnError isolates traversal-branch failures: a failed fetch,
	// parse, or malformed detail page is recorded alongside the successful
	// records instead of aborting the run. When false, the first failure
	// aborts the whole crawl.
	ContinueOnError bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .refusalscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// Markers holds the structural marker selectors used to classify pages
	// and bound link collection. Loaded from the config file when present.
	Markers Markers

	// CSVReport enables CSV output of the extracted records.
	// Mutually exclusive with JSONReport and MarkdownReport.
	CSVReport bool

	// JSONReport enables JSON report output.
	// Mutually exclusive with CSVReport and MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with CSVReport and JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save crawl results to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeout, depth bound,
// marker selectors). This also serves as documentation of the defaults.
func NewConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		MaxDepth:        DefaultMaxDepth,
		MaxBodySize:     DefaultMaxBodySize,
		UserAgent:       DefaultUserAgent,
		BatchSize:       DefaultBatchSize,
		ContinueOnError: true,
		Markers:         DefaultMarkers(),
	}
}

// XDGDataDir returns the XDG data directory for refusalscan.
// On Linux: ~/.local/share/refusalscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for refusalscan.
// On Linux: ~/.config/refusalscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.SeedURLs) == 0 {
		return ErrNoSeedURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// Only one report format may be selected
	formats := 0
	for _, enabled := range []bool{c.CSVReport, c.JSONReport, c.MarkdownReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if err := c.Markers.Validate(); err != nil {
		return err
	}

	return nil
}
