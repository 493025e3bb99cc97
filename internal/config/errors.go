package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSeedURL is returned when no seed URL is specified.
	ErrNoSeedURL = errors.New("no seed URL specified: provide one or more report-index URLs")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxDepth is returned when the depth bound is not positive.
	// A bound of zero would reject even the seed page.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of --csv,
	// --json, and --markdown is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: only one of --csv, --json, --markdown may be used")

	// ErrEmptyMarker is returned when a marker selector is configured empty.
	// Every classification marker must have a selector.
	ErrEmptyMarker = errors.New("invalid markers: selector must not be empty")
)
