// Package log provides crawl-friendly logging built on top of the standard
// slog package.
//
// The TrimHandler truncates oversized string attribute values (long query
// URLs, fragments of page markup) before they reach the underlying handler,
// keeping crawl logs readable even in verbose mode.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("visiting page", "url", pageURL)
//	slog.SetDefault(logger)
package log
