package extract

import "fmt"

// ShapeError indicates a detail page whose markup does not match the
// expected record shape: a missing details table, a field row without
// exactly one header and one data cell, a last row that does not embed a
// charges table, or a charges table with no rows.
//
// Policy (documented per the crawl contract): the crawler skips the
// malformed record and continues the traversal, logging the skip and
// recording it as a branch error. It never aborts the run for a shape
// violation.
type ShapeError struct {
	// URL is the page whose shape was violated.
	URL string

	// Detail describes what was wrong with the markup.
	Detail string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed detail page %s: %s", e.URL, e.Detail)
}
