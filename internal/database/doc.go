// Package database persists crawl runs and their refusal records in a
// local SQLite database.
//
// Each Crawl invocation can be saved as one run; records keep their
// flattened traversal order and their dynamic field schema (stored as
// ordered JSON), so a stored run re-exports byte-identically to a fresh
// one. The history command reads this database.
package database
