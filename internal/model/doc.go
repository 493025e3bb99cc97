// Package model defines the core data structures used throughout refusalscan.
//
// This package contains the following main types:
//   - Record: An insertion-ordered field mapping with a dynamic schema
//   - RefusalRecord: One extracted import refusal plus its charges
//   - CrawlResult: The recursively nested outcome of a traversal
//   - CrawlReport: The complete result of one crawl invocation
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extract, export, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage; serialization preserves source-page field order.
package model
