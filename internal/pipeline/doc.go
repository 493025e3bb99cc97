// Package pipeline composes the crawl, persistence, and export stages
// into a configurable sequence of steps over one CrawlReport.
//
// A Pipeline runs steps in order against a single report; a
// BatchProcessor fans a pipeline factory out over multiple seed URLs with
// bounded concurrency while each individual crawl stays synchronous.
package pipeline
