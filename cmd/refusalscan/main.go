// Package main provides the entry point for the refusalscan CLI.
//
// Refusalscan crawls import-refusal report sites, classifies each page by
// its structural markers, and extracts the refusal records from detail
// pages into structured reports.
//
// Usage:
//
//	refusalscan crawl <seed-url>
//	refusalscan history
//
// See --help for all available options.
package main

// main is the entry point for refusalscan.
func main() {
	Execute()
}
