// Package export writes crawl reports in the supported output formats:
// human-readable text (default), CSV, JSON, and Markdown.
//
// All writers implement the Writer interface over *model.CrawlReport and
// respect the records' dynamic schema: tabular formats derive their
// column header from the union of field names, in first-seen order.
package export
