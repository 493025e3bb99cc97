// Package crawler implements the depth-first traversal of a report site.
//
// Classify assigns each fetched page one of four structural kinds by
// probing the user-content region for marker elements; the link collectors
// gather and absolutize the outgoing links of index pages; Crawler ties
// fetching, parsing, classification, and record extraction together into a
// single Crawl entry point that returns a CrawlReport.
//
// The traversal is synchronous and depth-first with an explicit depth
// bound. There is no rate limiting, no retry, and no visited-URL
// deduplication: the crawl visits exactly the link tree the site exposes,
// in document order.
package crawler
