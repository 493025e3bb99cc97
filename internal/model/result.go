package model

import "time"

// CrawlResult is the recursively nested outcome of crawling one URL.
// It is exactly one of:
//   - a leaf holding one RefusalRecord (detail page)
//   - an ordered list of child results (index page)
//   - empty (page matched no known shape)
type CrawlResult struct {
	// URL is the page this result was produced from.
	URL string `json:"url"`

	// Kind is the classification the page received.
	Kind string `json:"kind"`

	// Record is the extracted refusal for detail pages, nil otherwise.
	Record *RefusalRecord `json:"record,omitempty"`

	// Children holds sub-results for index pages, in link order.
	Children []*CrawlResult `json:"children,omitempty"`
}

// Empty reports whether the result carries no record and no children.
func (r *CrawlResult) Empty() bool {
	return r.Record == nil && len(r.Children) == 0
}

// Flatten walks the nested result depth-first and returns the refusal
// records as one flat ordered sequence. For an index with links [L1, L2]
// the output is L1's records followed by L2's records.
func (r *CrawlResult) Flatten() []*RefusalRecord {
	records := make([]*RefusalRecord, 0)
	r.flattenInto(&records)
	return records
}

func (r *CrawlResult) flattenInto(out *[]*RefusalRecord) {
	if r == nil {
		return
	}
	if r.Record != nil {
		*out = append(*out, r.Record)
	}
	for _, child := range r.Children {
		child.flattenInto(out)
	}
}

// BranchError records a failure that was isolated to one traversal branch
// instead of aborting the whole run.
type BranchError struct {
	// URL is the page whose branch failed.
	URL string `json:"url"`

	// Message is the failure description.
	Message string `json:"message"`
}

// CrawlReport is the complete outcome of one crawl invocation.
// It is the unit of work passed through the pipeline and consumed by the
// report writers and the database.
type CrawlReport struct {
	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// DateCrawled is when the crawl was performed.
	DateCrawled time.Time `json:"date_crawled"`

	// Result is the full nested traversal result.
	Result *CrawlResult `json:"result,omitempty"`

	// Records is Result flattened into the final ordered record sequence.
	Records []*RefusalRecord `json:"records"`

	// PagesVisited counts pages that were fetched and parsed.
	PagesVisited int `json:"pages_visited"`

	// BranchErrors holds per-branch failures collected when branch
	// isolation is enabled. Empty on a clean run.
	BranchErrors []BranchError `json:"branch_errors,omitempty"`

	// Error holds a fatal crawl error, if any. Kept out of JSON; use
	// ErrorMessage for serialized output.
	Error error `json:"-"`

	// ErrorMessage mirrors Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the pipeline steps that ran for this report.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// NewCrawlReport creates a report for the given seed URL with the crawl
// timestamp set to now.
func NewCrawlReport(seedURL string) *CrawlReport {
	return &CrawlReport{
		SeedURL:     seedURL,
		DateCrawled: time.Now(),
		Records:     make([]*RefusalRecord, 0),
	}
}

// RecordCount returns the number of extracted refusal records.
func (r *CrawlReport) RecordCount() int {
	return len(r.Records)
}

// HasErrors reports whether the run had a fatal error or any branch errors.
func (r *CrawlReport) HasErrors() bool {
	return r.Error != nil || r.ErrorMessage != "" || len(r.BranchErrors) > 0
}
