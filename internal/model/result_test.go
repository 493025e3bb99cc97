package model

import "testing"

// makeLeaf builds a detail-page leaf result with one named record.
func makeLeaf(url, firm string) *CrawlResult {
	rec := NewRefusalRecord(url)
	rec.Fields.Set("Firm Name", firm)
	return &CrawlResult{URL: url, Kind: "detail", Record: rec}
}

// TestCrawlResultFlatten verifies that flattening preserves traversal order.
func TestCrawlResultFlatten(t *testing.T) {
	t.Parallel()

	t.Run("depth-first order is preserved", func(t *testing.T) {
		t.Parallel()

		// Index -> [index -> [leaf A, leaf B], leaf C]
		root := &CrawlResult{
			URL:  "http://host/index",
			Kind: "link_index",
			Children: []*CrawlResult{
				{
					URL:  "http://host/sub",
					Kind: "table_link_index",
					Children: []*CrawlResult{
						makeLeaf("http://host/a", "A"),
						makeLeaf("http://host/b", "B"),
					},
				},
				makeLeaf("http://host/c", "C"),
			},
		}

		records := root.Flatten()
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}

		want := []string{"A", "B", "C"}
		for i, rec := range records {
			if v, _ := rec.Fields.Get("Firm Name"); v != want[i] {
				t.Errorf("record %d: expected firm %q, got %q", i, want[i], v)
			}
		}
	})

	t.Run("unknown pages flatten to nothing", func(t *testing.T) {
		t.Parallel()

		root := &CrawlResult{URL: "http://host/odd", Kind: "unknown"}
		if !root.Empty() {
			t.Error("expected unknown result to be empty")
		}
		if records := root.Flatten(); len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}

// TestCrawlReport tests report helpers.
func TestCrawlReport(t *testing.T) {
	t.Parallel()

	t.Run("new report has no errors", func(t *testing.T) {
		t.Parallel()

		report := NewCrawlReport("http://host/index")
		if report.HasErrors() {
			t.Error("expected fresh report to have no errors")
		}
		if report.RecordCount() != 0 {
			t.Errorf("expected 0 records, got %d", report.RecordCount())
		}
		if report.DateCrawled.IsZero() {
			t.Error("expected DateCrawled to be set")
		}
	})

	t.Run("branch errors are reported", func(t *testing.T) {
		t.Parallel()

		report := NewCrawlReport("http://host/index")
		report.BranchErrors = append(report.BranchErrors, BranchError{
			URL:     "http://host/broken",
			Message: "fetch failed",
		})
		if !report.HasErrors() {
			t.Error("expected report with branch errors to report HasErrors")
		}
	})
}
