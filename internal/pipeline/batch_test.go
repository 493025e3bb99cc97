package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/fdacrawl/refusalscan/internal/crawler"
)

// TestProcessBatch tests concurrent multi-seed crawling.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("one report per seed in input order", func(t *testing.T) {
		t.Parallel()

		fetcher := siteFetcher()
		factory := func() *Pipeline {
			p := New()
			p.AddStep(NewCrawlStep(crawler.New(fetcher)))
			return p
		}

		seeds := []string{"http://host/a.cfm", "http://host/b.cfm", "http://host/"}
		bp := NewBatchProcessor(factory, WithConcurrency(2))

		reports, err := bp.ProcessBatch(context.Background(), seeds)
		if err != nil {
			t.Fatalf("batch failed: %v", err)
		}
		if len(reports) != len(seeds) {
			t.Fatalf("expected %d reports, got %d", len(seeds), len(reports))
		}
		for i, seed := range seeds {
			if reports[i].SeedURL != seed {
				t.Errorf("report %d: expected seed %q, got %q", i, seed, reports[i].SeedURL)
			}
		}
		if reports[0].RecordCount() != 1 || reports[2].RecordCount() != 2 {
			t.Errorf("unexpected record counts: %d, %d",
				reports[0].RecordCount(), reports[2].RecordCount())
		}
	})

	t.Run("failed seed does not sink the batch", func(t *testing.T) {
		t.Parallel()

		fetcher := siteFetcher()
		factory := func() *Pipeline {
			p := New()
			p.AddStep(NewCrawlStep(crawler.New(fetcher)))
			return p
		}

		seeds := []string{"http://host/missing.cfm", "http://host/a.cfm"}
		reports, err := NewBatchProcessor(factory).ProcessBatch(context.Background(), seeds)
		if err != nil {
			t.Fatalf("batch failed: %v", err)
		}

		if reports[0].Error == nil || !strings.Contains(reports[0].ErrorMessage, "missing.cfm") {
			t.Errorf("expected the failure recorded on the first report, got %+v", reports[0])
		}
		if reports[1].RecordCount() != 1 {
			t.Errorf("expected the second seed to succeed, got %d records", reports[1].RecordCount())
		}
	})
}
