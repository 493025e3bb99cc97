package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// DefaultBatchConcurrency is the default number of concurrent crawls when
// processing multiple seed URLs.
const DefaultBatchConcurrency = 4

// BatchProcessor runs the pipeline over multiple seed URLs concurrently.
// Each seed gets its own pipeline instance and report; within one seed the
// crawl itself stays synchronous and depth-first.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline per seed so state never
	// leaks between crawls.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent crawls.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent crawls.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
// The factory is called once per seed URL.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch crawls all seed URLs, at most `concurrency` at a time, and
// returns one report per seed in input order. A failed seed still yields
// its report with the failure recorded; the batch keeps going.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, seedURLs []string) ([]*model.CrawlReport, error) {
	bp.logger.Info("starting batch crawl",
		"total_seeds", len(seedURLs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Indexed writes keep input order without a mutex.
	results := make([]*model.CrawlReport, len(seedURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seedURLs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("crawling seed",
				"seed", seed,
				"index", i+1,
				"total", len(seedURLs),
			)

			report := model.NewCrawlReport(seed)
			results[i] = report

			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				// The failure is recorded on the report; other seeds
				// keep crawling.
				bp.logger.Warn("seed crawl failed",
					"seed", seed,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("seed crawl completed",
				"seed", seed,
				"records", report.RecordCount(),
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch crawl complete",
		"total_seeds", len(seedURLs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
