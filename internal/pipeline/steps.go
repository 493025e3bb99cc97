package pipeline

import (
	"context"
	"log/slog"

	"github.com/fdacrawl/refusalscan/internal/crawler"
	"github.com/fdacrawl/refusalscan/internal/database"
	"github.com/fdacrawl/refusalscan/internal/export"
	"github.com/fdacrawl/refusalscan/internal/model"
)

// CrawlStep runs the site traversal and fills the report with its
// results. It is the first step of every pipeline; the later steps only
// consume what it produced.
type CrawlStep struct {
	// crawler performs the traversal.
	crawler *crawler.Crawler

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step around a configured Crawler.
func NewCrawlStep(c *crawler.Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls the report's seed URL and merges the outcome into the report.
func (s *CrawlStep) Do(ctx context.Context, report *model.CrawlReport) error {
	result, err := s.crawler.Crawl(ctx, report.SeedURL)

	// The crawler fills its own report; carry its outcome over so the
	// caller's report instance stays the single unit of work.
	report.DateCrawled = result.DateCrawled
	report.Result = result.Result
	report.Records = result.Records
	report.PagesVisited = result.PagesVisited
	report.BranchErrors = result.BranchErrors

	if err != nil {
		return err
	}

	s.logger.Info("crawl completed",
		"seed", report.SeedURL,
		"pages", report.PagesVisited,
		"records", report.RecordCount(),
	)

	return nil
}

// SaveStep persists the report to the refusal database.
type SaveStep struct {
	// db is the open database to save into.
	db *database.RefusalDB

	// logger for structured logging.
	logger *slog.Logger
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		s.logger = logger
	}
}

// NewSaveStep creates a save step around an open database.
func NewSaveStep(db *database.RefusalDB, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do stores the report as a new crawl run.
func (s *SaveStep) Do(ctx context.Context, report *model.CrawlReport) error {
	runID, err := s.db.SaveReport(ctx, report)
	if err != nil {
		return err
	}

	s.logger.Info("report saved",
		"run_id", runID,
		"records", report.RecordCount(),
	)

	return nil
}

// ExportStep writes the report through a configured export writer.
type ExportStep struct {
	// writer formats and outputs the report.
	writer export.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ExportStepOption {
	return func(s *ExportStep) {
		s.logger = logger
	}
}

// NewExportStep creates an export step around a report writer.
func NewExportStep(w export.Writer, opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		writer: w,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do writes the report to the step's output.
func (s *ExportStep) Do(_ context.Context, report *model.CrawlReport) error {
	n, err := s.writer.Write(report)
	if err != nil {
		return err
	}

	s.logger.Debug("report exported", "bytes", n)
	return nil
}
