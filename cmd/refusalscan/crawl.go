package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fdacrawl/refusalscan/internal/config"
	"github.com/fdacrawl/refusalscan/internal/crawler"
	"github.com/fdacrawl/refusalscan/internal/database"
	"github.com/fdacrawl/refusalscan/internal/export"
	"github.com/fdacrawl/refusalscan/internal/fetch"
	"github.com/fdacrawl/refusalscan/internal/log"
	"github.com/fdacrawl/refusalscan/internal/model"
	"github.com/fdacrawl/refusalscan/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]",
		Short: "Crawl a report site and extract refusal records",
		Long: `Crawl traverses a report site starting from one or more seed URLs.

Each page is classified by its structural markers: link indexes and country
tables are followed recursively, detail pages are extracted into refusal
records with their charge sub-tables. Pages without a recognized shape are
skipped. Branch failures are recorded alongside the successful records
unless --continue-on-error=false is given.

Examples:
  # Crawl a report index
  refusalscan crawl https://www.example.gov/importrefusals/

  # Crawl multiple monthly indexes concurrently
  refusalscan crawl https://example.gov/ir/2026-01/ https://example.gov/ir/2026-02/

  # Output CSV to a file
  refusalscan crawl --csv -o refusals.csv https://www.example.gov/importrefusals/

  # Use a custom configuration file with marker overrides
  refusalscan crawl -c myconfig.yaml https://www.example.gov/importrefusals/

Configuration file (.refusalscan) example:
  markers:
    region: "#user-content"
    details: "table#details"
  defaults:
    maxDepth: 8
    timeout: 30s`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl recursion depth")
	cmd.Flags().Bool("continue-on-error", true,
		"Record branch failures and keep crawling instead of aborting on the first failure")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawls when multiple seed URLs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .refusalscan in current or home directory)")

	// Report flags
	cmd.Flags().Bool("csv", false,
		"Output CSV report (mutually exclusive with --json and --markdown)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --csv and --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --csv and --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// The configuration file is applied first; explicitly set flags override
// the file's values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load marker and default overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags set on the command line take precedence over the file.
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeout
	}

	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("depth") {
		cfg.MaxDepth = depth
	}

	continueOnError, err := cmd.Flags().GetBool("continue-on-error")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.ContinueOnError = continueOnError
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (seed URLs)
	cfg.SeedURLs = args

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.SeedURLs,
		"maxDepth", cfg.MaxDepth,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.RefusalDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	// Use batch processor for concurrent crawling if multiple seeds
	if len(cfg.SeedURLs) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, client, db, logger)
	}

	// Single seed or sequential crawling
	return runSequentialCrawl(ctx, cfg, client, db, logger)
}

// runSequentialCrawl crawls seeds one at a time.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, client *fetch.Client, db *database.RefusalDB, logger *slog.Logger) error {
	for _, seed := range cfg.SeedURLs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipeline(cfg, client, db, logger)

		report := model.NewCrawlReport(seed)

		fmt.Printf("Crawling %s...\n", seed)
		startTime := time.Now()

		if err := p.Execute(ctx, report); err != nil {
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Crawl completed in %s (%d pages, %d records)\n\n",
			elapsed.Round(time.Millisecond), report.PagesVisited, report.RecordCount())

		if err := outputReport(cfg, report); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchCrawl crawls multiple seeds concurrently using BatchProcessor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, client *fetch.Client, db *database.RefusalDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch crawl of %d seeds (concurrency: %d)...\n\n",
		len(cfg.SeedURLs), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(cfg, client, db, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.SeedURLs)
	if err != nil {
		return err
	}

	for i, report := range reports {
		if report == nil {
			continue
		}
		if report.Error != nil {
			fmt.Printf("[%d/%d] Crawl failed: %s (%s)\n", i+1, len(reports),
				report.SeedURL, report.ErrorMessage)
			continue
		}

		fmt.Printf("[%d/%d] Crawl completed: %s (%d records)\n", i+1, len(reports),
			report.SeedURL, report.RecordCount())

		if err := outputReport(cfg, report); err != nil {
			logger.Error("report failed", "seed", report.SeedURL, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch crawl completed in %s\n", elapsed.Round(time.Millisecond))

	return nil
}

// createPipeline creates a pipeline with the given configuration.
// The pipeline crawls and, when a database is available, persists the run.
func createPipeline(cfg *config.Config, client *fetch.Client, db *database.RefusalDB, logger *slog.Logger) *pipeline.Pipeline {
	c := crawler.New(client,
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithContinueOnError(cfg.ContinueOnError),
		crawler.WithMarkers(cfg.Markers),
		crawler.WithLogger(logger),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewCrawlStep(c, pipeline.WithCrawlLogger(logger)))
	if db != nil {
		p.AddStep(pipeline.NewSaveStep(db, pipeline.WithSaveLogger(logger)))
	}

	return p
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, report *model.CrawlReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer export.Writer
	switch {
	case cfg.CSVReport:
		writer = export.NewCSVWriter(output)
	case cfg.JSONReport:
		writer = export.NewJSONWriter(output, export.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = export.NewMarkdownWriter(output)
	default:
		// Human-readable report
		writer = export.NewTextWriter(output, export.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(report)
	return err
}
