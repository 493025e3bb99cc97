package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fdacrawl/refusalscan/internal/config"
	"github.com/fdacrawl/refusalscan/internal/database"
	"github.com/fdacrawl/refusalscan/internal/model"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists and re-exports crawl runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List stored crawl runs or re-export one",
		Long: `History lists the crawl runs stored in the database.

Every crawl is saved automatically. Without arguments this command prints
a table of stored runs with their IDs, dates, and record counts. Given a
run ID, it loads the stored records and re-exports them in the requested
format, so a past crawl can be converted to CSV, JSON, or Markdown
without crawling the site again.

Examples:
  # List all stored crawl runs
  refusalscan history

  # Show a stored run as a human-readable report
  refusalscan history 5

  # Re-export a stored run as CSV
  refusalscan history 5 --csv -o refusals.csv

  # Re-export a stored run as JSON
  refusalscan history 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Output format flags
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

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// Validate the run ID before opening the database
	var runID int64
	if len(args) > 0 {
		var err error
		runID, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[0], err)
		}
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open read-only: listing history must not create an empty database
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (no crawls stored yet?): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if len(args) == 0 {
		return listCrawlHistory(ctx, db)
	}

	return exportStoredRun(ctx, cmd, db, runID)
}

// listCrawlHistory lists all crawl runs stored in the database.
func listCrawlHistory(ctx context.Context, db *database.RefusalDB) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list crawl runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No crawl runs found in the database.")
		fmt.Println("\nUse 'refusalscan crawl <seed-url>' to crawl a report site.")
		return nil
	}

	fmt.Printf("Stored crawl runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-7s  %-8s  %-8s  %s\n",
		"ID", "Date", "Pages", "Records", "Status", "Seed URL")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-7d  %-8d  %-8s  %s\n",
			run.ID,
			run.DateCrawled.Format("2006-01-02 15:04:05"),
			run.PagesVisited,
			run.RecordCount,
			formatRunStatus(run.ErrorMessage),
			run.SeedURL,
		)
	}

	fmt.Println("\nUse 'refusalscan history <id>' to re-export a stored run.")

	return nil
}

// formatRunStatus formats the stored run status for display.
func formatRunStatus(errorMessage string) string {
	if errorMessage != "" {
		return "failed"
	}
	return "ok"
}

// exportStoredRun loads a stored run and outputs it in the requested format.
func exportStoredRun(ctx context.Context, cmd *cobra.Command, db *database.RefusalDB, runID int64) error {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", runID, err)
	}
	if run == nil {
		return fmt.Errorf("run %d not found (use 'refusalscan history' to list stored runs)", runID)
	}

	records, err := db.GetRunRecords(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load records for run %d: %w", runID, err)
	}

	// Rebuild a report from the stored run
	report := model.NewCrawlReport(run.SeedURL)
	report.DateCrawled = run.DateCrawled
	report.PagesVisited = run.PagesVisited
	report.Records = records
	report.ErrorMessage = run.ErrorMessage

	cfg, err := buildHistoryConfig(cmd)
	if err != nil {
		return err
	}

	return outputReport(cfg, report)
}

// buildHistoryConfig creates a Config holding only the output settings.
func buildHistoryConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

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

	// Only one report format may be selected
	formats := 0
	for _, enabled := range []bool{cfg.CSVReport, cfg.JSONReport, cfg.MarkdownReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return nil, config.ErrConflictingReportFormats
	}

	return cfg, nil
}
