// Package main provides the entry point for the refusalscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for refusalscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refusalscan",
		Short: "Crawler for import-refusal report sites",
		Long: `Refusalscan crawls import-refusal report sites and extracts refusal
records into structured reports.

It classifies each page by its structural markers (link indexes, country
tables, detail tables), follows report links depth-first, and collects the
field and charge data from every detail page it reaches.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
