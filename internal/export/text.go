package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// TextWriter outputs human-readable text reports for terminal display.
// Plain ASCII, no ANSI colors, so the output pipes cleanly to files and
// other tools.
type TextWriter struct {
	baseWriter

	// verbose includes charge details for every record.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables charge details in the output.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeRecords(&sb, report)
	w.writeBranchErrors(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes crawl metadata.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        REFUSALSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed URL:      %s\n", report.SeedURL))
	sb.WriteString(fmt.Sprintf("Crawl Date:    %s\n", report.DateCrawled.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Visited: %d\n", report.PagesVisited))
	sb.WriteString(fmt.Sprintf("Records:       %d\n", report.RecordCount()))

	switch {
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:        ERROR - %s\n", report.ErrorMessage))
	case len(report.BranchErrors) > 0:
		sb.WriteString(fmt.Sprintf("Status:        Complete (%d branch errors)\n", len(report.BranchErrors)))
	default:
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeRecords writes every refusal record with its fields in order.
func (w *TextWriter) writeRecords(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("REFUSAL RECORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if report.RecordCount() == 0 {
		sb.WriteString("  No records extracted\n\n")
		return
	}

	for i, record := range report.Records {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, record.SourceURL))
		for _, key := range record.Fields.Keys() {
			value, _ := record.Fields.Get(key)
			sb.WriteString(fmt.Sprintf("  %s: %s\n", key, value))
		}

		if w.verbose {
			w.writeCharges(sb, record)
		} else {
			sb.WriteString(fmt.Sprintf("  Charges: %d\n", len(record.Charges)))
		}
		sb.WriteString("\n")
	}
}

// writeCharges writes the charge records of one refusal.
func (w *TextWriter) writeCharges(sb *strings.Builder, record *model.RefusalRecord) {
	if len(record.Charges) == 0 {
		sb.WriteString("  Charges: none\n")
		return
	}

	sb.WriteString("  Charges:\n")
	for _, charge := range record.Charges {
		parts := make([]string, 0, charge.Len())
		for _, key := range charge.Keys() {
			value, _ := charge.Get(key)
			parts = append(parts, fmt.Sprintf("%s=%s", key, value))
		}
		sb.WriteString(fmt.Sprintf("    * %s\n", strings.Join(parts, ", ")))
	}
}

// writeBranchErrors writes the isolated branch failures, if any.
func (w *TextWriter) writeBranchErrors(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.BranchErrors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("BRANCH ERRORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, be := range report.BranchErrors {
		sb.WriteString(fmt.Sprintf("  [!] %s\n      %s\n", be.URL, be.Message))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by refusalscan\n")
	sb.WriteString("https://github.com/fdacrawl/refusalscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
