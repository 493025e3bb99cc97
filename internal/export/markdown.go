package export

import (
	"bytes"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// MarkdownWriter outputs crawl reports in Markdown format, designed for
// documentation and sharing. Built on the nao1215/markdown fluent builder.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	w.writeHeader(md, report)
	w.writeRecords(md, report)
	w.writeBranchErrors(md, report)
	w.writeFooter(md)

	if err := md.Build(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

// writeHeader writes crawl metadata as a table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Refusalscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Crawl Date", report.DateCrawled.Format("2006-01-02 15:04:05 MST")},
			{"Pages Visited", strconv.Itoa(report.PagesVisited)},
			{"Records", strconv.Itoa(report.RecordCount())},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.CrawlReport) string {
	switch {
	case report.ErrorMessage != "":
		return "❌ Error - " + report.ErrorMessage
	case len(report.BranchErrors) > 0:
		return "⚠️ Complete with " + strconv.Itoa(len(report.BranchErrors)) + " branch error(s)"
	default:
		return "✅ Complete"
	}
}

// writeRecords writes all refusal records as one table with a dynamic
// header, followed by per-record charge tables.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Refusal Records")
	md.PlainText("")

	if report.RecordCount() == 0 {
		md.PlainText("No records extracted.")
		md.PlainText("")
		return
	}

	names := fieldNames(report.Records)
	header := append([]string{"#"}, names...)
	header = append(header, "Charges")

	rows := make([][]string, 0, report.RecordCount())
	for i, record := range report.Records {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i+1))
		for _, name := range names {
			value, _ := record.Fields.Get(name)
			if value == "" {
				value = "-"
			}
			row = append(row, truncateCell(value, 60))
		}
		row = append(row, strconv.Itoa(len(record.Charges)))
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	md.PlainText("")

	w.writeCharges(md, report)
}

// writeCharges writes a charges table per record that has any.
func (w *MarkdownWriter) writeCharges(md *markdown.Markdown, report *model.CrawlReport) {
	wrote := false
	for i, record := range report.Records {
		if len(record.Charges) == 0 {
			continue
		}
		if !wrote {
			md.H2("Charges")
			md.PlainText("")
			wrote = true
		}

		md.H3("Record " + strconv.Itoa(i+1))
		md.PlainText("")

		// All charges from one table share the first charge's key set.
		keys := record.Charges[0].Keys()
		rows := make([][]string, 0, len(record.Charges))
		for _, charge := range record.Charges {
			row := make([]string, 0, len(keys))
			for _, key := range keys {
				value, _ := charge.Get(key)
				if value == "" {
					value = "-"
				}
				row = append(row, truncateCell(value, 60))
			}
			rows = append(rows, row)
		}

		md.Table(markdown.TableSet{
			Header: keys,
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeBranchErrors writes the isolated branch failures, if any.
func (w *MarkdownWriter) writeBranchErrors(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.BranchErrors) == 0 {
		return
	}

	md.H2("Branch Errors")
	md.PlainText("")
	md.Warningf("%d branch(es) failed and were skipped.", len(report.BranchErrors))
	md.PlainText("")

	items := make([]string, 0, len(report.BranchErrors))
	for _, be := range report.BranchErrors {
		items = append(items, "`"+be.URL+"` - "+be.Message)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [refusalscan](https://github.com/fdacrawl/refusalscan)*")
}

// truncateCell truncates a table cell to maxLen characters with ellipsis.
func truncateCell(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
