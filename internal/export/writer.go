package export

import (
	"io"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// Writer outputs a crawl report in one format.
// Implementations write to files, stdout, or anything else wrapped in an
// io.Writer.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.CrawlReport) (int, error)
}

// MultiWriter writes a report to multiple Writers, stopping on the first
// error. Useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
func (m *MultiWriter) Write(report *model.CrawlReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// fieldNames returns the union of all field names across records, in
// first-seen order. Records carry a dynamic schema, so tabular formats
// derive their header from the data itself.
func fieldNames(records []*model.RefusalRecord) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, record := range records {
		for _, key := range record.Fields.Keys() {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
		}
	}
	return names
}
