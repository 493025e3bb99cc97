package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// chargesColumn is the CSV header of the serialized charges column.
const chargesColumn = "Charges"

// CSVWriter outputs refusal records as CSV for spreadsheet import.
//
// Records carry no fixed schema, so the header is derived from the data:
// a source-URL column, then the union of all field names in first-seen
// order, then one column holding the charges as compact JSON. A record
// missing a field leaves its cell empty.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report's records as CSV.
func (w *CSVWriter) Write(report *model.CrawlReport) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	names := fieldNames(report.Records)

	header := make([]string, 0, len(names)+2)
	header = append(header, "Source URL")
	header = append(header, names...)
	header = append(header, chargesColumn)
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	for _, record := range report.Records {
		row := make([]string, 0, len(header))
		row = append(row, record.SourceURL)
		for _, name := range names {
			value, _ := record.Fields.Get(name)
			row = append(row, value)
		}

		chargesJSON, err := json.Marshal(record.Charges)
		if err != nil {
			return 0, err
		}
		row = append(row, string(chargesJSON))

		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
