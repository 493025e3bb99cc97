package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// Charges extracts the charge records from the last row of a details
// table. The row is expected to embed a table whose first row is the shared
// header schema and whose remaining rows are one charge each.
//
// Pairing is positional and the shorter side truncates: a row with fewer
// cells than the schema simply lacks the trailing keys (absent, not empty
// strings), and cells beyond the schema length are dropped. All charges
// from one table therefore share at most the header's key set.
func Charges(rowContainer *goquery.Selection) ([]*model.Record, error) {
	rows := rowContainer.Find("tr")
	if rows.Length() == 0 {
		return nil, &ShapeError{Detail: "charges table has no rows"}
	}

	schema := headerSchema(rows.First())

	charges := make([]*model.Record, 0, rows.Length()-1)
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		charge := model.NewRecord()
		row.ChildrenFiltered("td").EachWithBreak(func(i int, cell *goquery.Selection) bool {
			if i >= len(schema) {
				return false
			}
			charge.Set(schema[i], trimmedText(cell))
			return true
		})
		charges = append(charges, charge)
	})

	return charges, nil
}

// headerSchema returns the trimmed header-cell texts of the schema row, in
// order. Header cells are <th>; tables that mark their header row with
// plain <td> cells are accepted as a fallback.
func headerSchema(row *goquery.Selection) []string {
	cells := row.ChildrenFiltered("th")
	if cells.Length() == 0 {
		cells = row.ChildrenFiltered("td")
	}

	schema := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		schema = append(schema, trimmedText(cell))
	})
	return schema
}
