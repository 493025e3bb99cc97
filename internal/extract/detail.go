package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fdacrawl/refusalscan/internal/config"
	"github.com/fdacrawl/refusalscan/internal/model"
	"github.com/fdacrawl/refusalscan/internal/page"
)

// Detail extracts one RefusalRecord from a page classified as a detail
// page. The page's user-content region must contain a details-marked table
// whose direct child rows carry the refusal's fields, with the last row
// embedding the charges sub-table.
//
// The direct-child restriction matters: the charges sub-table has rows of
// its own, and an unrestricted descendant selection would double-count
// them as field rows.
func Detail(p *page.Page, markers config.Markers) (*model.RefusalRecord, error) {
	table := p.Select(markers.Region).Find(markers.Details).First()
	if table.Length() == 0 {
		return nil, &ShapeError{URL: p.BaseURL(), Detail: "no details table in user-content region"}
	}

	rows := directRows(table)
	if rows.Length() == 0 {
		return nil, &ShapeError{URL: p.BaseURL(), Detail: "details table has no rows"}
	}

	// The last direct row is special: it holds the charges sub-table.
	// This is a checked precondition, not an assumption.
	last := rows.Last()
	if last.Find("table").Length() == 0 {
		return nil, &ShapeError{URL: p.BaseURL(), Detail: "last row does not embed a charges table"}
	}

	charges, err := Charges(last)
	if err != nil {
		var shapeErr *ShapeError
		if errors.As(err, &shapeErr) {
			shapeErr.URL = p.BaseURL()
		}
		return nil, err
	}

	record := model.NewRefusalRecord(p.BaseURL())
	record.Charges = charges

	var rowErr error
	rows.Slice(0, rows.Length()-1).EachWithBreak(func(i int, row *goquery.Selection) bool {
		headers := row.ChildrenFiltered("th")
		cells := row.ChildrenFiltered("td")
		if headers.Length() != 1 || cells.Length() != 1 {
			rowErr = &ShapeError{
				URL: p.BaseURL(),
				Detail: fmt.Sprintf("field row %d has %d header and %d data cells, want 1 and 1",
					i, headers.Length(), cells.Length()),
			}
			return false
		}

		// Last occurrence wins on duplicate field names.
		record.Fields.Set(trimmedText(headers), trimmedText(cells))
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return record, nil
}

// directRows selects the rows that are direct children of the table,
// excluding rows of any nested sub-table. The HTML parser inserts an
// implicit tbody around bare <tr> elements, so both shapes are handled.
func directRows(table *goquery.Selection) *goquery.Selection {
	rows := table.ChildrenFiltered("tr")
	return rows.AddSelection(
		table.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr"),
	)
}

// trimmedText returns the whitespace-trimmed text of a selection.
func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
