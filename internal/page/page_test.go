package page

import (
	"errors"
	"strings"
	"testing"
)

// TestParse tests page construction.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parses a well-formed page", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="user-content"><ul><li><a href="a.html">A</a></li></ul></div></body></html>`
		p, err := Parse(strings.NewReader(html), "http://host/path/index.html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if p.BaseURL() != "http://host/path/index.html" {
			t.Errorf("unexpected base URL %q", p.BaseURL())
		}
		if p.Select("#user-content ul a").Length() != 1 {
			t.Error("expected one anchor in user content")
		}
	})

	t.Run("invalid URL yields ParseError", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(strings.NewReader("<html></html>"), "http://host/%zz")
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %v", err)
		}
		if parseErr.URL != "http://host/%zz" {
			t.Errorf("expected failing URL in error, got %q", parseErr.URL)
		}
	})

	t.Run("tolerates tag soup", func(t *testing.T) {
		t.Parallel()

		// Legacy report sites emit unclosed tags; the parser must cope.
		html := `<html><body><div id="user-content"><table id="details"><tr><th>Firm<td>ACME</table>`
		p, err := Parse(strings.NewReader(html), "http://host/ir_detail.cfm?id=1")
		if err != nil {
			t.Fatalf("failed to parse tag soup: %v", err)
		}
		if p.Select("table#details").Length() != 1 {
			t.Error("expected details table to survive tag soup")
		}
	})
}
