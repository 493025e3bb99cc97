package page

import (
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Page is a parsed report-site page: a queryable tree plus the URL it was
// fetched from. It is created once per fetch and passed by reference to the
// classifier, the link collectors, and the extractors; none of them mutate
// it.
//
// Design decision: We wrap goquery rather than exposing *goquery.Document
// directly because the rest of the system only needs a small structural
// query surface (select by selector, direct-child scoping, attributes,
// trimmed text), and the URL belongs with the tree it was parsed from.
type Page struct {
	// url is the parsed source URL of the page.
	url *url.URL

	// doc is the parsed document tree.
	doc *goquery.Document
}

// ParseError indicates content that could not be parsed into a tree.
type ParseError struct {
	// URL is the page that failed to parse.
	URL string

	// Err is the underlying parser error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse builds a Page from raw content and its source URL.
// The URL must be absolute; it becomes the base for link absolutization.
func Parse(content io.Reader, pageURL string) (*Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	return &Page{url: u, doc: doc}, nil
}

// URL returns the page's source URL.
func (p *Page) URL() *url.URL {
	return p.url
}

// BaseURL returns the page's source URL as a string, used as the base for
// resolving the relative links found on it.
func (p *Page) BaseURL() string {
	return p.url.String()
}

// Select returns all elements matching the selector, in document order.
func (p *Page) Select(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}
