package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/fdacrawl/refusalscan/internal/config"
	"github.com/fdacrawl/refusalscan/internal/extract"
	"github.com/fdacrawl/refusalscan/internal/fetch"
	"github.com/fdacrawl/refusalscan/internal/model"
	"github.com/fdacrawl/refusalscan/internal/page"
)

var (
	// ErrDepthExceeded is returned when a traversal branch runs past the
	// configured depth bound.
	ErrDepthExceeded = errors.New("crawler: max depth exceeded")

	// ErrInvalidSeedURL is returned when the seed URL cannot be parsed or
	// carries no http(s) scheme.
	ErrInvalidSeedURL = errors.New("crawler: invalid seed URL")
)

// Crawler traverses a report site depth-first from a seed URL, classifying
// each page and extracting refusal records from detail pages.
//
// A Crawler holds configuration only. All traversal state lives in a
// per-invocation struct, so one Crawler can serve any number of Crawl
// calls, concurrently or in sequence, without resets.
type Crawler struct {
	// fetcher retrieves page content.
	fetcher fetch.Fetcher

	// markers are the selectors that identify page shapes.
	markers config.Markers

	// maxDepth bounds the recursion. Depth 0 is the seed page; a branch
	// that would exceed the bound fails instead of recursing further.
	maxDepth int

	// continueOnError isolates branch failures instead of aborting.
	continueOnError bool

	// logger receives traversal progress and skip notices.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxDepth sets the recursion depth bound.
// Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Crawler) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithContinueOnError controls branch failure isolation. When enabled (the
// default), a failing branch is recorded on the report and the traversal
// moves on to the next link; when disabled the first failure aborts the
// whole crawl.
func WithContinueOnError(enabled bool) Option {
	return func(c *Crawler) {
		c.continueOnError = enabled
	}
}

// WithMarkers overrides the page-shape marker selectors.
func WithMarkers(markers config.Markers) Option {
	return func(c *Crawler) {
		c.markers = markers
	}
}

// WithLogger sets the logger for traversal progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler that fetches pages through the given Fetcher.
func New(fetcher fetch.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:         fetcher,
		markers:         config.DefaultMarkers(),
		maxDepth:        config.DefaultMaxDepth,
		continueOnError: true,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// crawlState is the mutable state of one Crawl invocation.
type crawlState struct {
	pagesVisited int
	branchErrors []model.BranchError
}

// Crawl traverses the site depth-first from seedURL and returns the
// completed report: the nested traversal result, the flattened ordered
// record sequence, and any branch errors collected along the way.
//
// A failure at the seed itself is fatal and is returned alongside a report
// that records it. Context cancellation always aborts the traversal
// regardless of the continue-on-error setting.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) (*model.CrawlReport, error) {
	report := model.NewCrawlReport(seedURL)

	if err := validateSeedURL(seedURL); err != nil {
		report.Error = err
		report.ErrorMessage = err.Error()
		return report, err
	}

	state := &crawlState{branchErrors: make([]model.BranchError, 0)}
	result, err := c.crawlPage(ctx, state, seedURL, 0)

	report.PagesVisited = state.pagesVisited
	report.BranchErrors = state.branchErrors

	if err != nil {
		report.Error = err
		report.ErrorMessage = err.Error()
		return report, err
	}

	report.Result = result
	report.Records = result.Flatten()

	c.logger.Debug("crawl complete",
		"seed", seedURL,
		"pages", report.PagesVisited,
		"records", report.RecordCount(),
		"branch_errors", len(report.BranchErrors))

	return report, nil
}

// crawlPage fetches, parses, and classifies one page, then dispatches on
// its kind. Index pages recurse into their collected links; detail pages
// extract a record; unknown pages terminate the branch empty.
func (c *Crawler) crawlPage(ctx context.Context, state *crawlState, pageURL string, depth int) (*model.CrawlResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > c.maxDepth {
		return nil, fmt.Errorf("%w: %s at depth %d", ErrDepthExceeded, pageURL, depth)
	}

	content, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	p, err := page.Parse(bytes.NewReader(content), pageURL)
	if err != nil {
		return nil, err
	}
	state.pagesVisited++

	kind := Classify(p, c.markers)
	c.logger.Debug("classified page", "url", pageURL, "kind", kind.String(), "depth", depth)

	result := &model.CrawlResult{URL: pageURL, Kind: kind.String()}

	switch kind {
	case KindLinkIndex:
		return c.crawlBranches(ctx, state, result, CollectListLinks(p, c.markers), depth)

	case KindTableLinkIndex:
		return c.crawlBranches(ctx, state, result, CollectTableLinks(p, c.markers), depth)

	case KindDetail:
		record, err := extract.Detail(p, c.markers)
		if err != nil {
			var shapeErr *extract.ShapeError
			if errors.As(err, &shapeErr) {
				// Malformed record: skip it and keep crawling. The skip
				// is visible in the log and on the report.
				c.logger.Warn("skipping malformed detail page",
					"url", pageURL, "reason", shapeErr.Detail)
				state.branchErrors = append(state.branchErrors,
					model.BranchError{URL: pageURL, Message: err.Error()})
				return result, nil
			}
			return nil, err
		}
		result.Record = record
		return result, nil

	default:
		return result, nil
	}
}

// crawlBranches recurses into each link in order, appending successful
// children to the result. With continue-on-error enabled a failed branch
// is logged and recorded instead of propagated; cancellation propagates
// unconditionally.
func (c *Crawler) crawlBranches(ctx context.Context, state *crawlState, result *model.CrawlResult, links []string, depth int) (*model.CrawlResult, error) {
	for _, link := range links {
		child, err := c.crawlPage(ctx, state, link, depth+1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			if !c.continueOnError {
				return nil, err
			}
			c.logger.Warn("branch failed", "url", link, "error", err)
			state.branchErrors = append(state.branchErrors,
				model.BranchError{URL: link, Message: err.Error()})
			continue
		}
		result.Children = append(result.Children, child)
	}
	return result, nil
}

// validateSeedURL checks that the seed is a parsable http(s) URL before
// any network traffic happens.
func validateSeedURL(seedURL string) error {
	u, err := url.Parse(seedURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSeedURL, seedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidSeedURL, seedURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q: missing host", ErrInvalidSeedURL, seedURL)
	}
	return nil
}
