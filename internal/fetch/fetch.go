package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Default fetch settings. Overridable via options.
const (
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies refusalscan in HTTP requests.
	DefaultUserAgent = "refusalscan/1.0 (+https://github.com/fdacrawl/refusalscan)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Fetcher retrieves the raw content of a URL.
// The crawler consumes this as an abstract collaborator; tests substitute
// their own implementation.
type Fetcher interface {
	// Fetch returns the UTF-8 decoded content of the page at pageURL.
	// Failures are reported as *NetworkError.
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// NetworkError indicates a failed page fetch: unreachable host, non-2xx
// status, or timeout. The crawler treats it as fatal for the branch; there
// are no retries.
type NetworkError struct {
	// URL is the page that failed to fetch.
	URL string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	// hc is the underlying HTTP client.
	hc *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Useful for tests and for callers with their own transport configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// NewClient creates an HTTP Fetcher with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		hc:          &http.Client{Timeout: DefaultTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves pageURL and returns its body decoded to UTF-8.
//
// Legacy report sites still serve Windows-1252 and friends, so the body is
// run through a charset-aware reader keyed on the Content-Type header
// before it reaches the HTML parser.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	bodyReader := io.LimitReader(resp.Body, c.maxBodySize)
	decoded, err := charset.NewReader(bodyReader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}

	return body, nil
}
