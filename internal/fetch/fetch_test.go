package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestClientFetch tests the HTTP fetcher against a local server.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the body on success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer srv.Close()

		body, err := NewClient().Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if !strings.Contains(string(body), "ok") {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		client := NewClient(WithUserAgent("test-agent/0.1"))
		if _, err := client.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if gotUA != "test-agent/0.1" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
	})

	t.Run("non-2xx status is a NetworkError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewClient().Fetch(context.Background(), srv.URL)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %v", err)
		}
		if netErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", netErr.StatusCode)
		}
	})

	t.Run("unreachable host is a NetworkError", func(t *testing.T) {
		t.Parallel()

		// Reserve a port, then close the server so nothing listens on it.
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		addr := srv.URL
		srv.Close()

		_, err := NewClient().Fetch(context.Background(), addr)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %v", err)
		}
		if netErr.Err == nil {
			t.Error("expected transport error to be wrapped")
		}
	})

	t.Run("body is capped at max size", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		}))
		defer srv.Close()

		client := NewClient(WithMaxBodySize(64))
		body, err := client.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(body) > 64 {
			t.Errorf("expected at most 64 bytes, got %d", len(body))
		}
	})

	t.Run("non-UTF8 content is decoded", func(t *testing.T) {
		t.Parallel()

		// "café" in ISO-8859-1: the é is a single 0xE9 byte.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte{'c', 'a', 'f', 0xE9})
		}))
		defer srv.Close()

		body, err := NewClient().Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if string(body) != "café" {
			t.Errorf("expected decoded UTF-8 'café', got %q", body)
		}
	})

	t.Run("cancelled context aborts the fetch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewClient().Fetch(ctx, srv.URL); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
