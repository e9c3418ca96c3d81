package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aluiziolira/book-insights/config"
	"github.com/andybalholm/brotli"
	"github.com/jarcoal/httpmock"
)

const testURL = "http://example.test/catalogue/index.html"

func newTestFetcher(t *testing.T, cfg *config.Config, responder httpmock.Responder) *Fetcher {
	t.Helper()
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", testURL, responder)

	f := NewFetcher(cfg, NewMetrics())
	f.WithTransport(transport)
	return f
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	return httpmock.ResponderFromResponse(resp)
}

func TestBackoffCapped(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RetryBackoff = 200 * time.Millisecond
	cfg.RetryBackoffMax = 500 * time.Millisecond

	if got := backoff(cfg, 1); got != 200*time.Millisecond {
		t.Fatalf("first backoff = %v, want 200ms", got)
	}
	if got := backoff(cfg, 4); got > cfg.RetryBackoffMax {
		t.Fatalf("delay %v exceeds max %v", got, cfg.RetryBackoffMax)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "forbidden", err: nil, statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: nil, statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server", err: errors.New("Bad Gateway"), statusCode: http.StatusBadGateway, expected: "server"},
		{name: "teapot", err: errors.New("I'm a teapot"), statusCode: http.StatusTeapot, expected: "status"},
		{name: "empty address", err: ErrEmptyAddress, statusCode: 0, expected: "invalid_request"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
		{name: "decode after 200", err: ErrDecode{Encoding: "br", Err: errors.New("corrupt")}, statusCode: http.StatusOK, expected: "decode"},
		{name: "too large after 200", err: ErrBodyTooLarge{Limit: 1}, statusCode: http.StatusOK, expected: "too_large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(classifyError(tt.err, tt.statusCode)); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestFetcherReturnsBody(t *testing.T) {
	body := `<html><body><article class="product_pod"></article></body></html>`
	f := newTestFetcher(t, config.DefaultConfig(), htmlResponder(body))

	got, err := f.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got) != body {
		t.Fatalf("body = %q, want %q", got, body)
	}
}

func TestFetcherHTTPStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{status: http.StatusTooManyRequests, expected: "rate_limited"},
		{status: http.StatusForbidden, expected: "forbidden"},
		{status: http.StatusNotFound, expected: "not_found"},
		{status: http.StatusInternalServerError, expected: "server"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			f := newTestFetcher(t, config.DefaultConfig(), httpmock.NewStringResponder(tt.status, ""))

			_, err := f.Fetch(context.Background(), testURL)
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if fetchErr.Kind != tt.expected {
				t.Fatalf("kind = %q, want %q", fetchErr.Kind, tt.expected)
			}
			if fetchErr.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", fetchErr.StatusCode, tt.status)
			}
		})
	}
}

func TestFetcherConnectionFailure(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	f := newTestFetcher(t, config.DefaultConfig(), httpmock.NewErrorResponder(refused))

	_, err := f.Fetch(context.Background(), testURL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Kind != "connection" {
		t.Fatalf("kind = %q, want connection", fetchErr.Kind)
	}
	if fetchErr.Unwrap() == nil {
		t.Fatalf("fetch error should carry its cause")
	}
}

func TestFetcherEmptyAddress(t *testing.T) {
	f := NewFetcher(config.DefaultConfig(), nil)

	_, err := f.Fetch(context.Background(), "  ")
	if !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("expected ErrEmptyAddress, got %v", err)
	}
}

func TestFetcherNoRetryByDefault(t *testing.T) {
	var calls int32
	responder := func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return httpmock.NewStringResponse(http.StatusServiceUnavailable, ""), nil
	}
	f := newTestFetcher(t, config.DefaultConfig(), responder)

	if _, err := f.Fetch(context.Background(), testURL); err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestFetcherRetriesRetryableFailures(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryBackoff = time.Millisecond
	cfg.RetryBackoffMax = 2 * time.Millisecond

	var calls int32
	responder := func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return httpmock.NewStringResponse(http.StatusBadGateway, ""), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, "<html></html>"), nil
	}
	f := newTestFetcher(t, cfg, responder)

	body, err := f.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != "<html></html>" {
		t.Fatalf("body = %q", body)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestFetcherDoesNotRetryNotFound(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 3
	cfg.RetryBackoff = time.Millisecond

	var calls int32
	responder := func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return httpmock.NewStringResponse(http.StatusNotFound, ""), nil
	}
	f := newTestFetcher(t, cfg, responder)

	if _, err := f.Fetch(context.Background(), testURL); err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func brotliBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func encodedResponder(body []byte, contentType, encoding string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewBytesResponse(http.StatusOK, body)
		resp.Header.Set("Content-Type", contentType)
		resp.Header.Set("Content-Encoding", encoding)
		return resp, nil
	}
}

func TestFetcherDecodesBrotli(t *testing.T) {
	page := "<html><body>br</body></html>"
	f := newTestFetcher(t, config.DefaultConfig(),
		encodedResponder(brotliBytes(t, []byte(page)), "text/html; charset=utf-8", "br"))

	got, err := f.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got) != page {
		t.Fatalf("body = %q, want %q", got, page)
	}
}

func TestFetcherDecodesBrotliBeforeCharset(t *testing.T) {
	// "Café" in ISO-8859-1.
	latin1 := []byte("<html><body><h3>Caf\xe9</h3></body></html>")
	f := newTestFetcher(t, config.DefaultConfig(),
		encodedResponder(brotliBytes(t, latin1), "text/html; charset=iso-8859-1", "br"))

	got, err := f.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(string(got), "Café") {
		t.Fatalf("body = %q, want transcoded Café", got)
	}
}

func TestFetcherCorruptBrotliIsDecodeError(t *testing.T) {
	full := brotliBytes(t, []byte(strings.Repeat("<p>catalogue</p>", 512)))
	truncated := full[:len(full)/2]
	f := newTestFetcher(t, config.DefaultConfig(),
		encodedResponder(truncated, "text/html; charset=utf-8", "br"))

	_, err := f.Fetch(context.Background(), testURL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Kind != "decode" {
		t.Fatalf("kind = %q, want decode", fetchErr.Kind)
	}
	if fetchErr.Retryable() {
		t.Fatalf("decode failures should not be retried")
	}
}

func TestFetcherRejectsOversizedBody(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxBodySize = 16
	f := newTestFetcher(t, cfg, htmlResponder(strings.Repeat("x", 64)))

	_, err := f.Fetch(context.Background(), testURL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Kind != "too_large" {
		t.Fatalf("kind = %q, want too_large", fetchErr.Kind)
	}
}

func TestFetcherAcceptsBodyAtLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxBodySize = 16
	body := strings.Repeat("x", 16)
	f := newTestFetcher(t, cfg, htmlResponder(body))

	got, err := f.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got) != body {
		t.Fatalf("body = %q", got)
	}
}
