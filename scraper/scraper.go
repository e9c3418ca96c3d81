// Package scraper retrieves catalogue pages for the extraction pipeline.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aluiziolira/book-insights/config"
	"github.com/gocolly/colly/v2"
)

// Fetcher wraps a colly collector that issues one page request per call.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	Metrics   *Metrics
}

// NewFetcher builds a fetcher configured from cfg. A nil metrics disables instrumentation.
func NewFetcher(cfg *config.Config, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(readLimit(cfg.MaxBodySize)),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(newBrotliTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}))

	return &Fetcher{
		cfg:       cfg,
		collector: collector,
		Metrics:   metrics,
	}
}

// WithTransport swaps the HTTP transport used by every subsequent fetch.
// Brotli decoding stays in front of rt.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(newBrotliTransport(rt))
}

// Fetch returns the decoded body of address. Failures are reported as *FetchError.
// Retries only happen when MaxRetries is positive and the failure is retryable.
func (f *Fetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(address) == "" {
		f.Metrics.IncFetch("error")
		f.Metrics.IncError("invalid_request")
		return nil, &FetchError{URL: address, Kind: "invalid_request", Err: ErrEmptyAddress}
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, f.fail(address, 0, err)
		}

		body, err := f.fetchOnce(address)
		if err == nil {
			f.Metrics.IncFetch("success")
			return body, nil
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) || !fetchErr.Retryable() || attempt >= f.cfg.MaxRetries {
			return nil, err
		}

		delay := backoff(f.cfg, attempt+1)
		f.Metrics.IncRetries()
		slog.Debug("retrying fetch",
			slog.String("url", address),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, f.fail(address, 0, ctx.Err())
		case <-timer.C:
		}
	}
}

func (f *Fetcher) fetchOnce(address string) ([]byte, error) {
	c := f.collector.Clone()

	var (
		body       []byte
		statusCode int
	)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Encoding", acceptEncoding)
	})

	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	start := time.Now()
	err := c.Visit(address)
	f.Metrics.ObserveDuration(time.Since(start))
	if err != nil {
		return nil, f.fail(address, statusCode, err)
	}

	if limit := f.cfg.MaxBodySize; limit > 0 && len(body) > limit {
		return nil, f.fail(address, statusCode, ErrBodyTooLarge{Limit: limit})
	}

	slog.Debug("fetch complete",
		slog.String("url", address),
		slog.Int("status", statusCode),
		slog.Int("size", len(body)),
		slog.Duration("duration", time.Since(start)),
	)
	return body, nil
}

// readLimit lets the collector read one byte past limit so truncation is detectable.
// Zero or less means unlimited.
func readLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	return limit + 1
}

func (f *Fetcher) fail(address string, statusCode int, err error) *FetchError {
	classified := classifyError(err, statusCode)
	kind := errorTypeLabel(classified)

	f.Metrics.IncFetch("error")
	f.Metrics.IncError(kind)

	return &FetchError{
		URL:        address,
		StatusCode: statusCode,
		Kind:       kind,
		Err:        classified,
	}
}

func backoff(cfg *config.Config, attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}
