// Package pipeline runs a single scrape: fetch, extract, normalise, classify.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/book-insights/models"
	"github.com/aluiziolira/book-insights/parser"
	"github.com/aluiziolira/book-insights/scraper"
	"github.com/aluiziolira/book-insights/sentiment"
	"github.com/aluiziolira/book-insights/session"
)

// ErrNoDataFound is returned when a page yields no records.
var ErrNoDataFound = errors.New("no data found on this page")

var errNoResultSet = errors.New("session has no result set")

// ReasonInvalidRecord marks records rejected by validation after classification.
const ReasonInvalidRecord = "invalid record"

// UnexpectedError wraps any failure outside the fetch and per-item taxonomy.
type UnexpectedError struct {
	Stage string
	Err   error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error during %s: %v", e.Stage, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Fetcher retrieves the raw markup at an address.
type Fetcher interface {
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// Report describes one scrape attempt, successful or not.
type Report struct {
	models.ScrapeStats
	Records []models.BookRecord
	Skipped []*parser.ItemSkipped
	Events  []Event
}

// Pipeline holds the collaborators of a scrape. It keeps no per-scrape state.
type Pipeline struct {
	fetcher    Fetcher
	extractor  parser.Extractor
	classifier *sentiment.Classifier
	metrics    *scraper.Metrics
	sink       EventSink
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithMetrics records scrape outcomes on m.
func WithMetrics(m *scraper.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithEventSink delivers events to sink in addition to the report.
func WithEventSink(sink EventSink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// New assembles a pipeline. A nil classifier scores without caching.
func New(fetcher Fetcher, extractor parser.Extractor, classifier *sentiment.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    fetcher,
		extractor:  extractor,
		classifier: classifier,
		sink:       LogSink{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scrape runs the pipeline and, only on success, replaces the session's results.
// On any error the previous results are left untouched.
func (p *Pipeline) Scrape(ctx context.Context, sess *session.Session, address string) (*Report, error) {
	if sess == nil || sess.Results == nil {
		now := time.Now()
		report := &Report{ScrapeStats: models.ScrapeStats{URL: address, StartTime: now, EndTime: now}}
		err := &UnexpectedError{Stage: "scrape", Err: errNoResultSet}
		p.emit(report, Event{Level: slog.LevelError, Message: "an unexpected error occurred", Err: err})
		p.metrics.IncScrape("unexpected")
		return report, err
	}

	report, err := p.Run(ctx, address)
	if err != nil {
		return report, err
	}
	sess.Results.Replace(report.Records)
	return report, nil
}

// Run executes one scrape and returns its report. The report is never nil.
func (p *Pipeline) Run(ctx context.Context, address string) (report *Report, err error) {
	report = &Report{ScrapeStats: models.ScrapeStats{URL: address, StartTime: time.Now()}}

	defer func() {
		if r := recover(); r != nil {
			err = &UnexpectedError{Stage: "scrape", Err: fmt.Errorf("panic: %v", r)}
			report.Records = nil
			p.emit(report, Event{Level: slog.LevelError, Message: "an unexpected error occurred", Err: err})
			p.metrics.IncScrape("unexpected")
		}
		report.EndTime = time.Now()
	}()

	body, err := p.fetcher.Fetch(ctx, address)
	if err != nil {
		var fetchErr *scraper.FetchError
		if !errors.As(err, &fetchErr) {
			err = &scraper.FetchError{URL: address, Kind: "other", Err: err}
		}
		p.emit(report, Event{Level: slog.LevelError, Message: "request error", Err: err,
			Attrs: []slog.Attr{slog.String("url", address)}})
		p.metrics.IncScrape("fetch_error")
		return report, err
	}
	report.BytesFetched = len(body)

	blocks, err := p.extractor.Extract(body)
	if err != nil {
		err = &UnexpectedError{Stage: "extract", Err: err}
		p.emit(report, Event{Level: slog.LevelError, Message: "an unexpected error occurred", Err: err})
		p.metrics.IncScrape("unexpected")
		return report, err
	}
	report.ContainersFound = len(blocks)
	p.metrics.AddItemsFound(len(blocks))

	records := make([]models.BookRecord, 0, len(blocks))
	for _, block := range blocks {
		out := p.process(block)
		if !out.OK() {
			report.Skipped = append(report.Skipped, out.Skip)
			p.metrics.IncSkipped()
			p.emit(report, Event{Level: slog.LevelWarn, Message: "skipped a book due to an issue", Err: out.Skip,
				Attrs: []slog.Attr{slog.Int("index", out.Skip.Index), slog.String("reason", out.Skip.Reason)}})
			continue
		}
		records = append(records, out.Record)
		p.metrics.IncRecord(string(out.Record.Sentiment))
	}

	report.RecordCount = len(records)
	report.SkippedCount = len(report.Skipped)

	if len(records) == 0 {
		p.emit(report, Event{Level: slog.LevelWarn, Message: ErrNoDataFound.Error(),
			Attrs: []slog.Attr{slog.String("url", address), slog.Int("containers", len(blocks))}})
		p.metrics.IncScrape("no_data")
		return report, ErrNoDataFound
	}

	report.Records = records
	p.emit(report, Event{Level: slog.LevelInfo, Message: "scrape completed",
		Attrs: []slog.Attr{slog.Int("records", len(records)), slog.Int("skipped", report.SkippedCount)}})
	p.metrics.IncScrape("success")
	return report, nil
}

// process normalises and classifies one container. Panics stay inside the item.
func (p *Pipeline) process(block parser.Block) (out parser.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = parser.Outcome{
				Index: block.Index,
				Skip:  &parser.ItemSkipped{Index: block.Index, Reason: parser.ReasonUnexpected, Err: fmt.Errorf("%v", r)},
			}
		}
	}()

	out = parser.Normalize(block)
	if !out.OK() {
		return out
	}

	out.Record.Sentiment = p.classifier.Classify(out.Record.Title)
	if err := parser.ValidateRecord(&out.Record); err != nil {
		out.Skip = &parser.ItemSkipped{Index: block.Index, Reason: ReasonInvalidRecord, Err: err}
	}
	return out
}

func (p *Pipeline) emit(report *Report, ev Event) {
	report.Events = append(report.Events, ev)
	if p.sink != nil {
		p.sink.Emit(ev)
	}
}
