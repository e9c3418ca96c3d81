package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for fetches and scrapes.
type Metrics struct {
	Registry      *prometheus.Registry
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	FetchErrors   *prometheus.CounterVec
	RetriesTotal  prometheus.Counter
	ItemsFound    prometheus.Counter
	ItemsSkipped  prometheus.Counter
	RecordsTotal  *prometheus.CounterVec
	ScrapesTotal  *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookinsights_fetch_total",
			Help: "Total page fetch attempts by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookinsights_fetch_duration_seconds",
			Help:    "HTTP latency of page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	fetchErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookinsights_fetch_errors_total",
			Help: "Total fetch errors by type.",
		},
		[]string{"error_type"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookinsights_fetch_retries_total",
			Help: "Total number of fetch retries.",
		},
	)
	itemsFound := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookinsights_items_found_total",
			Help: "Total item containers detected in fetched pages.",
		},
	)
	itemsSkipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookinsights_items_skipped_total",
			Help: "Total item containers skipped during normalisation.",
		},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookinsights_records_total",
			Help: "Total records produced by sentiment label.",
		},
		[]string{"sentiment"},
	)
	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookinsights_scrapes_total",
			Help: "Total scrape operations by outcome.",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(fetches, fetchDuration, fetchErrors, retries, itemsFound, itemsSkipped, records, scrapes)

	return &Metrics{
		Registry:      registry,
		FetchesTotal:  fetches,
		FetchDuration: fetchDuration,
		FetchErrors:   fetchErrors,
		RetriesTotal:  retries,
		ItemsFound:    itemsFound,
		ItemsSkipped:  itemsSkipped,
		RecordsTotal:  records,
		ScrapesTotal:  scrapes,
	}
}

// IncFetch increments the fetch counter for an outcome.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records a fetch duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.FetchErrors.WithLabelValues(errorType).Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// AddItemsFound adds detected containers.
func (m *Metrics) AddItemsFound(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsFound.Add(float64(n))
}

// IncSkipped increments the skipped items counter.
func (m *Metrics) IncSkipped() {
	if m == nil {
		return
	}
	m.ItemsSkipped.Inc()
}

// IncRecord increments the records counter for a sentiment label.
func (m *Metrics) IncRecord(sentiment string) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(sentiment).Inc()
}

// IncScrape increments the scrape counter for an outcome.
func (m *Metrics) IncScrape(outcome string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(outcome).Inc()
}
