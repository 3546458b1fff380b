// Package metrics defines the Prometheus collectors of the HTTP host and
// exposes a handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. Each instance owns its registry so several
// engines (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	SearchResultsCount  prometheus.Histogram
	EntitiesIndexed     *prometheus.CounterVec
	EntitiesRemoved     *prometheus.CounterVec
	CollectionEntities  *prometheus.GaugeVec
	JobsTotal           *prometheus.CounterVec
	JobDuration         *prometheus.HistogramVec
}

// New creates and registers all collectors, plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuzzy_search_queries_total",
				Help: "Total search queries by collection and outcome (hit, zero_result, error).",
			},
			[]string{"collection", "outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fuzzy_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"collection"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fuzzy_search_results_count",
				Help:    "Number of matches returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		EntitiesIndexed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuzzy_search_entities_indexed_total",
				Help: "Entities passed to index or upsert operations.",
			},
			[]string{"collection", "operation"},
		),
		EntitiesRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuzzy_search_entities_removed_total",
				Help: "Entities actually removed.",
			},
			[]string{"collection"},
		),
		CollectionEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fuzzy_search_collection_entities",
				Help: "Live entities per collection.",
			},
			[]string{"collection"},
		),
		JobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuzzy_search_jobs_total",
				Help: "Background jobs by type and final status.",
			},
			[]string{"type", "status"},
		),
		JobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fuzzy_search_job_duration_seconds",
				Help:    "Background job duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.EntitiesIndexed,
		m.EntitiesRemoved,
		m.CollectionEntities,
		m.JobsTotal,
		m.JobDuration,
	)
	return m
}

// Registry exposes the registry, e.g. for testutil gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search of collection.
func (m *Metrics) ObserveSearch(collection string, seconds float64, results int, err error) {
	outcome := "hit"
	switch {
	case err != nil:
		outcome = "error"
	case results == 0:
		outcome = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(collection, outcome).Inc()
	if err == nil {
		m.SearchLatency.WithLabelValues(collection).Observe(seconds)
		m.SearchResultsCount.Observe(float64(results))
	}
}
