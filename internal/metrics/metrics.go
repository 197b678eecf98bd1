package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method", "path"})

	ParseLinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "parse_lines_total",
		Help:      "Total catalog lines parsed by result (ok, comment, error).",
	}, []string{"result"})

	ParseErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "parse_errors_total",
		Help:      "Total catalog parse errors by error kind.",
	}, []string{"kind"})

	SearchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "search_requests_total",
		Help:      "Total ranked search requests by execution mode.",
	}, []string{"mode"})

	SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "search_duration_seconds",
		Help:      "Ranked search duration in seconds.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "cache_hits_total",
		Help:      "Total match cache hits by cache layer.",
	}, []string{"cache"})

	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "cache_misses_total",
		Help:      "Total match cache misses by cache layer.",
	}, []string{"cache"})

	CatalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "catalog",
		Name:      "catalog_size",
		Help:      "Current number of media records in the catalog.",
	})

	IngestLinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "ingest_lines_total",
		Help:      "Total lines processed during ingest by source and result.",
	}, []string{"source", "result"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ParseLinesTotal,
		ParseErrorsTotal,
		SearchRequestsTotal,
		SearchDuration,
		CacheHitsTotal,
		CacheMissesTotal,
		CatalogSize,
		IngestLinesTotal,
	)
}
