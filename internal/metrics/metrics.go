package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's Prometheus collectors on a private registerer so
// that several instances can coexist in one process.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	SearchesTotal      *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	SearchResults      prometheus.Histogram
	FareFaultsTotal    *prometheus.CounterVec
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CatalogEventsTotal *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightsearch_http_requests_total",
				Help: "Total HTTP requests processed by route, method, and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightsearch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "flightsearch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		SearchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightsearch_searches_total",
				Help: "Flight searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flightsearch_search_duration_seconds",
				Help:    "End-to-end flight search latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		SearchResults: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flightsearch_search_results",
				Help:    "Number of trip offers returned per search",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		FareFaultsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightsearch_fare_restriction_faults_total",
				Help: "Fares skipped during pricing because of a malformed restriction",
			},
			[]string{"airline"},
		),
		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightsearch_cache_hits_total",
				Help: "Cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightsearch_cache_misses_total",
				Help: "Cache misses by cache name",
			},
			[]string{"cache"},
		),
		CatalogEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightsearch_catalog_events_total",
				Help: "Catalog change events by type and delivery result",
			},
			[]string{"type", "result"},
		),
		RateLimitedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "flightsearch_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) CacheHit(cache string) {
	if r == nil {
		return
	}
	r.CacheHitsTotal.WithLabelValues(cache).Inc()
}

func (r *Registry) CacheMiss(cache string) {
	if r == nil {
		return
	}
	r.CacheMissesTotal.WithLabelValues(cache).Inc()
}
