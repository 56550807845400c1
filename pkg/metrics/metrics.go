// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all counters and histograms for upstream fetching, rate
// caching and conversions.
type Metrics struct {
	// Upstream price source
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Rate cache
	CacheRefreshTotal *prometheus.CounterVec
	CacheHitsTotal    prometheus.Counter

	// Conversions
	ConversionsTotal *prometheus.CounterVec
}

// New registers and returns the service metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpstreamRequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxbridge_upstream_requests_total",
				Help: "Upstream price requests by symbol and outcome.",
			},
			[]string{"symbol", "outcome"},
		),
		UpstreamRequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxbridge_upstream_request_duration_seconds",
				Help:    "Upstream price request latency by symbol.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		CacheRefreshTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxbridge_cache_refresh_total",
				Help: "Rate table refresh cycles by result.",
			},
			[]string{"result"},
		),
		CacheHitsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "fxbridge_cache_hits_total",
				Help: "Rate table reads served from a fresh cache.",
			},
		),
		ConversionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxbridge_conversions_total",
				Help: "Successful conversions by currency pair.",
			},
			[]string{"from", "to"},
		),
	}
}
