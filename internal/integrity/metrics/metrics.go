// Package metrics provides Prometheus metrics for remote fetch-and-hash.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FetchesTotal   *prometheus.CounterVec // fetches by result (ok, upstream_error, too_large, error)
	FetchDuration  prometheus.Histogram   // upstream fetch latency
	FetchBytes     prometheus.Histogram   // hashed body size
	CacheLookups   *prometheus.CounterVec // cache lookups by result (hit, miss, error)
	CacheFallbacks prometheus.Counter     // lookups served by the local cache while the shared cache was skipped
	BreakerState   *prometheus.GaugeVec   // 0 closed, 1 open, 2 half open
	Verifications  *prometheus.CounterVec // document references verified, by status
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_integrity_fetches_total",
			Help: "Remote resource fetches by result",
		}, []string{"result"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vct_integrity_fetch_duration_seconds",
			Help:    "Duration of remote resource fetches",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vct_integrity_fetch_bytes",
			Help:    "Size of hashed resources in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_integrity_cache_lookups_total",
			Help: "Hash cache lookups by result",
		}, []string{"result"}),
		CacheFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "vct_integrity_cache_fallbacks_total",
			Help: "Hash cache operations served locally because the shared cache was unavailable",
		}),
		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vct_integrity_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half open)",
		}, []string{"name"}),
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_integrity_verifications_total",
			Help: "Document reference verifications by status",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveFetch(result string, start time.Time, size int64) {
	m.FetchesTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(time.Since(start).Seconds())
	if result == "ok" {
		m.FetchBytes.Observe(float64(size))
	}
}

func (m *Metrics) IncCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCacheFallback() {
	m.CacheFallbacks.Inc()
}

func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) IncVerification(status string) {
	m.Verifications.WithLabelValues(status).Inc()
}
