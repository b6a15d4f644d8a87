package request

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
}

// NewMetrics registers vct_endpoint_latency_seconds on reg, or on the default
// registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		EndpointLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vct_endpoint_latency_seconds",
			Help:    "Latency of API endpoints by method and route pattern.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		}, []string{"method", "endpoint"}),
	}
}

func (m *Metrics) ObserveLatency(method, endpoint string, d time.Duration) {
	m.EndpointLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
}
