package metrics

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds process-wide Prometheus metrics. Domain packages register
// their own collectors against the same registerer.
type Metrics struct {
	BuildInfo    *prometheus.GaugeVec
	HTTPRequests *prometheus.CounterVec
}

// New registers the platform metrics with reg (the default registry when nil).
func New(reg prometheus.Registerer, service, version string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	m := &Metrics{
		BuildInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vct_build_info",
			Help: "Build information of the running service",
		}, []string{"service", "version", "go_version"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_http_requests_total",
			Help: "Total number of HTTP requests by route and status class",
		}, []string{"route", "status"}),
	}
	m.BuildInfo.WithLabelValues(service, version, runtime.Version()).Set(1)
	return m
}

// IncRequest counts one request; status is bucketed to its class ("2xx").
func (m *Metrics) IncRequest(route string, status int) {
	class := "5xx"
	switch {
	case status < 300:
		class = "2xx"
	case status < 400:
		class = "3xx"
	case status < 500:
		class = "4xx"
	}
	m.HTTPRequests.WithLabelValues(route, class).Inc()
}

// Handler exposes the given gatherer (the default registry when nil).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
