package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Uploads     *prometheus.CounterVec
	UploadBytes prometheus.Histogram
	Stored      prometheus.Gauge
	Rehashes    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_assets_uploads_total",
			Help: "Asset uploads by result",
		}, []string{"result"}),
		UploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vct_assets_upload_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 7),
		}),
		Stored: f.NewGauge(prometheus.GaugeOpts{
			Name: "vct_assets_stored",
			Help: "Number of stored assets",
		}),
		Rehashes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_assets_rehashes_total",
			Help: "Asset hash recomputations by outcome (unchanged, changed)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncUpload(result string, size int64) {
	m.Uploads.WithLabelValues(result).Inc()
	if result == "ok" {
		m.UploadBytes.Observe(float64(size))
	}
}

func (m *Metrics) SetStored(n int) {
	m.Stored.Set(float64(n))
}

func (m *Metrics) IncRehash(changed bool) {
	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	m.Rehashes.WithLabelValues(outcome).Inc()
}
