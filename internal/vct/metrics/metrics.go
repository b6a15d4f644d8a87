package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Edits          *prometheus.CounterVec
	IntegrityApply *prometheus.CounterVec
	DocumentIssues prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Edits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_editor_edits_total",
			Help: "Editor mutations by operation and result",
		}, []string{"op", "result"}),
		IntegrityApply: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_editor_integrity_total",
			Help: "Integrity resolutions applied to the document by result",
		}, []string{"result"}),
		DocumentIssues: f.NewGauge(prometheus.GaugeOpts{
			Name: "vct_editor_document_issues",
			Help: "Number of issues reported by the last validation run",
		}),
	}
}

func (m *Metrics) IncEdit(op string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.Edits.WithLabelValues(op, result).Inc()
}

func (m *Metrics) IncIntegrity(result string) {
	m.IntegrityApply.WithLabelValues(result).Inc()
}

func (m *Metrics) SetIssues(n int) {
	m.DocumentIssues.Set(float64(n))
}
