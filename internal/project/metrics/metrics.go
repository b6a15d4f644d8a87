package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProjectsSaved   prometheus.Counter
	ProjectsDeleted prometheus.Counter
	Imports         *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProjectsSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "vct_projects_saved_total",
			Help: "Total number of project saves",
		}),
		ProjectsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "vct_projects_deleted_total",
			Help: "Total number of project deletions",
		}),
		Imports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vct_imports_total",
			Help: "Document imports by result",
		}, []string{"result"}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vct_project_store_duration_seconds",
			Help:    "Duration of project store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"op"}),
	}
}

func (m *Metrics) IncSaved() {
	m.ProjectsSaved.Inc()
}

func (m *Metrics) IncDeleted() {
	m.ProjectsDeleted.Inc()
}

func (m *Metrics) IncImport(ok bool) {
	result := "ok"
	if !ok {
		result = "invalid"
	}
	m.Imports.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStore(op string, start time.Time) {
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
