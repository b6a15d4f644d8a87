package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncRequestBucketsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "vct-server", "test")

	m.IncRequest("/api/vct", http.StatusOK)
	m.IncRequest("/api/vct", http.StatusNoContent)
	m.IncRequest("/api/vct/displays", http.StatusConflict)
	m.IncRequest("/hash", http.StatusBadGateway)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/vct", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/vct/displays", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/hash", "5xx")))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "vct-server", "test")

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vct_build_info")
}
