package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vctbuilder/internal/platform/health"
	platformmetrics "vctbuilder/internal/platform/metrics"
	request "vctbuilder/pkg/platform/middleware/request"
)

type echoRoutes struct{}

func (echoRoutes) Register(r chi.Router) {
	r.Post("/echo/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		_, _ = w.Write(body)
	})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func newTestRouter(t *testing.T) (http.Handler, *platformmetrics.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := platformmetrics.New(reg, "test", "dev")
	router := NewRouter(Config{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		AllowedOrigin:  "http://localhost:5173",
		BodyLimit:      16,
		Latency:        request.NewMetrics(reg),
		Requests:       m,
		MetricsHandler: platformmetrics.Handler(reg),
	}, health.New("test"), echoRoutes{})
	return router, m
}

func TestRouterMountsRegistrars(t *testing.T) {
	router, m := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo/1", strings.NewReader("hi")))
	assert.Equal(t, "hi", w.Body.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/echo/{id}", "2xx")))
}

func TestRouterBodyLimit(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo/1", strings.NewReader(strings.Repeat("x", 17))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouterRecoversPanics(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouterServesMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vct_build_info")
}

func TestRouterPreflight(t *testing.T) {
	router, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/vct", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
