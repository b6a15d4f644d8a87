package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	platformmetrics "vctbuilder/internal/platform/metrics"
	request "vctbuilder/pkg/platform/middleware/request"
)

// Registrar mounts one module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config holds the cross-cutting router settings. Zero values disable the
// corresponding middleware.
type Config struct {
	Logger         *slog.Logger
	AllowedOrigin  string
	Timeout        time.Duration
	BodyLimit      int64
	Latency        *request.Metrics
	Requests       *platformmetrics.Metrics
	MetricsHandler http.Handler
}

// NewRouter wires the shared middleware stack and mounts every registrar.
// Handlers delegate to domain services; nothing here knows about VCTs.
func NewRouter(cfg Config, registrars ...Registrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Logger(logger))
	r.Use(request.CORS(cfg.AllowedOrigin))
	if cfg.Requests != nil {
		r.Use(countRequests(cfg.Requests))
	}
	if cfg.Latency != nil {
		r.Use(request.LatencyMiddleware(cfg.Latency, routePattern))
	}
	if cfg.Timeout > 0 {
		r.Use(request.Timeout(cfg.Timeout))
	}
	if cfg.BodyLimit > 0 {
		r.Use(request.BodyLimit(cfg.BodyLimit))
	}

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}
	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}

func countRequests(m *platformmetrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			m.IncRequest(route, status)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
