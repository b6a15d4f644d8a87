// Package health serves the liveness, readiness and info probes.
package health

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"vctbuilder/pkg/platform/httputil"
)

// Version is overridden with -ldflags "-X vctbuilder/internal/platform/health.Version=...".
var Version = "dev"

const checkTimeout = 2 * time.Second

// CheckFunc returns nil when the dependency it probes is usable.
type CheckFunc func(ctx context.Context) error

type Handler struct {
	started time.Time
	env     string

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func New(environment string) *Handler {
	return &Handler{started: time.Now(), env: environment, checks: map[string]CheckFunc{}}
}

// RegisterCheck makes readiness depend on check. A later call with the same
// name replaces the earlier check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	h.checks[name] = check
	h.mu.Unlock()
}

// Register mounts the probes. GET /health answers {"status":"ok"} for
// clients that only poll that path.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", fixedStatus("ok"))
	r.Get("/health/live", fixedStatus("alive"))
	r.Get("/health/ready", h.HandleReadiness)
	r.Get("/health/info", h.HandleInfo)
}

type StatusResponse struct {
	Status string `json:"status"`
}

func fixedStatus(status string) http.HandlerFunc {
	body := StatusResponse{Status: status}
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every check in parallel and answers 503 if any fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	results, ok := h.probe(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Checks: results})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: results})
}

func (h *Handler) probe(ctx context.Context) (map[string]string, bool) {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	var mu sync.Mutex
	results := make(map[string]string, len(checks))
	healthy := true

	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, checkTimeout)
			err := check(cctx)
			cancel()

			mu.Lock()
			defer mu.Unlock()
			results[name] = "up"
			if err != nil {
				results[name] = "down: " + err.Error()
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, healthy
}

type InfoResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	httputil.WriteJSON(w, http.StatusOK, InfoResponse{
		Status:        "ok",
		Version:       Version,
		Environment:   h.env,
		UptimeSeconds: int64(now.Sub(h.started) / time.Second),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
