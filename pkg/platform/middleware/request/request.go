// Package request holds the HTTP middleware shared by the editor and asset
// servers.
package request

import (
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"vctbuilder/pkg/platform/httputil"
	"vctbuilder/pkg/requestcontext"
)

const (
	HeaderRequestID = "X-Request-ID"
	// MaxRequestIDLength caps client-supplied request ids before they reach logs.
	MaxRequestIDLength = 128
)

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Recovery turns a handler panic into a 500 error envelope and logs the stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				logger.ErrorContext(ctx, "panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
					"stack", string(debug.Stack()),
				)
				httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{Error: "internal_error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID tags the request with an id, reusing a well-formed X-Request-ID
// from the client and generating a UUID otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if !isValidRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

func isValidRequestID(id string) bool {
	return id != "" && len(id) <= MaxRequestIDLength && requestIDPattern.MatchString(id)
}

// RequestTime fixes the request's clock value and records the client address.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ctx = requestcontext.WithClientIP(ctx, host)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// quietPaths are only logged when they fail.
var quietPaths = []string{"/health", "/metrics"}

func isQuiet(path string) bool {
	for _, p := range quietPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Logger writes one line per request. Server errors log at error level.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if isQuiet(r.URL.Path) && status < http.StatusInternalServerError {
				return
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			ctx := r.Context()
			logger.Log(ctx, level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(ctx),
			)
		})
	}
}

// Timeout bounds handler time. Expired requests get a 503 with the timeout
// error envelope.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":"timeout","error_description":"request timed out"}`)
	}
}

// CORS lets the browser editor call the APIs from its own origin. An empty
// origin allows any.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
			h.Set("Access-Control-Expose-Headers", HeaderRequestID+", Content-Disposition")
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LatencyMiddleware observes request latency labeled by route pattern so
// path parameters do not become label values.
func LatencyMiddleware(m *Metrics, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			endpoint := r.URL.Path
			if route != nil {
				if p := route(r); p != "" {
					endpoint = p
				}
			}
			m.ObserveLatency(r.Method, endpoint, time.Since(start))
		})
	}
}
