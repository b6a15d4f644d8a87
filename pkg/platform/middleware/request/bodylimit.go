package request

import (
	"net/http"
)

// BodyLimit caps request bodies with http.MaxBytesReader. Reads past the limit
// fail with *http.MaxBytesError, which the JSON decoder turns into a 413.
// Mount it before any handler that parses the body.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
