package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimit(t *testing.T) {
	t.Run("document under limit passes through", func(t *testing.T) {
		body := `{"vct":"https://example.com/vct","name":"Badge"}`

		handler := BodyLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, body, string(data))
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/vct/import", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("body at exact limit passes through", func(t *testing.T) {
		handler := BodyLimit(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Len(t, data, 64)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/vct/import", strings.NewReader(strings.Repeat("x", 64)))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	})

	t.Run("body over limit fails on read", func(t *testing.T) {
		var readErr error
		handler := BodyLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader(strings.Repeat("x", 200)))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.Error(t, readErr)
		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, readErr, &maxErr)
	})

	t.Run("GET without body passes through", func(t *testing.T) {
		handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/vct", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
