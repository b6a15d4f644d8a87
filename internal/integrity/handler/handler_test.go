package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"vctbuilder/internal/integrity/cache"
	"vctbuilder/internal/integrity/fetcher"
	"vctbuilder/internal/integrity/models"
	"vctbuilder/internal/integrity/service"
)

type HandlerSuite struct {
	suite.Suite
	upstream *httptest.Server
	router   chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("hello"))
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	s.upstream = httptest.NewServer(mux)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(fetcher.New(fetcher.Config{Timeout: time.Second}),
		service.WithCache(cache.NewMemory(time.Minute)),
		service.WithLogger(logger),
	)
	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.upstream.Close()
}

func (s *HandlerSuite) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func (s *HandlerSuite) hashPath(resource string) string {
	return "/hash?url=" + url.QueryEscape(resource)
}

func (s *HandlerSuite) TestHash() {
	resource := s.upstream.URL + "/logo.png"
	w := s.get(s.hashPath(resource))
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{
		"url": "`+resource+`",
		"hash": "sha256-LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ=",
		"size": 5,
		"contentType": "image/png"
	}`, w.Body.String())
}

func (s *HandlerSuite) TestHashErrors() {
	s.Run("missing url", func() {
		w := s.get("/hash")
		s.Equal(http.StatusBadRequest, w.Code)
		s.JSONEq(`{"error":"URL parameter is required"}`, w.Body.String())
	})

	s.Run("upstream status is propagated", func() {
		w := s.get(s.hashPath(s.upstream.URL + "/private"))
		s.Equal(http.StatusForbidden, w.Code)
		s.JSONEq(`{"error":"Failed to fetch resource: Forbidden"}`, w.Body.String())
	})

	s.Run("upstream not found", func() {
		w := s.get(s.hashPath(s.upstream.URL + "/nope"))
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("not an http url", func() {
		w := s.get(s.hashPath("file:///etc/passwd"))
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unreachable host", func() {
		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()
		w := s.get(s.hashPath(addr + "/x"))
		s.Equal(http.StatusInternalServerError, w.Code)
		s.Contains(w.Body.String(), "Failed to process resource")
	})
}

func (s *HandlerSuite) TestVerify() {
	logo := s.upstream.URL + "/logo.png"
	body := `{
		"vct": "https://example.com/badge",
		"display": [{"lang": "en-US", "rendering": {"simple": {"logo": {"uri": "` + logo + `", "uri#integrity": "sha256-LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ="}}}}]
	}`
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/verify", bytes.NewBufferString(body)))
	s.Require().Equal(http.StatusOK, w.Code)

	var report models.Report
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &report))
	s.True(report.Valid)
	s.Require().Len(report.Results, 1)
	s.Equal(models.StatusMatch, report.Results[0].Status)
	s.Equal("display[0].logo", report.Results[0].Target)

	s.Run("invalid body", func() {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/verify", bytes.NewBufferString(`[1]`)))
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
