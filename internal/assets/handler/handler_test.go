package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"vctbuilder/internal/assets/models"
	"vctbuilder/internal/assets/service"
	"vctbuilder/internal/assets/store"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type HandlerSuite struct {
	suite.Suite
	uploadDir string
	router    chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.uploadDir = filepath.Join(s.T().TempDir(), "uploads")
	blobs, err := store.NewBlobs(s.uploadDir)
	s.Require().NoError(err)
	meta, err := store.OpenMetadata(filepath.Join(s.uploadDir, "assets.json"))
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(meta, blobs, "http://assets.test", service.WithLogger(logger), service.WithMaxSize(1024))
	s.router = chi.NewRouter()
	New(svc, s.uploadDir, logger).Register(s.router)
}

func (s *HandlerSuite) multipartBody(filename, contentType string, data []byte, name string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		s.Require().NoError(err)
		_, err = part.Write(data)
		s.Require().NoError(err)
	}
	if name != "" {
		s.Require().NoError(mw.WriteField("name", name))
	}
	s.Require().NoError(mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *HandlerSuite) upload(filename, contentType string, data []byte, name string) *httptest.ResponseRecorder {
	body, ct := s.multipartBody(filename, contentType, data, name)
	req := httptest.NewRequest(http.MethodPost, "/api/assets", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

func (s *HandlerSuite) errorCode(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func (s *HandlerSuite) TestUploadServeAndManage() {
	w := s.upload("logo.png", "image/png", pngBytes, "Issuer logo")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var a models.Asset
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &a))
	s.Equal("Issuer logo", a.Name)
	s.Equal("logo.png", a.OriginalName)
	s.Equal("image/png", a.MimeType)
	s.Equal("http://assets.test/uploads/"+a.Filename, a.URI)
	s.Contains(w.Body.String(), `"mimetype":"image/png"`)

	s.Run("list", func() {
		w := s.do(http.MethodGet, "/api/assets", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var res ListResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
		s.Require().Len(res.Assets, 1)
		s.Equal(a.ID, res.Assets[0].ID)
	})

	s.Run("static file", func() {
		w := s.do(http.MethodGet, "/uploads/"+a.Filename, "")
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(pngBytes, w.Body.Bytes())
		s.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	s.Run("metadata and listings are not served", func() {
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/uploads/assets.json", "").Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/uploads/", "").Code)
	})

	s.Run("rename", func() {
		w := s.do(http.MethodPatch, "/api/assets/"+a.ID, `{"name":" Brand "}`)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"name":"Brand"`)

		w = s.do(http.MethodPatch, "/api/assets/"+a.ID, `{"name":""}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("rehash", func() {
		w := s.do(http.MethodGet, "/api/assets/"+a.ID+"/hash", "")
		s.Require().Equal(http.StatusOK, w.Code)
		var res HashResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
		s.Equal(a.Hash, res.Hash)
		s.False(res.Changed)
	})

	s.Run("delete", func() {
		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/assets/"+a.ID, "").Code)
		w := s.do(http.MethodGet, "/api/assets/"+a.ID, "")
		s.Equal(http.StatusNotFound, w.Code)
		s.Equal("not_found", s.errorCode(w))
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/uploads/"+a.Filename, "").Code)
	})
}

func (s *HandlerSuite) TestUploadErrors() {
	s.Run("missing file field", func() {
		w := s.upload("", "", nil, "just a name")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("not multipart", func() {
		w := s.do(http.MethodPost, "/api/assets", `{"file":"x"}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unsupported type", func() {
		w := s.upload("notes.txt", "text/plain", []byte("hello"), "")
		s.Equal(http.StatusUnsupportedMediaType, w.Code)
		s.Equal("unsupported_media_type", s.errorCode(w))
	})

	s.Run("too large", func() {
		big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 2048)...)
		w := s.upload("big.png", "image/png", big, "")
		s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	})
}
