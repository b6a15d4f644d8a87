package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vctbuilder/internal/assets/models"
	"vctbuilder/internal/assets/service"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/httputil"
	"vctbuilder/pkg/platform/validation"
	"vctbuilder/pkg/requestcontext"
)

type Service interface {
	Upload(ctx context.Context, in service.Upload) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	Get(ctx context.Context, id string) (*models.Asset, error)
	Rename(ctx context.Context, id, name string) (*models.Asset, error)
	Delete(ctx context.Context, id string) error
	Rehash(ctx context.Context, id string) (*models.Asset, bool, error)
	MaxSize() int64
}

// multipartOverhead allows for boundaries and the optional name field on top
// of the file itself.
const multipartOverhead = 64 << 10

type Handler struct {
	service   Service
	uploadDir string
	logger    *slog.Logger
}

func New(svc Service, uploadDir string, logger *slog.Logger) *Handler {
	return &Handler{service: svc, uploadDir: uploadDir, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api/assets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleUpload)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleRename)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/hash", h.handleRehash)
	})
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", h.staticFiles()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list assets", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Assets: assets})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(h.service.MaxSize() + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeTooLarge, "file exceeds upload limit"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "expected multipart/form-data body"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp files only

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file is required"))
		return
	}
	defer file.Close()

	a, err := h.service.Upload(ctx, service.Upload{
		Body:         file,
		OriginalName: header.Filename,
		Name:         r.FormValue("name"),
		ContentType:  partType(header),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upload rejected",
			"filename", header.Filename,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[RenameRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	a, err := h.service.Rename(ctx, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRehash(w http.ResponseWriter, r *http.Request) {
	a, changed, err := h.service.Rehash(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HashResponse{
		ID:      a.ID,
		URI:     a.URI,
		Hash:    a.Hash,
		Size:    a.Size,
		Changed: changed,
	})
}

// staticFiles serves stored uploads without directory listings. SVGs are
// served with a CSP that blocks scripts.
func (h *Handler) staticFiles() http.Handler {
	files := http.FileServer(http.Dir(h.uploadDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.HasSuffix(name, "/") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".json") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if strings.HasSuffix(name, ".svg") {
			w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		}
		files.ServeHTTP(w, r)
	})
}

func partType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

// RenameRequest changes an asset's display name.
type RenameRequest struct {
	Name string `json:"name"`
}

func (r *RenameRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *RenameRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return validation.CheckStringLength("name", r.Name, validation.MaxNameLength)
}

type ListResponse struct {
	Assets []*models.Asset `json:"assets"`
}

type HashResponse struct {
	ID      string `json:"id"`
	URI     string `json:"uri"`
	Hash    string `json:"hash"`
	Size    int64  `json:"size"`
	Changed bool   `json:"changed"`
}
