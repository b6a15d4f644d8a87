package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vctbuilder/internal/project/models"
	"vctbuilder/internal/vct/editor"
	vcthandler "vctbuilder/internal/vct/handler"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/httputil"
	"vctbuilder/pkg/platform/validation"
	"vctbuilder/pkg/requestcontext"
)

// Service defines the project operations exposed over HTTP.
type Service interface {
	Current() editor.State
	New(ctx context.Context) editor.State
	Save(ctx context.Context, name string) (*models.Project, error)
	Load(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Summary, error)
	Import(ctx context.Context, data []byte) (editor.State, []string, error)
	Export() ([]byte, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/projects", h.handleList)
	r.Post("/api/projects", h.handleSave)
	r.Post("/api/projects/new", h.handleNew)
	r.Post("/api/projects/{id}/load", h.handleLoad)
	r.Delete("/api/projects/{id}", h.handleDelete)

	r.Get("/api/vct/export", h.handleExport)
	r.Post("/api/vct/import", h.handleImport)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projects, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list projects",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SaveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.Save(ctx, req.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save project",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p.Summary())
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, vcthandler.NewStateResponse(h.service.New(r.Context())))
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Load(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load project",
			"project_id", id,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoadResponse{
		Loaded: p != nil,
		State:  vcthandler.NewStateResponse(h.service.Current()),
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete project",
			"project_id", id,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport downloads the raw working document, not the canonical form.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Export()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="vct-raw.json"`)
	httputil.WriteRawJSON(w, http.StatusOK, body)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validation.MaxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeTooLarge, "document too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}

	st, applied, err := h.service.Import(ctx, data)
	if err != nil {
		h.logger.WarnContext(ctx, "import rejected",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	if applied == nil {
		applied = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, ImportResponse{State: vcthandler.NewStateResponse(st), RulesApplied: applied})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid project id"))
		return uuid.Nil, false
	}
	return id, true
}
