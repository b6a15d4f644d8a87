package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vctbuilder/internal/integrity/fetcher"
	"vctbuilder/internal/integrity/models"
	vct "vctbuilder/internal/vct/models"
	"vctbuilder/internal/vct/normalize"
	"vctbuilder/pkg/platform/httputil"
	"vctbuilder/pkg/platform/validation"
	"vctbuilder/pkg/requestcontext"
)

type Service interface {
	Hash(ctx context.Context, url string) (*models.HashResult, error)
	VerifyDocument(ctx context.Context, doc vct.VCT) (models.Report, error)
}

// ErrorResponse is the hash endpoint's error body. It is a single field, unlike
// the editor API envelope, so existing clients of /hash keep working.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/hash", h.handleHash)
	r.Post("/verify", h.handleVerify)
}

func (h *Handler) handleHash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	url := r.URL.Query().Get("url")
	if url == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "URL parameter is required"})
		return
	}

	res, err := h.service.Hash(ctx, url)
	if err != nil {
		status, msg := hashErrorStatus(err)
		h.logger.WarnContext(ctx, "hash request failed",
			"url", url,
			"status", status,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteJSON(w, status, ErrorResponse{Error: msg})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// handleVerify accepts any VCT-shaped document; legacy field names are
// migrated before the references are collected.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, validation.MaxBodySize)).Decode(&raw); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	res, err := normalize.NormalizeJSON(raw)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid VCT JSON: " + err.Error()})
		return
	}

	report, err := h.service.VerifyDocument(ctx, res.VCT)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify document: " + err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func hashErrorStatus(err error) (int, string) {
	var fe *fetcher.FetchError
	switch {
	case errors.As(err, &fe):
		return fe.StatusCode, fe.Error()
	case errors.Is(err, fetcher.ErrInvalidURL):
		return http.StatusBadRequest, "URL must be an absolute http(s) URL"
	default:
		return http.StatusInternalServerError, "Failed to process resource: " + err.Error()
	}
}
