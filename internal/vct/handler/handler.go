package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vctbuilder/internal/vct/canonical"
	"vctbuilder/internal/vct/editor"
	"vctbuilder/internal/vct/locale"
	vctmetrics "vctbuilder/internal/vct/metrics"
	"vctbuilder/internal/vct/models"
	"vctbuilder/internal/vct/preview"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/httputil"
	"vctbuilder/pkg/requestcontext"
)

// Editor is the session surface the editor API drives.
type Editor interface {
	Snapshot() editor.State
	Apply(t editor.Transition) (models.VCT, error)
	SetSampleValue(key, value string) models.SampleData
	SetSampleData(data models.SampleData) models.SampleData
	BeginIntegrity(t editor.Target) (editor.Ticket, error)
	CompleteIntegrity(ticket editor.Ticket, hash string) (models.VCT, error)
}

// IntegrityResolver fetches a resource and returns its SRI hash.
type IntegrityResolver interface {
	Integrity(ctx context.Context, url string) (string, error)
}

// Handler serves the single-session editor API.
type Handler struct {
	editor    Editor
	integrity IntegrityResolver
	logger    *slog.Logger
	metrics   *vctmetrics.Metrics
}

func New(ed Editor, integrity IntegrityResolver, logger *slog.Logger, metrics *vctmetrics.Metrics) *Handler {
	return &Handler{editor: ed, integrity: integrity, logger: logger, metrics: metrics}
}

// Register mounts the editor routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/locales", h.handleLocales)

	r.Route("/api/vct", func(r chi.Router) {
		r.Get("/", h.handleGetState)
		r.Patch("/", h.handleUpdateFields)
		r.Get("/preview", h.handlePreview)
		r.Get("/card", h.handleCard)
		r.Get("/issues", h.handleIssues)
		r.Post("/integrity", h.handleIntegrity)

		r.Post("/displays", h.handleAddDisplay)
		r.Patch("/displays/{index}", h.handleUpdateDisplay)
		r.Delete("/displays/{index}", h.handleRemoveDisplay)

		r.Post("/claims", h.handleAddClaim)
		r.Post("/claims/sync", h.handleSyncClaims)
		r.Patch("/claims/{index}", h.handleUpdateClaim)
		r.Delete("/claims/{index}", h.handleRemoveClaim)
		r.Post("/claims/{index}/path", h.handleAddPathSegment)
		r.Put("/claims/{index}/path/{segment}", h.handleSetPathSegment)
		r.Delete("/claims/{index}/path/{segment}", h.handleRemovePathSegment)
		r.Put("/claims/{index}/display/{locale}", h.handleSetClaimDisplay)

		r.Get("/sample-data", h.handleGetSampleData)
		r.Put("/sample-data", h.handleReplaceSampleData)
		r.Patch("/sample-data", h.handleSetSampleValue)
	})
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, NewStateResponse(h.editor.Snapshot()))
}

func (h *Handler) handleUpdateFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[FieldsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.apply(w, r, "update_fields", http.StatusOK, editor.UpdateFields(req.Patch()))
}

func (h *Handler) handleAddDisplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AddDisplayRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.apply(w, r, "add_display", http.StatusCreated, editor.AddDisplay(req.Locale))
}

func (h *Handler) handleUpdateDisplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DisplayPatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.apply(w, r, "update_display", http.StatusOK, editor.UpdateDisplay(index, req.Patch()))
}

func (h *Handler) handleRemoveDisplay(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	h.apply(w, r, "remove_display", http.StatusOK, editor.RemoveDisplay(index))
}

func (h *Handler) handleAddClaim(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "add_claim", http.StatusCreated, editor.AddClaim())
}

func (h *Handler) handleSyncClaims(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "sync_claims", http.StatusOK, editor.SyncClaimLocales())
}

func (h *Handler) handleUpdateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ClaimPatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.apply(w, r, "update_claim", http.StatusOK, editor.UpdateClaim(index, req.Patch()))
}

func (h *Handler) handleRemoveClaim(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	h.apply(w, r, "remove_claim", http.StatusOK, editor.RemoveClaim(index))
}

func (h *Handler) handleAddPathSegment(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	h.apply(w, r, "add_path_segment", http.StatusOK, editor.AddPathSegment(index))
}

func (h *Handler) handleSetPathSegment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	segment, ok := h.index(w, r, "segment")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PathSegmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.apply(w, r, "set_path_segment", http.StatusOK, editor.SetPathSegment(index, segment, req.Segment()))
}

func (h *Handler) handleRemovePathSegment(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	segment, ok := h.index(w, r, "segment")
	if !ok {
		return
	}
	h.apply(w, r, "remove_path_segment", http.StatusOK, editor.RemovePathSegment(index, segment))
}

func (h *Handler) handleSetClaimDisplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, ok := h.index(w, r, "index")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ClaimDisplayRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	loc := chi.URLParam(r, "locale")
	h.apply(w, r, "set_claim_display", http.StatusOK, editor.SetClaimDisplay(index, loc, req.Label, req.Description))
}

// handlePreview returns the canonical export, the publishable artifact.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, err := canonical.MarshalIndent(h.editor.Snapshot().Doc)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to canonicalize document", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to canonicalize document"))
		return
	}
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", `attachment; filename="vct.json"`)
	}
	httputil.WriteRawJSON(w, http.StatusOK, body)
}

func (h *Handler) handleCard(w http.ResponseWriter, r *http.Request) {
	st := h.editor.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, preview.Render(st.Doc, st.Sample, r.URL.Query().Get("locale")))
}

func (h *Handler) handleIssues(w http.ResponseWriter, r *http.Request) {
	issues := models.Validate(h.editor.Snapshot().Doc)
	if issues == nil {
		issues = []models.Issue{}
	}
	if h.metrics != nil {
		h.metrics.SetIssues(len(issues))
	}
	httputil.WriteJSON(w, http.StatusOK, IssuesResponse{Valid: !models.HasErrors(issues), Issues: issues})
}

func (h *Handler) handleLocales(w http.ResponseWriter, r *http.Request) {
	used := h.editor.Snapshot().Doc.Locales()
	httputil.WriteJSON(w, http.StatusOK, LocalesResponse{Locales: locale.All(), Available: locale.Available(used)})
}

func (h *Handler) handleGetSampleData(w http.ResponseWriter, r *http.Request) {
	st := h.editor.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, sampleResponse(st.Doc, st.Sample))
}

func (h *Handler) handleReplaceSampleData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SampleDataRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	values := h.editor.SetSampleData(req.Values)
	httputil.WriteJSON(w, http.StatusOK, sampleResponse(h.editor.Snapshot().Doc, values))
}

func (h *Handler) handleSetSampleValue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SampleValueRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	values := h.editor.SetSampleValue(req.Key, req.Value)
	httputil.WriteJSON(w, http.StatusOK, sampleResponse(h.editor.Snapshot().Doc, values))
}

// handleIntegrity hashes the target's current URI and stores the result. A
// result that went stale while fetching is discarded with a conflict.
func (h *Handler) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[IntegrityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ticket, err := h.editor.BeginIntegrity(req.Target)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	hash, err := h.integrity.Integrity(ctx, ticket.URI)
	if err != nil {
		h.logger.WarnContext(ctx, "integrity fetch failed",
			"target", ticket.Target.String(),
			"uri", ticket.URI,
			"error", err,
			"request_id", requestID,
		)
		h.countIntegrity("fetch_failed")
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.editor.CompleteIntegrity(ticket, hash)
	if errors.Is(err, editor.ErrStaleIntegrity) {
		h.logger.InfoContext(ctx, "discarded stale integrity result",
			"target", ticket.Target.String(),
			"request_id", requestID,
		)
		h.countIntegrity("stale")
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "target changed while hashing; result discarded"))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.countIntegrity("applied")
	httputil.WriteJSON(w, http.StatusOK, IntegrityResponse{
		Target:    ticket.Target.String(),
		URI:       ticket.URI,
		Integrity: hash,
		VCT:       doc,
	})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, op string, status int, t editor.Transition) {
	doc, err := h.editor.Apply(t)
	if h.metrics != nil {
		h.metrics.IncEdit(op, err)
	}
	if err != nil {
		h.logger.InfoContext(r.Context(), "edit rejected",
			"op", op,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, doc)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+param))
		return 0, false
	}
	return n, true
}

func (h *Handler) countIntegrity(result string) {
	if h.metrics != nil {
		h.metrics.IncIntegrity(result)
	}
}

func sampleResponse(doc models.VCT, values models.SampleData) SampleDataResponse {
	if values == nil {
		values = models.SampleData{}
	}
	return SampleDataResponse{Keys: preview.SampleKeys(doc), Values: values}
}
