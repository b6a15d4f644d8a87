// Package service implements image uploads with SRI hashes for use as logos,
// background images and SVG templates.
package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"vctbuilder/internal/assets/metrics"
	"vctbuilder/internal/assets/models"
	integrity "vctbuilder/internal/integrity/models"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/sentinel"
	"vctbuilder/pkg/platform/validation"
	"vctbuilder/pkg/requestcontext"
)

type Store interface {
	Save(ctx context.Context, a *models.Asset) error
	FindByID(ctx context.Context, id string) (*models.Asset, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Asset, error)
}

type Blobs interface {
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
	Remove(name string) error
}

// Upload is one file received from a client.
type Upload struct {
	Body         io.Reader
	OriginalName string
	Name         string
	ContentType  string // as declared by the client
}

type Service struct {
	store   Store
	blobs   Blobs
	baseURL string
	maxSize int64
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMaxSize overrides the default 5 MB upload limit.
func WithMaxSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// New serves stored files as baseURL + "/uploads/" + filename.
func New(store Store, blobs Blobs, baseURL string, opts ...Option) *Service {
	s := &Service{
		store:   store,
		blobs:   blobs,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: validation.MaxUploadSize,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload validates, stores and hashes one file.
func (s *Service) Upload(ctx context.Context, in Upload) (*models.Asset, error) {
	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxSize+1))
	if err != nil {
		s.countUpload("error", 0)
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read upload")
	}
	if int64(len(data)) > s.maxSize {
		s.countUpload("too_large", 0)
		return nil, dErrors.Newf(dErrors.CodeTooLarge, "file exceeds %d MB limit", s.maxSize>>20)
	}
	if len(data) == 0 {
		s.countUpload("rejected", 0)
		return nil, dErrors.New(dErrors.CodeBadRequest, "file is empty")
	}

	mimeType := detectType(in.ContentType, data)
	if !models.IsAllowed(mimeType) {
		s.countUpload("unsupported", 0)
		return nil, dErrors.Newf(dErrors.CodeUnsupportedMedia,
			"unsupported file type %q; allowed: PNG, JPEG, GIF, SVG, WebP", mimeType)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = models.DisplayName(in.OriginalName)
	}
	if err := validation.CheckStringLength("name", name, validation.MaxNameLength); err != nil {
		s.countUpload("rejected", 0)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	id := models.NewID(now)
	a := &models.Asset{
		ID:           id,
		Filename:     id + models.AllowedTypes[mimeType],
		OriginalName: in.OriginalName,
		Name:         name,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Hash:         integrity.HashBytes(data),
		CreatedAt:    now,
	}
	a.URI = s.baseURL + "/uploads/" + a.Filename

	if err := s.blobs.Write(a.Filename, data); err != nil {
		s.countUpload("error", 0)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store file")
	}
	if err := s.store.Save(ctx, a); err != nil {
		if rerr := s.blobs.Remove(a.Filename); rerr != nil {
			s.logger.ErrorContext(ctx, "failed to remove orphaned upload", "filename", a.Filename, "error", rerr)
		}
		s.countUpload("error", 0)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save asset")
	}

	s.countUpload("ok", a.Size)
	s.refreshStored(ctx)
	s.logger.InfoContext(ctx, "asset uploaded",
		"asset_id", a.ID,
		"mimetype", a.MimeType,
		"size", a.Size,
		"request_id", requestcontext.RequestID(ctx),
	)
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Asset, error) {
	assets, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assets")
	}
	return assets, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Asset, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	return a, nil
}

// Rename changes the display name only; the stored file is untouched.
func (s *Service) Rename(ctx context.Context, id, name string) (*models.Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if err := validation.CheckStringLength("name", name, validation.MaxNameLength); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Name = name
	if err := s.store.Save(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save asset")
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translate(err, id)
	}
	if err := s.blobs.Remove(a.Filename); err != nil {
		s.logger.WarnContext(ctx, "asset file not removed", "asset_id", id, "error", err)
	}
	s.refreshStored(ctx)
	s.logger.InfoContext(ctx, "asset deleted", "asset_id", id, "request_id", requestcontext.RequestID(ctx))
	return nil
}

// Rehash recomputes the hash from the stored file and records it when the
// file changed on disk. changed reports whether the record was updated.
func (s *Service) Rehash(ctx context.Context, id string) (a *models.Asset, changed bool, err error) {
	a, err = s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	data, err := s.blobs.Read(a.Filename)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, false, dErrors.Newf(dErrors.CodeNotFound, "file for asset %s is missing", id)
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read asset file")
	}
	hash := integrity.HashBytes(data)
	changed = hash != a.Hash || int64(len(data)) != a.Size
	if changed {
		a.Hash = hash
		a.Size = int64(len(data))
		if err := s.store.Save(ctx, a); err != nil {
			return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save asset")
		}
		s.logger.WarnContext(ctx, "asset file changed on disk", "asset_id", id)
	}
	if s.metrics != nil {
		s.metrics.IncRehash(changed)
	}
	return a, changed, nil
}

// detectType trusts content sniffing for raster images. SVG is text, so the
// declared type is accepted when the body looks like an SVG document.
func detectType(declared string, data []byte) string {
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	declaredType, _, _ := mime.ParseMediaType(declared)
	if (declaredType == "image/svg+xml" || declaredType == "") && looksLikeSVG(data) {
		return "image/svg+xml"
	}
	if sniffed == "" {
		return declaredType
	}
	return sniffed
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func translate(err error, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "asset %s not found", id)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset")
}

func (s *Service) countUpload(result string, size int64) {
	if s.metrics != nil {
		s.metrics.IncUpload(result, size)
	}
}

func (s *Service) refreshStored(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if all, err := s.store.List(ctx); err == nil {
		s.metrics.SetStored(len(all))
	}
}
