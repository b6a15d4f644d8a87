package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	projectmetrics "vctbuilder/internal/project/metrics"
	"vctbuilder/internal/project/models"
	"vctbuilder/internal/vct/editor"
	vct "vctbuilder/internal/vct/models"
	"vctbuilder/internal/vct/normalize"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/sentinel"
	"vctbuilder/pkg/platform/validation"
	"vctbuilder/pkg/requestcontext"
)

// Store persists saved projects.
type Store interface {
	Save(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Project, error)
}

var errSessionMoved = errors.New("session moved to another project")

// EventPublisher receives project lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Service ties the editing session to project persistence. Session changes
// are committed first; the store is called after the commit.
type Service struct {
	session *editor.Session
	store   Store
	events  EventPublisher
	logger  *slog.Logger
	metrics *projectmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEvents(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func WithMetrics(m *projectmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(session *editor.Session, store Store, opts ...Option) *Service {
	s := &Service{session: session, store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns a copy of the editing state.
func (s *Service) Current() editor.State {
	return s.session.Snapshot()
}

// New discards the current document and starts an untitled one.
func (s *Service) New(ctx context.Context) editor.State {
	st := s.session.Reset()
	s.logger.InfoContext(ctx, "new project started", "request_id", requestcontext.RequestID(ctx))
	return st
}

// Save writes the current document under name. A current project is
// overwritten in place; otherwise a new project becomes current. The session
// only takes the project id and name once the store accepted the write.
func (s *Service) Save(ctx context.Context, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if err := validation.CheckStringLength("name", name, validation.MaxNameLength); err != nil {
		return nil, err
	}

	st := s.session.Snapshot()
	id := st.ProjectID
	if !st.HasProject() {
		id = uuid.New()
	}
	projectName := st.ProjectName
	if name != "" {
		projectName = name
	} else if projectName == "" {
		projectName = vct.UntitledName
	}

	now := requestcontext.Now(ctx)
	p := &models.Project{
		ID:         id,
		Name:       projectName,
		VCT:        st.Doc,
		SampleData: st.Sample,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	start := time.Now()
	existing, err := s.store.FindByID(ctx, p.ID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		return nil, wrapStoreErr(err, "failed to load project")
	}
	if err := s.store.Save(ctx, p); err != nil {
		return nil, wrapStoreErr(err, "failed to save project")
	}
	s.observeStore("save", start)

	_, err = s.session.Update(func(cur *editor.State) error {
		if cur.ProjectID != st.ProjectID {
			return errSessionMoved
		}
		cur.ProjectID = p.ID
		cur.ProjectName = p.Name
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "session changed during save; project not made current",
			"project_id", p.ID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	s.logger.InfoContext(ctx, "project saved",
		"project_id", p.ID,
		"name", p.Name,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncSaved()
	}
	s.publish(ctx, models.Event{
		Type:       models.EventProjectSaved,
		ProjectID:  p.ID,
		Name:       p.Name,
		VCT:        p.VCT.VCT,
		OccurredAt: now,
	})
	return p, nil
}

// Load makes the stored project current. An unknown id is a no-op and
// returns nil. Stores decode documents through the normalizer, so projects
// saved under an older schema arrive migrated.
func (s *Service) Load(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	start := time.Now()
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "load of unknown project ignored", "project_id", id)
			return nil, nil
		}
		return nil, wrapStoreErr(err, "failed to load project")
	}
	s.observeStore("load", start)

	s.session.Replace(editor.State{
		Doc:         p.VCT,
		Sample:      p.SampleData,
		ProjectID:   p.ID,
		ProjectName: p.Name,
	})
	return p, nil
}

// Delete removes the project. Deleting the current project also resets the
// session. An unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return wrapStoreErr(err, "failed to delete project")
	}
	s.observeStore("delete", start)

	reset := s.session.ResetProject(id)
	s.logger.InfoContext(ctx, "project deleted",
		"project_id", id,
		"was_current", reset,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncDeleted()
	}
	s.publish(ctx, models.Event{
		Type:       models.EventProjectDeleted,
		ProjectID:  id,
		OccurredAt: requestcontext.Now(ctx),
	})
	return nil
}

// List returns summaries of every saved project, most recent first.
func (s *Service) List(ctx context.Context) ([]models.Summary, error) {
	start := time.Now()
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list projects")
	}
	s.observeStore("list", start)

	out := make([]models.Summary, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Summary())
	}
	return out, nil
}

// Import replaces the current document with data after normalization. The
// result is an unsaved document named "Imported" that keeps the current
// sample data. On error the session is unchanged.
func (s *Service) Import(ctx context.Context, data []byte) (editor.State, []string, error) {
	res, err := normalize.NormalizeJSON(data)
	if err != nil {
		s.countImport(false)
		return editor.State{}, nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid VCT JSON: %v", err)
	}
	if err := checkShape(res.VCT); err != nil {
		s.countImport(false)
		return editor.State{}, nil, err
	}

	st := s.session.Replace(editor.State{
		Doc:         res.VCT,
		Sample:      s.session.Snapshot().Sample,
		ProjectName: vct.ImportedName,
	})
	s.countImport(true)
	s.logger.InfoContext(ctx, "document imported",
		"rules_applied", res.Applied,
		"locales", len(res.VCT.Display),
		"claims", len(res.VCT.Claims),
		"request_id", requestcontext.RequestID(ctx),
	)
	return st, res.Applied, nil
}

// Export returns the current document as indented JSON, exactly as held in
// the session. Use the canonical package for the publishable form.
func (s *Service) Export() ([]byte, error) {
	return marshalIndent(s.session.Document())
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode document")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func checkShape(doc vct.VCT) error {
	if err := validation.CheckSliceCount("display entries", len(doc.Display), validation.MaxLocales); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("claims", len(doc.Claims), validation.MaxClaims); err != nil {
		return err
	}
	for _, c := range doc.Claims {
		if err := validation.CheckSliceCount("path segments", len(c.Path), validation.MaxPathSegments); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, ev models.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to publish project event",
			"type", ev.Type,
			"project_id", ev.ProjectID,
			"error", err,
		)
	}
}

func (s *Service) countImport(ok bool) {
	if s.metrics != nil {
		s.metrics.IncImport(ok)
	}
}

func (s *Service) observeStore(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStore(op, start)
	}
}

func wrapStoreErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "project storage unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
