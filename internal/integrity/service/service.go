// Package service resolves SRI hashes for remote resources and verifies the
// integrity values declared in a document.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vctbuilder/internal/integrity/fetcher"
	"vctbuilder/internal/integrity/metrics"
	"vctbuilder/internal/integrity/models"
	"vctbuilder/internal/integrity/tracer"
	"vctbuilder/internal/vct/editor"
	vct "vctbuilder/internal/vct/models"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/sentinel"
	keyedsync "vctbuilder/pkg/platform/sync"
	"vctbuilder/pkg/requestcontext"
)

// Fetcher downloads and hashes one resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.HashResult, error)
}

// Cache returns sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, url string) (*models.HashResult, error)
	Set(ctx context.Context, url string, res *models.HashResult) error
}

const defaultVerifyConcurrency = 4

type Service struct {
	fetcher     Fetcher
	cache       Cache
	locks       *keyedsync.ShardedMutex
	tracer      tracer.Tracer
	metrics     *metrics.Metrics
	logger      *slog.Logger
	concurrency int
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithVerifyConcurrency bounds parallel fetches during VerifyDocument.
func WithVerifyConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     f,
		locks:       keyedsync.NewShardedMutex(0),
		tracer:      tracer.Noop{},
		logger:      slog.Default(),
		concurrency: defaultVerifyConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hash fetches url and returns its integrity value. Concurrent calls for the
// same url are serialized so only the first one reaches the network when a
// cache is configured.
func (s *Service) Hash(ctx context.Context, url string) (res *models.HashResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanHash, tracer.String(tracer.AttrHost, tracer.Host(url)))
	defer func() { span.End(err) }()

	err = s.locks.Do(url, func() error {
		if s.cache != nil {
			cached, cerr := s.cache.Get(ctx, url)
			if cerr == nil {
				s.countCache("hit")
				span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
				res = cached
				return nil
			}
			if errors.Is(cerr, sentinel.ErrNotFound) {
				s.countCache("miss")
			} else {
				s.countCache("error")
			}
		}
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

		fetched, ferr := s.fetch(ctx, url)
		if ferr != nil {
			return ferr
		}
		res = fetched
		if s.cache != nil {
			if cerr := s.cache.Set(ctx, url, fetched); cerr != nil {
				span.AddEvent(tracer.EventCacheStoreFailed)
				s.logger.WarnContext(ctx, "failed to cache hash", "url", url, "error", cerr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) fetch(ctx context.Context, url string) (*models.HashResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFetch, tracer.String(tracer.AttrHost, tracer.Host(url)))
	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, url)
	span.End(err)

	if err != nil {
		s.observeFetch(fetchResult(err), start, 0)
		s.logger.WarnContext(ctx, "resource fetch failed",
			"url", url,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}
	span.SetAttributes(tracer.Int64(tracer.AttrSize, res.Size))
	s.observeFetch("ok", start, res.Size)
	return res, nil
}

// Integrity returns the SRI value of url with errors translated to domain
// codes for the editor API.
func (s *Service) Integrity(ctx context.Context, url string) (string, error) {
	res, err := s.Hash(ctx, url)
	if err != nil {
		return "", ToDomainError(err)
	}
	return res.Hash, nil
}

// ToDomainError maps fetch failures to domain error codes.
func ToDomainError(err error) error {
	var fe *fetcher.FetchError
	switch {
	case errors.As(err, &fe):
		return dErrors.Wrap(err, dErrors.CodeUpstream, fmt.Sprintf("upstream responded %d %s", fe.StatusCode, fe.Status))
	case errors.Is(err, fetcher.ErrInvalidURL):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "uri must be an absolute http(s) URL")
	case errors.Is(err, fetcher.ErrTooLarge):
		return dErrors.Wrap(err, dErrors.CodeUpstream, "resource exceeds size limit")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "timed out fetching resource")
	default:
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to fetch resource")
	}
}

// VerifyDocument hashes every integrity-bearing URI of doc and compares it to
// the declared value. Per-reference failures are reported, not returned.
func (s *Service) VerifyDocument(ctx context.Context, doc vct.VCT) (report models.Report, err error) {
	refs := editor.References(doc)
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify, tracer.Int64(tracer.AttrReferences, int64(len(refs))))
	defer func() { span.End(err) }()

	results := make([]models.Verification, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			results[i] = s.verify(gctx, ref)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return models.Report{}, err
	}

	report = models.NewReport(results)
	span.SetAttributes(tracer.Bool(tracer.AttrValid, report.Valid))
	return report, nil
}

func (s *Service) verify(ctx context.Context, ref editor.Reference) models.Verification {
	v := models.Verification{Target: ref.Target.String(), URI: ref.URI, Expected: ref.Integrity}
	res, err := s.Hash(ctx, ref.URI)
	switch {
	case err != nil:
		v.Status = models.StatusError
		v.Error = err.Error()
	case ref.Integrity == "":
		v.Actual = res.Hash
		v.Status = models.StatusUnpinned
	case models.Matches(ref.Integrity, res.Hash):
		v.Actual = res.Hash
		v.Status = models.StatusMatch
	default:
		v.Actual = res.Hash
		v.Status = models.StatusMismatch
	}
	if s.metrics != nil {
		s.metrics.IncVerification(string(v.Status))
	}
	return v
}

func fetchResult(err error) string {
	var fe *fetcher.FetchError
	switch {
	case errors.As(err, &fe):
		return "upstream_error"
	case errors.Is(err, fetcher.ErrTooLarge):
		return "too_large"
	default:
		return "error"
	}
}

func (s *Service) countCache(result string) {
	if s.metrics != nil {
		s.metrics.IncCacheLookup(result)
	}
}

func (s *Service) observeFetch(result string, start time.Time, size int64) {
	if s.metrics != nil {
		s.metrics.ObserveFetch(result, start, size)
	}
}
