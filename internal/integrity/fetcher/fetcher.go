// Package fetcher downloads remote resources and computes their SHA-256
// integrity value while streaming.
package fetcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"vctbuilder/internal/integrity/models"
)

var (
	// ErrInvalidURL is returned for anything but an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid resource url")
	// ErrTooLarge is returned when the body exceeds Config.MaxBytes.
	ErrTooLarge = errors.New("resource exceeds size limit")
)

// FetchError reports a non-2xx upstream response.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return "Failed to fetch resource: " + e.Status
}

// HTTPDoer is the part of *http.Client the fetcher needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	Rate      float64 // requests per second per host; <= 0 disables limiting
	Burst     int
	UserAgent string
	Client    HTTPDoer
}

type Fetcher struct {
	client    HTTPDoer
	limiter   *hostLimiter
	maxBytes  int64
	userAgent string
}

func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 20 << 20
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "vctbuilder-hash/1.0"
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		client:    client,
		limiter:   newHostLimiter(cfg.Rate, cfg.Burst),
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads rawURL and hashes the body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.HashResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if err := f.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	h := sha256.New()
	n, err := io.Copy(h, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if n > f.maxBytes {
		return nil, ErrTooLarge
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return &models.HashResult{
		URL:         rawURL,
		Hash:        models.SRI(sum),
		Size:        n,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
