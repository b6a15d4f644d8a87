// Package tracer keeps the integrity service independent of the OpenTelemetry
// API. Production wiring uses OTel; tests use Noop.
package tracer

import (
	"context"
	"net/url"
)

type Span interface {
	// End must be called exactly once. A non-nil err marks the span failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Host returns the host of rawURL for span attributes. Paths and queries are
// left out since they may carry tokens.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

const (
	SpanHash   = "integrity.hash"
	SpanFetch  = "integrity.fetch"
	SpanVerify = "integrity.verify"
)

const (
	AttrHost       = "url.host"
	AttrCacheHit   = "cache.hit"
	AttrSize       = "resource.size"
	AttrStatusCode = "http.status_code"
	AttrReferences = "verify.references"
	AttrValid      = "verify.valid"
)

const EventCacheStoreFailed = "cache.store_failed"
