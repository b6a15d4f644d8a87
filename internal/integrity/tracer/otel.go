package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "vctbuilder/integrity"

type OTel struct {
	tracer trace.Tracer
}

// NewOTel uses the global tracer provider unless t is non-nil.
func NewOTel(t trace.Tracer) *OTel {
	if t == nil {
		t = otel.Tracer(instrumentationName)
	}
	return &OTel{tracer: t}
}

func (t *OTel) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(convert(attrs)...))
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(convert(attrs)...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(convert(attrs)...))
}

func convert(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		}
	}
	return out
}

var _ Tracer = (*OTel)(nil)
