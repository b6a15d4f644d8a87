package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "vctbuilder/pkg/domain-errors"
)

// Normalizer is implemented by request DTOs that trim or canonicalize their
// fields before validation.
type Normalizer interface {
	Normalize()
}

// Validator is implemented by request DTOs with field checks.
type Validator interface {
	Validate() error
}

// DecodeJSON reads one JSON value from the body into a new T. On failure it
// writes the error response itself and returns false.
//
//	req, ok := httputil.DecodeJSON[AddDisplayRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//		return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	err := decodeOne(r.Body, req)
	if err == nil {
		return req, true
	}

	logger.WarnContext(ctx, "failed to decode request body", "error", err, "request_id", requestID)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, dErrors.New(dErrors.CodeTooLarge, "request body too large"))
	} else {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
	}
	return nil, false
}

func decodeOne(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// PrepareRequest runs Normalize then Validate on req when it implements them.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare is DecodeJSON followed by PrepareRequest. A validation
// failure without a domain code is reported as CodeValidation.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}
	err := PrepareRequest(req)
	if err == nil {
		return req, true
	}

	logger.WarnContext(ctx, "invalid request", "error", err, "request_id", requestID)
	if _, coded := dErrors.CodeOf(err); !coded {
		err = dErrors.New(dErrors.CodeValidation, err.Error())
	}
	WriteError(w, err)
	return nil, false
}
