// Package httputil writes JSON responses and the error envelope shared by
// the editor and asset APIs.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "vctbuilder/pkg/domain-errors"
)

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

type errorMapping struct {
	status int
	code   string
}

var (
	errorMappings = map[dErrors.Code]errorMapping{
		dErrors.CodeNotFound:           {http.StatusNotFound, "not_found"},
		dErrors.CodeBadRequest:         {http.StatusBadRequest, "bad_request"},
		dErrors.CodeInvalidInput:       {http.StatusBadRequest, "bad_request"},
		dErrors.CodeValidation:         {http.StatusBadRequest, "validation_error"},
		dErrors.CodeInvariantViolation: {http.StatusUnprocessableEntity, "invariant_violation"},
		dErrors.CodeConflict:           {http.StatusConflict, "conflict"},
		dErrors.CodeUnsupportedMedia:   {http.StatusUnsupportedMediaType, "unsupported_media_type"},
		dErrors.CodeTooLarge:           {http.StatusRequestEntityTooLarge, "payload_too_large"},
		dErrors.CodeUpstream:           {http.StatusBadGateway, "upstream_error"},
		dErrors.CodeTimeout:            {http.StatusGatewayTimeout, "timeout"},
	}
	internalError = errorMapping{http.StatusInternalServerError, "internal_error"}
)

func mappingFor(code dErrors.Code) errorMapping {
	if m, ok := errorMappings[code]; ok {
		return m
	}
	return internalError
}

// StatusFor returns the HTTP status a domain code is served with.
func StatusFor(code dErrors.Code) int {
	return mappingFor(code).status
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteRawJSON writes an already encoded JSON body.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes err as an ErrorBody. Errors without a domain code are
// reported as internal and their text is not exposed.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		WriteJSON(w, internalError.status, ErrorBody{Error: internalError.code})
		return
	}
	m := mappingFor(de.Code)
	WriteJSON(w, m.status, ErrorBody{Error: m.code, Description: de.Message})
}
