// Package domainerrors carries the error vocabulary shared by the editor,
// integrity and asset services. Handlers map a Code to an HTTP status; the
// services never see HTTP.
package domainerrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	// CodeConflict is a duplicate, e.g. a locale already present.
	CodeConflict Code = "conflict"
	CodeTimeout  Code = "timeout"
	// CodeInvariantViolation rejects an edit that would break the document,
	// e.g. removing the last display locale.
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnsupportedMedia   Code = "unsupported_media_type"
	CodeTooLarge           Code = "payload_too_large"
	// CodeUpstream is a failure of a remote resource the hash service fetched.
	CodeUpstream Code = "upstream_error"
)

// Error is a coded failure. Message is safe to show to the editor user.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err, &Error{Code: c})
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches msg to err. A code already present in the chain wins over
// code, so a store's not-found survives a service-level wrap.
func Wrap(err error, code Code, msg string) error {
	if c, ok := CodeOf(err); ok {
		code = c
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Code, true
}

func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
