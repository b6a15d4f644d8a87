// Package sentinel holds the errors stores and blob backends return. Services
// translate them to domain codes once, at the service boundary.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable means the backing store cannot serve requests, e.g. the
	// schema is missing or the connection is down.
	ErrUnavailable = errors.New("unavailable")
)
