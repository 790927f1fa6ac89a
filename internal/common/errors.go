// Package common defines shared constants and sentinel errors used across
// the FOSYS client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors, raised before anything is sent to a server.
	ErrorValidation = errors.New("validation error")
)
