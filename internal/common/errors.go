// Package common defines shared constants and sentinel errors used across
// the layers of Eventkeeper. Callers should use errors.Is to match these
// values; the HTTP layer is the only place they are turned into status codes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Token verification errors. Malformed, bad-signature and expired are
	// distinguished internally; the HTTP layer collapses them on purpose.
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)
