// Package common defines shared constants and sentinel errors used across
// client and server layers of bancoseguro. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Protocol pipeline errors, in check order.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrIntegrity         = errors.New("mac verification failed")
	ErrReplay            = errors.New("nonce already used")
	ErrValidation        = errors.New("invalid message")
	ErrIllegalState      = errors.New("operation not allowed in current state")

	// Handler-specific errors.
	ErrDuplicateUser  = errors.New("user already exists")
	ErrBadCredentials = errors.New("bad credentials")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrTooManyLogins  = errors.New("too many login attempts")

	// Credential storage errors. A stored hash that cannot be parsed is
	// distinct from a verification failure.
	ErrCorruptCredential = errors.New("corrupt stored credential")

	// Auth token errors.
	ErrInvalidToken = errors.New("invalid token")

	// Durable-store failure. Never swallowed silently: once raised, no
	// write can be assumed committed for that request.
	ErrPersistence = errors.New("persistence error")
)
