package domain

import (
	"errors"
	"fmt"
)

// Account and credential errors.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateSlug      = errors.New("account slug already taken")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrHashMalformed      = errors.New("stored password hash is malformed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrInvalidImage       = errors.New("invalid image payload")
)

// Session token errors. Callers treat all of them as unauthenticated.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrRevocationUnavailable = errors.New("token revocation not configured")
)

// Collaborator failures.
var (
	ErrStore   = errors.New("store unavailable")
	ErrStorage = errors.New("asset storage failed")
	ErrNotify  = errors.New("notification failed")
)

// Post read errors. ErrNoCategoryPosts matches ErrPostNotFound.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNoCategoryPosts = fmt.Errorf("%w: category has no posts", ErrPostNotFound)
	ErrPageOutOfRange  = errors.New("page out of range")
)

// IsTokenError reports whether err is any of the session token failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrTokenRevoked)
}
