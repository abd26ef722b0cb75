package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Access-code flow errors. ErrCodeInvalid deliberately covers "no such
	// challenge", "expired" and "wrong code" with a single value so callers
	// cannot distinguish them.
	ErrCodeInvalid = errors.New("code is invalid or has expired")
	ErrCodeLocked  = errors.New("too many attempts")

	// Manage-session errors
	ErrSessionInvalid = errors.New("session is missing, invalid or expired")
	ErrSessionStale   = errors.New("session no longer matches the endorsement")

	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)
