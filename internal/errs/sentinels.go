// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist. It is internal:
	// the HTTP layer never exposes it for owned resources (see ErrAccessDenied).
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates login failure; unknown email and wrong
	// password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrAccessDenied indicates the caller does not own the targeted resource.
	// A missing resource yields the same error so callers cannot probe foreign ids.
	ErrAccessDenied = errors.New("access denied")

	// ErrAuthRequired indicates a protected operation was reached without a valid token.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
