package service

import "errors"

// Failure classes surfaced to callers. Handlers map these onto HTTP
// status codes; anything unwrapped is treated as an internal failure.
var (
	// ErrNotFound means a referenced id did not resolve to a stored record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation means the request is malformed at the domain
	// level: self-targeting, or acting on a non-pending request.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflict means stored state already precludes the mutation:
	// duplicate pending request, or the users are already friends.
	ErrConflict = errors.New("conflict")

	// ErrForbidden means the caller is not the actor this operation is
	// restricted to.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized means the credentials did not check out.
	ErrUnauthorized = errors.New("unauthorized")
)
