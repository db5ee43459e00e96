package entity

import "errors"

// Error taxonomy shared by the service and repository layers. Callers
// classify failures with errors.Is; operations wrap these with context.
var (
	// ErrUnauthenticated means no caller identity was supplied.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrUnauthorized means the caller does not own the resource.
	ErrUnauthorized = errors.New("not authorized")
	// ErrNotFound means a referenced form, question or option is absent.
	ErrNotFound = errors.New("not found")
	// ErrMismatch means a child entity does not belong to the claimed parent.
	ErrMismatch = errors.New("parent mismatch")
	// ErrValidation means a payload is malformed or has an unknown type.
	ErrValidation = errors.New("validation failed")
)
