// Package errors defines the sentinel errors shared across the service
// layers. Handlers map them onto HTTP status codes with errors.Is.
package errors

import (
	"fmt"
)

var (
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = fmt.Errorf("not found")
	// ErrConflict signals a duplicate unique field (company name or email).
	ErrConflict = fmt.Errorf("already exists")
	// ErrInvalidInput signals missing or malformed request fields.
	ErrInvalidInput = fmt.Errorf("invalid input")
	// ErrInvalidCredentials covers both unknown email and password mismatch;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	// ErrUnauthorized signals a missing, malformed, or expired token.
	ErrUnauthorized = fmt.Errorf("unauthorized")
	// ErrForbidden signals a valid token with the wrong role or tenant.
	ErrForbidden = fmt.Errorf("forbidden")
)
