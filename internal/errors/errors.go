package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrUnauthorized - credential missing or rejected (send the user to login)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden - credential valid but the role may not perform the call
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound - resource not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput - invalid input (show validation error)
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict - server state changed underneath the request
	ErrConflict = errors.New("conflict")

	// ErrTransient - network failure, timeout or 5xx
	ErrTransient = errors.New("transient error")

	// ErrBusy - another generate/publish call is still outstanding
	ErrBusy = errors.New("busy")

	// ErrNoDraft - publish requested without a held draft
	ErrNoDraft = errors.New("no draft")

	// ErrInternal - anything else
	ErrInternal = errors.New("internal error")
)
