package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FromStatus maps a non-2xx HTTP status from the scheduling backend to a category.
func FromStatus(code int, detail string) error {
	message := strings.TrimSpace(detail)
	if message == "" {
		message = http.StatusText(code)
	}
	if message == "" {
		message = fmt.Sprintf("status %d", code)
	}

	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", message, ErrUnauthorized)
	case code == http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrForbidden)
	case code == http.StatusNotFound:
		return NotFound(message)
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return InvalidInput(message)
	case code == http.StatusConflict:
		return fmt.Errorf("%s: %w", message, ErrConflict)
	case code == http.StatusTooManyRequests, code >= 500:
		return Transient(message)
	default:
		return Internal(message)
	}
}

// FromTransport classifies errors returned by the HTTP client or dialer.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}

	// Propagate cancellation as-is
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timeout: %w", ErrTransient)
	}

	return fmt.Errorf("network error: %v: %w", err, ErrTransient)
}

// Category returns the category name for an error
func Category(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return "ErrUnauthorized"
	case errors.Is(err, ErrForbidden):
		return "ErrForbidden"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrInvalidInput):
		return "ErrInvalidInput"
	case errors.Is(err, ErrConflict):
		return "ErrConflict"
	case errors.Is(err, ErrTransient):
		return "ErrTransient"
	case errors.Is(err, ErrBusy):
		return "ErrBusy"
	case errors.Is(err, ErrNoDraft):
		return "ErrNoDraft"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if error belongs to specific category
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// NotFound wraps error as not found
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// InvalidInput wraps error as invalid input
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Transient wraps error as transient
func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

// Internal wraps error as internal
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// IsRetryable reports transient or conflict errors. Only the push channel
// reconnect loop consults it; user actions are never retried automatically.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrConflict)
}
