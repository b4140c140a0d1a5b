package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrInvalidInput},
		{http.StatusUnprocessableEntity, ErrInvalidInput},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrTransient},
		{http.StatusInternalServerError, ErrTransient},
		{http.StatusBadGateway, ErrTransient},
		{http.StatusTeapot, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "detail")
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "detail")
		})
	}
}

func TestFromStatus_EmptyDetailUsesStatusText(t *testing.T) {
	err := FromStatus(http.StatusNotFound, "  ")
	assert.Contains(t, err.Error(), "Not Found")
}

func TestFromTransport(t *testing.T) {
	assert.NoError(t, FromTransport(nil))
	assert.ErrorIs(t, FromTransport(context.Canceled), context.Canceled)
	assert.ErrorIs(t, FromTransport(context.DeadlineExceeded), ErrTransient)
	assert.ErrorIs(t, FromTransport(fmt.Errorf("dial tcp: refused")), ErrTransient)
}

func TestCategoryAndRetryable(t *testing.T) {
	assert.Equal(t, "", Category(nil))
	assert.Equal(t, "ErrBusy", Category(fmt.Errorf("generate: %w", ErrBusy)))
	assert.Equal(t, "ErrNoDraft", Category(ErrNoDraft))
	assert.Equal(t, "Unknown", Category(fmt.Errorf("plain")))

	assert.True(t, IsRetryable(Transient("socket closed")))
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", ErrConflict)))
	assert.False(t, IsRetryable(FromStatus(http.StatusUnauthorized, "")))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(nil))
}

func TestFromStatus_UsesCategoryHelpers(t *testing.T) {
	assert.Equal(t, NotFound("no schedule").Error(), FromStatus(http.StatusNotFound, "no schedule").Error())
	assert.Equal(t, InvalidInput("bad id").Error(), FromStatus(http.StatusBadRequest, "bad id").Error())
	assert.Equal(t, Transient("down").Error(), FromStatus(http.StatusServiceUnavailable, "down").Error())
}
