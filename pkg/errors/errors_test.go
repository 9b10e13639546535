package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_MapToSentinelsAndStatuses(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		status   int
		code     string
	}{
		{"not found", NotFound("session", "s1"), ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"unauthorized", Unauthorized("nope"), ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"conflict", Conflict("busy"), ErrConflict, http.StatusConflict, "CONFLICT"},
		{"unavailable", Unavailable("down"), ErrUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("fetch user: %w", ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus_UnknownErrorIs500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "load session")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "load session")
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	appErr := &AppError{Code: "SERVICE_UNAVAILABLE", Message: "down", Err: inner}
	assert.Contains(t, appErr.Error(), "refused")
	assert.Equal(t, inner, errors.Unwrap(appErr))
}
