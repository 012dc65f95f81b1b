package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		err    error
		status int
	}{
		{GeneralError(cause), http.StatusInternalServerError},
		{BadRequestError(cause, "bad"), http.StatusBadRequest},
		{UnAuthorizedError(nil, "who"), http.StatusUnauthorized},
		{ResourceNotFoundError(nil, "missing"), http.StatusNotFound},
		{ConflictError(nil, "taken"), http.StatusConflict},
		{GoneError(nil, "expired"), http.StatusGone},
		{DependencyFailureError(cause, "redis"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		var svcErr *ServiceError
		require.True(t, errors.As(tt.err, &svcErr))
		assert.Equal(t, tt.status, svcErr.StatusCode(), svcErr.Category.String())
	}
}

func TestServiceError_WrapsCause(t *testing.T) {
	sentinel := errors.New("session expired")
	err := GoneError(sentinel, "Session expired")

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "session expired", err.Error())
	assert.True(t, Is(err, CategoryGone))
	assert.False(t, Is(err, CategoryDataError))
}

func TestServiceError_FallbackCause(t *testing.T) {
	err := ConflictError(nil, "Verification already in progress")
	assert.Equal(t, "conflict: Verification already in progress", err.Error())

	err = GeneralError(nil)
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Internal Server Error", svcErr.Message)
}

func TestIsInternalError(t *testing.T) {
	assert.True(t, IsInternalError(errors.New("plain")))
	assert.True(t, IsInternalError(GeneralError(nil)))
	assert.True(t, IsInternalError(DependencyFailureError(nil, "redis down")))
	assert.False(t, IsInternalError(BadRequestError(nil, "bad")))
	assert.False(t, IsInternalError(GoneError(nil, "expired")))
}
