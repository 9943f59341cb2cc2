package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewNotFound("issue", nil), "NOT_FOUND", http.StatusNotFound},
		{NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{NewUnauthorized("who"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		de := ToDomainError(tt.err)
		require.NotNil(t, de)
		assert.Equal(t, tt.code, de.Code)
		assert.Equal(t, tt.status, de.HTTPStatus)
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(cause)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)
	// Underlying cause is not exposed in the client-facing message.
	assert.Equal(t, "internal server error", de.Message)
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	orig := NewForbidden("access denied to this issue")
	de := ToDomainError(orig)
	assert.Same(t, orig, de)
}
