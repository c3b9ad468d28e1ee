package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-matcher/internal/ingestion"
	"github.com/jonathan/candidate-matcher/internal/types"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrRecruiterNotFound(t *testing.T) {
	recruiterID := uuid.New()
	err := &ErrRecruiterNotFound{RecruiterID: recruiterID}
	assert.Equal(t, "recruiter not found: "+recruiterID.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrPasswordMismatch(t *testing.T) {
	err := &ErrPasswordMismatch{}
	assert.Equal(t, "current password is incorrect", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "ErrEmailAlreadyExists",
			err:      &ErrEmailAlreadyExists{Email: "test@example.com"},
			expected: http.StatusConflict,
		},
		{
			name:     "ErrInvalidCredentials",
			err:      &ErrInvalidCredentials{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "ErrPasswordMismatch",
			err:      &ErrPasswordMismatch{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "ErrRecruiterNotFound",
			err:      &ErrRecruiterNotFound{RecruiterID: uuid.New()},
			expected: http.StatusNotFound,
		},
		{
			name:     "ErrValidation",
			err:      &ErrValidation{Field: "password", Message: "too short"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "input validation from ingestion",
			err:      &types.ErrInputValidation{Field: "job_description", Message: "too short"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped input validation",
			err:      fmt.Errorf("ingest failed: %w", &types.ErrInputValidation{Field: "job_url", Message: "must be absolute"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "fetch failure",
			err:      fmt.Errorf("%w: status 404", ingestion.ErrHTTPRequestFailed),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "extraction failure",
			err:      fmt.Errorf("%w: no content", ingestion.ErrContentExtractionFailed),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "transient external failure",
			err:      &types.ErrTransientExternal{Op: "embedding", Err: assert.AnError},
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "Unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
