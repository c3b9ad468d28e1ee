// Package server provides the HTTP REST API for the candidate matcher.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-matcher/internal/ingestion"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrRecruiterNotFound indicates the recruiter account was not found
type ErrRecruiterNotFound struct {
	RecruiterID uuid.UUID
}

func (e *ErrRecruiterNotFound) Error() string {
	return fmt.Sprintf("recruiter not found: %s", e.RecruiterID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Job submission errors arrive wrapped, so matching goes through
// errors.As/Is rather than a bare type switch.
func HTTPStatus(err error) int {
	var (
		emailExists  *ErrEmailAlreadyExists
		invalidCreds *ErrInvalidCredentials
		notFound     *ErrRecruiterNotFound
		pwMismatch   *ErrPasswordMismatch
		validation   *ErrValidation
		badInput     *types.ErrInputValidation
		transient    *types.ErrTransientExternal
	)
	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &pwMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &badInput):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrHTTPRequestFailed),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
