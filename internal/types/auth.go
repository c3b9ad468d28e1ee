// Package types provides type definitions for structured data used throughout the candidate-matcher system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// requestValidator checks the validate tags on API request types. A single
// instance caches struct metadata and is safe for concurrent use.
var requestValidator = validator.New()

// CreateRecruiterRequest is the body of POST /auth/register.
type CreateRecruiterRequest struct {
	Name         string `json:"name" validate:"required,min=1"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Organization string `json:"organization,omitempty"`
}

// Validate reports whether the registration request is well formed.
func (r *CreateRecruiterRequest) Validate() error {
	return requestValidator.Struct(r)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate reports whether the login request is well formed.
func (r *LoginRequest) Validate() error {
	return requestValidator.Struct(r)
}

// UpdatePasswordRequest is the body of PUT /auth/password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Validate reports whether the password update request is well formed.
func (r *UpdatePasswordRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Recruiter is a recruiter profile as returned by the API. It mirrors
// db.Recruiter minus the password hash, which must never leave the server.
type Recruiter struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization,omitempty"`
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginResponse carries the recruiter profile and a bearer token. Both
// registration and login return it.
type LoginResponse struct {
	Recruiter *Recruiter `json:"recruiter"`
	Token     string     `json:"token"`
}
