// Package server provides the HTTP REST API for the candidate matcher.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-matcher/internal/config"
	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// RecruiterStore is the slice of the database layer the auth service needs.
type RecruiterStore interface {
	CheckRecruiterEmailExists(ctx context.Context, email string) (bool, error)
	CreateRecruiter(ctx context.Context, name, email, organization string) (uuid.UUID, error)
	GetRecruiter(ctx context.Context, id uuid.UUID) (*db.Recruiter, error)
	GetRecruiterByEmail(ctx context.Context, email string) (*db.Recruiter, error)
	UpdateRecruiterPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// RecruiterService provides business logic for recruiter account operations
type RecruiterService struct {
	store          RecruiterStore
	passwordConfig *config.PasswordConfig
}

// NewRecruiterService creates a new RecruiterService with the given dependencies
func NewRecruiterService(store RecruiterStore, passwordConfig *config.PasswordConfig) *RecruiterService {
	return &RecruiterService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// recruiterProfile converts a db row to the API shape, excluding the password hash
func recruiterProfile(row *db.Recruiter) *types.Recruiter {
	if row == nil {
		return nil
	}
	return &types.Recruiter{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Organization: row.Organization,
		PasswordSet:  row.PasswordHash != "",
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// Register creates a new recruiter account with password authentication
func (s *RecruiterService) Register(ctx context.Context, req *types.CreateRecruiterRequest) (*types.Recruiter, error) {
	// Check if email already exists
	exists, err := s.store.CheckRecruiterEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	// Hash password
	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create account (two-step: create row, then set password)
	recruiterID, err := s.store.CreateRecruiter(ctx, req.Name, req.Email, req.Organization)
	if err != nil {
		return nil, fmt.Errorf("failed to create recruiter: %w", err)
	}

	if err := s.store.UpdateRecruiterPassword(ctx, recruiterID, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	// Retrieve created account
	row, err := s.store.GetRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created recruiter: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("created recruiter not found: %s", recruiterID)
	}

	return recruiterProfile(row), nil
}

// Login authenticates a recruiter and returns the account profile
func (s *RecruiterService) Login(ctx context.Context, req *types.LoginRequest) (*types.Recruiter, error) {
	row, err := s.store.GetRecruiterByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get recruiter by email: %w", err)
	}

	// Security: Always return generic error if account not found or password wrong
	if row == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if row.PasswordHash == "" {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(req.Password, row.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return recruiterProfile(row), nil
}

// UpdatePassword updates a recruiter's password
func (s *RecruiterService) UpdatePassword(ctx context.Context, recruiterID uuid.UUID, currentPassword, newPassword string) error {
	row, err := s.store.GetRecruiter(ctx, recruiterID)
	if err != nil {
		return fmt.Errorf("failed to get recruiter: %w", err)
	}
	if row == nil {
		return &ErrRecruiterNotFound{RecruiterID: recruiterID}
	}

	// Verify current password
	if !s.passwordConfig.VerifyPassword(currentPassword, row.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	// Hash new password
	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.store.UpdateRecruiterPassword(ctx, recruiterID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
