package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Recruiter Methods
// -----------------------------------------------------------------------------

// CreateRecruiter inserts a recruiter account without a password and returns
// its id. Registration is two-step: create the row, then set the password
// hash.
func (db *DB) CreateRecruiter(ctx context.Context, name, email, organization string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO recruiters (id, name, email, organization)
		 VALUES ($1, $2, $3, $4)`,
		id, name, email, organization)
	if err != nil {
		return uuid.Nil, &types.ErrPersistence{Op: "create recruiter", Err: err}
	}
	return id, nil
}

// GetRecruiter retrieves a recruiter by id, or nil if unknown.
func (db *DB) GetRecruiter(ctx context.Context, id uuid.UUID) (*Recruiter, error) {
	var r Recruiter
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, organization, password_hash, created_at, updated_at
		 FROM recruiters WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Name, &r.Email, &r.Organization, &r.PasswordHash,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &types.ErrPersistence{Op: "get recruiter", Err: err}
	}
	return &r, nil
}

// GetRecruiterByEmail retrieves a recruiter by email, or nil if unknown.
func (db *DB) GetRecruiterByEmail(ctx context.Context, email string) (*Recruiter, error) {
	var r Recruiter
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, organization, password_hash, created_at, updated_at
		 FROM recruiters WHERE email = $1`,
		email,
	).Scan(&r.ID, &r.Name, &r.Email, &r.Organization, &r.PasswordHash,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &types.ErrPersistence{Op: "get recruiter by email", Err: err}
	}
	return &r, nil
}

// CheckRecruiterEmailExists reports whether an account with the email exists.
func (db *DB) CheckRecruiterEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM recruiters WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, &types.ErrPersistence{Op: "check recruiter email", Err: err}
	}
	return exists, nil
}

// UpdateRecruiterPassword replaces the stored password hash.
func (db *DB) UpdateRecruiterPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE recruiters SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return &types.ErrPersistence{Op: "update recruiter password", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &types.ErrPersistence{Op: "update recruiter password", Err: fmt.Errorf("recruiter not found: %s", id)}
	}
	return nil
}
