// Package db provides PostgreSQL access for the matching engine: the skill
// taxonomy, candidate profiles, role weights, the embedding cache, background
// jobs, and recruiter accounts. Query failures come back as
// types.ErrPersistence; the engine never retries them.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schemaStatements are executed one at a time: the extended protocol refuses
// multi-statement strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS master_skills (
		skill_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		skill_code TEXT NOT NULL UNIQUE,
		skill_name TEXT NOT NULL,
		skill_type TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		parent_skill_id BIGINT REFERENCES master_skills(skill_id),
		aliases TEXT NOT NULL DEFAULT '',
		skill_tokens TEXT NOT NULL DEFAULT '',
		disambiguation_rules TEXT NOT NULL DEFAULT '',
		embedding REAL[]
	)`,
	`CREATE TABLE IF NOT EXISTS skill_implications (
		from_skill_code TEXT NOT NULL,
		to_skill_code TEXT NOT NULL,
		PRIMARY KEY (from_skill_code, to_skill_code)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_type_weights (
		skill_type TEXT PRIMARY KEY,
		weight DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS role_skill_type_weights (
		primary_domain TEXT NOT NULL,
		seniority_level TEXT NOT NULL,
		skill_type TEXT NOT NULL,
		multiplier DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (primary_domain, seniority_level, skill_type)
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		candidate_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		experience_json TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_skills (
		candidate_id BIGINT NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
		master_skill_id BIGINT NOT NULL REFERENCES master_skills(skill_id),
		total_months INT NOT NULL DEFAULT 0,
		junior_months INT NOT NULL DEFAULT 0,
		mid_months INT NOT NULL DEFAULT 0,
		senior_months INT NOT NULL DEFAULT 0,
		first_used_date DATE,
		last_used_date DATE,
		evidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		evidence_sources TEXT[] NOT NULL DEFAULT '{}',
		max_evidence_strength INT NOT NULL DEFAULT 0,
		match_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		normalization_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		normalization_method TEXT NOT NULL DEFAULT 'none',
		has_presence BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (candidate_id, master_skill_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidate_skills_skill
		ON candidate_skills (master_skill_id)`,
	`CREATE TABLE IF NOT EXISTS embedding_cache (
		input_text TEXT PRIMARY KEY,
		embedding REAL[] NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		accessed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		access_count INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		job_id UUID PRIMARY KEY,
		job_type TEXT NOT NULL,
		status TEXT NOT NULL,
		progress INT NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		input_data JSONB,
		result JSONB,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS recruiters (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		organization TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates any missing tables and indexes. The statements are
// idempotent, so running it at every startup is safe.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return &types.ErrPersistence{Op: "ensure schema", Err: err}
		}
	}
	return nil
}
