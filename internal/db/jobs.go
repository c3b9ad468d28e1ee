package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// CreateJob inserts a queued job and returns its id. InputData records what
// was submitted (filename, description, or URL) for later inspection; the
// executor receives the payload in memory.
func (db *DB) CreateJob(ctx context.Context, jobType string, inputData []byte) (uuid.UUID, error) {
	jobID := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (job_id, job_type, status, progress, message, input_data)
		 VALUES ($1, $2, $3, 0, 'Job queued', $4)`,
		jobID, jobType, JobStatusQueued, inputData)
	if err != nil {
		return uuid.Nil, &types.ErrPersistence{Op: "create job", Err: err}
	}
	return jobID, nil
}

// GetJob retrieves a job by id, or nil if unknown.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	var job Job
	err := db.pool.QueryRow(ctx,
		`SELECT job_id, job_type, status, progress, message, result, error_message,
		        created_at, updated_at, completed_at
		 FROM jobs WHERE job_id = $1`,
		jobID,
	).Scan(&job.ID, &job.Type, &job.Status, &job.Progress, &job.Message,
		&job.Result, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt,
		&job.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &types.ErrPersistence{Op: "get job", Err: err}
	}
	return &job, nil
}

// UpdateJobStatus records a status transition. Completion stores the result
// and stamps completed_at; failure stores the error message instead. Any
// other status is a progress update.
func (db *DB) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, progress int, message string, result []byte, errorMessage string) error {
	var err error
	switch status {
	case JobStatusCompleted:
		_, err = db.pool.Exec(ctx,
			`UPDATE jobs
			 SET status = $2, progress = $3, message = $4, result = $5,
			     updated_at = NOW(), completed_at = NOW()
			 WHERE job_id = $1`,
			jobID, status, progress, message, result)
	case JobStatusFailed:
		_, err = db.pool.Exec(ctx,
			`UPDATE jobs
			 SET status = $2, progress = $3, message = $4, error_message = $5,
			     updated_at = NOW(), completed_at = NOW()
			 WHERE job_id = $1`,
			jobID, status, progress, message, nullIfEmpty(errorMessage))
	default:
		_, err = db.pool.Exec(ctx,
			`UPDATE jobs
			 SET status = $2, progress = $3, message = $4, updated_at = NOW()
			 WHERE job_id = $1`,
			jobID, status, progress, message)
	}
	if err != nil {
		return &types.ErrPersistence{Op: "update job status", Err: err}
	}
	return nil
}

// nullIfEmpty converts an empty string to SQL NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
