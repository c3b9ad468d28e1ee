package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job statuses. A job moves queued -> processing -> completed or failed;
// there are no other transitions.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job types accepted by the executor
const (
	JobTypeCandidate = "candidate"
	JobTypeEmployer  = "employer"
)

// Job represents a background processing job
type Job struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
	Message      string          `json:"message"`
	InputData    json.RawMessage `json:"-"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// Recruiter represents a recruiter account row
type Recruiter struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Candidate represents a stored candidate row. The full work history is kept
// as raw JSON alongside the normalized candidate_skills rows so the original
// extraction output can be returned without re-deriving it.
type Candidate struct {
	ID             int64           `json:"id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email,omitempty"`
	ExperienceJSON json.RawMessage `json:"experience,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
