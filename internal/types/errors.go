// Package types provides type definitions for structured data used throughout the candidate-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ErrInputValidation indicates a malformed caller input, e.g. a too-short
// job description or a non-PDF upload. Surfaced to the HTTP caller as 400.
type ErrInputValidation struct {
	Field   string
	Message string
}

func (e *ErrInputValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
	return fmt.Sprintf("invalid input: %s - %s", e.Field, e.Message)
}

// ErrTransientExternal wraps a failed LLM or embedding call. These are
// retried per policy before being promoted to ErrExtraction or
// ErrScoringDegraded.
type ErrTransientExternal struct {
	Op  string
	Err error
}

func (e *ErrTransientExternal) Error() string {
	return fmt.Sprintf("transient external failure in %s: %v", e.Op, e.Err)
}

func (e *ErrTransientExternal) Unwrap() error { return e.Err }

// ErrExtraction indicates resume extraction failed after retries. Fails the
// ingestion job.
type ErrExtraction struct {
	Stage string
	Err   error
}

func (e *ErrExtraction) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ErrExtraction) Unwrap() error { return e.Err }

// ErrScoringDegraded indicates a requirement could not be fully scored, e.g.
// an embedding call failed during matching. The requirement contributes zero
// instead of failing the job.
type ErrScoringDegraded struct {
	Requirement string
	Err         error
}

func (e *ErrScoringDegraded) Error() string {
	return fmt.Sprintf("scoring degraded for %q: %v", e.Requirement, e.Err)
}

func (e *ErrScoringDegraded) Unwrap() error { return e.Err }

// ErrPersistence wraps a database failure. Never retried by the engine; the
// job executor marks the job failed.
type ErrPersistence struct {
	Op  string
	Err error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *ErrPersistence) Unwrap() error { return e.Err }

// ErrInvariantViolation indicates an aggregation invariant was broken, e.g.
// total months disagreeing with the band sum. Treated as a programmer error:
// the current candidate is aborted and logged, processing continues.
type ErrInvariantViolation struct {
	CandidateID int64
	SkillCode   string
	Message     string
}

func (e *ErrInvariantViolation) Error() string {
	if e.SkillCode != "" {
		return fmt.Sprintf("invariant violation on %s: %s", e.SkillCode, e.Message)
	}
	return fmt.Sprintf("invariant violation: %s", e.Message)
}
