package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-matcher/internal/db"
)

// DefaultWorkers bounds concurrent job execution.
const DefaultWorkers = 2

// JobStore persists job state transitions.
type JobStore interface {
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, progress int, message string, result []byte, errorMessage string) error
}

// Executor runs submitted jobs on a bounded worker pool. Submission never
// blocks the caller; a job waits in line while every worker is busy. Job
// failures are persisted to the jobs table, never propagated, so one bad
// job cannot cancel its siblings.
type Executor struct {
	jobs    JobStore
	deps    *Deps
	group   errgroup.Group
	pending sync.WaitGroup

	// Jobs outlive the submitting request, so they run on the executor's
	// base context rather than the request's.
	ctx context.Context
}

// NewExecutor creates an executor with the given worker count. Zero or less
// means DefaultWorkers.
func NewExecutor(ctx context.Context, jobs JobStore, deps *Deps, workers int) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	e := &Executor{jobs: jobs, deps: deps, ctx: ctx}
	e.group.SetLimit(workers)
	return e
}

// SubmitCandidate queues a resume ingestion job.
func (e *Executor) SubmitCandidate(jobID uuid.UUID, pdf []byte) {
	e.submit(jobID, db.JobTypeCandidate, func(ctx context.Context, onProgress ProgressFunc) (any, string, error) {
		candidateProfile, err := e.deps.RunCandidate(ctx, pdf, onProgress)
		if err != nil {
			return nil, "", err
		}
		return candidateResult{Profile: candidateProfile}, "Resume processed successfully", nil
	})
}

// SubmitEmployer queues a matching job.
func (e *Executor) SubmitEmployer(jobID uuid.UUID, jdText string, limit int) {
	e.submit(jobID, db.JobTypeEmployer, func(ctx context.Context, onProgress ProgressFunc) (any, string, error) {
		response, err := e.deps.RunEmployer(ctx, jdText, limit, onProgress)
		if err != nil {
			return nil, "", err
		}
		message := fmt.Sprintf("Found %d matching candidates", len(response.Results))
		return employerResult{Matches: response.Results, RoleContext: response.RoleContext}, message, nil
	})
}

// Wait blocks until every submitted job has run to completion.
func (e *Executor) Wait() {
	e.pending.Wait()
	_ = e.group.Wait()
}

// submit schedules one job. The run function reports milestones through the
// callback and returns the result payload plus the completion message.
func (e *Executor) submit(jobID uuid.UUID, jobType string, run func(context.Context, ProgressFunc) (any, string, error)) {
	e.pending.Add(1)
	// group.Go blocks while the pool is full; the extra goroutine keeps
	// that wait off the submitting handler.
	go func() {
		defer e.pending.Done()
		e.group.Go(func() error {
			e.execute(jobID, jobType, run)
			return nil
		})
	}()
}

func (e *Executor) execute(jobID uuid.UUID, jobType string, run func(context.Context, ProgressFunc) (any, string, error)) {
	onProgress := func(progress int, message string) {
		if err := e.jobs.UpdateJobStatus(e.ctx, jobID, db.JobStatusProcessing, progress, message, nil, ""); err != nil {
			log.Printf("[JOBS] failed to update job %s: %v", jobID, err)
		}
	}

	result, message, err := runProtected(e.ctx, run, onProgress)

	var payload []byte
	if err == nil {
		payload, err = json.Marshal(result)
		if err != nil {
			err = fmt.Errorf("failed to encode job result: %w", err)
		}
	}
	if err != nil {
		log.Printf("[JOBS] %s job %s failed: %v", jobType, jobID, err)
		failMsg := failurePrefix(jobType) + err.Error()
		if uErr := e.jobs.UpdateJobStatus(e.ctx, jobID, db.JobStatusFailed, 0, failMsg, nil, err.Error()); uErr != nil {
			log.Printf("[JOBS] failed to mark job %s failed: %v", jobID, uErr)
		}
		return
	}

	if err := e.jobs.UpdateJobStatus(e.ctx, jobID, db.JobStatusCompleted, 100, message, payload, ""); err != nil {
		log.Printf("[JOBS] failed to mark job %s completed: %v", jobID, err)
	}
}

// runProtected converts a panicking job into a failed one so a malformed
// input cannot take the whole server down.
func runProtected(ctx context.Context, run func(context.Context, ProgressFunc) (any, string, error), onProgress ProgressFunc) (result any, message string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return run(ctx, onProgress)
}

func failurePrefix(jobType string) string {
	if jobType == db.JobTypeEmployer {
		return "Matching failed: "
	}
	return "Processing failed: "
}
