package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/extraction"
	"github.com/jonathan/candidate-matcher/internal/ingestion"
)

// MaxResumeSize caps uploaded resume PDFs at 10 MB.
const MaxResumeSize = 10 << 20

// jobEventsPollInterval is how often the SSE endpoint re-reads job state.
const jobEventsPollInterval = time.Second

// EmployerJobRequest represents the request body for POST /jobs/employer
type EmployerJobRequest struct {
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	UseBrowser     bool   `json:"use_browser,omitempty"`
}

// JobSubmitResponse represents the response for job submissions
type JobSubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobStatusResponse represents the response for GET /jobs/{job_id}
type JobStatusResponse struct {
	JobID        string          `json:"job_id"`
	JobType      string          `json:"job_type"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
	Message      string          `json:"message"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
	CompletedAt  string          `json:"completed_at,omitempty"`
}

func jobStatusResponse(job *db.Job) JobStatusResponse {
	resp := JobStatusResponse{
		JobID:     job.ID.String(),
		JobType:   job.Type,
		Status:    job.Status,
		Progress:  job.Progress,
		Message:   job.Message,
		Result:    job.Result,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
	}
	if job.ErrorMessage != nil {
		resp.ErrorMessage = *job.ErrorMessage
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// handleSubmitCandidateJob accepts a resume PDF upload and queues a
// candidate ingestion job.
func (s *Server) handleSubmitCandidateJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxResumeSize)
	if err := r.ParseMultipartForm(MaxResumeSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A resume PDF is required in the 'file' field")
		return
	}
	defer file.Close() //nolint:errcheck

	pdf, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	if !isPDFUpload(header.Header.Get("Content-Type"), pdf) {
		s.errorResponse(w, http.StatusBadRequest, "File must be a PDF")
		return
	}

	inputData, err := json.Marshal(map[string]any{
		"filename":   header.Filename,
		"size_bytes": len(pdf),
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encode job input: "+err.Error())
		return
	}

	jobID, err := s.db.CreateJob(r.Context(), db.JobTypeCandidate, inputData)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.executor.SubmitCandidate(jobID, pdf)
	log.Printf("[JOBS] queued candidate job %s (%s, %d bytes)", jobID, header.Filename, len(pdf))

	s.jsonResponse(w, http.StatusAccepted, JobSubmitResponse{
		JobID:  jobID.String(),
		Status: db.JobStatusQueued,
	})
}

// isPDFUpload accepts a declared PDF content type or the PDF magic bytes, so
// uploads without an explicit content type still work.
func isPDFUpload(contentType string, data []byte) bool {
	if contentType == extraction.PDFMIMEType {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// handleSubmitEmployerJob accepts a job description (inline text or URL) and
// queues a matching job.
func (s *Server) handleSubmitEmployerJob(w http.ResponseWriter, r *http.Request) {
	var req EmployerJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.JobDescription == "" && req.JobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either job_description or job_url is required")
		return
	}
	if req.JobDescription != "" && req.JobURL != "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description and job_url are mutually exclusive")
		return
	}

	var (
		jdText   string
		metadata *ingestion.Metadata
	)
	if req.JobURL != "" {
		var err error
		jdText, metadata, err = ingestion.IngestFromURL(r.Context(), req.JobURL, req.UseBrowser, s.verbose)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	} else {
		jdText = ingestion.CleanText(req.JobDescription)
		if err := ingestion.ValidateJobDescription(jdText); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		metadata = ingestion.NewMetadata(jdText, "")
	}

	inputData, err := metadata.ToJSON()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encode job input: "+err.Error())
		return
	}

	jobID, err := s.db.CreateJob(r.Context(), db.JobTypeEmployer, inputData)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.executor.SubmitEmployer(jobID, jdText, req.Limit)
	log.Printf("[JOBS] queued employer job %s (%d chars)", jobID, len(jdText))

	s.jsonResponse(w, http.StatusAccepted, JobSubmitResponse{
		JobID:  jobID.String(),
		Status: db.JobStatusQueued,
	})
}

// handleGetJob returns the current state of a background job
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("job_id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	jobID, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, jobStatusResponse(job))
}

// handleJobEvents streams job progress via SSE until the job reaches a
// terminal state or the client disconnects.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("job_id")
	jobID, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	stream, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Emit the current state immediately so late subscribers catch up.
	if err := stream.send("progress", jobStatusResponse(job)); err != nil {
		return
	}
	if isTerminalStatus(job.Status) {
		stream.sendComplete(job.ID.String(), job.Status)
		return
	}

	lastProgress := job.Progress
	lastMessage := job.Message
	lastStatus := job.Status

	ticker := time.NewTicker(jobEventsPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			job, err := s.db.GetJob(r.Context(), jobID)
			if err != nil {
				stream.sendError("Database error: " + err.Error())
				return
			}
			if job == nil {
				stream.sendError("Job not found")
				return
			}

			changed := job.Progress != lastProgress ||
				job.Message != lastMessage ||
				job.Status != lastStatus
			if changed {
				if err := stream.send("progress", jobStatusResponse(job)); err != nil {
					return
				}
				lastProgress = job.Progress
				lastMessage = job.Message
				lastStatus = job.Status
			}

			if isTerminalStatus(job.Status) {
				stream.sendComplete(job.ID.String(), job.Status)
				return
			}
		}
	}
}

func isTerminalStatus(status string) bool {
	return status == db.JobStatusCompleted || status == db.JobStatusFailed
}
