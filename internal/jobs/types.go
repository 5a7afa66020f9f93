package jobs

import (
	"context"
	"time"

	"github.com/dvloznov/statement-parser/internal/pipeline"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeParseStatement represents a statement parsing job.
	JobTypeParseStatement JobType = "parse_statement"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
)

// ParseStatementJob represents a job to parse one uploaded statement.
// The PDF travels with the job; nothing is persisted across runs, so
// a completed job carries its result in memory until the store is
// discarded.
type ParseStatementJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Filename is the original upload filename, for display only.
	Filename string `json:"filename"`

	// PDFBytes is the uploaded document. Excluded from JSON: job
	// status responses should not echo megabytes of PDF.
	PDFBytes []byte `json:"-"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains the human-readable message if the job failed.
	Error string `json:"error,omitempty"`

	// Result holds the normalized statement once the job completes.
	Result *pipeline.ValidationResult `json:"result,omitempty"`

	// PageCount is the page count of the extracted document.
	PageCount int `json:"page_count,omitempty"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *ParseStatementJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *ParseStatementJob) GetType() JobType {
	return JobTypeParseStatement
}

// GetStatus implements the Job interface.
func (j *ParseStatementJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishParseStatement publishes a statement parsing job.
	PublishParseStatement(ctx context.Context, job *ParseStatementJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
type JobHandler func(ctx context.Context, job *ParseStatementJob) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ParseStatementJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ParseStatementJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*ParseStatementJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
