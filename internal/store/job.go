// Package store persists conversion jobs. The service uses PostgreSQL when a
// database is configured and an in-memory store otherwise.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

// ErrJobNotFound is returned when no job has the requested id.
var ErrJobNotFound = errors.New("job not found")

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending             Status = "pending"
	StatusProcessing          Status = "processing"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed              Status = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithErrors, StatusFailed:
		return true
	}
	return false
}

// Job is one conversion request and its outcome.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	FileName     string     `json:"fileName"`
	DocumentType string     `json:"documentType,omitempty"`
	Format       string     `json:"format,omitempty"`
	Status       Status     `json:"status"`
	OutputPath   string     `json:"outputPath,omitempty"`
	ErrorPath    string     `json:"errorPath,omitempty"`
	Error        string     `json:"error,omitempty"`
	Records      int        `json:"records"`
	ErrorCount   int        `json:"errorCount"`
	Automated    bool       `json:"automated"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// NewJob returns a pending job with a fresh id.
func NewJob(fileName string, automated bool) *Job {
	return &Job{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    StatusPending,
		Automated: automated,
		CreatedAt: time.Now().UTC(),
	}
}

// Finish copies a conversion outcome onto the job. A nil result marks the job
// failed with err.
func (j *Job) Finish(res *core.ConversionResult, err error) {
	now := time.Now().UTC()
	j.CompletedAt = &now

	if res == nil {
		j.Status = StatusFailed
		if err != nil {
			j.Error = err.Error()
		}
		return
	}

	j.DocumentType = res.DocumentType
	j.Format = string(res.Format)
	j.OutputPath = res.OutputPath
	j.ErrorPath = res.ErrorReportPath
	j.Records = res.Records
	j.ErrorCount = len(res.Errors)
	j.Error = res.Error
	j.Status = Status(res.Status)
	if err != nil && j.Error == "" {
		j.Error = err.Error()
	}
}

// JobStore records jobs. Implementations are safe for concurrent use.
type JobStore interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job) error
	Get(ctx context.Context, id uuid.UUID) (*Job, error)
	// List returns the most recent jobs first.
	List(ctx context.Context, limit int) ([]Job, error)
}
