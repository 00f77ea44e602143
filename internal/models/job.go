package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is a submitted feature-extraction run: a dataset name plus the
// engine parameters spec.md §6 lists as job-level configuration
// (WORK_ITEM_SIZE, node count). The engine itself tracks per-video
// progress in the JobDescriptor (internal/jobdescriptor); this row is
// the control plane's view of whether the run has started, finished,
// or failed.
type Job struct {
	JobID        uuid.UUID  `json:"job_id" db:"job_id" validate:"omitempty"`
	Dataset      string     `json:"dataset" db:"dataset" validate:"required"`
	Name         string     `json:"name" db:"name" validate:"required,lte=60"`
	WorkItemSize int        `json:"work_item_size" db:"work_item_size" validate:"required,gt=0"`
	NumNodes     int        `json:"num_nodes" db:"num_nodes" validate:"required,gt=0"`
	SubmittedBy  uuid.UUID  `json:"submitted_by" db:"submitted_by" validate:"omitempty"`
	Status       JobStatus  `json:"status" db:"status" validate:"omitempty"`
	Error        string     `json:"error,omitempty" db:"error" validate:"omitempty"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at" validate:"omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at" validate:"omitempty"`
}

// PrepareSubmit fills in fields the caller shouldn't set directly: a
// fresh ID, the submitting operator, and the initial queued status.
func (j *Job) PrepareSubmit(submittedBy uuid.UUID) {
	j.JobID = uuid.New()
	j.SubmittedBy = submittedBy
	j.Status = JobStatusQueued
	j.Error = ""
	j.CompletedAt = nil
}
