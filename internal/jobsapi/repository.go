// Package jobsapi is the control plane's job submission and tracking
// surface: an HTTP API (spec.md's job submission entry point) backed
// by Postgres for durable job records and Redis for the pending-job
// queue nodes consume, in the same repository/usecase/delivery split
// the auth package uses.
package jobsapi

import (
	"context"

	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/google/uuid"
)

// Repository persists Job rows.
type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	List(ctx context.Context, pagination *utils.Pagination) ([]models.Job, int, error)
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus, errMsg string) error
}

// QueueRepository pushes queued jobs onto a Redis list (Enqueue) and
// pops them off it (Dequeue). It carries no status updates back from
// the engine.
type QueueRepository interface {
	Enqueue(ctx context.Context, job *models.Job) error
	Dequeue(ctx context.Context) (*models.Job, error)
}
