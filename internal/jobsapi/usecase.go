package jobsapi

import (
	"context"

	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/google/uuid"
)

// JobList is a page of job rows plus the pagination metadata the
// delivery layer returns alongside them.
type JobList struct {
	TotalCount int          `json:"total_count"`
	TotalPages int          `json:"total_pages"`
	Page       int          `json:"page"`
	Size       int          `json:"size"`
	HasMore    bool         `json:"has_more"`
	Jobs       []models.Job `json:"jobs"`
}

// UseCase implements job submission and status queries for the HTTP
// delivery layer.
type UseCase interface {
	Submit(ctx context.Context, job *models.Job, submittedBy uuid.UUID) (*models.Job, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	List(ctx context.Context, pagination *utils.Pagination) (*JobList, error)
}
