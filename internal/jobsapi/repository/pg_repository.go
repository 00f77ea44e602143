package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sridhargunnam/framefeatures/internal/jobsapi"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type jobRepo struct {
	db *sqlx.DB
}

func NewJobRepo(db *sqlx.DB) jobsapi.Repository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	created := &models.Job{}
	err := r.db.QueryRowxContext(
		ctx,
		createJob,
		job.JobID,
		job.Dataset,
		job.Name,
		job.WorkItemSize,
		job.NumNodes,
		job.SubmittedBy,
		job.Status,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %v", err)
	}
	return created, nil
}

func (r *jobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job := &models.Job{}
	if err := r.db.QueryRowxContext(ctx, getJobByID, jobID).StructScan(job); err != nil {
		return nil, fmt.Errorf("failed to get job: %v", err)
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context, pagination *utils.Pagination) ([]models.Job, int, error) {
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countJobs); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %v", err)
	}

	jobs := make([]models.Job, 0)
	if err := r.db.SelectContext(ctx, &jobs, listJobs, pagination.GetOffset(), pagination.GetLimit()); err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %v", err)
	}
	return jobs, totalCount, nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus, errMsg string) error {
	result, err := r.db.ExecContext(ctx, updateJobStatus, status, errMsg, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
