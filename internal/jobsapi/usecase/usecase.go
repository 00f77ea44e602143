package usecase

import (
	"context"
	"fmt"

	"github.com/sridhargunnam/framefeatures/internal/jobsapi"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/logger"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/google/uuid"
)

type jobUC struct {
	jobRepo   jobsapi.Repository
	queueRepo jobsapi.QueueRepository
	logger    logger.Logger
}

func NewJobUseCase(jobRepo jobsapi.Repository, queueRepo jobsapi.QueueRepository, log logger.Logger) jobsapi.UseCase {
	return &jobUC{
		jobRepo:   jobRepo,
		queueRepo: queueRepo,
		logger:    log,
	}
}

// Submit records a new job row and pushes it onto the pending-job
// queue, marking the row failed if the enqueue fails. It does not
// start any node process; cmd/node takes its job from command-line
// flags, not from this queue.
func (u *jobUC) Submit(ctx context.Context, job *models.Job, submittedBy uuid.UUID) (*models.Job, error) {
	job.PrepareSubmit(submittedBy)

	created, err := u.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %v", err)
	}

	if err := u.queueRepo.Enqueue(ctx, created); err != nil {
		if updateErr := u.jobRepo.UpdateStatus(ctx, created.JobID, models.JobStatusFailed, err.Error()); updateErr != nil {
			u.logger.Errorf("failed to mark job %s failed after enqueue error: %v", created.JobID, updateErr)
		}
		return nil, fmt.Errorf("failed to enqueue job: %v", err)
	}

	return created, nil
}

func (u *jobUC) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return u.jobRepo.GetByID(ctx, jobID)
}

func (u *jobUC) List(ctx context.Context, pagination *utils.Pagination) (*jobsapi.JobList, error) {
	if pagination == nil {
		pagination = &utils.Pagination{Page: 1, Size: 10}
	}

	jobs, totalCount, err := u.jobRepo.List(ctx, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %v", err)
	}

	return &jobsapi.JobList{
		TotalCount: totalCount,
		TotalPages: utils.GetTotalPages(totalCount, pagination.GetSize()),
		Page:       pagination.GetPage(),
		Size:       pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
		Jobs:       jobs,
	}, nil
}
