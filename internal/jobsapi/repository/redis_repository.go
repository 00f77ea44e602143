package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/jobsapi"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/go-redis/redis/v8"
)

// pendingJobsKey is the Redis list Enqueue LPUSHes onto and Dequeue
// BLPOPs from, mirroring the teacher's video_jobs queue.
const pendingJobsKey = "jobs:pending"

type jobQueueRepo struct {
	redisClient *redis.Client
}

func NewJobQueueRepo(redisClient *redis.Client) jobsapi.QueueRepository {
	return &jobQueueRepo{redisClient: redisClient}
}

func (r *jobQueueRepo) Enqueue(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %v", err)
	}
	return r.redisClient.LPush(ctx, pendingJobsKey, data).Err()
}

func (r *jobQueueRepo) Dequeue(ctx context.Context) (*models.Job, error) {
	res, err := r.redisClient.BLPop(ctx, 0*time.Second, pendingJobsKey).Result()
	if err != nil {
		return nil, err
	}
	// res[0] is the key name, res[1] is the popped value.
	job := &models.Job{}
	if err := json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %v", err)
	}
	return job, nil
}
