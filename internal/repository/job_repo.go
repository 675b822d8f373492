package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

type JobRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewJobRepo(rdb *redis.Client, ttl time.Duration) *JobRepo {
	return &JobRepo{rdb: rdb, ttl: ttl}
}

func jobKey(id uuid.UUID) string {
	return "job:" + id.String()
}

// QueueName is the Redis list a job of the given type is pushed to.
func QueueName(jobType string) string {
	return "queue:" + jobType
}

func (r *JobRepo) Create(ctx context.Context, j *models.Job) error {
	j.ID = uuid.New()
	j.Status = models.JobStatusPending
	j.RetryCount = 0
	j.MaxRetries = 3
	j.CreatedAt = time.Now().UTC()
	if len(j.ConfigJSON) == 0 {
		j.ConfigJSON = json.RawMessage("{}")
	}

	return setJSON(ctx, r.rdb, jobKey(j.ID), j, r.ttl)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	j := &models.Job{}
	if err := getJSON(ctx, r.rdb, jobKey(id), j); err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	var j models.Job
	return updateJSON(ctx, r.rdb, jobKey(id), &j, func() error {
		j.Status = status
		if status == models.JobStatusCompleted || status == models.JobStatusFailed {
			now := time.Now().UTC()
			j.CompletedAt = &now
		}
		return nil
	})
}

func (r *JobRepo) UpdateError(ctx context.Context, id uuid.UUID, errMsg string, retryCount int) error {
	var j models.Job
	return updateJSON(ctx, r.rdb, jobKey(id), &j, func() error {
		j.ErrorMessage = &errMsg
		j.RetryCount = retryCount
		return nil
	})
}

// Enqueue pushes the job onto its type's queue for the worker pool.
func (r *JobRepo) Enqueue(ctx context.Context, j *models.Job) error {
	jobBytes, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return r.rdb.LPush(ctx, QueueName(j.Type), string(jobBytes)).Err()
}
