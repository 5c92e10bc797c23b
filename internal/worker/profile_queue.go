package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stemsi/pathfinder-backend/internal/config"
)

// ProfileJob asks the worker to (re)process one assessment run.
type ProfileJob struct {
	UserID       uuid.UUID `json:"user_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	Attempt      int       `json:"attempt,omitempty"`
}

// ProfileQueue pushes jobs onto the profile queue.
type ProfileQueue struct {
	rdb *redis.Client
}

// NewProfileQueue creates a new ProfileQueue.
func NewProfileQueue(rdb *redis.Client) *ProfileQueue {
	return &ProfileQueue{rdb: rdb}
}

// Enqueue pushes jobs in one round trip and returns the queue length.
func (q *ProfileQueue) Enqueue(ctx context.Context, jobs ...ProfileJob) (int64, error) {
	if len(jobs) == 0 {
		return q.rdb.LLen(ctx, config.WorkerKey.ProcessProfilesQueue).Result()
	}
	values := make([]any, 0, len(jobs))
	for _, j := range jobs {
		data, err := json.Marshal(j)
		if err != nil {
			return 0, fmt.Errorf("marshal job: %w", err)
		}
		values = append(values, data)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.ProcessProfilesQueue, values...).Result()
}
