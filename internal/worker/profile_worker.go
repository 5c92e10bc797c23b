package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/metrics"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/service"
)

const (
	ProfilePollTimeout = 1 * time.Second
	ProfileMaxAttempts = 5

	requeueTimeout = 5 * time.Second
)

// ProfileProcessor runs the profile pipeline. Implemented by
// service.ProfileService.
type ProfileProcessor interface {
	Process(ctx context.Context, userID, assessmentID uuid.UUID) (*model.ProfileView, error)
}

// ProfileWorker consumes process_profiles_queue and runs the profile pipeline
// for each job.
type ProfileWorker struct {
	rdb        *redis.Client
	processor  ProfileProcessor
	metrics    *metrics.Recorder
	log        zerolog.Logger
	retryDelay time.Duration
}

// NewProfileWorker creates a new ProfileWorker.
func NewProfileWorker(rdb *redis.Client, processor ProfileProcessor, rec *metrics.Recorder, log zerolog.Logger) *ProfileWorker {
	return &ProfileWorker{
		rdb:        rdb,
		processor:  processor,
		metrics:    rec,
		log:        log.With().Str("component", "profile_worker").Logger(),
		retryDelay: 5 * time.Second,
	}
}

type outcome int

const (
	outcomeDone outcome = iota
	outcomeRetry
	outcomeDropped
)

// Start begins the worker loop. Call in a goroutine.
func (w *ProfileWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ProfileWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ProfileWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, ProfilePollTimeout, config.WorkerKey.ProcessProfilesQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	job, out := w.handle(ctx, result[1])
	if out != outcomeRetry {
		return
	}
	w.requeue(ctx, job)

	select {
	case <-ctx.Done():
	case <-time.After(w.retryDelay):
	}
}

// handle runs one raw job. The returned job carries the bumped attempt count
// when a retry is due, except when ctx was cancelled while it ran.
func (w *ProfileWorker) handle(ctx context.Context, raw string) (ProfileJob, outcome) {
	var job ProfileJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping job")
		w.metrics.QueueJob("dropped")
		return job, outcomeDropped
	}

	_, err := w.processor.Process(ctx, job.UserID, job.AssessmentID)
	switch {
	case err == nil:
		w.metrics.QueueJob("ok")
		return job, outcomeDone
	case errors.Is(err, service.ErrNoSections):
		w.log.Warn().
			Str("user_id", job.UserID.String()).
			Str("assessment_id", job.AssessmentID.String()).
			Msg("No saved sections, dropping job")
		w.metrics.QueueJob("dropped")
		return job, outcomeDropped
	case ctx.Err() != nil:
		// Interrupted by shutdown; the job goes back without using an attempt.
		w.log.Warn().
			Str("user_id", job.UserID.String()).
			Msg("Worker stopping mid-job, requeueing")
		return job, outcomeRetry
	}

	job.Attempt++
	if job.Attempt >= ProfileMaxAttempts {
		w.log.Error().Err(err).
			Str("user_id", job.UserID.String()).
			Int("attempts", job.Attempt).
			Msg("Profile job failed too often, dropping")
		w.metrics.QueueJob("dropped")
		return job, outcomeDropped
	}

	w.log.Error().Err(err).
		Str("user_id", job.UserID.String()).
		Int("attempt", job.Attempt).
		Msg("Process error, retrying")
	w.metrics.QueueJob("retry")
	return job, outcomeRetry
}

// requeue pushes job back onto the queue. The push outlives ctx so a job
// interrupted by shutdown is not lost.
func (w *ProfileWorker) requeue(ctx context.Context, job ProfileJob) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requeueTimeout)
	defer cancel()
	if err := w.rdb.RPush(pushCtx, config.WorkerKey.ProcessProfilesQueue, data).Err(); err != nil {
		w.log.Error().Err(err).Str("user_id", job.UserID.String()).Msg("Requeue failed, job lost")
	}
}

// drain processes what is left in the queue before shutdown. A failing job
// is pushed back and draining stops.
func (w *ProfileWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.ProcessProfilesQueue).Result()
		if err != nil {
			break
		}
		job, out := w.handle(ctx, raw)
		if out == outcomeRetry {
			w.requeue(ctx, job)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining jobs")
	}
}
