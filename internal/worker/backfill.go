package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stemsi/pathfinder-backend/internal/repository"
)

// AssessmentLister lists every (user, assessment) pair with saved sections,
// each user's most recent assessment first. Implemented by
// repository.SectionRepository.
type AssessmentLister interface {
	ListUserAssessments(ctx context.Context) ([]repository.UserAssessment, error)
}

// JobQueue accepts profile jobs. Implemented by ProfileQueue.
type JobQueue interface {
	Enqueue(ctx context.Context, jobs ...ProfileJob) (int64, error)
}

const backfillBatch = 500

// Backfiller queues a profile run for every user with saved sections.
type Backfiller struct {
	lister AssessmentLister
	queue  JobQueue
}

// NewBackfiller creates a new Backfiller.
func NewBackfiller(lister AssessmentLister, queue JobQueue) *Backfiller {
	return &Backfiller{lister: lister, queue: queue}
}

// Plan returns one job per user, for the user's most recent assessment.
// A user has a single stored profile, so older runs are skipped.
func (b *Backfiller) Plan(ctx context.Context) ([]ProfileJob, error) {
	pairs, err := b.lister.ListUserAssessments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(pairs))
	jobs := make([]ProfileJob, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		jobs = append(jobs, ProfileJob{UserID: p.UserID, AssessmentID: p.AssessmentID})
	}
	return jobs, nil
}

// Enqueue plans the backfill and pushes it in batches. It returns the number
// of jobs queued.
func (b *Backfiller) Enqueue(ctx context.Context) (int, error) {
	jobs, err := b.Plan(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for start := 0; start < len(jobs); start += backfillBatch {
		end := min(start+backfillBatch, len(jobs))
		if _, err := b.queue.Enqueue(ctx, jobs[start:end]...); err != nil {
			return queued, fmt.Errorf("enqueue profile jobs: %w", err)
		}
		queued += end - start
	}
	return queued, nil
}
