package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// NarrativeRepository stores generated report and story text.
type NarrativeRepository struct {
	pool *pgxpool.Pool
}

// NewNarrativeRepository creates a new NarrativeRepository.
func NewNarrativeRepository(pool *pgxpool.Pool) *NarrativeRepository {
	return &NarrativeRepository{pool: pool}
}

// Upsert replaces the narrative of a user.
func (r *NarrativeRepository) Upsert(ctx context.Context, n *model.Narrative) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO narratives (user_id, report, story, failed, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   report = EXCLUDED.report,
		   story = EXCLUDED.story,
		   failed = EXCLUDED.failed,
		   updated_at = NOW()
		 RETURNING updated_at`,
		n.UserID, n.Report, n.Story, n.Failed,
	).Scan(&n.UpdatedAt)
}

// GetByUser returns the narrative of a user.
func (r *NarrativeRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Narrative, error) {
	n := &model.Narrative{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, report, story, failed, updated_at
		 FROM narratives
		 WHERE user_id = $1`, userID,
	).Scan(&n.UserID, &n.Report, &n.Story, &n.Failed, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}
