package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/pathfinder-backend/internal/database"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// ProfileRepository stores score bundles and suggested profiles. Both are
// keyed by user alone: a new run replaces the previous one.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// SaveResult writes the bundle and the profile in one transaction.
func (r *ProfileRepository) SaveResult(ctx context.Context, b *model.ScoreBundle, p *model.SuggestedProfile) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO score_bundles
			   (user_id, assessment_id, interests, personality, aptitude, learning_style, value_ranking, answers, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			 ON CONFLICT (user_id) DO UPDATE SET
			   assessment_id = EXCLUDED.assessment_id,
			   interests = EXCLUDED.interests,
			   personality = EXCLUDED.personality,
			   aptitude = EXCLUDED.aptitude,
			   learning_style = EXCLUDED.learning_style,
			   value_ranking = EXCLUDED.value_ranking,
			   answers = EXCLUDED.answers,
			   updated_at = NOW()
			 RETURNING updated_at`,
			b.UserID, b.AssessmentID, b.Interests, b.Personality, b.Aptitude,
			b.LearningStyle, b.ValueRanking, b.Answers,
		).Scan(&b.UpdatedAt)
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx,
			`INSERT INTO suggested_profiles
			   (user_id, top_interest_codes, suggested_occupation_codes, summary, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (user_id) DO UPDATE SET
			   top_interest_codes = EXCLUDED.top_interest_codes,
			   suggested_occupation_codes = EXCLUDED.suggested_occupation_codes,
			   summary = EXCLUDED.summary,
			   updated_at = NOW()
			 RETURNING updated_at`,
			p.UserID, nonNil(p.TopInterestCodes), nonNil(p.SuggestedOccupationCodes), p.Summary,
		).Scan(&p.UpdatedAt)
	})
}

// GetScoreBundle returns the current bundle of a user.
func (r *ProfileRepository) GetScoreBundle(ctx context.Context, userID uuid.UUID) (*model.ScoreBundle, error) {
	b := &model.ScoreBundle{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, assessment_id, interests, personality, aptitude, learning_style, value_ranking, answers, updated_at
		 FROM score_bundles
		 WHERE user_id = $1`, userID,
	).Scan(&b.UserID, &b.AssessmentID, &b.Interests, &b.Personality, &b.Aptitude,
		&b.LearningStyle, &b.ValueRanking, &b.Answers, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetSuggestedProfile returns the current suggested profile of a user.
func (r *ProfileRepository) GetSuggestedProfile(ctx context.Context, userID uuid.UUID) (*model.SuggestedProfile, error) {
	p := &model.SuggestedProfile{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, top_interest_codes, suggested_occupation_codes, summary, updated_at
		 FROM suggested_profiles
		 WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.TopInterestCodes, &p.SuggestedOccupationCodes, &p.Summary, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// text[] columns are NOT NULL; pgx encodes a nil slice as NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
