package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// UserAssessment identifies one user's run through one assessment.
type UserAssessment struct {
	UserID       uuid.UUID `json:"user_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// SectionRepository handles saved section answers.
type SectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{pool: pool}
}

// Upsert writes a section's answers, replacing any earlier save of the same
// section. UpdatedAt is filled from the database.
func (r *SectionRepository) Upsert(ctx context.Context, rec *model.SectionRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assessment_sections (user_id, assessment_id, section_id, answers, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id, assessment_id, section_id)
		 DO UPDATE SET answers = EXCLUDED.answers, updated_at = NOW()
		 RETURNING updated_at`,
		rec.UserID, rec.AssessmentID, rec.SectionID, rec.Answers,
	).Scan(&rec.UpdatedAt)
}

// ListByUserAssessment returns every saved section of one assessment run.
func (r *SectionRepository) ListByUserAssessment(ctx context.Context, userID, assessmentID uuid.UUID) ([]model.SectionRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, assessment_id, section_id, answers, updated_at
		 FROM assessment_sections
		 WHERE user_id = $1 AND assessment_id = $2
		 ORDER BY section_id`, userID, assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.SectionRecord
	for rows.Next() {
		var s model.SectionRecord
		if err := rows.Scan(&s.UserID, &s.AssessmentID, &s.SectionID, &s.Answers, &s.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, s)
	}
	return records, rows.Err()
}

// ListUserAssessments returns every (user, assessment) pair with at least one
// saved section, most recently active first per user.
func (r *SectionRepository) ListUserAssessments(ctx context.Context) ([]UserAssessment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, assessment_id
		 FROM assessment_sections
		 GROUP BY user_id, assessment_id
		 ORDER BY user_id, MAX(updated_at) DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserAssessment
	for rows.Next() {
		var ua UserAssessment
		if err := rows.Scan(&ua.UserID, &ua.AssessmentID); err != nil {
			return nil, err
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// LatestAssessment returns the assessment the user saved a section for most
// recently.
func (r *SectionRepository) LatestAssessment(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT assessment_id
		 FROM assessment_sections
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`, userID,
	).Scan(&id)
	return id, err
}
