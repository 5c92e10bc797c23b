package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// OccupationRepository reads and seeds the reference occupation table.
type OccupationRepository struct {
	pool *pgxpool.Pool
}

// NewOccupationRepository creates a new OccupationRepository.
func NewOccupationRepository(pool *pgxpool.Pool) *OccupationRepository {
	return &OccupationRepository{pool: pool}
}

// FindByInterest returns up to limit occupation codes whose primary interest
// code matches, skipping codes listed in exclude. Results are ordered by code.
func (r *OccupationRepository) FindByInterest(ctx context.Context, interestCode string, exclude []string, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code
		 FROM occupations
		 WHERE interest_code = $1 AND NOT (code = ANY($2))
		 ORDER BY code
		 LIMIT $3`, interestCode, nonNil(exclude), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// UpsertMany inserts or updates occupations in one batch and returns how many
// rows were written.
func (r *OccupationRepository) UpsertMany(ctx context.Context, occupations []model.Occupation) (int, error) {
	batch := &pgx.Batch{}
	for _, o := range occupations {
		batch.Queue(
			`INSERT INTO occupations (code, title, interest_code, secondary_interest_code)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (code) DO UPDATE SET
			   title = EXCLUDED.title,
			   interest_code = EXCLUDED.interest_code,
			   secondary_interest_code = EXCLUDED.secondary_interest_code`,
			o.Code, o.Title, o.InterestCode, o.SecondaryInterestCode,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	written := 0
	for _, o := range occupations {
		if _, err := br.Exec(); err != nil {
			return written, fmt.Errorf("upsert occupation %s: %w", o.Code, err)
		}
		written++
	}
	return written, nil
}

// CountByInterest returns the number of occupations per primary interest code.
func (r *OccupationRepository) CountByInterest(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT interest_code, COUNT(*) FROM occupations GROUP BY interest_code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		counts[code] = n
	}
	return counts, rows.Err()
}
