package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// SectionStore persists section answers. Implemented by
// repository.SectionRepository.
type SectionStore interface {
	Upsert(ctx context.Context, rec *model.SectionRecord) error
	ListByUserAssessment(ctx context.Context, userID, assessmentID uuid.UUID) ([]model.SectionRecord, error)
	LatestAssessment(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// ProfileStore persists score bundles and suggested profiles. Implemented by
// repository.ProfileRepository.
type ProfileStore interface {
	SaveResult(ctx context.Context, b *model.ScoreBundle, p *model.SuggestedProfile) error
	GetScoreBundle(ctx context.Context, userID uuid.UUID) (*model.ScoreBundle, error)
	GetSuggestedProfile(ctx context.Context, userID uuid.UUID) (*model.SuggestedProfile, error)
}

// NarrativeStore persists generated prose. Implemented by
// repository.NarrativeRepository.
type NarrativeStore interface {
	Upsert(ctx context.Context, n *model.Narrative) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Narrative, error)
}

// DraftKeeper holds unsaved intake progress between connections. Load
// returns nil without error when there is no draft.
type DraftKeeper interface {
	Save(ctx context.Context, userID, assessmentID uuid.UUID, snap intake.Snapshot) error
	Load(ctx context.Context, userID, assessmentID uuid.UUID) (*intake.Snapshot, error)
	Clear(ctx context.Context, userID, assessmentID uuid.UUID) error
}
