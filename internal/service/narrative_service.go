package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stemsi/pathfinder-backend/internal/metrics"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/telemetry"
)

// Narrative errors
var (
	ErrNarrativeDisabled = errors.New("narrative generation is not configured")
	ErrNarrativePartial  = errors.New("narrative generation partially failed")
	ErrNarrativeFailed   = errors.New("narrative generation failed")
	ErrNarrativeNotFound = errors.New("narrative not found")
)

// Narrator produces one kind of prose from a stored profile.
type Narrator interface {
	Generate(ctx context.Context, kind model.NarrativeKind, profile *model.ProfileView) (string, error)
}

// ProfileReader returns a user's stored profile. Implemented by ProfileService.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error)
}

// NarrativeService generates the report and the story for a profile in
// parallel. A half that fails is stored as a failure marker.
type NarrativeService struct {
	profiles   ProfileReader
	narratives NarrativeStore
	narrator   Narrator
	metrics    *metrics.Recorder
	log        zerolog.Logger
}

// NewNarrativeService creates a new NarrativeService. A nil narrator
// disables generation.
func NewNarrativeService(
	profiles ProfileReader,
	narratives NarrativeStore,
	narrator Narrator,
	rec *metrics.Recorder,
	log zerolog.Logger,
) *NarrativeService {
	return &NarrativeService{
		profiles:   profiles,
		narratives: narratives,
		narrator:   narrator,
		metrics:    rec,
		log:        log.With().Str("component", "narrative_service").Logger(),
	}
}

// Generate runs both generations and stores the outcome. If one half fails
// the other is still stored and ErrNarrativePartial is returned alongside
// the stored narrative. If both fail nothing is stored.
func (s *NarrativeService) Generate(ctx context.Context, userID uuid.UUID) (_ *model.Narrative, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "narrative.generate")
	defer func() { telemetry.EndSpan(span, err) }()

	if s.narrator == nil {
		return nil, ErrNarrativeDisabled
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	kinds := [2]model.NarrativeKind{model.NarrativeReport, model.NarrativeStory}
	var (
		texts [2]string
		errs  [2]error
		g     errgroup.Group
	)
	// Each half reports its own error; one failing must not cancel the other.
	for i, kind := range kinds {
		g.Go(func() error {
			texts[i], errs[i] = s.narrator.Generate(ctx, kind, profile)
			return nil
		})
	}
	_ = g.Wait()

	n := &model.Narrative{UserID: userID}
	for i, kind := range kinds {
		s.metrics.NarrativeGenerated(string(kind), errs[i])
		if errs[i] != nil {
			s.log.Error().Err(errs[i]).
				Str("user_id", userID.String()).
				Str("kind", string(kind)).
				Msg("Narrative generation failed")
			texts[i] = model.NarrativeFailureMarker(kind)
			n.Failed = true
		}
	}
	if errs[0] != nil && errs[1] != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrativeFailed, errors.Join(errs[0], errs[1]))
	}
	n.Report, n.Story = texts[0], texts[1]

	if err := s.narratives.Upsert(ctx, n); err != nil {
		return nil, fmt.Errorf("save narrative: %w", err)
	}
	if n.Failed {
		return n, ErrNarrativePartial
	}
	return n, nil
}

// Get returns the stored narrative of a user.
func (s *NarrativeService) Get(ctx context.Context, userID uuid.UUID) (*model.Narrative, error) {
	n, err := s.narratives.GetByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNarrativeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get narrative: %w", err)
	}
	return n, nil
}
