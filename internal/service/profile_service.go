package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/metrics"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/scoring"
	"github.com/stemsi/pathfinder-backend/internal/suggest"
	"github.com/stemsi/pathfinder-backend/internal/telemetry"
)

// Profile errors
var (
	ErrNoSections      = errors.New("no saved sections to score")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileBusy     = errors.New("profile is already being processed")
)

const profileLockTTL = 30 * time.Second

// ProfileService runs the scoring pipeline and serves the stored results.
type ProfileService struct {
	catalog  *catalog.Catalog
	sections SectionStore
	profiles ProfileStore
	resolver *suggest.Resolver
	locker   Locker
	metrics  *metrics.Recorder
	log      zerolog.Logger
}

// NewProfileService creates a new ProfileService. locker may be nil, in which
// case concurrent runs for one user are not serialized.
func NewProfileService(
	c *catalog.Catalog,
	sections SectionStore,
	profiles ProfileStore,
	resolver *suggest.Resolver,
	locker Locker,
	rec *metrics.Recorder,
	log zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		catalog:  c,
		sections: sections,
		profiles: profiles,
		resolver: resolver,
		locker:   locker,
		metrics:  rec,
		log:      log.With().Str("component", "profile_service").Logger(),
	}
}

// Process loads the saved sections of one assessment run, scores them,
// resolves occupation suggestions and stores bundle and profile together.
// Running it again on unchanged sections stores the same result.
func (s *ProfileService) Process(ctx context.Context, userID, assessmentID uuid.UUID) (view *model.ProfileView, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "profile.process")
	span.SetAttributes(attribute.String("user_id", userID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	start := time.Now()
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, ErrNoSections):
			outcome = "no_sections"
		case err != nil:
			outcome = "error"
		}
		s.metrics.ProfileProcessed(outcome, time.Since(start))
	}()

	release, err := s.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := s.sections.ListByUserAssessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoSections
	}

	bundle := scoring.Score(s.catalog, model.MergeSections(records))
	bundle.UserID = userID
	bundle.AssessmentID = assessmentID

	res := s.resolver.Resolve(ctx, bundle.Interests)
	profile := &model.SuggestedProfile{
		UserID:                   userID,
		TopInterestCodes:         res.TopInterestCodes,
		SuggestedOccupationCodes: res.OccupationCodes,
		Summary:                  res.Summary,
	}

	if err := s.profiles.SaveResult(ctx, &bundle, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("assessment_id", assessmentID.String()).
		Int("sections", len(records)).
		Strs("top_interest_codes", profile.TopInterestCodes).
		Int("suggestions", len(profile.SuggestedOccupationCodes)).
		Msg("Profile processed")

	return &model.ProfileView{Scores: &bundle, Suggestion: profile}, nil
}

// ProcessLatest runs Process for the assessment the user worked on last.
func (s *ProfileService) ProcessLatest(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error) {
	assessmentID, err := s.sections.LatestAssessment(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSections
	}
	if err != nil {
		return nil, fmt.Errorf("find latest assessment: %w", err)
	}
	return s.Process(ctx, userID, assessmentID)
}

// GetProfile returns the stored bundle and profile. When either is missing
// but sections exist, the profile is recomputed first.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error) {
	bundle, err := s.profiles.GetScoreBundle(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.recompute(ctx, userID, uuid.Nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get score bundle: %w", err)
	}

	profile, err := s.profiles.GetSuggestedProfile(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.recompute(ctx, userID, bundle.AssessmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("get suggested profile: %w", err)
	}

	return &model.ProfileView{Scores: bundle, Suggestion: profile}, nil
}

func (s *ProfileService) recompute(ctx context.Context, userID, assessmentID uuid.UUID) (*model.ProfileView, error) {
	s.log.Warn().Str("user_id", userID.String()).Msg("Stored profile incomplete, recomputing")

	var (
		view *model.ProfileView
		err  error
	)
	if assessmentID == uuid.Nil {
		view, err = s.ProcessLatest(ctx, userID)
	} else {
		view, err = s.Process(ctx, userID, assessmentID)
	}
	if errors.Is(err, ErrNoSections) {
		return nil, ErrProfileNotFound
	}
	return view, err
}

func (s *ProfileService) lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, config.CacheKey.ProfileLockKey(userID.String()), profileLockTTL)
	if errors.Is(err, ErrLockHeld) {
		return nil, ErrProfileBusy
	}
	if err != nil {
		// Best effort.
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Profile lock unavailable, running unlocked")
		return func() {}, nil
	}
	return release, nil
}
