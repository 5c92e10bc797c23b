package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/metrics"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// Intake errors
var (
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidAnswers = errors.New("one or more answers are invalid")
)

// AnswersError lists the rejected answers of a section save by question id.
type AnswersError struct {
	Fields map[string]string
}

func (e *AnswersError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%v: %v", ErrInvalidAnswers, ids)
}

func (e *AnswersError) Unwrap() error { return ErrInvalidAnswers }

// IntakeService validates and stores section answers and manages resumable
// intake sessions.
type IntakeService struct {
	catalog  *catalog.Catalog
	sections SectionStore
	drafts   DraftKeeper
	metrics  *metrics.Recorder
	log      zerolog.Logger
}

// NewIntakeService creates a new IntakeService.
func NewIntakeService(
	c *catalog.Catalog,
	sections SectionStore,
	drafts DraftKeeper,
	rec *metrics.Recorder,
	log zerolog.Logger,
) *IntakeService {
	return &IntakeService{
		catalog:  c,
		sections: sections,
		drafts:   drafts,
		metrics:  rec,
		log:      log.With().Str("component", "intake_service").Logger(),
	}
}

// SaveSection validates answers against the section's questions and upserts
// them. Saving a section again replaces its earlier answers.
func (s *IntakeService) SaveSection(ctx context.Context, userID, assessmentID uuid.UUID, section catalog.SectionID, answers model.AnswerSet) error {
	if !s.catalog.HasSection(section) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if err := s.validateSection(section, answers); err != nil {
		return err
	}

	rec := &model.SectionRecord{
		UserID:       userID,
		AssessmentID: assessmentID,
		SectionID:    string(section),
		Answers:      answers,
	}
	err := s.sections.Upsert(ctx, rec)
	s.metrics.SectionSaved(string(section), err)
	if err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("section_id", string(section)).
			Msg("Failed to save section")
		return fmt.Errorf("save section: %w", err)
	}
	return nil
}

func (s *IntakeService) validateSection(section catalog.SectionID, answers model.AnswerSet) error {
	fields := make(map[string]string)
	for id, a := range answers {
		q, _, ok := s.catalog.Lookup(id)
		if !ok || q.SectionID() != section {
			fields[id] = fmt.Sprintf("question is not part of section %s", section)
			continue
		}
		if err := catalog.ValidateAnswer(q, a, answers); err != nil {
			fields[id] = err.Error()
		}
	}
	if len(fields) > 0 {
		return &AnswersError{Fields: fields}
	}
	return nil
}

// ListSections returns the saved sections of one assessment run.
func (s *IntakeService) ListSections(ctx context.Context, userID, assessmentID uuid.UUID) ([]model.SectionRecord, error) {
	records, err := s.sections.ListByUserAssessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return records, nil
}

// OpenSession builds an intake session for the user. A stored draft wins;
// otherwise the session resumes after the sections already saved.
func (s *IntakeService) OpenSession(ctx context.Context, userID, assessmentID uuid.UUID, processor intake.ProfileProcessor) (*intake.Machine, error) {
	m := intake.New(s.catalog, s, processor, userID, assessmentID)

	snap, err := s.drafts.Load(ctx, userID, assessmentID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Draft unreadable, resuming from saved sections")
	}
	if snap != nil && snap.State != intake.StateFinished {
		if err := m.Restore(*snap); err == nil {
			return m, nil
		}
		s.log.Warn().Str("user_id", userID.String()).Msg("Draft does not fit the catalog, discarding")
	}

	records, err := s.ListSections(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	if err := m.ResumeFromSaved(records); err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	return m, nil
}

// SaveDraft stores the session's progress. Failures are logged only; the
// saved sections remain the source of truth.
func (s *IntakeService) SaveDraft(ctx context.Context, userID, assessmentID uuid.UUID, m *intake.Machine) {
	if err := s.drafts.Save(ctx, userID, assessmentID, m.Snapshot()); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to save intake draft")
	}
}

// ClearDraft drops the stored progress once the intake is finished.
func (s *IntakeService) ClearDraft(ctx context.Context, userID, assessmentID uuid.UUID) {
	if err := s.drafts.Clear(ctx, userID, assessmentID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to clear intake draft")
	}
}
