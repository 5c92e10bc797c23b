package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/suggest"
)

var testOccupations = staticFinder{
	"A": {"27-1011", "27-1012"},
	"R": {"47-2111", "49-3023"},
}

func newTestProfileService(sections *memSections, profiles *memProfiles, locker Locker) *ProfileService {
	log := zerolog.New(io.Discard)
	resolver := suggest.NewResolver(testOccupations, 5, log)
	return NewProfileService(catalog.Default, sections, profiles, resolver, locker, nil, log)
}

func seedSections(t *testing.T, sections *memSections, userID, assessmentID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range []model.SectionRecord{
		{SectionID: "interests", Answers: model.AnswerSet{
			"int_weekend": model.Choice("create"),
			"int_project": model.Choice("design"),
			"int_park":    model.Choice("repair"),
		}},
		{SectionID: "aptitude", Answers: model.AnswerSet{
			"apt_verbal_1": model.Choice("b"),
			"apt_verbal_2": model.Choice("a"),
		}},
	} {
		rec.UserID, rec.AssessmentID = userID, assessmentID
		require.NoError(t, sections.Upsert(ctx, &rec))
	}
}

func TestProfileService_Process(t *testing.T) {
	ctx := context.Background()
	sections, profiles := newMemSections(), newMemProfiles()
	svc := newTestProfileService(sections, profiles, nil)
	userID, assessmentID := uuid.New(), uuid.New()
	seedSections(t, sections, userID, assessmentID)

	view, err := svc.Process(ctx, userID, assessmentID)
	require.NoError(t, err)

	assert.Equal(t, model.InterestScores{A: 2, R: 1}, view.Scores.Interests)
	assert.Equal(t, 2, view.Scores.Aptitude.TotalAttempted)
	assert.Equal(t, 1, view.Scores.Aptitude.VerbalCorrect)
	assert.Equal(t, model.LearningStyleNotDetermined, view.Scores.LearningStyle)
	assert.Equal(t, []string{"A", "R"}, view.Suggestion.TopInterestCodes)
	assert.Equal(t, []string{"27-1011", "27-1012", "47-2111", "49-3023"}, view.Suggestion.SuggestedOccupationCodes)
	assert.Equal(t, userID, profiles.bundles[userID].UserID)
	assert.Equal(t, assessmentID, profiles.bundles[userID].AssessmentID)
}

func TestProfileService_ProcessIsRepeatable(t *testing.T) {
	ctx := context.Background()
	sections, profiles := newMemSections(), newMemProfiles()
	svc := newTestProfileService(sections, profiles, nil)
	userID, assessmentID := uuid.New(), uuid.New()
	seedSections(t, sections, userID, assessmentID)

	first, err := svc.Process(ctx, userID, assessmentID)
	require.NoError(t, err)
	second, err := svc.Process(ctx, userID, assessmentID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, profiles.saves)
	assert.Len(t, profiles.bundles, 1)
}

func TestProfileService_ProcessWithoutSections(t *testing.T) {
	profiles := newMemProfiles()
	svc := newTestProfileService(newMemSections(), profiles, nil)

	_, err := svc.Process(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNoSections)
	assert.Zero(t, profiles.saves)
}

func TestProfileService_ProcessSaveFailure(t *testing.T) {
	sections, profiles := newMemSections(), newMemProfiles()
	profiles.saveErr = errors.New("deadlock detected")
	svc := newTestProfileService(sections, profiles, nil)
	userID, assessmentID := uuid.New(), uuid.New()
	seedSections(t, sections, userID, assessmentID)

	_, err := svc.Process(context.Background(), userID, assessmentID)
	assert.ErrorIs(t, err, profiles.saveErr)
}

func TestProfileService_GetProfileRecomputesMissingProfile(t *testing.T) {
	ctx := context.Background()
	sections, profiles := newMemSections(), newMemProfiles()
	svc := newTestProfileService(sections, profiles, nil)
	userID, assessmentID := uuid.New(), uuid.New()
	seedSections(t, sections, userID, assessmentID)

	// bundle written, profile lost
	profiles.bundles[userID] = model.ScoreBundle{UserID: userID, AssessmentID: assessmentID}

	view, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, view.Suggestion)
	assert.Equal(t, []string{"A", "R"}, view.Suggestion.TopInterestCodes)
	assert.Equal(t, 1, profiles.saves)
}

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("never processed but sections exist", func(t *testing.T) {
		sections, profiles := newMemSections(), newMemProfiles()
		svc := newTestProfileService(sections, profiles, nil)
		userID := uuid.New()
		seedSections(t, sections, userID, uuid.New())

		view, err := svc.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, model.InterestScores{A: 2, R: 1}, view.Scores.Interests)
	})

	t.Run("nothing at all", func(t *testing.T) {
		svc := newTestProfileService(newMemSections(), newMemProfiles(), nil)
		_, err := svc.GetProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("stored result is returned as is", func(t *testing.T) {
		sections, profiles := newMemSections(), newMemProfiles()
		svc := newTestProfileService(sections, profiles, nil)
		userID := uuid.New()
		profiles.bundles[userID] = model.ScoreBundle{UserID: userID, LearningStyle: "Visual"}
		profiles.profiles[userID] = model.SuggestedProfile{UserID: userID, TopInterestCodes: []string{"S"}}

		view, err := svc.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Visual", view.Scores.LearningStyle)
		assert.Zero(t, profiles.saves)
	})
}

type stubLocker struct {
	err      error
	released int
}

func (l *stubLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released++ }, nil
}

func TestProfileService_Locking(t *testing.T) {
	ctx := context.Background()
	userID, assessmentID := uuid.New(), uuid.New()

	t.Run("held lock", func(t *testing.T) {
		sections := newMemSections()
		seedSections(t, sections, userID, assessmentID)
		svc := newTestProfileService(sections, newMemProfiles(), &stubLocker{err: ErrLockHeld})

		_, err := svc.Process(ctx, userID, assessmentID)
		assert.ErrorIs(t, err, ErrProfileBusy)
	})

	t.Run("lock backend down still processes", func(t *testing.T) {
		sections := newMemSections()
		seedSections(t, sections, userID, assessmentID)
		svc := newTestProfileService(sections, newMemProfiles(), &stubLocker{err: errors.New("redis down")})

		_, err := svc.Process(ctx, userID, assessmentID)
		assert.NoError(t, err)
	})

	t.Run("released after run", func(t *testing.T) {
		sections := newMemSections()
		seedSections(t, sections, userID, assessmentID)
		locker := &stubLocker{}
		svc := newTestProfileService(sections, newMemProfiles(), locker)

		_, err := svc.Process(ctx, userID, assessmentID)
		require.NoError(t, err)
		assert.Equal(t, 1, locker.released)
	})
}
