package intake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

var testCatalog = catalog.MustNew(
	[]catalog.Section{
		{ID: "basics", Title: "Basics", Intro: "First things first."},
		{ID: "choices", Title: "Choices", Intro: "Pick one."},
	},
	[]catalog.Question{
		&catalog.RatingScale{Base: catalog.Base{ID: "q_rating", Section: "basics", Text: "Rate"}, Scale: catalog.ScaleAgreement},
		&catalog.FreeText{Base: catalog.Base{ID: "q_text", Section: "basics", Text: "Tell us"}, MaxLength: 20},
		&catalog.SingleChoice{
			Base:    catalog.Base{ID: "q_choice", Section: "choices", Text: "Choose"},
			Options: []catalog.Option{{ID: "x", Text: "X"}, {ID: "y", Text: "Y"}},
		},
	},
)

type saveCall struct {
	section catalog.SectionID
	answers model.AnswerSet
}

type fakeSaver struct {
	mu    sync.Mutex
	calls []saveCall
	fail  error
	block chan struct{}
}

func (f *fakeSaver) SaveSection(_ context.Context, _, _ uuid.UUID, section catalog.SectionID, answers model.AnswerSet) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, saveCall{section: section, answers: answers})
	return f.fail
}

type fakeProcessor struct {
	calls int
	fail  error
}

func (f *fakeProcessor) Process(_ context.Context, userID, _ uuid.UUID) (*model.ProfileView, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return &model.ProfileView{Suggestion: &model.SuggestedProfile{UserID: userID}}, nil
}

func newTestMachine(t *testing.T) (*Machine, *fakeSaver, *fakeProcessor) {
	t.Helper()
	saver := &fakeSaver{}
	proc := &fakeProcessor{}
	m := New(testCatalog, saver, proc, uuid.New(), uuid.New())
	require.NoError(t, m.Start())
	return m, saver, proc
}

func TestMachine_WalkThrough(t *testing.T) {
	ctx := context.Background()
	m, saver, proc := newTestMachine(t)

	require.NoError(t, m.Advance(ctx, model.Rating(4)))
	assert.Equal(t, StateInSection, m.State())
	assert.Empty(t, saver.calls, "moving inside a section must not save")

	require.NoError(t, m.Advance(ctx, model.Text("hello")))
	assert.Equal(t, StateInterstitial, m.State())
	require.Len(t, saver.calls, 1)
	assert.Equal(t, catalog.SectionID("basics"), saver.calls[0].section)
	assert.Equal(t, model.AnswerSet{"q_rating": model.Rating(4), "q_text": model.Text("hello")}, saver.calls[0].answers)

	v := m.Current()
	require.NotNil(t, v.Section)
	assert.Equal(t, "Pick one.", v.Section.Intro)
	assert.Nil(t, v.Question)

	require.NoError(t, m.ContinueFromInterstitial())
	assert.Equal(t, "q_choice", m.Current().Question.ID)

	view, err := m.Finish(ctx, model.Choice("y"))
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, StateFinished, m.State())
	require.Len(t, saver.calls, 2)
	assert.Equal(t, model.AnswerSet{"q_choice": model.Choice("y")}, saver.calls[1].answers)
	assert.Equal(t, 1, proc.calls)
}

func TestMachine_AdvanceRejectsMissingOrInvalidAnswer(t *testing.T) {
	ctx := context.Background()
	m, saver, _ := newTestMachine(t)

	err := m.Advance(ctx, model.Answer{})
	assert.ErrorIs(t, err, ErrNoAnswer)

	err = m.Advance(ctx, model.Rating(7))
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	err = m.Advance(ctx, model.Choice("4"))
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	v := m.Current()
	assert.Equal(t, "q_rating", v.Question.ID)
	assert.Nil(t, v.Answer)
	assert.Empty(t, saver.calls)
}

func TestMachine_SaveFailureKeepsPosition(t *testing.T) {
	ctx := context.Background()
	m, saver, _ := newTestMachine(t)
	require.NoError(t, m.Advance(ctx, model.Rating(3)))

	saver.fail = errors.New("connection reset")
	err := m.Advance(ctx, model.Text("hi"))
	require.ErrorIs(t, err, ErrSaveFailed)
	assert.Equal(t, StateInSection, m.State())
	assert.Equal(t, "q_text", m.Current().Question.ID)

	// retry with the answer already recorded
	saver.fail = nil
	require.NoError(t, m.Advance(ctx, model.Answer{}))
	assert.Equal(t, StateInterstitial, m.State())
}

func TestMachine_Retreat(t *testing.T) {
	ctx := context.Background()
	m, saver, _ := newTestMachine(t)

	assert.ErrorIs(t, m.Retreat(), ErrSectionBoundary)

	require.NoError(t, m.Advance(ctx, model.Rating(2)))
	require.NoError(t, m.Retreat())

	v := m.Current()
	assert.Equal(t, "q_rating", v.Question.ID)
	require.NotNil(t, v.Answer)
	assert.Equal(t, model.Rating(2), *v.Answer)

	require.NoError(t, m.Advance(ctx, model.Rating(5)))
	require.NoError(t, m.Advance(ctx, model.Text("ok")))
	require.NoError(t, m.ContinueFromInterstitial())

	assert.ErrorIs(t, m.Retreat(), ErrSectionBoundary, "no going back into a saved section")
	assert.Len(t, saver.calls, 1)
	assert.Equal(t, model.Rating(5), saver.calls[0].answers["q_rating"])
}

func TestMachine_StateGuards(t *testing.T) {
	ctx := context.Background()
	m := New(testCatalog, &fakeSaver{}, &fakeProcessor{}, uuid.New(), uuid.New())

	assert.ErrorIs(t, m.Advance(ctx, model.Rating(3)), ErrInvalidState)
	assert.ErrorIs(t, m.ContinueFromInterstitial(), ErrInvalidState)

	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.ContinueFromInterstitial(), ErrInvalidState)

	_, err := m.Finish(ctx, model.Rating(3))
	assert.ErrorIs(t, err, ErrNotLastQuestion)

	require.NoError(t, m.Advance(ctx, model.Rating(3)))
	require.NoError(t, m.Advance(ctx, model.Text("x")))
	require.NoError(t, m.ContinueFromInterstitial())
	assert.ErrorIs(t, m.Advance(ctx, model.Choice("x")), ErrLastQuestion)
}

func TestMachine_FinishFailures(t *testing.T) {
	ctx := context.Background()

	walk := func(t *testing.T) (*Machine, *fakeSaver, *fakeProcessor) {
		m, saver, proc := newTestMachine(t)
		require.NoError(t, m.Advance(ctx, model.Rating(3)))
		require.NoError(t, m.Advance(ctx, model.Text("x")))
		require.NoError(t, m.ContinueFromInterstitial())
		return m, saver, proc
	}

	t.Run("save step", func(t *testing.T) {
		m, saver, proc := walk(t)
		saver.fail = errors.New("disk full")

		_, err := m.Finish(ctx, model.Choice("x"))

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, StepSaveSection, stepErr.Step)
		assert.ErrorIs(t, err, ErrSaveFailed)
		assert.Zero(t, proc.calls)
		assert.Equal(t, StateInSection, m.State())
	})

	t.Run("process step keeps saved sections", func(t *testing.T) {
		m, saver, proc := walk(t)
		proc.fail = errors.New("scoring store unavailable")

		_, err := m.Finish(ctx, model.Choice("x"))

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, StepProcessProfile, stepErr.Step)
		assert.Len(t, saver.calls, 2)
		assert.Equal(t, StateInSection, m.State())

		proc.fail = nil
		_, err = m.Finish(ctx, model.Answer{})
		require.NoError(t, err)
		assert.Equal(t, StateFinished, m.State())
	})
}

func TestMachine_OneSaveInFlight(t *testing.T) {
	ctx := context.Background()
	m, saver, _ := newTestMachine(t)
	require.NoError(t, m.Advance(ctx, model.Rating(3)))

	saver.block = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- m.Advance(ctx, model.Text("x")) }()

	require.Eventually(t, func() bool {
		return errors.Is(m.ContinueFromInterstitial(), ErrSaveInFlight)
	}, timeout, tick)
	assert.ErrorIs(t, m.Retreat(), ErrSaveInFlight)
	assert.ErrorIs(t, m.Advance(ctx, model.Answer{}), ErrSaveInFlight)
	_, err := m.Finish(ctx, model.Answer{})
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(saver.block)
	require.NoError(t, <-done)
	assert.Equal(t, StateInterstitial, m.State())
	assert.Len(t, saver.calls, 1)
}
