// Package intake walks a user through the question catalog one item at a
// time, saving each section as it is completed.
package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// State is the position of a session in the intake flow.
type State string

const (
	StateNotStarted   State = "not_started"
	StateInSection    State = "in_section"
	StateInterstitial State = "interstitial"
	StateFinished     State = "finished"
)

// Step names the part of Finish that failed.
type Step string

const (
	StepSaveSection    Step = "save_section"
	StepProcessProfile Step = "process_profile"
)

var (
	ErrNoAnswer        = errors.New("current question has no answer")
	ErrInvalidAnswer   = catalog.ErrInvalidAnswer
	ErrSaveFailed      = errors.New("section save failed, try again")
	ErrSaveInFlight    = errors.New("a section save is already in progress")
	ErrSectionBoundary = errors.New("cannot go back past the start of a section")
	ErrInvalidState    = errors.New("operation not allowed in the current state")
	ErrNotLastQuestion = errors.New("finish is only allowed on the last question")
	ErrLastQuestion    = errors.New("last question reached, finish the assessment instead")
)

// StepError reports which step of Finish failed. Sections saved before the
// failure stay saved.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// SectionSaver persists one section's answers. Saving the same section again
// overwrites it.
type SectionSaver interface {
	SaveSection(ctx context.Context, userID, assessmentID uuid.UUID, section catalog.SectionID, answers model.AnswerSet) error
}

// ProfileProcessor scores the stored sections and stores the resulting profile.
type ProfileProcessor interface {
	Process(ctx context.Context, userID, assessmentID uuid.UUID) (*model.ProfileView, error)
}

// Machine is one user's intake session. It owns its answer set; nothing is
// shared between sessions. All methods are safe for concurrent use, but only
// one section save runs at a time.
type Machine struct {
	mu sync.Mutex

	catalog      *catalog.Catalog
	saver        SectionSaver
	processor    ProfileProcessor
	userID       uuid.UUID
	assessmentID uuid.UUID

	state   State
	index   int
	next    catalog.SectionID
	answers model.AnswerSet
	saving  bool
}

// New creates a session in the NotStarted state.
func New(c *catalog.Catalog, saver SectionSaver, processor ProfileProcessor, userID, assessmentID uuid.UUID) *Machine {
	return &Machine{
		catalog:      c,
		saver:        saver,
		processor:    processor,
		userID:       userID,
		assessmentID: assessmentID,
		state:        StateNotStarted,
		answers:      make(model.AnswerSet),
	}
}

// Start moves to the first question of the first section. Starting a session
// that is already past NotStarted is a no-op.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateNotStarted {
		return nil
	}
	if m.catalog.Len() == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidState)
	}
	m.state = StateInSection
	m.index = 0
	return nil
}

// Advance records answer for the current question and moves forward. A zero
// answer reuses the one already recorded, if any. Leaving a section saves it
// first; a failed save keeps the session where it is.
func (m *Machine) Advance(ctx context.Context, answer model.Answer) error {
	m.mu.Lock()
	if err := m.readyLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.index == m.catalog.Len()-1 {
		m.mu.Unlock()
		return ErrLastQuestion
	}
	if err := m.recordLocked(answer); err != nil {
		m.mu.Unlock()
		return err
	}

	cur := m.catalog.At(m.index).SectionID()
	nxt := m.catalog.At(m.index + 1).SectionID()
	if cur == nxt {
		m.index++
		m.mu.Unlock()
		return nil
	}

	payload := m.sectionAnswersLocked(cur)
	m.saving = true
	m.mu.Unlock()

	err := m.saver.SaveSection(ctx, m.userID, m.assessmentID, cur, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving = false
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	m.state = StateInterstitial
	m.next = nxt
	return nil
}

// ContinueFromInterstitial enters the section announced by the interstitial.
func (m *Machine) ContinueFromInterstitial() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saving {
		return ErrSaveInFlight
	}
	if m.state != StateInterstitial {
		return ErrInvalidState
	}
	start, _, ok := m.catalog.SectionRange(m.next)
	if !ok {
		return fmt.Errorf("%w: unknown section %q", ErrInvalidState, m.next)
	}
	m.state = StateInSection
	m.index = start
	m.next = ""
	return nil
}

// Retreat steps back one question inside the current section. It never saves
// and never crosses into the previous section.
func (m *Machine) Retreat() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}
	start, _, _ := m.catalog.SectionRange(m.catalog.At(m.index).SectionID())
	if m.index == start {
		return ErrSectionBoundary
	}
	m.index--
	return nil
}

// Finish records the answer to the last question, saves the final section
// and runs the profile pipeline. A failed step is reported as *StepError and
// leaves the session on the last question so Finish can be retried.
func (m *Machine) Finish(ctx context.Context, answer model.Answer) (*model.ProfileView, error) {
	m.mu.Lock()
	if err := m.readyLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if m.index != m.catalog.Len()-1 {
		m.mu.Unlock()
		return nil, ErrNotLastQuestion
	}
	if err := m.recordLocked(answer); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	section := m.catalog.At(m.index).SectionID()
	payload := m.sectionAnswersLocked(section)
	m.saving = true
	m.mu.Unlock()

	view, err := m.finish(ctx, section, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving = false
	if err != nil {
		return nil, err
	}
	m.state = StateFinished
	return view, nil
}

func (m *Machine) finish(ctx context.Context, section catalog.SectionID, payload model.AnswerSet) (*model.ProfileView, error) {
	if err := m.saver.SaveSection(ctx, m.userID, m.assessmentID, section, payload); err != nil {
		return nil, &StepError{Step: StepSaveSection, Err: fmt.Errorf("%w: %w", ErrSaveFailed, err)}
	}
	view, err := m.processor.Process(ctx, m.userID, m.assessmentID)
	if err != nil {
		return nil, &StepError{Step: StepProcessProfile, Err: err}
	}
	return view, nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Answers returns a copy of the answers recorded so far.
func (m *Machine) Answers() model.AnswerSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.answers.Clone()
}

func (m *Machine) readyLocked() error {
	if m.saving {
		return ErrSaveInFlight
	}
	if m.state != StateInSection {
		return ErrInvalidState
	}
	return nil
}

func (m *Machine) recordLocked(answer model.Answer) error {
	q := m.catalog.At(m.index)
	if answer.IsZero() {
		if _, ok := m.answers[q.QuestionID()]; ok {
			return nil
		}
		return ErrNoAnswer
	}
	if err := catalog.ValidateAnswer(q, answer, m.answers); err != nil {
		return fmt.Errorf("question %s: %w", q.QuestionID(), err)
	}
	m.answers[q.QuestionID()] = answer
	return nil
}

func (m *Machine) sectionAnswersLocked(section catalog.SectionID) model.AnswerSet {
	return m.answers.Subset(m.catalog.SectionQuestionIDs(section)).Clone()
}
