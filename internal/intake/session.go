package intake

import (
	"fmt"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// Snapshot is the resumable form of a session, stored as a draft between
// connections.
type Snapshot struct {
	State   State             `json:"state"`
	Index   int               `json:"index"`
	Next    catalog.SectionID `json:"next,omitempty"`
	Answers model.AnswerSet   `json:"answers"`
}

// Progress counts answered questions against the catalog size.
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// View is what the client renders for the current state.
type View struct {
	State State `json:"state"`

	// Section is the current section, or the upcoming one in an interstitial.
	Section       *catalog.Section      `json:"section,omitempty"`
	QuestionIndex int                   `json:"question_index"`
	SectionSize   int                   `json:"section_size"`
	Question      *catalog.QuestionView `json:"question,omitempty"`
	Answer        *model.Answer         `json:"answer,omitempty"`
	CanGoBack     bool                  `json:"can_go_back"`
	IsLast        bool                  `json:"is_last"`
	Progress      Progress              `json:"progress"`
}

// Snapshot captures the session for later Restore.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:   m.state,
		Index:   m.index,
		Next:    m.next,
		Answers: m.answers.Clone(),
	}
}

// Restore replaces the session state with s. Snapshots that do not fit the
// catalog are rejected and leave the session untouched.
func (m *Machine) Restore(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saving {
		return ErrSaveInFlight
	}
	if s.Index < 0 || s.Index >= m.catalog.Len() {
		return fmt.Errorf("%w: snapshot index %d out of range", ErrInvalidState, s.Index)
	}
	switch s.State {
	case StateNotStarted, StateInSection, StateFinished:
	case StateInterstitial:
		if !m.catalog.HasSection(s.Next) {
			return fmt.Errorf("%w: snapshot targets unknown section %q", ErrInvalidState, s.Next)
		}
	default:
		return fmt.Errorf("%w: snapshot state %q", ErrInvalidState, s.State)
	}

	answers := make(model.AnswerSet, len(s.Answers))
	for id, a := range s.Answers {
		if _, _, ok := m.catalog.Lookup(id); ok && !a.IsZero() {
			answers[id] = a
		}
	}

	m.state = s.State
	m.index = s.Index
	m.next = s.Next
	m.answers = answers
	return nil
}

// ResumeFromSaved positions a fresh session after the sections already
// stored. The stored answers are loaded and the session waits at the
// interstitial of the first section that has none. When every section is
// stored the session sits on the last question so Finish can run again.
func (m *Machine) ResumeFromSaved(saved []model.SectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateNotStarted {
		return ErrInvalidState
	}
	if m.catalog.Len() == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidState)
	}

	done := make(map[string]bool, len(saved))
	for _, r := range saved {
		done[r.SectionID] = true
	}
	m.answers = model.MergeSections(saved).Subset(allIDs(m.catalog))

	for _, s := range m.catalog.Sections() {
		if done[string(s.ID)] {
			continue
		}
		if s.ID == m.catalog.Sections()[0].ID {
			m.state = StateInSection
			m.index = 0
			return nil
		}
		m.state = StateInterstitial
		m.next = s.ID
		return nil
	}

	m.state = StateInSection
	m.index = m.catalog.Len() - 1
	return nil
}

// Current describes the session for rendering.
func (m *Machine) Current() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:    m.state,
		Progress: Progress{Answered: len(m.answers), Total: m.catalog.Len()},
	}

	switch m.state {
	case StateInSection:
		q := m.catalog.At(m.index)
		sec, _ := m.catalog.Section(q.SectionID())
		start, end, _ := m.catalog.SectionRange(q.SectionID())
		qv := catalog.ViewOf(q)

		v.Section = &sec
		v.Question = &qv
		v.QuestionIndex = m.index - start
		v.SectionSize = end - start
		v.CanGoBack = m.index > start
		v.IsLast = m.index == m.catalog.Len()-1
		if a, ok := m.answers[q.QuestionID()]; ok {
			v.Answer = &a
		}
	case StateInterstitial:
		sec, _ := m.catalog.Section(m.next)
		start, end, _ := m.catalog.SectionRange(m.next)
		v.Section = &sec
		v.SectionSize = end - start
	}
	return v
}

func allIDs(c *catalog.Catalog) []string {
	ids := make([]string, 0, c.Len())
	for _, q := range c.Questions() {
		ids = append(ids, q.QuestionID())
	}
	return ids
}
