package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

type sectionKey struct {
	user, assessment uuid.UUID
	section          string
}

type memSections struct {
	mu      sync.Mutex
	rows    map[sectionKey]model.SectionRecord
	order   []sectionKey
	failErr error
}

func newMemSections() *memSections {
	return &memSections{rows: make(map[sectionKey]model.SectionRecord)}
}

func (m *memSections) Upsert(_ context.Context, rec *model.SectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	k := sectionKey{rec.UserID, rec.AssessmentID, rec.SectionID}
	if _, ok := m.rows[k]; !ok {
		m.order = append(m.order, k)
	}
	m.rows[k] = *rec
	return nil
}

func (m *memSections) ListByUserAssessment(_ context.Context, userID, assessmentID uuid.UUID) ([]model.SectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []model.SectionRecord
	for _, k := range m.order {
		if k.user == userID && k.assessment == assessmentID {
			out = append(out, m.rows[k])
		}
	}
	return out, nil
}

func (m *memSections) LatestAssessment(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		if m.order[i].user == userID {
			return m.order[i].assessment, nil
		}
	}
	return uuid.Nil, pgx.ErrNoRows
}

type memProfiles struct {
	bundles  map[uuid.UUID]model.ScoreBundle
	profiles map[uuid.UUID]model.SuggestedProfile
	saves    int
	saveErr  error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{
		bundles:  make(map[uuid.UUID]model.ScoreBundle),
		profiles: make(map[uuid.UUID]model.SuggestedProfile),
	}
}

func (m *memProfiles) SaveResult(_ context.Context, b *model.ScoreBundle, p *model.SuggestedProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.bundles[b.UserID] = *b
	m.profiles[p.UserID] = *p
	return nil
}

func (m *memProfiles) GetScoreBundle(_ context.Context, userID uuid.UUID) (*model.ScoreBundle, error) {
	b, ok := m.bundles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &b, nil
}

func (m *memProfiles) GetSuggestedProfile(_ context.Context, userID uuid.UUID) (*model.SuggestedProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

type memDrafts struct {
	snaps map[sectionKey]intake.Snapshot
}

func newMemDrafts() *memDrafts { return &memDrafts{snaps: make(map[sectionKey]intake.Snapshot)} }

func (m *memDrafts) Save(_ context.Context, userID, assessmentID uuid.UUID, snap intake.Snapshot) error {
	m.snaps[sectionKey{user: userID, assessment: assessmentID}] = snap
	return nil
}

func (m *memDrafts) Load(_ context.Context, userID, assessmentID uuid.UUID) (*intake.Snapshot, error) {
	snap, ok := m.snaps[sectionKey{user: userID, assessment: assessmentID}]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *memDrafts) Clear(_ context.Context, userID, assessmentID uuid.UUID) error {
	delete(m.snaps, sectionKey{user: userID, assessment: assessmentID})
	return nil
}

type staticFinder map[string][]string

func (f staticFinder) FindByInterest(_ context.Context, code string, exclude []string, limit int) ([]string, error) {
	skip := make(map[string]bool)
	for _, c := range exclude {
		skip[c] = true
	}
	var out []string
	for _, c := range f[code] {
		if len(out) == limit {
			break
		}
		if !skip[c] {
			out = append(out, c)
		}
	}
	return out, nil
}
