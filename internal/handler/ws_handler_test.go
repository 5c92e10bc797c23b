package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/service"
)

var wsCatalog = catalog.MustNew(
	[]catalog.Section{
		{ID: "basics", Title: "Basics"},
		{ID: "choices", Title: "Choices"},
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

type fakeIntake struct {
	mu     sync.Mutex
	saved  []catalog.SectionID
	drafts int
	clears int
}

func (f *fakeIntake) SaveSection(_ context.Context, _, _ uuid.UUID, section catalog.SectionID, _ model.AnswerSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, section)
	return nil
}

func (f *fakeIntake) OpenSession(_ context.Context, userID, assessmentID uuid.UUID, p intake.ProfileProcessor) (*intake.Machine, error) {
	return intake.New(wsCatalog, f, p, userID, assessmentID), nil
}

func (f *fakeIntake) SaveDraft(context.Context, uuid.UUID, uuid.UUID, *intake.Machine) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts++
}

func (f *fakeIntake) ClearDraft(context.Context, uuid.UUID, uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

type lockedProcessor struct {
	mu    sync.Mutex
	calls int
}

func (p *lockedProcessor) Process(_ context.Context, userID, _ uuid.UUID) (*model.ProfileView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return sampleView(userID), nil
}

type wsEvent struct {
	Event string `json:"event"`
	View  struct {
		State    string `json:"state"`
		Question *struct {
			ID string `json:"id"`
		} `json:"question"`
		Answer  json.RawMessage `json:"answer"`
		Section *struct {
			ID string `json:"id"`
		} `json:"section"`
	} `json:"view"`
	Code      string          `json:"code"`
	Retryable bool            `json:"retryable"`
	Profile   json.RawMessage `json:"profile"`
}

func dialIntake(t *testing.T, sessions IntakeSessions, p intake.ProfileProcessor) *websocket.Conn {
	t.Helper()
	h := NewWSHandler(sessions, p, quiet, nil)

	r := gin.New()
	r.GET("/ws/:assessment_id", as(uuid.New(), service.RoleUser), h.IntakeStream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + uuid.NewString()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) wsEvent {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	return recv(t, conn)
}

func recv(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev wsEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWSHandler_IntakeFlow(t *testing.T) {
	sessions := &fakeIntake{}
	proc := &lockedProcessor{}
	conn := dialIntake(t, sessions, proc)

	ev := recv(t, conn)
	require.Equal(t, "state", ev.Event)
	assert.Equal(t, "in_section", ev.View.State)
	assert.Equal(t, "q_rating", ev.View.Question.ID)

	assert.Equal(t, "pong", send(t, conn, `{"action":"ping"}`).Event)

	ev = send(t, conn, `{"action":"answer","answer":4}`)
	require.Equal(t, "state", ev.Event)
	assert.Equal(t, "q_text", ev.View.Question.ID)

	ev = send(t, conn, `{"action":"back"}`)
	assert.Equal(t, "q_rating", ev.View.Question.ID)
	assert.JSONEq(t, `4`, string(ev.View.Answer))

	ev = send(t, conn, `{"action":"back"}`)
	assert.Equal(t, "error", ev.Event)
	assert.Equal(t, "CONFLICT", ev.Code)

	ev = send(t, conn, `{"action":"answer"}`)
	assert.Equal(t, "q_text", ev.View.Question.ID, "empty answer reuses the recorded one")

	ev = send(t, conn, `{"action":"answer"}`)
	assert.Equal(t, "error", ev.Event)
	assert.Equal(t, "INVALID_ANSWERS", ev.Code)

	ev = send(t, conn, `{"action":"answer","answer":"hello"}`)
	require.Equal(t, "interstitial", ev.Event)
	assert.Equal(t, "choices", ev.View.Section.ID)

	ev = send(t, conn, `{"action":"finish","answer":"x"}`)
	assert.Equal(t, "error", ev.Event, "finish is not allowed in an interstitial")

	ev = send(t, conn, `{"action":"continue"}`)
	assert.Equal(t, "q_choice", ev.View.Question.ID)

	ev = send(t, conn, `{"action":"answer","answer":"x"}`)
	assert.Equal(t, "CONFLICT", ev.Code, "last question must be finished")

	ev = send(t, conn, `{"action":"finish","answer":"x"}`)
	require.Equal(t, "finished", ev.Event)
	assert.Contains(t, string(ev.Profile), `"top_interest_codes"`)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "server closes after finishing: %v", err)

	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	assert.Equal(t, []catalog.SectionID{"basics", "choices"}, sessions.saved)
	assert.Equal(t, 5, sessions.drafts)
	assert.Equal(t, 1, sessions.clears)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	assert.Equal(t, 1, proc.calls)
}

func TestWSHandler_BadMessages(t *testing.T) {
	conn := dialIntake(t, &fakeIntake{}, &lockedProcessor{})
	recv(t, conn)

	ev := send(t, conn, `not json`)
	assert.Equal(t, "INVALID_PAYLOAD", ev.Code)

	ev = send(t, conn, `{"answer":1}`)
	assert.Equal(t, "INVALID_PAYLOAD", ev.Code)

	ev = send(t, conn, `{"action":"dance"}`)
	assert.Equal(t, "INVALID_PAYLOAD", ev.Code)

	ev = send(t, conn, `{"action":"state"}`)
	assert.Equal(t, "state", ev.Event, "connection survives bad messages")
}
