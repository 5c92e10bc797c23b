package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/response"
	ws "github.com/stemsi/pathfinder-backend/internal/websocket"
)

// actionTimeout bounds the storage work of one client action, including the
// profile run on finish.
const actionTimeout = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// IntakeSessions opens resumable intake sessions. Implemented by
// service.IntakeService.
type IntakeSessions interface {
	OpenSession(ctx context.Context, userID, assessmentID uuid.UUID, processor intake.ProfileProcessor) (*intake.Machine, error)
	SaveDraft(ctx context.Context, userID, assessmentID uuid.UUID, m *intake.Machine)
	ClearDraft(ctx context.Context, userID, assessmentID uuid.UUID)
}

// WSHandler drives one intake session per WebSocket connection.
type WSHandler struct {
	sessions  IntakeSessions
	processor intake.ProfileProcessor
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessions IntakeSessions, processor intake.ProfileProcessor, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessions:  sessions,
		processor: processor,
		log:       log.With().Str("component", "ws_handler").Logger(),
		upgrader:  buildUpgrader(allowedOrigins),
	}
}

// intakeConn is the per-connection state.
type intakeConn struct {
	conn         *websocket.Conn
	machine      *intake.Machine
	userID       uuid.UUID
	assessmentID uuid.UUID
	log          zerolog.Logger
}

// IntakeStream godoc
// WS /ws/v1/assessments/:assessment_id/intake
// Upgrades to WebSocket and walks the user through the question catalog.
// Progress survives reconnects through the draft store.
func (h *WSHandler) IntakeStream(c *gin.Context) {
	userID, assessmentID, ok := userAndAssessment(c)
	if !ok {
		return
	}

	machine, err := h.sessions.OpenSession(c.Request.Context(), userID, assessmentID, h.processor)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID.String()).Msg("Open intake session failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if err := machine.Start(); err != nil {
		fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ic := &intakeConn{
		conn:         conn,
		machine:      machine,
		userID:       userID,
		assessmentID: assessmentID,
		log: h.log.With().
			Str("user_id", userID.String()).
			Str("assessment_id", assessmentID.String()).
			Logger(),
	}
	ic.log.Info().Str("state", string(machine.State())).Msg("Intake connected")

	ic.writeView()
	for {
		data, err := ws.ReadMessage(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ic.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				ic.log.Debug().Msg("Connection closed")
			}
			return
		}

		req, err := ws.DecodeRequest(data)
		if err != nil {
			ws.WriteError(conn, string(response.ErrInvalidPayload), err.Error(), false)
			continue
		}
		if done := h.dispatch(c.Request.Context(), ic, req); done {
			return
		}
	}
}

// dispatch handles one action. It reports true once the intake is finished.
func (h *WSHandler) dispatch(parent context.Context, ic *intakeConn, req ws.Request) bool {
	ctx, cancel := context.WithTimeout(parent, actionTimeout)
	defer cancel()

	var answer model.Answer
	if req.Answer != nil {
		answer = *req.Answer
	}

	var err error
	switch req.Action {
	case ws.ActionPing:
		ws.WriteTyped(ic.conn, ws.PongResponse{Event: ws.EventPong})
		return false
	case ws.ActionState:
		ic.writeView()
		return false
	case ws.ActionAnswer:
		err = ic.machine.Advance(ctx, answer)
	case ws.ActionBack:
		err = ic.machine.Retreat()
	case ws.ActionContinue:
		err = ic.machine.ContinueFromInterstitial()
	case ws.ActionFinish:
		return h.finish(ctx, ic, answer)
	default:
		ic.log.Warn().Str("action", string(req.Action)).Msg("Unknown action")
		ws.WriteError(ic.conn, string(response.ErrInvalidPayload), "unknown action: "+string(req.Action), false)
		return false
	}

	if err != nil {
		ic.writeErr(err)
		return false
	}
	h.sessions.SaveDraft(ctx, ic.userID, ic.assessmentID, ic.machine)
	ic.writeView()
	return false
}

func (h *WSHandler) finish(ctx context.Context, ic *intakeConn, answer model.Answer) bool {
	view, err := ic.machine.Finish(ctx, answer)
	if err != nil {
		var stepErr *intake.StepError
		if errors.As(err, &stepErr) {
			ic.log.Warn().Str("step", string(stepErr.Step)).Msg("Finish failed")
			// The last answer is recorded; keep it for the retry.
			h.sessions.SaveDraft(ctx, ic.userID, ic.assessmentID, ic.machine)
		}
		ic.writeErr(err)
		return false
	}

	h.sessions.ClearDraft(ctx, ic.userID, ic.assessmentID)
	ic.log.Info().Msg("Intake finished")
	ws.WriteTyped(ic.conn, ws.FinishedResponse{Event: ws.EventFinished, Profile: view})
	ws.WriteClose(ic.conn, "intake finished")
	return true
}

func (ic *intakeConn) writeView() {
	v := ic.machine.Current()
	event := ws.EventState
	if v.State == intake.StateInterstitial {
		event = ws.EventInterstitial
	}
	ws.WriteTyped(ic.conn, ws.StateResponse{Event: event, View: v})
}

func (ic *intakeConn) writeErr(err error) {
	e := classify(err)
	if e.status >= http.StatusInternalServerError {
		ic.log.Error().Err(err).Msg("Intake action failed")
	}
	ws.WriteError(ic.conn, string(e.code), err.Error(), e.retryable)
}
