package websocket

import (
	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionState    Action = "state"
	ActionAnswer   Action = "answer"
	ActionBack     Action = "back"
	ActionContinue Action = "continue"
	ActionFinish   Action = "finish"
	ActionPing     Action = "ping"
)

// Request is one client message. Answer is only read by answer and finish;
// finish without an answer submits the one already recorded.
type Request struct {
	Action Action        `json:"action"`
	Answer *model.Answer `json:"answer,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState        Event = "state"
	EventInterstitial Event = "interstitial"
	EventFinished     Event = "finished"
	EventError        Event = "error"
	EventPong         Event = "pong"
)

// StateResponse carries the session view after every accepted action.
type StateResponse struct {
	Event Event       `json:"event"`
	View  intake.View `json:"view"`
}

// FinishedResponse carries the computed profile.
type FinishedResponse struct {
	Event   Event              `json:"event"`
	Profile *model.ProfileView `json:"profile"`
}

type ErrorResponse struct {
	Event Event `json:"event"`
	// Code is the same error code the HTTP API uses.
	Code  string `json:"code"`
	Error string `json:"error"`
	// Retryable is set when sending the same action again can succeed.
	Retryable bool `json:"retryable"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
