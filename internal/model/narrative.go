package model

import (
	"time"

	"github.com/google/uuid"
)

// NarrativeKind names one downstream generation.
type NarrativeKind string

const (
	NarrativeReport NarrativeKind = "report"
	NarrativeStory  NarrativeKind = "story"
)

// Narrative stores the generated prose for a user. A half that failed holds
// a failure marker instead of text.
type Narrative struct {
	UserID    uuid.UUID `json:"user_id"`
	Report    string    `json:"report"`
	Story     string    `json:"story"`
	Failed    bool      `json:"failed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NarrativeFailureMarker is stored in place of a half that failed to generate.
func NarrativeFailureMarker(kind NarrativeKind) string {
	return "[generation failed: " + string(kind) + "]"
}
