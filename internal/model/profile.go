package model

import (
	"time"

	"github.com/google/uuid"
)

// SuggestedProfile is the derived top interest codes plus matched
// occupations. One row per user.
type SuggestedProfile struct {
	UserID                   uuid.UUID `json:"user_id"`
	TopInterestCodes         []string  `json:"top_interest_codes"`
	SuggestedOccupationCodes []string  `json:"suggested_occupation_codes"`
	Summary                  *string   `json:"summary"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// ProfileView is what the results dashboard reads.
type ProfileView struct {
	Scores     *ScoreBundle      `json:"scores"`
	Suggestion *SuggestedProfile `json:"suggestion"`
}
