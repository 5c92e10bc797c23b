package model

import (
	"time"

	"github.com/google/uuid"
)

// SectionRecord is the persisted answer payload of one section.
// (user_id, assessment_id, section_id) is unique.
type SectionRecord struct {
	UserID       uuid.UUID `json:"user_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	SectionID    string    `json:"section_id"`
	Answers      AnswerSet `json:"answers"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SaveSectionRequest is the payload for saving one section's answers.
type SaveSectionRequest struct {
	Answers AnswerSet `json:"answers" binding:"required"`
}

// MergeSections folds section records into one answer set. Sections hold
// disjoint question ids, so the result does not depend on record order.
func MergeSections(records []SectionRecord) AnswerSet {
	out := make(AnswerSet)
	for _, r := range records {
		out.Merge(r.Answers)
	}
	return out
}
