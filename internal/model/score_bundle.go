package model

import (
	"time"

	"github.com/google/uuid"
)

// LearningStyleNotDetermined is reported when no learning-style item was answered.
const LearningStyleNotDetermined = "Not determined"

// InterestScores holds the six RIASEC tallies.
type InterestScores struct {
	R int `json:"R"`
	I int `json:"I"`
	A int `json:"A"`
	S int `json:"S"`
	E int `json:"E"`
	C int `json:"C"`
}

func (s *InterestScores) field(code string) *int {
	switch code {
	case "R":
		return &s.R
	case "I":
		return &s.I
	case "A":
		return &s.A
	case "S":
		return &s.S
	case "E":
		return &s.E
	case "C":
		return &s.C
	}
	return nil
}

// Get returns the tally of a category code, 0 for unknown codes.
func (s InterestScores) Get(code string) int {
	if p := s.field(code); p != nil {
		return *p
	}
	return 0
}

// Add increments a category tally. It reports false for unknown codes.
func (s *InterestScores) Add(code string, n int) bool {
	p := s.field(code)
	if p == nil {
		return false
	}
	*p += n
	return true
}

// PersonalityScores holds the Big Five tallies.
type PersonalityScores struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

func (s *PersonalityScores) field(trait string) *int {
	switch trait {
	case "openness":
		return &s.Openness
	case "conscientiousness":
		return &s.Conscientiousness
	case "extraversion":
		return &s.Extraversion
	case "agreeableness":
		return &s.Agreeableness
	case "neuroticism":
		return &s.Neuroticism
	}
	return nil
}

// Get returns the tally of a trait, 0 for unknown traits.
func (s PersonalityScores) Get(trait string) int {
	if p := s.field(trait); p != nil {
		return *p
	}
	return 0
}

// Add increments a trait tally. It reports false for unknown traits.
func (s *PersonalityScores) Add(trait string, n int) bool {
	p := s.field(trait)
	if p == nil {
		return false
	}
	*p += n
	return true
}

// AptitudeScores counts correct answers per domain.
type AptitudeScores struct {
	VerbalCorrect    int `json:"verbal_correct"`
	NumericalCorrect int `json:"numerical_correct"`
	AbstractCorrect  int `json:"abstract_correct"`
	TotalCorrect     int `json:"total_correct"`
	TotalAttempted   int `json:"total_attempted"`
}

// ScoreBundle is the full scoring output for one user. Tallies are raw,
// never normalized.
type ScoreBundle struct {
	UserID        uuid.UUID         `json:"user_id"`
	AssessmentID  uuid.UUID         `json:"assessment_id"`
	Interests     InterestScores    `json:"interests"`
	Personality   PersonalityScores `json:"personality"`
	Aptitude      AptitudeScores    `json:"aptitude"`
	LearningStyle string            `json:"learning_style"`
	ValueRanking  []string          `json:"value_ranking"`
	Answers       AnswerSet         `json:"answers"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
