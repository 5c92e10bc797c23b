package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stemsi/pathfinder-backend/internal/model"
)

// Answer validation errors. All of them wrap ErrInvalidAnswer.
var (
	ErrInvalidAnswer      = errors.New("invalid answer")
	ErrEmptyAnswer        = fmt.Errorf("%w: empty", ErrInvalidAnswer)
	ErrWrongShape         = fmt.Errorf("%w: wrong value type for question", ErrInvalidAnswer)
	ErrUnknownOption      = fmt.Errorf("%w: unknown option", ErrInvalidAnswer)
	ErrRatingOutOfRange   = fmt.Errorf("%w: rating out of range", ErrInvalidAnswer)
	ErrTooManySelections  = fmt.Errorf("%w: too many selections", ErrInvalidAnswer)
	ErrDuplicateSelection = fmt.Errorf("%w: duplicate selection", ErrInvalidAnswer)
	ErrUnratedSelection   = fmt.Errorf("%w: selection was not rated 4 or higher", ErrInvalidAnswer)
	ErrTextTooLong        = fmt.Errorf("%w: text too long", ErrInvalidAnswer)
)

// HighRating is the minimum rating that makes a value eligible for ranking.
const HighRating = 4

// ValidateAnswer checks that a is a well-formed answer to q. prior holds the
// answers given so far; ranked questions that depend on earlier ratings read it.
func ValidateAnswer(q Question, a model.Answer, prior model.AnswerSet) error {
	if a.IsZero() {
		return ErrEmptyAnswer
	}

	switch q := q.(type) {
	case *SingleChoice, *ScenarioChoice:
		id, ok := a.AsString()
		if !ok {
			return ErrWrongShape
		}
		if strings.TrimSpace(id) == "" {
			return ErrEmptyAnswer
		}
		if _, found := FindOption(q, id); !found {
			return fmt.Errorf("%w %q", ErrUnknownOption, id)
		}
	case *RatingScale:
		n, ok := a.AsNumber()
		if !ok {
			return ErrWrongShape
		}
		if n < RatingMin || n > RatingMax {
			return fmt.Errorf("%w: %d", ErrRatingOutOfRange, n)
		}
	case *RankedMultiSelect:
		return validateSelection(q, a, prior)
	case *FreeText:
		return validateText(a, q.MaxLength)
	case *Challenge:
		return validateText(a, q.MaxLength)
	default:
		return fmt.Errorf("%w: unsupported question type %T", ErrInvalidAnswer, q)
	}
	return nil
}

func validateSelection(q *RankedMultiSelect, a model.Answer, prior model.AnswerSet) error {
	ids, ok := a.AsList()
	if !ok {
		return ErrWrongShape
	}
	if len(ids) > q.MaxSelections {
		return fmt.Errorf("%w: %d > %d", ErrTooManySelections, len(ids), q.MaxSelections)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w %q", ErrDuplicateSelection, id)
		}
		seen[id] = true
		if _, found := FindOption(q, id); !found {
			return fmt.Errorf("%w %q", ErrUnknownOption, id)
		}
		if q.DependsOnPriorRatings && !ratedHigh(prior, id) {
			return fmt.Errorf("%w %q", ErrUnratedSelection, id)
		}
	}

	// An empty ranking is only acceptable when nothing could be ranked.
	if len(ids) == 0 && len(EligibleSelections(q, prior)) > 0 {
		return ErrEmptyAnswer
	}
	return nil
}

// EligibleSelections lists the option ids a user may rank given their prior
// answers.
func EligibleSelections(q *RankedMultiSelect, prior model.AnswerSet) []string {
	out := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		if !q.DependsOnPriorRatings || ratedHigh(prior, o.ID) {
			out = append(out, o.ID)
		}
	}
	return out
}

func ratedHigh(prior model.AnswerSet, id string) bool {
	n, ok := prior[id].AsNumber()
	return ok && n >= HighRating
}

func validateText(a model.Answer, maxLen int) error {
	s, ok := a.AsString()
	if !ok {
		return ErrWrongShape
	}
	if strings.TrimSpace(s) == "" {
		return ErrEmptyAnswer
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return fmt.Errorf("%w: %d characters allowed", ErrTextTooLong, maxLen)
	}
	return nil
}
