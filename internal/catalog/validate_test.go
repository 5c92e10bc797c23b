package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/pathfinder-backend/internal/model"
)

func lookup(t *testing.T, id string) Question {
	t.Helper()
	q, _, ok := Default.Lookup(id)
	require.True(t, ok, "question %s", id)
	return q
}

func TestValidateAnswerByKind(t *testing.T) {
	cases := []struct {
		name string
		qid  string
		ans  model.Answer
		want error
	}{
		{"choice ok", "int_weekend", model.Choice("fix"), nil},
		{"choice unknown", "int_weekend", model.Choice("nope"), ErrUnknownOption},
		{"choice wrong shape", "int_weekend", model.Rating(3), ErrWrongShape},
		{"empty", "int_weekend", model.Answer{}, ErrEmptyAnswer},
		{"rating ok", "pers_openness_1", model.Rating(5), nil},
		{"rating low", "pers_openness_1", model.Rating(0), ErrRatingOutOfRange},
		{"rating high", "pers_openness_1", model.Rating(6), ErrRatingOutOfRange},
		{"rating as text", "pers_openness_1", model.Text("5"), ErrWrongShape},
		{"aptitude ok", "apt_verbal_1", model.Choice("a"), nil},
		{"free text ok", "goal_five_years", model.Text("Engineer"), nil},
		{"free text blank", "goal_five_years", model.Text("   "), ErrEmptyAnswer},
		{"challenge ok", "skill_challenge", model.Text("I fixed the router."), nil},
		{"challenge too long", "skill_challenge", model.Text(strings.Repeat("x", 2001)), ErrTextTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAnswer(lookup(t, tc.qid), tc.ans, nil)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrInvalidAnswer)
		})
	}
}

func TestValidateRankingDependsOnRatings(t *testing.T) {
	q := lookup(t, ValueRankingQuestionID)
	prior := model.AnswerSet{
		"value_security":    model.Rating(5),
		"value_income":      model.Rating(4),
		"value_helping":     model.Rating(4),
		"value_autonomy":    model.Rating(5),
		"value_creativity":  model.Rating(2),
		"value_recognition": model.Rating(3),
	}

	assert.NoError(t, ValidateAnswer(q, model.Selection("value_income", "value_security"), prior))
	assert.ErrorIs(t, ValidateAnswer(q, model.Selection("value_creativity"), prior), ErrUnratedSelection)
	assert.ErrorIs(t, ValidateAnswer(q,
		model.Selection("value_income", "value_security", "value_helping", "value_autonomy"), prior),
		ErrTooManySelections)
	assert.ErrorIs(t, ValidateAnswer(q, model.Selection("value_income", "value_income"), prior), ErrDuplicateSelection)
	assert.ErrorIs(t, ValidateAnswer(q, model.Selection(), prior), ErrEmptyAnswer)
}

func TestValidateRankingAllowsEmptyWhenNothingEligible(t *testing.T) {
	q := lookup(t, ValueRankingQuestionID)
	prior := model.AnswerSet{"value_security": model.Rating(2)}

	assert.NoError(t, ValidateAnswer(q, model.Selection(), prior))
	assert.Empty(t, EligibleSelections(q.(*RankedMultiSelect), prior))
}
