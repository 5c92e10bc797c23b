package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogInvariants(t *testing.T) {
	c := Default
	require.NotNil(t, c)

	wantOrder := []SectionID{
		SectionWarmUp, SectionInterests, SectionPersonality, SectionAptitude,
		SectionSkills, SectionValues, SectionLearningStyle, SectionGoals,
	}
	var got []SectionID
	for _, s := range c.Sections() {
		got = append(got, s.ID)
		assert.NotEmpty(t, s.Intro, "section %s needs an interstitial intro", s.ID)
	}
	assert.Equal(t, wantOrder, got)

	seen := map[string]bool{}
	prevSection := -1
	sectionPos := map[SectionID]int{}
	for i, s := range wantOrder {
		sectionPos[s] = i
	}
	for i := 0; i < c.Len(); i++ {
		q := c.At(i)
		assert.False(t, seen[q.QuestionID()], "duplicate id %s", q.QuestionID())
		seen[q.QuestionID()] = true
		pos := sectionPos[q.SectionID()]
		assert.GreaterOrEqual(t, pos, prevSection, "question %s out of section order", q.QuestionID())
		prevSection = pos
	}
}

func TestDefaultCatalogPersonalityItems(t *testing.T) {
	perTrait := map[Trait]int{}
	reversed := []string{}
	for _, q := range Default.Questions() {
		r, ok := q.(*RatingScale)
		if !ok || r.Trait == "" {
			continue
		}
		perTrait[r.Trait]++
		if r.Reverse {
			reversed = append(reversed, r.ID)
		}
	}
	for _, tr := range Traits {
		assert.Equal(t, 2, perTrait[tr], "trait %s", tr)
	}
	assert.Equal(t, []string{"pers_neuroticism_2"}, reversed)
}

func TestDefaultCatalogRankingOptionsAreRatedValues(t *testing.T) {
	q, _, ok := Default.Lookup(ValueRankingQuestionID)
	require.True(t, ok)
	rank := q.(*RankedMultiSelect)
	assert.Equal(t, 3, rank.MaxSelections)

	for _, o := range rank.Options {
		rq, _, found := Default.Lookup(o.ID)
		require.True(t, found, "option %s must be a question id", o.ID)
		assert.Equal(t, KindRatingScale, rq.Kind())
		assert.Equal(t, SectionValues, rq.SectionID())
	}
}

func TestSectionRange(t *testing.T) {
	start, end, ok := Default.SectionRange(SectionPersonality)
	require.True(t, ok)
	assert.Equal(t, 10, end-start)
	for i := start; i < end; i++ {
		assert.Equal(t, SectionPersonality, Default.At(i).SectionID())
	}

	ids := Default.SectionQuestionIDs(SectionWarmUp)
	assert.Equal(t, []string{"warm_feeling", "warm_free_time"}, ids)

	_, _, ok = Default.SectionRange("nope")
	assert.False(t, ok)
}

func TestNewRejectsBrokenCatalogs(t *testing.T) {
	sections := []Section{{ID: "a"}, {ID: "b"}}
	q := func(id string, s SectionID) Question {
		return &FreeText{Base: Base{ID: id, Section: s, Text: id}}
	}

	cases := map[string][]Question{
		"duplicate id":    {q("x", "a"), q("x", "b")},
		"unknown section": {q("x", "a"), q("y", "z")},
		"out of order":    {q("x", "b"), q("y", "a")},
		"empty section":   {q("x", "a")},
		"bad correct opt": {
			q("x", "a"),
			&SingleChoice{Base: Base{ID: "y", Section: "b"}, Options: []Option{{ID: "1"}}, CorrectOptionID: "2", Aptitude: AptitudeVerbal},
		},
		"bad theme": {
			q("x", "a"),
			&ScenarioChoice{Base: Base{ID: "y", Section: "b"}, Options: []Option{{ID: "1", Theme: "Z"}}},
		},
	}
	for name, qs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(sections, qs)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestViewHidesScoringData(t *testing.T) {
	raw, err := json.Marshal(Default.View())
	require.NoError(t, err)
	body := string(raw)

	assert.NotContains(t, body, "correct_option")
	assert.NotContains(t, body, `"theme"`)
	assert.NotContains(t, body, `"learning_style":"visual"`)
	assert.NotContains(t, strings.ToLower(body), "reverse")
	assert.Contains(t, body, `"input_kind":"challenge_with_followup"`)
	assert.Contains(t, body, `"scale_labels":["Strongly disagree"`)
}

func TestContributionReversesNegativeItems(t *testing.T) {
	q, _, _ := Default.Lookup("pers_neuroticism_2")
	r := q.(*RatingScale)
	assert.Equal(t, 1, r.Contribution(5))
	assert.Equal(t, 5, r.Contribution(1))
	assert.Equal(t, 3, r.Contribution(3))

	fwd, _, _ := Default.Lookup("pers_neuroticism_1")
	assert.Equal(t, 5, fwd.(*RatingScale).Contribution(5))
}
