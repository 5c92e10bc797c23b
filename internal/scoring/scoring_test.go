package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

func TestScore_InterestAndAptitudeTallies(t *testing.T) {
	answers := model.AnswerSet{
		"int_weekend":  model.Choice("create"),
		"int_project":  model.Choice("design"),
		"int_park":     model.Choice("repair"),
		"apt_verbal_1": model.Choice("b"),
		"apt_verbal_2": model.Choice("a"),
	}

	b := Score(catalog.Default, answers)

	assert.Equal(t, model.InterestScores{A: 2, R: 1}, b.Interests)
	assert.Equal(t, model.AptitudeScores{VerbalCorrect: 1, TotalCorrect: 1, TotalAttempted: 2}, b.Aptitude)
}

func TestScore_NoLearningStyleAnswers(t *testing.T) {
	b := Score(catalog.Default, model.AnswerSet{"int_weekend": model.Choice("fix")})
	assert.Equal(t, model.LearningStyleNotDetermined, b.LearningStyle)
}

func TestScore_EmptyAnswerSet(t *testing.T) {
	b := Score(catalog.Default, model.AnswerSet{})

	assert.Zero(t, b.Interests)
	assert.Zero(t, b.Personality)
	assert.Zero(t, b.Aptitude)
	assert.Equal(t, model.LearningStyleNotDetermined, b.LearningStyle)
	assert.Nil(t, b.ValueRanking)
	assert.Empty(t, b.Answers)
}

func TestScore_ReverseScoredItem(t *testing.T) {
	cases := []struct {
		forward, reverse int
		want             int
	}{
		{forward: 3, reverse: 5, want: 3 + 1},
		{forward: 3, reverse: 1, want: 3 + 5},
		{forward: 5, reverse: 5, want: 5 + 1},
	}
	for _, tc := range cases {
		b := Score(catalog.Default, model.AnswerSet{
			"pers_neuroticism_1": model.Rating(tc.forward),
			"pers_neuroticism_2": model.Rating(tc.reverse),
		})
		assert.Equal(t, tc.want, b.Personality.Neuroticism)
		assert.Zero(t, b.Personality.Openness)
	}
}

func TestScore_PersonalityUsesTraitField(t *testing.T) {
	b := Score(catalog.Default, model.AnswerSet{
		"pers_openness_1":          model.Rating(4),
		"pers_openness_2":          model.Rating(5),
		"pers_conscientiousness_1": model.Rating(2),
		"pers_agreeableness_2":     model.Rating(3),
		// skills share the rating kind but carry no trait
		"skill_creativity": model.Rating(5),
	})

	assert.Equal(t, model.PersonalityScores{Openness: 9, Conscientiousness: 2, Agreeableness: 3}, b.Personality)
}

func TestScore_IgnoresAnswersThatDoNotFit(t *testing.T) {
	b := Score(catalog.Default, model.AnswerSet{
		"int_weekend":     model.Choice("no_such_option"),
		"int_club":        model.Choice("none"),
		"int_park":        model.Rating(3),
		"pers_openness_1": model.Rating(9),
		"pers_openness_2": model.Choice("5"),
		"ls_new_skill":    model.Choice("telepathy"),
		"unknown_item":    model.Choice("x"),
	})

	assert.Zero(t, b.Interests)
	assert.Zero(t, b.Personality)
	assert.Equal(t, model.LearningStyleNotDetermined, b.LearningStyle)
}

func TestScore_LearningStyle(t *testing.T) {
	t.Run("single winner", func(t *testing.T) {
		b := Score(catalog.Default, model.AnswerSet{
			"ls_new_skill":  model.Choice("kinesthetic"),
			"ls_directions": model.Choice("kinesthetic"),
			"ls_remember":   model.Choice("visual"),
		})
		assert.Equal(t, "Kinesthetic", b.LearningStyle)
	})

	t.Run("tie lists styles in catalog order", func(t *testing.T) {
		b := Score(catalog.Default, model.AnswerSet{
			"ls_new_skill":  model.Choice("reading"),
			"ls_directions": model.Choice("visual"),
		})
		assert.Equal(t, "Visual/Reading", b.LearningStyle)
	})
}

func TestScore_ValueRanking(t *testing.T) {
	t.Run("copied through", func(t *testing.T) {
		b := Score(catalog.Default, model.AnswerSet{
			catalog.ValueRankingQuestionID: model.Selection("value_helping", "value_security"),
		})
		assert.Equal(t, []string{"value_helping", "value_security"}, b.ValueRanking)
	})

	t.Run("over-length list truncated", func(t *testing.T) {
		b := Score(catalog.Default, model.AnswerSet{
			catalog.ValueRankingQuestionID: model.Selection("value_helping", "value_security", "value_income", "value_autonomy"),
		})
		assert.Equal(t, []string{"value_helping", "value_security", "value_income"}, b.ValueRanking)
	})
}

func TestScore_Idempotent(t *testing.T) {
	answers := fullAnswerSet()

	first := Score(catalog.Default, answers)
	second := Score(catalog.Default, answers)

	assert.Equal(t, first, second)
}

func TestScore_StorageOrderDoesNotMatter(t *testing.T) {
	answers := fullAnswerSet()

	var records []model.SectionRecord
	for _, s := range catalog.Default.Sections() {
		records = append(records, model.SectionRecord{
			SectionID: string(s.ID),
			Answers:   answers.Subset(catalog.Default.SectionQuestionIDs(s.ID)),
		})
	}
	want := Score(catalog.Default, model.MergeSections(records))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.SectionRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Score(catalog.Default, model.MergeSections(shuffled)))
	}
}

func TestScore_SnapshotIsACopy(t *testing.T) {
	answers := model.AnswerSet{"int_weekend": model.Choice("fix")}
	b := Score(catalog.Default, answers)

	answers["int_project"] = model.Choice("track")
	require.Len(t, b.Answers, 1)
}

func TestDominantStyle(t *testing.T) {
	assert.Equal(t, model.LearningStyleNotDetermined, DominantStyle(nil))
	assert.Equal(t, "Visual/Auditory/Reading/Kinesthetic", DominantStyle(map[catalog.LearningStyle]int{
		catalog.StyleKinesthetic: 1,
		catalog.StyleReading:     1,
		catalog.StyleAuditory:    1,
		catalog.StyleVisual:      1,
	}))
}

func fullAnswerSet() model.AnswerSet {
	return model.AnswerSet{
		"warm_feeling":             model.Choice("excited"),
		"warm_free_time":           model.Text("Drawing and football"),
		"int_weekend":              model.Choice("create"),
		"int_project":              model.Choice("analyze"),
		"int_park":                 model.Choice("mural"),
		"int_shadow":               model.Choice("scientist"),
		"int_club":                 model.Choice("drama"),
		"int_hours":                model.Choice("helping"),
		"pers_openness_1":          model.Rating(5),
		"pers_openness_2":          model.Rating(4),
		"pers_conscientiousness_1": model.Rating(3),
		"pers_conscientiousness_2": model.Rating(4),
		"pers_extraversion_1":      model.Rating(2),
		"pers_extraversion_2":      model.Rating(3),
		"pers_agreeableness_1":     model.Rating(5),
		"pers_agreeableness_2":     model.Rating(4),
		"pers_neuroticism_1":       model.Rating(2),
		"pers_neuroticism_2":       model.Rating(4),
		"apt_verbal_1":             model.Choice("b"),
		"apt_verbal_2":             model.Choice("c"),
		"apt_numerical_1":          model.Choice("a"),
		"apt_numerical_2":          model.Choice("b"),
		"apt_abstract_1":           model.Choice("c"),
		"skill_communication":      model.Rating(4),
		"skill_challenge":          model.Text("Fixed the school printer queue."),
		"value_security":           model.Rating(5),
		"value_creativity":         model.Rating(4),
		"value_helping":            model.Rating(5),

		catalog.ValueRankingQuestionID: model.Selection("value_helping", "value_creativity"),

		"ls_new_skill":    model.Choice("visual"),
		"ls_directions":   model.Choice("visual"),
		"ls_remember":     model.Choice("reading"),
		"goal_five_years": model.Text("Working as an illustrator."),
	}
}
