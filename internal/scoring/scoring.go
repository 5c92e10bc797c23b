// Package scoring turns an answer set into raw trait tallies. Every function
// here is pure: the same answers and catalog always give the same bundle.
package scoring

import (
	"fmt"
	"strings"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

// Score computes the score bundle for answers. Questions without an answer
// are skipped, as are answers that do not fit their question. The returned
// bundle has no user, assessment or timestamp set.
func Score(c *catalog.Catalog, answers model.AnswerSet) model.ScoreBundle {
	var (
		b      model.ScoreBundle
		styles = make(map[catalog.LearningStyle]int, len(catalog.LearningStyles))
	)

	for _, q := range c.Questions() {
		ans, ok := answers[q.QuestionID()]
		if !ok || ans.IsZero() {
			continue
		}

		switch q := q.(type) {
		case *catalog.ScenarioChoice:
			scoreInterest(&b, q, ans)
		case *catalog.RatingScale:
			scorePersonality(&b, q, ans)
		case *catalog.SingleChoice:
			switch {
			case q.IsAptitude():
				scoreAptitude(&b, q, ans)
			case q.IsLearningStyle():
				countStyle(styles, q, ans)
			}
		case *catalog.RankedMultiSelect:
			if q.ID == catalog.ValueRankingQuestionID {
				b.ValueRanking = copyRanking(q, ans)
			}
		case *catalog.FreeText, *catalog.Challenge:
			// Unscored.
		default:
			// catalog.New rejects unknown types, so this only fires when a
			// new kind is added to the catalog without a scoring rule.
			panic(fmt.Sprintf("scoring: unhandled question type %T", q))
		}
	}

	b.LearningStyle = DominantStyle(styles)
	b.Answers = answers.Clone()
	return b
}

func scoreInterest(b *model.ScoreBundle, q *catalog.ScenarioChoice, ans model.Answer) {
	id, ok := ans.AsString()
	if !ok {
		return
	}
	opt, found := catalog.FindOption(q, id)
	if !found || opt.Theme == "" {
		return
	}
	b.Interests.Add(string(opt.Theme), 1)
}

func scorePersonality(b *model.ScoreBundle, q *catalog.RatingScale, ans model.Answer) {
	if q.Trait == "" {
		return
	}
	n, ok := ans.AsNumber()
	if !ok || n < catalog.RatingMin || n > catalog.RatingMax {
		return
	}
	b.Personality.Add(string(q.Trait), q.Contribution(n))
}

func scoreAptitude(b *model.ScoreBundle, q *catalog.SingleChoice, ans model.Answer) {
	id, ok := ans.AsString()
	if !ok {
		return
	}
	b.Aptitude.TotalAttempted++
	if id != q.CorrectOptionID {
		return
	}
	b.Aptitude.TotalCorrect++
	switch q.Aptitude {
	case catalog.AptitudeVerbal:
		b.Aptitude.VerbalCorrect++
	case catalog.AptitudeNumerical:
		b.Aptitude.NumericalCorrect++
	case catalog.AptitudeAbstract:
		b.Aptitude.AbstractCorrect++
	}
}

func countStyle(styles map[catalog.LearningStyle]int, q *catalog.SingleChoice, ans model.Answer) {
	id, ok := ans.AsString()
	if !ok {
		return
	}
	opt, found := catalog.FindOption(q, id)
	if !found || opt.LearningStyle == "" {
		return
	}
	styles[opt.LearningStyle]++
}

// DominantStyle returns the most frequent style. Ties are joined with "/" in
// catalog order; no counts at all gives LearningStyleNotDetermined.
func DominantStyle(counts map[catalog.LearningStyle]int) string {
	best := 0
	for _, s := range catalog.LearningStyles {
		if counts[s] > best {
			best = counts[s]
		}
	}
	if best == 0 {
		return model.LearningStyleNotDetermined
	}

	var tied []string
	for _, s := range catalog.LearningStyles {
		if counts[s] == best {
			tied = append(tied, s.Label())
		}
	}
	return strings.Join(tied, "/")
}

// copyRanking copies the ranked ids through, truncated to the question's
// limit. The intake rejects longer lists; this only guards stored data.
func copyRanking(q *catalog.RankedMultiSelect, ans model.Answer) []string {
	ids, ok := ans.AsList()
	if !ok {
		return nil
	}
	if len(ids) > q.MaxSelections {
		ids = ids[:q.MaxSelections]
	}
	return ids
}
