package catalog

// Question is a catalog entry. The set of implementations is closed: only the
// types in this file satisfy it, so consumers switch over them exhaustively.
type Question interface {
	QuestionID() string
	SectionID() SectionID
	Prompt() string
	Kind() Kind
	isQuestion()
}

// Base carries the fields every question shares.
type Base struct {
	ID      string
	Section SectionID
	Text    string
}

func (b Base) QuestionID() string   { return b.ID }
func (b Base) SectionID() SectionID { return b.Section }
func (b Base) Prompt() string       { return b.Text }
func (b Base) isQuestion()          {}

// Option is a selectable choice. Theme and LearningStyle are optional tags
// consumed by scoring.
type Option struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Theme         InterestCode  `json:"theme,omitempty"`
	LearningStyle LearningStyle `json:"learning_style,omitempty"`
}

// SingleChoice picks one option. With CorrectOptionID set it is an aptitude
// item; with styled options it is a learning-style item.
type SingleChoice struct {
	Base
	Options         []Option
	CorrectOptionID string
	Aptitude        AptitudeDomain
}

func (*SingleChoice) Kind() Kind { return KindSingleChoice }

// IsAptitude reports whether the item has a correct answer.
func (q *SingleChoice) IsAptitude() bool { return q.CorrectOptionID != "" }

// IsLearningStyle reports whether any option carries a learning-style tag.
func (q *SingleChoice) IsLearningStyle() bool {
	for _, o := range q.Options {
		if o.LearningStyle != "" {
			return true
		}
	}
	return false
}

// ScenarioChoice picks one option whose theme feeds the interest tallies.
type ScenarioChoice struct {
	Base
	Options []Option
}

func (*ScenarioChoice) Kind() Kind { return KindScenarioChoice }

// RatingScale collects a 1–5 rating. Trait routes the rating into a
// personality tally; Reverse marks a negatively framed statement.
type RatingScale struct {
	Base
	Scale   ScaleType
	Trait   Trait
	Reverse bool
}

func (*RatingScale) Kind() Kind { return KindRatingScale }

// Contribution returns the trait contribution of a rating.
func (q *RatingScale) Contribution(rating int) int {
	if q.Reverse {
		return RatingMax + RatingMin - rating
	}
	return rating
}

// RankedMultiSelect collects an ordered selection of at most MaxSelections
// option ids. With DependsOnPriorRatings the options are rating question ids
// and only those rated 4 or higher may be chosen.
type RankedMultiSelect struct {
	Base
	Options               []Option
	MaxSelections         int
	DependsOnPriorRatings bool
}

func (*RankedMultiSelect) Kind() Kind { return KindRankedMultiSelect }

// FreeText collects unscored text.
type FreeText struct {
	Base
	Placeholder string
	MaxLength   int
}

func (*FreeText) Kind() Kind { return KindFreeText }

// Challenge is a short written task followed by a reflective prompt.
type Challenge struct {
	Base
	FollowUp  string
	MaxLength int
}

func (*Challenge) Kind() Kind { return KindChallenge }

func optionsOf(q Question) []Option {
	switch q := q.(type) {
	case *SingleChoice:
		return q.Options
	case *ScenarioChoice:
		return q.Options
	case *RankedMultiSelect:
		return q.Options
	default:
		return nil
	}
}

// FindOption returns the option with the given id.
func FindOption(q Question, id string) (Option, bool) {
	for _, o := range optionsOf(q) {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
