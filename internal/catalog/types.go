package catalog

// SectionID names a catalog section.
type SectionID string

const (
	SectionWarmUp        SectionID = "warm_up"
	SectionInterests     SectionID = "interests"
	SectionPersonality   SectionID = "personality"
	SectionAptitude      SectionID = "aptitude"
	SectionSkills        SectionID = "skills"
	SectionValues        SectionID = "values"
	SectionLearningStyle SectionID = "learning_style"
	SectionGoals         SectionID = "goals"
)

// Kind is the input kind of a question.
type Kind string

const (
	KindSingleChoice      Kind = "single_choice"
	KindScenarioChoice    Kind = "scenario_choice"
	KindRatingScale       Kind = "rating_scale"
	KindRankedMultiSelect Kind = "ranked_multi_select"
	KindFreeText          Kind = "free_text"
	KindChallenge         Kind = "challenge_with_followup"
)

// InterestCode is a Holland (RIASEC) interest category.
type InterestCode string

const (
	Realistic     InterestCode = "R"
	Investigative InterestCode = "I"
	Artistic      InterestCode = "A"
	Social        InterestCode = "S"
	Enterprising  InterestCode = "E"
	Conventional  InterestCode = "C"
)

// InterestCodes lists the categories in their fixed catalog order. Ties in
// rankings are broken by this order.
var InterestCodes = []InterestCode{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

// Valid reports whether c is one of the six categories.
func (c InterestCode) Valid() bool {
	for _, code := range InterestCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Trait is a Big Five personality trait.
type Trait string

const (
	Openness          Trait = "openness"
	Conscientiousness Trait = "conscientiousness"
	Extraversion      Trait = "extraversion"
	Agreeableness     Trait = "agreeableness"
	Neuroticism       Trait = "neuroticism"
)

var Traits = []Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

// AptitudeDomain selects which correctness counter an aptitude item feeds.
type AptitudeDomain string

const (
	AptitudeVerbal    AptitudeDomain = "verbal"
	AptitudeNumerical AptitudeDomain = "numerical"
	AptitudeAbstract  AptitudeDomain = "abstract"
)

// LearningStyle is one of the four learning-style codes.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleReading     LearningStyle = "reading"
	StyleKinesthetic LearningStyle = "kinesthetic"
)

// LearningStyles lists the styles in catalog order; tied dominant styles are
// reported in this order.
var LearningStyles = []LearningStyle{StyleVisual, StyleAuditory, StyleReading, StyleKinesthetic}

// Label is the human-readable name used in the dominant style label.
func (s LearningStyle) Label() string {
	switch s {
	case StyleVisual:
		return "Visual"
	case StyleAuditory:
		return "Auditory"
	case StyleReading:
		return "Reading"
	case StyleKinesthetic:
		return "Kinesthetic"
	default:
		return string(s)
	}
}

// ScaleType selects the 5-point label set of a rating question.
type ScaleType string

const (
	ScaleAgreement  ScaleType = "agreement"
	ScaleConfidence ScaleType = "confidence"
	ScaleImportance ScaleType = "importance"
)

// RatingMin and RatingMax bound every rating scale.
const (
	RatingMin = 1
	RatingMax = 5
)

// Labels returns the five labels of the scale, lowest first.
func (s ScaleType) Labels() []string {
	switch s {
	case ScaleAgreement:
		return []string{"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree"}
	case ScaleConfidence:
		return []string{"Not confident", "Slightly confident", "Somewhat confident", "Confident", "Very confident"}
	case ScaleImportance:
		return []string{"Not important", "Slightly important", "Moderately important", "Important", "Essential"}
	default:
		return nil
	}
}
