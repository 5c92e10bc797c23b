package catalog

import (
	"errors"
	"fmt"
)

// Section describes one catalog section and the interstitial shown before it.
type Section struct {
	ID    SectionID `json:"id"`
	Title string    `json:"title"`
	Intro string    `json:"intro"`
}

// Catalog is the immutable, ordered list of questions grouped in sections.
type Catalog struct {
	sections  []Section
	questions []Question
	index     map[string]int
	bounds    map[SectionID][2]int
}

// ErrInvalidCatalog wraps every structural problem found by New.
var ErrInvalidCatalog = errors.New("invalid catalog")

// New validates and builds a catalog. Questions must be listed in section
// order and each section must be contiguous.
func New(sections []Section, questions []Question) (*Catalog, error) {
	c := &Catalog{
		sections:  append([]Section(nil), sections...),
		questions: append([]Question(nil), questions...),
		index:     make(map[string]int, len(questions)),
		bounds:    make(map[SectionID][2]int, len(sections)),
	}

	order := make(map[SectionID]int, len(sections))
	for i, s := range sections {
		if _, dup := order[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate section %q", ErrInvalidCatalog, s.ID)
		}
		order[s.ID] = i
	}

	prev := -1
	for i, q := range questions {
		id := q.QuestionID()
		if id == "" {
			return nil, fmt.Errorf("%w: question %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, id)
		}
		pos, ok := order[q.SectionID()]
		if !ok {
			return nil, fmt.Errorf("%w: question %q references unknown section %q", ErrInvalidCatalog, id, q.SectionID())
		}
		if pos < prev {
			return nil, fmt.Errorf("%w: question %q breaks section order", ErrInvalidCatalog, id)
		}
		if err := checkQuestion(q); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		prev = pos
		c.index[id] = i

		b, seen := c.bounds[q.SectionID()]
		if !seen {
			b[0] = i
		}
		b[1] = i + 1
		c.bounds[q.SectionID()] = b
	}

	for _, s := range sections {
		if _, ok := c.bounds[s.ID]; !ok {
			return nil, fmt.Errorf("%w: section %q has no questions", ErrInvalidCatalog, s.ID)
		}
	}

	return c, nil
}

// MustNew is New for package-level catalogs known to be valid.
func MustNew(sections []Section, questions []Question) *Catalog {
	c, err := New(sections, questions)
	if err != nil {
		panic(err)
	}
	return c
}

func checkQuestion(q Question) error {
	seen := make(map[string]bool)
	for _, o := range optionsOf(q) {
		if seen[o.ID] {
			return fmt.Errorf("question %q repeats option %q", q.QuestionID(), o.ID)
		}
		seen[o.ID] = true
		if o.Theme != "" && !o.Theme.Valid() {
			return fmt.Errorf("question %q option %q has unknown theme %q", q.QuestionID(), o.ID, o.Theme)
		}
	}

	switch q := q.(type) {
	case *SingleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q has no options", q.ID)
		}
		if q.IsAptitude() {
			if _, ok := FindOption(q, q.CorrectOptionID); !ok {
				return fmt.Errorf("question %q correct option %q is not an option", q.ID, q.CorrectOptionID)
			}
			if q.Aptitude == "" {
				return fmt.Errorf("question %q is missing its aptitude domain", q.ID)
			}
		}
	case *ScenarioChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q has no options", q.ID)
		}
	case *RatingScale:
		if q.Scale.Labels() == nil {
			return fmt.Errorf("question %q has unknown scale %q", q.ID, q.Scale)
		}
		if q.Reverse && q.Trait == "" {
			return fmt.Errorf("question %q is reverse-keyed without a trait", q.ID)
		}
	case *RankedMultiSelect:
		if q.MaxSelections < 1 {
			return fmt.Errorf("question %q has no selection limit", q.ID)
		}
	case *FreeText, *Challenge:
	default:
		return fmt.Errorf("question %q has unsupported type %T", q.QuestionID(), q)
	}
	return nil
}

// Sections returns the sections in order.
func (c *Catalog) Sections() []Section {
	return append([]Section(nil), c.sections...)
}

// Section returns the metadata of one section.
func (c *Catalog) Section(id SectionID) (Section, bool) {
	for _, s := range c.sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Len is the total number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// At returns the question at position i in catalog order.
func (c *Catalog) At(i int) Question { return c.questions[i] }

// Questions returns every question in catalog order.
func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

// Lookup finds a question and its position by id.
func (c *Catalog) Lookup(id string) (Question, int, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, -1, false
	}
	return c.questions[i], i, true
}

// SectionRange returns the half-open index range [start, end) of a section.
func (c *Catalog) SectionRange(id SectionID) (start, end int, ok bool) {
	b, ok := c.bounds[id]
	return b[0], b[1], ok
}

// SectionQuestionIDs returns the ids of a section's questions in order.
func (c *Catalog) SectionQuestionIDs(id SectionID) []string {
	start, end, ok := c.SectionRange(id)
	if !ok {
		return nil
	}
	ids := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		ids = append(ids, c.questions[i].QuestionID())
	}
	return ids
}

// HasSection reports whether id names a catalog section.
func (c *Catalog) HasSection(id SectionID) bool {
	_, ok := c.bounds[id]
	return ok
}
