package catalog

// QuestionView is the client-facing form of a question. It never carries the
// correct option of aptitude items or the reverse-keying of ratings.
type QuestionView struct {
	ID                    string    `json:"id"`
	Section               SectionID `json:"section_id"`
	Kind                  Kind      `json:"input_kind"`
	Text                  string    `json:"text"`
	Options               []Option  `json:"options,omitempty"`
	Scale                 ScaleType `json:"scale_type,omitempty"`
	ScaleLabels           []string  `json:"scale_labels,omitempty"`
	MaxSelections         int       `json:"max_selections,omitempty"`
	DependsOnPriorRatings bool      `json:"depends_on_prior_ratings,omitempty"`
	FollowUp              string    `json:"follow_up,omitempty"`
	Placeholder           string    `json:"placeholder,omitempty"`
	MaxLength             int       `json:"max_length,omitempty"`
}

// SectionView groups a section's questions for the client.
type SectionView struct {
	Section
	Questions []QuestionView `json:"questions"`
}

// ViewOf builds the client-facing view of a question.
func ViewOf(q Question) QuestionView {
	v := QuestionView{
		ID:      q.QuestionID(),
		Section: q.SectionID(),
		Kind:    q.Kind(),
		Text:    q.Prompt(),
	}

	switch q := q.(type) {
	case *SingleChoice:
		v.Options = stripTags(q.Options)
	case *ScenarioChoice:
		v.Options = stripTags(q.Options)
	case *RatingScale:
		v.Scale = q.Scale
		v.ScaleLabels = q.Scale.Labels()
	case *RankedMultiSelect:
		v.Options = stripTags(q.Options)
		v.MaxSelections = q.MaxSelections
		v.DependsOnPriorRatings = q.DependsOnPriorRatings
	case *FreeText:
		v.Placeholder = q.Placeholder
		v.MaxLength = q.MaxLength
	case *Challenge:
		v.FollowUp = q.FollowUp
		v.MaxLength = q.MaxLength
	}
	return v
}

// stripTags drops theme and learning-style tags.
func stripTags(opts []Option) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = Option{ID: o.ID, Text: o.Text}
	}
	return out
}

// View returns the whole catalog grouped by section.
func (c *Catalog) View() []SectionView {
	out := make([]SectionView, 0, len(c.sections))
	for _, s := range c.sections {
		start, end, _ := c.SectionRange(s.ID)
		qs := make([]QuestionView, 0, end-start)
		for i := start; i < end; i++ {
			qs = append(qs, ViewOf(c.questions[i]))
		}
		out = append(out, SectionView{Section: s, Questions: qs})
	}
	return out
}
