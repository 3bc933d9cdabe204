package survey

import (
	"errors"
	"fmt"
)

// LegacyType is the question taxonomy used by the manual survey builder and
// the built-in question bank. It is kept separate from QuestionType; the
// two only meet through FromLegacy and ToLegacy.
type LegacyType string

const (
	LegacyText        LegacyType = "text"
	LegacyNumber      LegacyType = "number"
	LegacySelect      LegacyType = "select"
	LegacyMultiselect LegacyType = "multiselect"
)

// ErrUnknownLegacyType is returned when a legacy question carries a type
// outside the legacy taxonomy.
var ErrUnknownLegacyType = errors.New("unknown legacy question type")

// The builder's "number" has no canonical twin. Rating is the only numeric
// canonical type, so numbers become ratings and keep their Validation range;
// a rating is not limited to a 1-5 scale.
var legacyToCanonical = map[LegacyType]QuestionType{
	LegacyText:        TypeOpenEnded,
	LegacyNumber:      TypeRating,
	LegacySelect:      TypeSingleChoice,
	LegacyMultiselect: TypeMultipleChoice,
}

var canonicalToLegacy = map[QuestionType]LegacyType{
	TypeOpenEnded:      LegacyText,
	TypeRating:         LegacyNumber,
	TypeSingleChoice:   LegacySelect,
	TypeMultipleChoice: LegacyMultiselect,
}

// LegacyQuestion is a question in the manual-builder taxonomy.
type LegacyQuestion struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	Type       LegacyType  `json:"type"`
	Options    []string    `json:"options,omitempty"`
	Required   bool        `json:"required"`
	Validation *Validation `json:"validation,omitempty"`
	Category   string      `json:"category,omitempty"`
	AIClassify bool        `json:"ai_classify,omitempty"`
}

// FromLegacy converts a legacy question into the canonical taxonomy.
// The result is not normalized; option bounds are applied by Normalize.
func FromLegacy(lq LegacyQuestion) (Question, error) {
	t, ok := legacyToCanonical[lq.Type]
	if !ok {
		return Question{}, fmt.Errorf("question %q: %w: %q", lq.ID, ErrUnknownLegacyType, lq.Type)
	}
	q := Question{
		ID:         lq.ID,
		Text:       lq.Text,
		Type:       t,
		Required:   lq.Required,
		Category:   lq.Category,
		AIClassify: lq.AIClassify,
	}
	if t.IsChoice() {
		q.Options = append([]string(nil), lq.Options...)
	}
	if lq.Validation != nil {
		v := *lq.Validation
		q.Validation = &v
	}
	return q, nil
}

// ToLegacy converts a canonical question into the legacy taxonomy.
func ToLegacy(q Question) (LegacyQuestion, error) {
	t, ok := canonicalToLegacy[q.Type]
	if !ok {
		return LegacyQuestion{}, fmt.Errorf("question %q: %w", q.ID, ValidateType(q.Type))
	}
	lq := LegacyQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Type:       t,
		Required:   q.Required,
		Category:   q.Category,
		AIClassify: q.AIClassify,
	}
	if q.Options != nil {
		lq.Options = append([]string(nil), q.Options...)
	}
	if q.Validation != nil {
		v := *q.Validation
		lq.Validation = &v
	}
	return lq, nil
}

// LegacySurvey is a survey assembled with the manual builder.
type LegacySurvey struct {
	Title     string           `json:"title"`
	Domain    string           `json:"domain,omitempty"`
	Region    string           `json:"region,omitempty"`
	AreaType  string           `json:"area_type,omitempty"`
	Language  string           `json:"language,omitempty"`
	Questions []LegacyQuestion `json:"questions"`
}

// FromLegacySurvey converts every question and normalizes the result.
// Any unknown legacy type fails the whole conversion.
func FromLegacySurvey(ls LegacySurvey) (*Survey, error) {
	qs := make([]Question, 0, len(ls.Questions))
	for _, lq := range ls.Questions {
		q, err := FromLegacy(lq)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	s := &Survey{
		Title:     ls.Title,
		Domain:    ls.Domain,
		Region:    ls.Region,
		AreaType:  AreaType(ls.AreaType),
		Language:  ls.Language,
		Questions: qs,
	}
	if ls.Domain == "" {
		s.Domain = DefaultDomain
	}
	if ls.Region == "" {
		s.Region = DefaultRegion
	}
	if ls.Language == "" {
		s.Language = DefaultLanguage
	}
	if ls.Title == "" {
		s.Title = DefaultTitle
	}
	return Renormalize(s)
}
