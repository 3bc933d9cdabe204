package survey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Defaults applied when the model omits survey-level metadata.
const (
	DefaultTitle    = "Survey"
	DefaultDomain   = "General"
	DefaultRegion   = "Unknown"
	DefaultLanguage = "English"
)

// PlaceholderText is the text of the question added to a survey that has
// none after repair.
const PlaceholderText = "Please share any comments about this topic."

// Normalize promotes a raw survey into a schema-conformant Survey.
//
// It never fails: missing or invalid values are defaulted or repaired.
// Questions keep their order and are never deduplicated. A survey left
// without questions gets a single optional open-ended placeholder, so the
// result always has at least one question. The input is not
// modified. Normalize is idempotent: normalizing the JSON form of its output
// yields an identical survey.
func Normalize(raw RawSurvey) *Survey {
	s := &Survey{
		Domain:   stringOr(raw.Domain, DefaultDomain),
		Region:   stringOr(raw.Region, DefaultRegion),
		Language: stringOr(raw.Language, DefaultLanguage),
		AreaType: NormalizeAreaType(raw.AreaType),
	}

	// Title falls back to the domain as the model wrote it, before defaulting.
	if title, ok := raw.Title.String(); ok {
		s.Title = title
	} else {
		s.Title = stringOr(raw.Domain, DefaultTitle)
	}

	s.Questions = make([]Question, 0, len(raw.Questions))
	for i, rq := range raw.Questions {
		s.Questions = append(s.Questions, normalizeQuestion(rq, i+1))
	}
	if len(s.Questions) == 0 {
		s.Questions = append(s.Questions, Placeholder())
	}
	return s
}

// Placeholder returns the question used when a survey has none.
func Placeholder() Question {
	return Question{ID: "q1", Text: PlaceholderText, Type: TypeOpenEnded}
}

// NormalizeMap decodes an untyped JSON object and normalizes it.
func NormalizeMap(m map[string]any) *Survey {
	return Normalize(ParseRaw(m))
}

// Renormalize runs an already typed survey through the normalizer, used
// when a survey arrives from a caller instead of from the model.
func Renormalize(s *Survey) (*Survey, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding survey: %w", err)
	}
	raw, err := ParseRawJSON(data)
	if err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}

// NormalizeAreaType maps free-form area text onto the canonical enum.
// A case-insensitive "rur" prefix is Rural, "urb" is Urban, anything
// else (including absence) is Rural.
func NormalizeAreaType(f Field) AreaType {
	v, _ := f.String()
	v = strings.ToLower(strings.TrimSpace(v))
	if strings.HasPrefix(v, "urb") {
		return AreaUrban
	}
	return AreaRural
}

func normalizeQuestion(rq RawQuestion, pos int) Question {
	q := Question{
		ID:       stringOr(rq.ID, fmt.Sprintf("q%d", pos)),
		Text:     stringOr(rq.Text, ""),
		Type:     TypeOpenEnded,
		Category: stringOr(rq.Category, ""),
	}

	if t, ok := rq.Type.String(); ok && validTypes[QuestionType(t)] {
		q.Type = QuestionType(t)
	}
	if b, ok := rq.Required.Value.(bool); ok {
		q.Required = b
	}
	if b, ok := rq.AIClassify.Value.(bool); ok {
		q.AIClassify = b
	}
	q.Validation = parseValidation(rq.Validation)

	if q.Type.IsChoice() {
		q.Options = repairOptions(rq.Options)
	}
	return q
}

// repairOptions enforces the 3–6 option bound on choice questions.
func repairOptions(f Field) []string {
	list, ok := f.Value.([]any)
	if !ok {
		if f.Value != nil {
			return append([]string(nil), FallbackOptions...)
		}
		list = nil
	}

	opts := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			opts = append(opts, v)
		case nil:
			opts = append(opts, "")
		default:
			opts = append(opts, fmt.Sprint(v))
		}
	}

	if len(opts) < MinOptions {
		for _, fb := range FallbackOptions {
			if len(opts) >= MinOptions {
				break
			}
			if !contains(opts, fb) {
				opts = append(opts, fb)
			}
		}
	}
	if len(opts) > MaxOptions {
		opts = opts[:MaxOptions]
	}
	return opts
}

func parseValidation(f Field) *Validation {
	m, ok := f.Value.(map[string]any)
	if !ok {
		return nil
	}
	lo, okLo := m["min"].(float64)
	hi, okHi := m["max"].(float64)
	if !okLo || !okHi {
		return nil
	}
	return &Validation{Min: lo, Max: hi}
}

func stringOr(f Field, def string) string {
	if v, ok := f.String(); ok {
		return v
	}
	return def
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
