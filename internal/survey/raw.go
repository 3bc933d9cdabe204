package survey

import (
	"encoding/json"
	"fmt"
)

// RawSurvey is the tolerant intermediate form of a model-produced survey.
// Every field is optional and untyped; presence is tracked separately from
// value so the normalizer can tell "absent" from "present but empty".
type RawSurvey struct {
	Title     Field
	Domain    Field
	Region    Field
	AreaType  Field
	Language  Field
	Questions []RawQuestion
}

// RawQuestion is the tolerant intermediate form of a single question.
type RawQuestion struct {
	ID         Field
	Text       Field
	Type       Field
	Options    Field
	Required   Field
	Validation Field
	Category   Field
	AIClassify Field
}

// Field is an optional untyped JSON value.
type Field struct {
	Value   any
	Present bool
}

// String returns the field as a string and whether it carried a usable
// value. JSON null counts as absent; scalars are formatted.
func (f Field) String() (string, bool) {
	if !f.Present || f.Value == nil {
		return "", false
	}
	switch v := f.Value.(type) {
	case string:
		return v, true
	case float64, bool, json.Number, int, int64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func field(m map[string]any, key string) Field {
	v, ok := m[key]
	return Field{Value: v, Present: ok}
}

// ParseRaw lifts an already-decoded JSON object into a RawSurvey.
// Question entries that are not JSON objects are dropped; a questions value
// that is not a list yields no questions.
func ParseRaw(m map[string]any) RawSurvey {
	raw := RawSurvey{
		Title:    field(m, "title"),
		Domain:   field(m, "domain"),
		Region:   field(m, "region"),
		AreaType: field(m, "area_type"),
		Language: field(m, "language"),
	}

	list, _ := m["questions"].([]any)
	for _, item := range list {
		qm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		raw.Questions = append(raw.Questions, RawQuestion{
			ID:         field(qm, "id"),
			Text:       field(qm, "text"),
			Type:       field(qm, "type"),
			Options:    field(qm, "options"),
			Required:   field(qm, "required"),
			Validation: field(qm, "validation"),
			Category:   field(qm, "category"),
			AIClassify: field(qm, "ai_classify"),
		})
	}
	return raw
}

// ParseRawJSON decodes a JSON document into a RawSurvey.
func ParseRawJSON(data []byte) (RawSurvey, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return RawSurvey{}, fmt.Errorf("decoding survey JSON: %w", err)
	}
	return ParseRaw(m), nil
}
