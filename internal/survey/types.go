// Package survey defines the survey document model and the normalizer that
// promotes untrusted, model-produced JSON into a schema-conformant Survey.
//
// The package is split the same way the rest of the codebase is:
//   - types.go: the strict document model and its enums
//   - raw.go: the tolerant intermediate representation
//   - normalize.go: raw → strict promotion with defaulting/repair rules
//   - legacy.go: the manual-builder question taxonomy and its mapping
//   - bank.go, text.go, key.go: question bank, plain-text rendering, file keys
package survey

import (
	"errors"
	"fmt"
	"strings"
)

// --- Question type enum ---

// QuestionType is the canonical question taxonomy used by the pipeline.
type QuestionType string

const (
	TypeOpenEnded      QuestionType = "open-ended"
	TypeSingleChoice   QuestionType = "single-choice"
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeRating         QuestionType = "rating"
)

// validTypes is the set of allowed canonical question types.
var validTypes = map[QuestionType]bool{
	TypeOpenEnded:      true,
	TypeSingleChoice:   true,
	TypeMultipleChoice: true,
	TypeRating:         true,
}

// ValidateType returns an error if the type is not a canonical type.
func ValidateType(t QuestionType) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid question type %q: must be one of: open-ended, single-choice, multiple-choice, rating", t)
	}
	return nil
}

// IsChoice reports whether questions of this type carry a bounded option list.
func (t QuestionType) IsChoice() bool {
	return t == TypeSingleChoice || t == TypeMultipleChoice
}

// --- Area type enum ---

// AreaType classifies the surveyed population.
type AreaType string

const (
	AreaRural AreaType = "Rural"
	AreaUrban AreaType = "Urban"
)

// --- Option bounds ---

const (
	// MinOptions is the smallest option list a choice question may carry.
	MinOptions = 3
	// MaxOptions is the largest option list a choice question may carry.
	MaxOptions = 6
)

// FallbackOptions is the canonical option pool used to repair choice
// questions with missing or short option lists.
var FallbackOptions = []string{"Yes", "No", "Not sure"}

// --- Core data structures ---

// Validation is an inclusive numeric range for an answer.
type Validation struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (v Validation) Contains(x float64) bool {
	return x >= v.Min && x <= v.Max
}

// Question is a single survey question.
//
// Options is serialized as null for non-choice types; it is never omitted,
// so persisted documents always carry the key.
type Question struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Options    []string     `json:"options"`
	Required   bool         `json:"required"`
	Validation *Validation  `json:"validation,omitempty"`
	Category   string       `json:"category,omitempty"`
	AIClassify bool         `json:"ai_classify,omitempty"`
}

// Survey is the normalized survey document.
type Survey struct {
	Title     string     `json:"title"`
	Domain    string     `json:"domain"`
	Region    string     `json:"region"`
	AreaType  AreaType   `json:"area_type"`
	Language  string     `json:"language"`
	Questions []Question `json:"questions"`
}

// ErrDuplicateID is returned by CheckIDs when two questions share an id.
var ErrDuplicateID = errors.New("duplicate question id")

// CheckIDs reports questions whose id was already used by an earlier
// question. Answers are keyed by question id, so a survey with duplicates
// cannot be answered without losing data.
func (s *Survey) CheckIDs() error {
	seen := make(map[string]bool, len(s.Questions))
	var dups []string
	for _, q := range s.Questions {
		if seen[q.ID] {
			dups = append(dups, q.ID)
			continue
		}
		seen[q.ID] = true
	}
	if len(dups) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, strings.Join(dups, ", "))
	}
	return nil
}

// Clone returns a deep copy of the survey so callers can hand out the
// document without sharing mutable slices.
func (s *Survey) Clone() *Survey {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	return &out
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.Validation != nil {
		v := *q.Validation
		out.Validation = &v
	}
	return out
}
