// Package adaptive derives follow-up questions from answers already given.
package adaptive

import "github.com/dpulseai/Mospi/internal/survey"

// Follow-up question ids.
const (
	SavingsID      = "adaptive_1"
	UnemploymentID = "adaptive_2"
)

// Rule triggers one follow-up question.
type Rule struct {
	// Matches maps a question id to the answer value that fires the rule.
	// Any single match is enough.
	Matches  map[string]string
	Question survey.Question
}

// Rules are evaluated in order; each fires at most once.
var Rules = []Rule{
	{
		Matches: map[string]string{"q4": ">1,00,000", "e2": ">100k"},
		Question: survey.Question{
			ID:      SavingsID,
			Text:    "What percentage of income do you save?",
			Type:    survey.TypeSingleChoice,
			Options: []string{"<10%", "10-20%", "20-30%", ">30%"},
		},
	},
	{
		Matches: map[string]string{"q3": "Unemployed", "e1": "Unemployed"},
		Question: survey.Question{
			ID:      UnemploymentID,
			Text:    "How long have you been unemployed?",
			Type:    survey.TypeSingleChoice,
			Options: []string{"<3 months", "3-6 months", "6-12 months", ">1 year"},
		},
	},
}

// Generate returns the follow-up questions triggered by answers.
// It is pure: the same answers always yield the same questions.
func Generate(answers map[string]any) []survey.Question {
	var out []survey.Question
	for _, r := range Rules {
		if r.fires(answers) {
			out = append(out, r.Question.Clone())
		}
	}
	return out
}

func (r Rule) fires(answers map[string]any) bool {
	for id, want := range r.Matches {
		if got, ok := answers[id].(string); ok && got == want {
			return true
		}
	}
	return false
}
