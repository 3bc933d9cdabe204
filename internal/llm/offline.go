package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dpulseai/Mospi/internal/survey"
)

// Offline drafts surveys from the built-in question bank without calling
// any model. It picks bank categories by keyword from the prompt's
// "Domain:" line (or the whole prompt when that line is absent) and emits
// survey JSON in the same shape a hosted model is asked for.
type Offline struct{}

// NewOffline returns the offline completer.
func NewOffline() *Offline { return &Offline{} }

// offlineRules maps trigger keywords to a bank category; each matching
// category contributes its first two questions.
var offlineRules = []struct {
	keywords []string
	category string
}{
	{[]string{"demographic", "population"}, survey.CategoryDemographic},
	{[]string{"economic", "income"}, survey.CategoryEconomic},
	{[]string{"health"}, survey.CategoryHealth},
}

// Complete implements Completer.
func (o *Offline) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fields := promptFields(prompt)
	subject := fields["domain"]
	if subject == "" {
		subject = prompt
	}

	lqs := SelectBankQuestions(subject)
	questions := make([]survey.Question, 0, len(lqs))
	for _, lq := range lqs {
		// Bank ids are kept: follow-up rules key on them.
		q, err := survey.FromLegacy(lq)
		if err != nil {
			return "", fmt.Errorf("offline: %w", err)
		}
		questions = append(questions, q)
	}

	doc := map[string]any{"questions": questions}
	if d := fields["domain"]; d != "" {
		doc["title"] = d + " Survey"
		doc["domain"] = d
	}
	for key, field := range map[string]string{"region": "region", "area type": "area_type", "language": "language"} {
		if v := fields[key]; v != "" {
			doc[field] = v
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("offline: encoding survey: %w", err)
	}
	return string(data), nil
}

// SelectBankQuestions picks bank questions by keyword. With no keyword
// match, the first question of the demographic, economic and health
// categories is used.
func SelectBankQuestions(text string) []survey.LegacyQuestion {
	bank := survey.QuestionBank()
	lower := strings.ToLower(text)

	var out []survey.LegacyQuestion
	for _, r := range offlineRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				qs := bank[r.category]
				out = append(out, qs[:min(2, len(qs))]...)
				break
			}
		}
	}
	if len(out) == 0 {
		out = []survey.LegacyQuestion{
			bank[survey.CategoryDemographic][0],
			bank[survey.CategoryEconomic][0],
			bank[survey.CategoryHealth][0],
		}
	}
	return out
}

// promptFields reads "Key: value" lines into a map with lower-cased keys.
func promptFields(prompt string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(prompt, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		switch key {
		case "domain", "region", "area type", "language":
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields
}
