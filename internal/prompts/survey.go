// Package prompts builds the model prompt for survey drafting and
// implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"fmt"
	"strings"
)

// surveyInstructions is the design brief sent ahead of every drafting request.
const surveyInstructions = `
You are an expert survey designer for government programs.
Produce a VALID compact JSON object only. No prose, no markdown, no explanations.
Schema:
{
  "title": str,
  "domain": str,              # e.g. Agriculture, Education, Healthcare
  "region": str,              # e.g., state/district/zone
  "area_type": str,           # "Urban" or "Rural"
  "language": str,            # e.g., English
  "questions": [
    {
      "id": str,              # q1, q2, ...
      "text": str,
      "type": str,            # one of: "open-ended", "single-choice", "multiple-choice", "rating"
      "options": [str] | null # required for choice types, null for others
    }
  ]
}

Design rules:
- 6 to 8 questions total.
- Mix open-ended and choice questions; include at least 2 multiple-choice or single-choice with 3-6 options each.
- Keep language simple and culturally neutral for the specified region and area type.
- Avoid political or personally identifiable data.
- Keep all content appropriate for public governance usage.
`

// SurveyRequest names the survey to draft.
type SurveyRequest struct {
	Domain   string
	Region   string
	AreaType string
	Language string
}

// DefaultLanguage is used when a request leaves Language empty.
const DefaultLanguage = "English"

// SurveyPrompt renders the drafting prompt for req. The trailing
// "Key: value" lines carry the request; the offline backend reads them back.
func SurveyPrompt(req SurveyRequest) string {
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	return fmt.Sprintf("%s\nDomain: %s\nRegion: %s\nArea Type: %s\nLanguage: %s\nReturn only JSON.",
		surveyInstructions, req.Domain, req.Region, req.AreaType, lang)
}
