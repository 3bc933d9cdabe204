// Package quality scores completed responses.
package quality

import "time"

// Skipped marks a deliberately skipped answer.
const Skipped = "SKIPPED"

const (
	completenessWeight = 0.7
	timeWeight         = 0.3

	minPlausible = 10 * time.Second
	maxPlausible = 300 * time.Second
)

// Score rates a response in [0, 1] from how many answers are filled and how
// long the respondent took.
func Score(answers map[string]any, duration time.Duration) float64 {
	return completenessWeight*Completeness(answers) + timeWeight*TimeScore(duration)
}

// Completeness is the share of filled answers; 0 when there are none.
func Completeness(answers map[string]any) float64 {
	if len(answers) == 0 {
		return 0
	}
	filled := 0
	for _, v := range answers {
		if Filled(v) {
			filled++
		}
	}
	return float64(filled) / float64(len(answers))
}

// TimeScore penalizes implausibly fast and slow completions.
func TimeScore(d time.Duration) float64 {
	switch {
	case d < minPlausible:
		return 0.5
	case d <= maxPlausible:
		return 1.0
	default:
		return 0.7
	}
}

// Filled reports whether an answer counts toward completeness. Nil, the
// empty string, Skipped and empty lists do not. Strings are compared as
// given, so whitespace is a filled answer.
func Filled(v any) bool {
	switch a := v.(type) {
	case nil:
		return false
	case string:
		return a != "" && a != Skipped
	case []string:
		return len(a) > 0
	case []any:
		return len(a) > 0
	default:
		return true
	}
}
