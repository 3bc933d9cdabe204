// Package classify maps free-text occupation answers onto National
// Classification of Occupations (NCO) codes.
package classify

import (
	"strings"
	"unicode"
)

// Result is the outcome of classifying one answer.
type Result struct {
	Category   string  `json:"category"`
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

const (
	// MatchConfidence is reported for any keyword hit.
	MatchConfidence = 0.85
	// OtherConfidence is reported when no keyword matches.
	OtherConfidence = 0.5
)

// Other is returned when no keyword matches.
var Other = Result{Category: "Other", Code: "9999", Confidence: OtherConfidence}

// Entry is a single keyword → NCO code mapping.
type Entry struct {
	Keyword string
	Code    string
}

// Table is the ordered keyword table; the first containing keyword wins.
var Table = []Entry{
	{"doctor", "2211"},
	{"engineer", "2141"},
	{"teacher", "2330"},
	{"farmer", "6111"},
	{"driver", "8321"},
	{"manager", "1120"},
	{"clerk", "4110"},
	{"salesperson", "5221"},
	{"nurse", "2221"},
	{"software", "2512"},
	{"developer", "2512"},
	{"programmer", "2512"},
}

// Occupation classifies text by case-insensitive substring match against
// Table. It is pure and never fails.
func Occupation(text string) Result {
	lower := strings.ToLower(text)
	for _, e := range Table {
		if strings.Contains(lower, e.Keyword) {
			return Result{Category: titleCase(e.Keyword), Code: e.Code, Confidence: MatchConfidence}
		}
	}
	return Other
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
