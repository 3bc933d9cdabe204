package survey

import (
	"strings"
	"unicode"
)

// DefaultKey is used when a title has no usable characters.
const DefaultKey = "survey"

// Key derives a filesystem-safe storage key from a survey title.
//
// Only letters, digits, '-', '_' and spaces survive. The result is trimmed
// and spaces become underscores. An empty result yields DefaultKey.
func Key(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == ' ' {
			b.WriteRune(r)
		}
	}
	key := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if key == "" {
		return DefaultKey
	}
	return key
}
