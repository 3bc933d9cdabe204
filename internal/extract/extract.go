// Package extract pulls a single JSON object out of free-form model output.
//
// Models routinely wrap JSON in prose or code fences and leave trailing
// commas behind. Object tolerates both; anything it cannot parse is reported
// with the raw candidate text attached so callers can log or display it.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSONFound is returned when the text contains no object candidate.
var ErrNoJSONFound = errors.New("no JSON object found in model output")

// ErrMalformedJSON is the sentinel wrapped by every MalformedJSONError.
var ErrMalformedJSON = errors.New("malformed JSON in model output")

// MalformedJSONError reports a candidate that failed to parse.
type MalformedJSONError struct {
	Raw string
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedJSON, e.Err)
}

// Unwrap exposes both the sentinel and the underlying decode error.
func (e *MalformedJSONError) Unwrap() []error {
	return []error{ErrMalformedJSON, e.Err}
}

var (
	fencedBlock   = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// Object extracts the outermost JSON object from text.
//
// The candidate spans the first '{' to the last '}'. When no such span
// exists the first ```json fenced block is searched instead. Trailing
// commas before '}' or ']' are removed before decoding.
func Object(text string) (map[string]any, error) {
	candidate, ok := span(text)
	if !ok {
		m := fencedBlock.FindStringSubmatch(text)
		if m == nil {
			return nil, ErrNoJSONFound
		}
		if candidate, ok = span(m[1]); !ok {
			return nil, ErrNoJSONFound
		}
	}

	candidate = trailingComma.ReplaceAllString(candidate, "$1")

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, &MalformedJSONError{Raw: candidate, Err: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedJSONError{Raw: candidate, Err: fmt.Errorf("top-level value is %T, not an object", v)}
	}
	return obj, nil
}

// span returns the text from the first '{' to the last '}' inclusive.
func span(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
