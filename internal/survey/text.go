package survey

import (
	"fmt"
	"strings"
)

// Text renders a survey as plain text: a header line with the title and the
// non-empty metadata, then numbered questions with indented options.
func Text(s *Survey) string {
	var b strings.Builder

	var meta []string
	for _, v := range []string{s.Domain, s.Region, string(s.AreaType)} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	title := s.Title
	if title == "" {
		title = DefaultTitle
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "%s (%s)\n", title, strings.Join(meta, ", "))
	} else {
		fmt.Fprintf(&b, "%s\n", title)
	}
	b.WriteString("\n")

	for i, q := range s.Questions {
		fmt.Fprintf(&b, "Q%d. %s [%s]\n", i+1, strings.TrimSpace(q.Text), q.Type)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "  %d. %s\n", j+1, opt)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
