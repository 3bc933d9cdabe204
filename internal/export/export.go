// Package export writes surveys and collected responses to files in the
// output directory.
//
// Survey exports (CSV, HTML, PDF) are built from the plain-text rendering
// so every format shows the same lines. Responses export to XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpulseai/Mospi/internal/survey"
)

// Format names an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// SurveyFormats lists the formats a survey can be exported to.
var SurveyFormats = []Format{FormatCSV, FormatHTML, FormatPDF}

// ErrUnsupportedFormat is returned for a format the exporter does not write.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter writes files under a fixed directory.
type Exporter struct {
	dir string
}

// New returns an Exporter writing into dir.
func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string { return e.dir }

// Survey exports s in the given format and returns the written path.
// The file is named after the survey key.
func (e *Exporter) Survey(s *survey.Survey, format Format) (string, error) {
	var write func(string, *survey.Survey) error
	switch format {
	case FormatCSV:
		write = writeCSV
	case FormatHTML:
		write = writeHTML
	case FormatPDF:
		write = writePDF
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(e.dir, survey.Key(s.Title)+"."+string(format))
	if err := write(path, s); err != nil {
		return "", fmt.Errorf("exporting %s: %w", format, err)
	}
	return path, nil
}

// lines returns the non-empty lines of the survey's text rendering.
func lines(s *survey.Survey) []string {
	var out []string
	for _, l := range strings.Split(survey.Text(s), "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func writeCSV(path string, s *survey.Survey) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"question"}); err != nil {
		return err
	}
	for _, l := range lines(s) {
		if err := w.Write([]string{l}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeHTML(path string, s *survey.Survey) error {
	ls := lines(s)
	for i, l := range ls {
		ls[i] = html.EscapeString(l)
	}
	doc := "<html><body><h1>Survey</h1><p>" + strings.Join(ls, "<br>") + "</p></body></html>"
	return os.WriteFile(path, []byte(doc), 0o644)
}
