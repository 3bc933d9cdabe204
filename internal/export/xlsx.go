package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpulseai/Mospi/internal/session"
	"github.com/xuri/excelize/v2"
)

const responsesSheet = "Responses"

// fixedColumns precede one column per answered question id.
var fixedColumns = []string{"response_id", "survey_id", "respondent_id", "completed_at", "duration_sec", "quality_score"}

// Responses writes records to <dir>/<name>_responses.xlsx and returns
// the path. Answer columns are the union of question ids, sorted.
func (e *Exporter) Responses(name string, records []session.Record) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", responsesSheet); err != nil {
		return "", fmt.Errorf("naming sheet: %w", err)
	}

	qids := answerColumns(records)
	header := make([]any, 0, len(fixedColumns)+len(qids))
	for _, c := range fixedColumns {
		header = append(header, c)
	}
	for _, id := range qids {
		header = append(header, id)
	}
	if err := f.SetSheetRow(responsesSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		row := []any{rec.ID, rec.SurveyID, rec.RespondentID, rec.CompletedAt, rec.Duration, rec.QualityScore}
		for _, id := range qids {
			row = append(row, cellValue(rec.Answers[id]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(responsesSheet, cell, &row); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(e.dir, name+"_responses.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}
	return path, nil
}

func answerColumns(records []session.Record) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, rec := range records {
		for id := range rec.Answers {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// cellValue flattens multi-choice answers to "a; b".
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(x, "; ")
	case []any:
		parts := make([]string, len(x))
		for i, p := range x {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, "; ")
	default:
		return x
	}
}
