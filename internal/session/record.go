package session

// Record is the immutable result of a completed session.
type Record struct {
	ID           string         `json:"id"`
	SurveyID     string         `json:"survey_id"`
	RespondentID string         `json:"respondent_id"`
	Answers      map[string]any `json:"answers"`
	// Duration is the elapsed time from start to completion, in seconds.
	Duration     float64 `json:"duration"`
	QualityScore float64 `json:"quality_score"`
	CompletedAt  string  `json:"completed_at"`
}
