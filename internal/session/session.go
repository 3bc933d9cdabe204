// Package session drives a single respondent through a survey.
//
// A Session is a small state machine with two states: awaiting an answer at
// index i, and completed. Submit records an answer and advances; Back steps
// to the previous question keeping every answer. When the last base
// question of an adaptive survey is answered, follow-up questions are
// evaluated once and appended. Completion produces a Record with a quality
// score.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dpulseai/Mospi/internal/adaptive"
	"github.com/dpulseai/Mospi/internal/classify"
	"github.com/dpulseai/Mospi/internal/quality"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/google/uuid"
)

var (
	// ErrRequiredFieldMissing is returned when a required question gets no answer.
	ErrRequiredFieldMissing = errors.New("required field missing")
	// ErrAtFirstQuestion is returned by Back on the first question.
	ErrAtFirstQuestion = errors.New("already at the first question")
	// ErrSessionCompleted is returned by any mutation after completion.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrOutOfRange is returned when a bounded numeric answer is invalid.
	ErrOutOfRange = errors.New("answer out of range")
	// ErrNoQuestions is returned when starting a session on an empty survey.
	ErrNoQuestions = errors.New("survey has no questions")
)

// Options configure a new session.
type Options struct {
	// Adaptive enables follow-up questions after the last base question.
	Adaptive     bool
	RespondentID string
}

// Session is one respondent's pass through a survey. The survey itself is
// shared and never modified; the session owns its answers and the list of
// appended follow-up questions.
type Session struct {
	mu sync.Mutex

	id           string
	surveyID     string
	respondentID string
	title        string
	adaptive     bool

	questions         []survey.Question
	baseCount         int
	index             int
	answers           map[string]any
	started           time.Time
	adaptiveEvaluated bool

	record         *Record
	classification *classify.Result
}

// New starts a session at the first question of s.
func New(surveyID string, s *survey.Survey, opts Options) (*Session, error) {
	if s == nil || len(s.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if err := s.CheckIDs(); err != nil {
		return nil, err
	}
	questions := make([]survey.Question, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = q.Clone()
	}
	respondent := opts.RespondentID
	if respondent == "" {
		respondent = "anonymous"
	}
	return &Session{
		id:           uuid.NewString(),
		surveyID:     surveyID,
		respondentID: respondent,
		title:        s.Title,
		adaptive:     opts.Adaptive,
		questions:    questions,
		baseCount:    len(questions),
		answers:      make(map[string]any),
		started:      timeNow(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SurveyID returns the identifier of the survey being answered.
func (s *Session) SurveyID() string { return s.surveyID }

// Submit records an answer to the current question.
//
// A nil answer and quality.Skipped are "absent": they fail on required
// questions and are stored as given otherwise. The empty string is a present answer. On the last
// question the session completes and the Record is returned; otherwise the
// returned Record is nil.
func (s *Session) Submit(answer any) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record != nil {
		return nil, ErrSessionCompleted
	}

	q := s.questions[s.index]
	if q.Required && (answer == nil || answer == quality.Skipped) {
		return nil, fmt.Errorf("question %q: %w", q.ID, ErrRequiredFieldMissing)
	}
	if err := checkRange(q, answer); err != nil {
		return nil, err
	}

	s.answers[q.ID] = answer

	if q.AIClassify {
		if text, ok := answer.(string); ok && strings.TrimSpace(text) != "" {
			r := classify.Occupation(text)
			s.classification = &r
		}
	}

	if s.index == s.baseCount-1 && s.adaptive && !s.adaptiveEvaluated {
		s.adaptiveEvaluated = true
		s.questions = append(s.questions, adaptive.Generate(s.answers)...)
	}

	if s.index == len(s.questions)-1 {
		s.complete()
		return s.record, nil
	}
	s.index++
	return nil, nil
}

// Back moves to the previous question. Answers are kept.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record != nil {
		return ErrSessionCompleted
	}
	if s.index == 0 {
		return ErrAtFirstQuestion
	}
	s.index--
	return nil
}

func (s *Session) complete() {
	now := timeNow()
	duration := now.Sub(s.started)
	answers := make(map[string]any, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	s.record = &Record{
		ID:           uuid.NewString(),
		SurveyID:     s.surveyID,
		RespondentID: s.respondentID,
		Answers:      answers,
		Duration:     duration.Seconds(),
		QualityScore: quality.Score(answers, duration),
		CompletedAt:  now.UTC().Format(time.RFC3339),
	}
}

// checkRange enforces a question's numeric bounds. Nil and skipped answers
// pass; required-ness is checked separately.
func checkRange(q survey.Question, answer any) error {
	if q.Validation == nil || answer == nil {
		return nil
	}
	if str, ok := answer.(string); ok && str == quality.Skipped {
		return nil
	}
	n, ok := number(answer)
	if !ok {
		return fmt.Errorf("question %q: %w: %v is not a number", q.ID, ErrOutOfRange, answer)
	}
	if !q.Validation.Contains(n) {
		return fmt.Errorf("question %q: %w: %v not in [%g, %g]", q.ID, ErrOutOfRange, answer, q.Validation.Min, q.Validation.Max)
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// --- Read accessors ---

// Status is a point-in-time view of a session.
type Status struct {
	ID             string           `json:"id"`
	SurveyID       string           `json:"survey_id"`
	Title          string           `json:"title"`
	Index          int              `json:"index"`
	Total          int              `json:"total"`
	Completed      bool             `json:"completed"`
	Current        *survey.Question `json:"current,omitempty"`
	Answers        map[string]any   `json:"answers"`
	Classification *classify.Result `json:"classification,omitempty"`
	Record         *Record          `json:"record,omitempty"`
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:        s.id,
		SurveyID:  s.surveyID,
		Title:     s.title,
		Index:     s.index,
		Total:     len(s.questions),
		Completed: s.record != nil,
		Answers:   make(map[string]any, len(s.answers)),
		Record:    s.record,
	}
	for k, v := range s.answers {
		st.Answers[k] = v
	}
	if s.record == nil {
		q := s.questions[s.index].Clone()
		st.Current = &q
	}
	if s.classification != nil {
		c := *s.classification
		st.Classification = &c
	}
	return st
}

// Current returns the question awaiting an answer. ok is false once the
// session has completed.
func (s *Session) Current() (survey.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record != nil {
		return survey.Question{}, false
	}
	return s.questions[s.index].Clone(), true
}

// Completed reports whether the session has finished.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record != nil
}

// LastClassification returns the most recent occupation classification.
func (s *Session) LastClassification() (classify.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classification == nil {
		return classify.Result{}, false
	}
	return *s.classification, true
}
