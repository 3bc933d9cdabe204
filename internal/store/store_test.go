package store_test

import (
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dpulseai/Mospi/internal/session"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/dpulseai/Mospi/internal/survey"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T, seed bool) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir(), SeedDemo: seed})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSurvey(title string) *survey.Survey {
	return &survey.Survey{
		Title:    title,
		Domain:   "Health",
		Region:   "Kerala",
		AreaType: survey.AreaUrban,
		Language: "English",
		Questions: []survey.Question{
			{ID: "q1", Text: "Insured?", Type: survey.TypeSingleChoice, Options: []string{"Yes", "No", "Not sure"}, Required: true},
			{ID: "q2", Text: "Comments", Type: survey.TypeOpenEnded},
		},
	}
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_SeedsDemoSurvey(t *testing.T) {
	s := newTestStore(t, true)

	got, err := s.GetSurvey(survey.DemoSurveyID)
	if err != nil {
		t.Fatalf("GetSurvey(demo): %v", err)
	}
	if !got.Adaptive {
		t.Error("demo survey should be adaptive")
	}
	if got.Survey.Title != "Household Demographic Survey" {
		t.Errorf("Title = %q", got.Survey.Title)
	}
}

func TestNew_SeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		s, err := store.New(store.Config{DataDir: dir, SeedDemo: true})
		if err != nil {
			t.Fatalf("New #%d: %v", i, err)
		}
		list, err := s.ListSurveys()
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Errorf("open #%d: %d surveys, want 1", i, len(list))
		}
		s.Close()
	}
}

func TestNew_OpenError(t *testing.T) {
	restore := store.SetOpenDB(func(string, string) (*sql.DB, error) {
		return nil, errors.New("boom")
	})
	defer restore()

	if _, err := store.New(store.Config{DataDir: t.TempDir()}); err == nil {
		t.Fatal("expected error when database cannot be opened")
	}
}

// ─── Surveys ────────────────────────────────────────────────────────────────

func TestAddGetSurvey(t *testing.T) {
	s := newTestStore(t, false)

	id, err := s.AddSurvey(store.AddSurveyParams{Survey: sampleSurvey("Health"), AIGenerated: true})
	if err != nil {
		t.Fatalf("AddSurvey: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := s.GetSurvey(id)
	if err != nil {
		t.Fatalf("GetSurvey: %v", err)
	}
	if !got.AIGenerated || got.Adaptive {
		t.Errorf("flags = ai:%v adaptive:%v", got.AIGenerated, got.Adaptive)
	}
	if len(got.Survey.Questions) != 2 || got.Survey.Questions[1].Options != nil {
		t.Errorf("questions round trip mismatch: %+v", got.Survey.Questions)
	}
	if got.Survey.AreaType != survey.AreaUrban {
		t.Errorf("AreaType = %q", got.Survey.AreaType)
	}
}

func TestAddSurvey_ExplicitIDConflict(t *testing.T) {
	s := newTestStore(t, false)
	p := store.AddSurveyParams{ID: "fixed", Survey: sampleSurvey("A")}
	if _, err := s.AddSurvey(p); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSurvey(p); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestAddSurvey_NilSurvey(t *testing.T) {
	s := newTestStore(t, false)
	if _, err := s.AddSurvey(store.AddSurveyParams{}); err == nil {
		t.Error("expected error for nil survey")
	}
}

func TestGetSurvey_NotFound(t *testing.T) {
	s := newTestStore(t, false)
	if _, err := s.GetSurvey("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListSurveys_NewestFirstWithCounts(t *testing.T) {
	s := newTestStore(t, false)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	defer store.SetTimeNow(func() time.Time { return clock })()

	old, _ := s.AddSurvey(store.AddSurveyParams{Survey: sampleSurvey("Old")})
	clock = base.Add(time.Hour)
	newer, _ := s.AddSurvey(store.AddSurveyParams{Survey: sampleSurvey("New")})

	if err := s.AddResponse(&session.Record{ID: "r1", SurveyID: old, RespondentID: "x", Answers: map[string]any{}, CompletedAt: "2026-03-01T10:00:00Z"}); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListSurveys()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != newer || list[1].ID != old {
		t.Errorf("order = %s, %s; want newest first", list[0].ID, list[1].ID)
	}
	if list[1].ResponseCount != 1 || list[0].ResponseCount != 0 {
		t.Errorf("response counts = %d/%d", list[0].ResponseCount, list[1].ResponseCount)
	}
	if list[0].QuestionCount != 2 {
		t.Errorf("QuestionCount = %d, want 2", list[0].QuestionCount)
	}
}

func TestDeleteSurvey_CascadesResponses(t *testing.T) {
	s := newTestStore(t, false)
	id, _ := s.AddSurvey(store.AddSurveyParams{Survey: sampleSurvey("Gone")})
	_ = s.AddResponse(&session.Record{ID: "r1", SurveyID: id, RespondentID: "x", Answers: map[string]any{}, CompletedAt: "t"})

	if err := s.DeleteSurvey(id); err != nil {
		t.Fatalf("DeleteSurvey: %v", err)
	}
	if _, err := s.GetSurvey(id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetSurvey after delete: %v", err)
	}
	recs, err := s.Responses(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("responses = %d, want 0 after cascade", len(recs))
	}
	if err := s.DeleteSurvey(id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

// ─── Responses ──────────────────────────────────────────────────────────────

func TestResponses_RoundTrip(t *testing.T) {
	s := newTestStore(t, true)
	rec := &session.Record{
		ID:           "r1",
		SurveyID:     survey.DemoSurveyID,
		RespondentID: "anon",
		Answers:      map[string]any{"q1": 30.0, "q2": "Female", "q5": nil},
		Duration:     42.5,
		QualityScore: 0.86,
		CompletedAt:  "2026-03-01T10:00:00Z",
	}
	if err := s.AddResponse(rec); err != nil {
		t.Fatalf("AddResponse: %v", err)
	}
	got, err := s.Responses(survey.DemoSurveyID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Answers["q1"] != 30.0 || got[0].Answers["q2"] != "Female" {
		t.Errorf("answers = %v", got[0].Answers)
	}
	if v, ok := got[0].Answers["q5"]; !ok || v != nil {
		t.Errorf("q5 = %v (present=%v), want stored null", v, ok)
	}
	if got[0].Duration != 42.5 {
		t.Errorf("Duration = %v", got[0].Duration)
	}
}

func TestAddResponse_UnknownSurvey(t *testing.T) {
	s := newTestStore(t, false)
	err := s.AddResponse(&session.Record{ID: "r", SurveyID: "nope", Answers: map[string]any{}, CompletedAt: "t"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResponseStats(t *testing.T) {
	s := newTestStore(t, true)
	other, _ := s.AddSurvey(store.AddSurveyParams{Survey: sampleSurvey("Other")})

	add := func(id, surveyID string, q, d float64) {
		t.Helper()
		if err := s.AddResponse(&session.Record{ID: id, SurveyID: surveyID, RespondentID: "x", Answers: map[string]any{}, Duration: d, QualityScore: q, CompletedAt: "t"}); err != nil {
			t.Fatal(err)
		}
	}
	add("a", survey.DemoSurveyID, 1.0, 60)
	add("b", survey.DemoSurveyID, 0.6, 20)
	add("c", other, 0.3, 5)

	st, err := s.ResponseStats(survey.DemoSurveyID)
	if err != nil {
		t.Fatal(err)
	}
	if st.Responses != 2 {
		t.Errorf("Responses = %d, want 2", st.Responses)
	}
	if math.Abs(st.AvgQuality-0.8) > 1e-9 {
		t.Errorf("AvgQuality = %v, want 0.8", st.AvgQuality)
	}
	if st.AvgDuration != 40 {
		t.Errorf("AvgDuration = %v, want 40", st.AvgDuration)
	}
	if st.HighQualityRate != 0.5 {
		t.Errorf("HighQualityRate = %v, want 0.5", st.HighQualityRate)
	}

	all, err := s.ResponseStats("")
	if err != nil {
		t.Fatal(err)
	}
	if all.Responses != 3 {
		t.Errorf("all Responses = %d, want 3", all.Responses)
	}

	empty, err := s.ResponseStats("missing")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Responses != 0 || empty.AvgQuality != 0 || empty.HighQualityRate != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}
