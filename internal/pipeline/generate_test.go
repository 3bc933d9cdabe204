package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dpulseai/Mospi/internal/extract"
	"github.com/dpulseai/Mospi/internal/llm"
	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func reply(text string) llm.Completer {
	return llm.CompleterFunc(func(context.Context, string) (string, error) { return text, nil })
}

func TestGenerate_FencedReplyWithDefaults(t *testing.T) {
	var prompt string
	c := llm.CompleterFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "Sure! Here it is:\n```json\n" +
			`{"title":"Farm Survey","questions":[{"text":"Crops grown?","type":"multiple-choice","options":["Rice","Wheat"],},]}` +
			"\n```", nil
	})

	m := metrics.New()
	s, err := NewGenerator(c, m, nil).Generate(context.Background(), Request{
		Domain: "Agriculture", Region: "Punjab", AreaType: "urban",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(prompt, "Domain: Agriculture\n") {
		t.Error("prompt should carry the requested domain")
	}
	if s.Title != "Farm Survey" || s.Domain != "Agriculture" || s.Region != "Punjab" {
		t.Errorf("metadata = %q/%q/%q", s.Title, s.Domain, s.Region)
	}
	if s.AreaType != survey.AreaUrban {
		t.Errorf("AreaType = %q, want Urban", s.AreaType)
	}
	if s.Language != "English" {
		t.Errorf("Language = %q, want English", s.Language)
	}
	if len(s.Questions) != 1 || len(s.Questions[0].Options) != survey.MinOptions {
		t.Fatalf("questions = %+v", s.Questions)
	}
	if s.Questions[0].ID != "q1" {
		t.Errorf("ID = %q, want q1", s.Questions[0].ID)
	}
	if got := testutil.ToFloat64(m.Generations.WithLabelValues(metrics.OutcomeSuccess)); got != 1 {
		t.Errorf("success count = %v", got)
	}
}

func TestGenerate_ModelValuesWin(t *testing.T) {
	s, err := NewGenerator(reply(`{"domain":"Health","region":null,"questions":[]}`), nil, nil).
		Generate(context.Background(), Request{Domain: "Agriculture", Region: "Goa"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Domain != "Health" {
		t.Errorf("Domain = %q, model value should be kept", s.Domain)
	}
	// An explicit null is left to normalization, which defaults it.
	if s.Region != survey.DefaultRegion {
		t.Errorf("Region = %q, want %q", s.Region, survey.DefaultRegion)
	}
}

func TestGenerate_NoQuestionsGetsPlaceholder(t *testing.T) {
	s, err := NewGenerator(reply(`{"title":"Empty","questions":[1,"x"]}`), nil, nil).
		Generate(context.Background(), Request{Domain: "Health"})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Questions) != 1 || s.Questions[0].Text != survey.PlaceholderText {
		t.Errorf("questions = %+v, want the placeholder", s.Questions)
	}
}

func TestGenerate_Errors(t *testing.T) {
	modelErr := errors.New("quota exceeded")

	tests := []struct {
		name    string
		c       llm.Completer
		wantErr error
		outcome string
	}{
		{
			name:    "model failure",
			c:       llm.CompleterFunc(func(context.Context, string) (string, error) { return "", modelErr }),
			wantErr: modelErr,
			outcome: metrics.OutcomeModelError,
		},
		{
			name:    "no json",
			c:       reply("I cannot help with that."),
			wantErr: extract.ErrNoJSONFound,
			outcome: metrics.OutcomeNoJSON,
		},
		{
			name:    "malformed",
			c:       reply(`{"title": "x", "questions": [}`),
			wantErr: extract.ErrMalformedJSON,
			outcome: metrics.OutcomeMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			_, err := NewGenerator(tt.c, m, nil).Generate(context.Background(), Request{Domain: "x"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := testutil.ToFloat64(m.Generations.WithLabelValues(tt.outcome)); got != 1 {
				t.Errorf("%s count = %v", tt.outcome, got)
			}
		})
	}
}

func TestGenerate_RecordsDuration(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	timeNow = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 2 * time.Second)
	}
	defer func() { timeNow = time.Now }()

	m := metrics.New()
	if _, err := NewGenerator(reply(`{"questions":[]}`), m, nil).Generate(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
	if got := testutil.CollectAndCount(m.GenerationDuration); got != 1 {
		t.Errorf("duration samples = %d, want 1", got)
	}
}

func TestGenerate_Offline(t *testing.T) {
	s, err := NewGenerator(llm.NewOffline(), nil, nil).Generate(context.Background(), Request{
		Domain: "Household income", Region: "Bihar", AreaType: "Rural",
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "Household income Survey" {
		t.Errorf("Title = %q", s.Title)
	}
	if len(s.Questions) != 2 || s.Questions[0].ID != "e1" {
		t.Errorf("questions = %+v", s.Questions)
	}
}
