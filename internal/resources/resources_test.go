package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/mark3labs/mcp-go/mcp"
)

func newHandler(t *testing.T, seed bool) (*Handler, *store.Store) {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir(), SeedDemo: seed})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewHandler(s), s
}

func read(t *testing.T, h *Handler) mcp.TextResourceContents {
	t.Helper()
	var req mcp.ReadResourceRequest
	req.Params.URI = SurveysURI
	contents, err := h.HandleSurveys(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleSurveys: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc
}

func TestHandleSurveys(t *testing.T) {
	h, _ := newHandler(t, true)

	tc := read(t, h)
	if tc.MIMEType != "application/json" || tc.URI != SurveysURI {
		t.Errorf("MIME/URI = %q/%q", tc.MIMEType, tc.URI)
	}

	var got []store.SurveySummary
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].ID != survey.DemoSurveyID || got[0].QuestionCount != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestHandleSurveys_Empty(t *testing.T) {
	h, _ := newHandler(t, false)
	if tc := read(t, h); strings.TrimSpace(tc.Text) != "[]" {
		t.Errorf("Text = %q, want []", tc.Text)
	}
}

func TestHandleSurveys_ClosedStore(t *testing.T) {
	h, s := newHandler(t, false)
	_ = s.Close()
	if tc := read(t, h); !strings.HasPrefix(tc.Text, "Error: ") {
		t.Errorf("Text = %q, want error", tc.Text)
	}
}
