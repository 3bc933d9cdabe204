package quality

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		answers  map[string]any
		duration time.Duration
		want     float64
	}{
		{"no answers, plausible time", map[string]any{}, 60 * time.Second, 0.3},
		{"nil answers", nil, 60 * time.Second, 0.3},
		{"all filled, plausible", map[string]any{"a": "x", "b": 3.0}, 60 * time.Second, 1.0},
		{"all filled, too fast", map[string]any{"a": "x"}, 5 * time.Second, 0.7 + 0.15},
		{"all filled, too slow", map[string]any{"a": "x"}, 301 * time.Second, 0.7 + 0.21},
		{"boundary 10s", map[string]any{"a": "x"}, 10 * time.Second, 1.0},
		{"boundary 300s", map[string]any{"a": "x"}, 300 * time.Second, 1.0},
		{"half filled", map[string]any{"a": "x", "b": ""}, 60 * time.Second, 0.35 + 0.3},
		{"skipped", map[string]any{"a": "SKIPPED", "b": "y"}, 60 * time.Second, 0.35 + 0.3},
		{"empty list", map[string]any{"a": []any{}, "b": []string{"x"}}, 60 * time.Second, 0.35 + 0.3},
		{"nothing filled, fast", map[string]any{"a": nil}, time.Second, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.answers, tt.duration)
			if !approx(got, tt.want) {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Score %v out of [0,1]", got)
			}
		})
	}
}

func TestFilled(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{"", false},
		{"   ", true},
		{"SKIPPED", false},
		{" SKIPPED ", true},
		{"skipped", true},
		{"0", true},
		{0.0, true},
		{false, true},
		{[]any{}, false},
		{[]any{"a"}, true},
		{[]string{}, false},
	}
	for _, tt := range tests {
		if got := Filled(tt.v); got != tt.want {
			t.Errorf("Filled(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
