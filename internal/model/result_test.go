package model

import (
	"testing"
	"time"
)

// TestNewResult tests Result construction defaults.
func TestNewResult(t *testing.T) {
	t.Parallel()

	t.Run("keeps recognized text and confidence", func(t *testing.T) {
		t.Parallel()

		r := NewResult("Hello World", 92, "/tmp/shot.png", "abc123")

		if r.Text != "Hello World" {
			t.Errorf("expected text %q, got %q", "Hello World", r.Text)
		}
		if r.Confidence != 92 {
			t.Errorf("expected confidence 92, got %f", r.Confidence)
		}
		if r.ScreenshotPath != "/tmp/shot.png" {
			t.Errorf("unexpected screenshot path: %s", r.ScreenshotPath)
		}
		if r.ImageHash != "abc123" {
			t.Errorf("unexpected image hash: %s", r.ImageHash)
		}
		if r.IsEmpty() {
			t.Error("result with text should not be empty")
		}
	})

	t.Run("assigns unique identifiers", func(t *testing.T) {
		t.Parallel()

		a := NewResult("a", 50, "", "")
		b := NewResult("b", 50, "", "")

		if a.ID == "" || b.ID == "" {
			t.Fatal("expected non-empty IDs")
		}
		if a.ID == b.ID {
			t.Errorf("expected unique IDs, both were %s", a.ID)
		}
	})

	t.Run("uses UTC timestamps near now", func(t *testing.T) {
		t.Parallel()

		before := time.Now().UTC()
		r := NewResult("x", 1, "", "")
		after := time.Now().UTC()

		if r.Timestamp.Before(before) || r.Timestamp.After(after) {
			t.Errorf("timestamp %v outside [%v, %v]", r.Timestamp, before, after)
		}
		if r.Timestamp.Location() != time.UTC {
			t.Errorf("expected UTC timestamp, got %v", r.Timestamp.Location())
		}
	})

	t.Run("substitutes placeholder for empty text", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			text string
		}{
			{name: "empty string", text: ""},
			{name: "whitespace only", text: "  \n\t "},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				r := NewResult(tt.text, 0, "", "")
				if r.Text != NoTextPlaceholder {
					t.Errorf("expected placeholder, got %q", r.Text)
				}
				if !r.IsEmpty() {
					t.Error("placeholder result should report empty")
				}
			})
		}
	})

	t.Run("clamps confidence into range", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			in   float64
			want float64
		}{
			{name: "negative", in: -5, want: 0},
			{name: "zero", in: 0, want: 0},
			{name: "in range", in: 57.5, want: 57.5},
			{name: "above max", in: 120, want: 100},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				r := NewResult("text", tt.in, "", "")
				if r.Confidence != tt.want {
					t.Errorf("confidence %f: expected %f, got %f", tt.in, tt.want, r.Confidence)
				}
			})
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		r := NewResult("  Hello\n", 80, "", "")
		if r.Text != "Hello" {
			t.Errorf("expected trimmed text, got %q", r.Text)
		}
	})
}
