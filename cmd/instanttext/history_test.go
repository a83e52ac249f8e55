package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/instanttext/instanttext/internal/history"
	"github.com/instanttext/instanttext/internal/model"
)

// seedHistory creates a history database in dir with the given texts,
// oldest first.
func seedHistory(t *testing.T, dir string, texts ...string) {
	t.Helper()

	hist, err := history.Open(dir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer hist.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range texts {
		result := model.NewResult(text, 90, "", "")
		result.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := hist.Append(context.Background(), result); err != nil {
			t.Fatalf("failed to append result: %v", err)
		}
	}
}

// TestHistoryCmd tests the history command.
func TestHistoryCmd(t *testing.T) {
	t.Run("reports an empty history without creating a database", func(t *testing.T) {
		dir := t.TempDir()

		out, err := runRoot(t, "history", "--data-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No results in history.") {
			t.Errorf("missing empty-history message: %q", out)
		}
	})

	t.Run("lists results newest first", func(t *testing.T) {
		dir := t.TempDir()
		seedHistory(t, dir, "older text", "newer text")

		out, err := runRoot(t, "history", "--data-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		newer := strings.Index(out, "newer text")
		older := strings.Index(out, "older text")
		if newer < 0 || older < 0 {
			t.Fatalf("missing seeded texts: %q", out)
		}
		if newer > older {
			t.Errorf("expected newest first, got: %q", out)
		}
	})

	t.Run("respects the limit flag", func(t *testing.T) {
		dir := t.TempDir()
		seedHistory(t, dir, "first", "second", "third")

		out, err := runRoot(t, "history", "--data-dir", dir, "--limit", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "third") {
			t.Errorf("missing newest result: %q", out)
		}
		if strings.Contains(out, "first") || strings.Contains(out, "second") {
			t.Errorf("limit 1 leaked older results: %q", out)
		}
	})

	t.Run("latest shows only the most recent result", func(t *testing.T) {
		dir := t.TempDir()
		seedHistory(t, dir, "older text", "newer text")

		out, err := runRoot(t, "history", "--data-dir", dir, "--latest")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "newer text") {
			t.Errorf("missing latest result: %q", out)
		}
		if strings.Contains(out, "older text") {
			t.Errorf("latest leaked older result: %q", out)
		}
	})

	t.Run("json output is parseable", func(t *testing.T) {
		dir := t.TempDir()
		seedHistory(t, dir, "json text")

		out, err := runRoot(t, "history", "--data-dir", dir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var results []*model.Result
		if err := json.Unmarshal([]byte(out), &results); err != nil {
			t.Fatalf("output is not valid JSON: %v\n%s", err, out)
		}
		if len(results) != 1 || results[0].Text != "json text" {
			t.Errorf("unexpected results: %+v", results)
		}
	})

	t.Run("rejects conflicting format flags", func(t *testing.T) {
		dir := t.TempDir()
		seedHistory(t, dir, "text")

		if _, err := runRoot(t, "history", "--data-dir", dir, "--json", "--markdown"); err == nil {
			t.Fatal("expected error for --json with --markdown")
		}
	})

	t.Run("markdown output carries the history heading", func(t *testing.T) {
		dir := t.TempDir()
		seedHistory(t, dir, "markdown text")

		out, err := runRoot(t, "history", "--data-dir", dir, "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "# Capture History") {
			t.Errorf("missing markdown heading: %q", out)
		}
	})
}
