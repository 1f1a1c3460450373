package main

import (
	"io"
	"strings"
	"testing"

	"storybook/internal/api"
	"storybook/internal/state"
)

func TestFormatStatusLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"prompt_ready", "Prompt Ready"},
		{"generating", "Generating"},
		{"", "Pending"},
		{"complete", "Complete"},
	}
	for _, tt := range tests {
		if got := formatStatusLabel(tt.input); got != tt.want {
			t.Errorf("formatStatusLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildStoryRowsNewestFirst(t *testing.T) {
	rows := buildStoryRows([]api.Story{
		{ID: 1, Title: "Old", CreatedAt: "2026-01-01T08:00:00"},
		{ID: 2, Title: "New", CreatedAt: "2026-02-01T08:00:00"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "New" || rows[1][1] != "Old" {
		t.Fatalf("unexpected order: %q then %q", rows[0][1], rows[1][1])
	}
}

func TestBuildTreeLinesMarksProgress(t *testing.T) {
	tree := &api.StoryTree{
		Story: api.Story{ID: 1, Title: "Tree", Status: "generating"},
		Chapters: []api.Chapter{{
			Title: "One",
			Scenes: []api.Scene{{
				ID: 10, SceneType: "scene", Goal: "escape",
				Shots: []api.Shot{
					{ID: 100, ShotType: "wide", GenerationStatus: "complete"},
					{ID: 101, ShotType: "close_up", GenerationStatus: "error"},
					{ID: 102, ShotType: "medium", VideoGenerationStatus: "complete"},
				},
			}},
		}},
	}

	lines := buildTreeLines(tree, map[int64]string{10: "videos/scene_10.mp4"})
	joined := strings.Join(lines, "\n")
	requireContains(t, joined, "Story 1: Tree [Generating]")
	requireContains(t, joined, "(composed)")
	requireContains(t, joined, "● shot 100")
	requireContains(t, joined, "✗ shot 101")
	requireContains(t, joined, "▶ shot 102")
}

func TestFormatCounts(t *testing.T) {
	got := formatCounts(state.GenerationCounts{Total: 10, Complete: 4, Generating: 2, Error: 1})
	want := "4/10 complete, 2 generating, 1 failed"
	if got != want {
		t.Fatalf("formatCounts = %q, want %q", got, want)
	}
	if formatCounts(state.GenerationCounts{}) != "no shots" {
		t.Fatal("expected empty counts to read as no shots")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 8); got != "short" {
		t.Fatalf("truncate should keep short values, got %q", got)
	}
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Images", statusError, "2 failed", false)
	requireContains(t, got, "Images:")
	requireContains(t, got, "[ERROR] 2 failed")
	if strings.Contains(got, ansiRed) {
		t.Fatalf("expected no color codes, got %q", got)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Images", statusOK, "done", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only-a"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	requireContains(t, out, "only-a")
	requireContains(t, out, "A")
}

func TestStatusKindFor(t *testing.T) {
	if statusKindFor("complete") != statusOK {
		t.Fatal("complete should render as OK")
	}
	if statusKindFor("error") != statusError {
		t.Fatal("error should render as ERROR")
	}
	if statusKindFor("generating") != statusInfo {
		t.Fatal("generating should render as INFO")
	}
}
