package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"storybook/internal/api"
)

func TestSegmentCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("POST /api/stories/1/segment", http.StatusOK, api.SegmentResult{OK: true, Chapters: 4})

	out, _, err := runCLI(t, env, "segment", "1")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	requireContains(t, out, "4 chapters")
}

func TestBreakdownSceneAndAll(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("POST /api/scenes/12/breakdown", http.StatusOK, api.BreakdownResult{OK: true, Shots: 6})
	env.handleJSON("POST /api/stories/1/breakdown-all", http.StatusOK, api.BreakdownAllResult{OK: true, TotalShots: 42})

	out, _, err := runCLI(t, env, "breakdown", "12")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	requireContains(t, out, "scene 12")
	requireContains(t, out, "6 shots")

	out, _, err = runCLI(t, env, "breakdown", "--all", "1")
	if err != nil {
		t.Fatalf("breakdown --all: %v", err)
	}
	requireContains(t, out, "42 shots")
}

func TestPromptsBuild(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("POST /api/stories/1/build-prompts", http.StatusOK, api.BuildPromptsResult{OK: true, PromptsBuilt: 17})

	out, _, err := runCLI(t, env, "prompts", "build", "1")
	if err != nil {
		t.Fatalf("prompts build: %v", err)
	}
	requireContains(t, out, "17 image prompts")
}

func TestGenerateCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("POST /api/shots/9/generate", http.StatusOK, api.GenerateResult{OK: true, ShotID: 9})
	env.handleJSON("POST /api/stories/1/generate-all", http.StatusOK, api.GenerateAllResult{OK: true, Generating: 11})
	env.handleJSON("POST /api/shots/9/generate-video", http.StatusOK, api.GenerateResult{OK: true, ShotID: 9})
	env.handleJSON("POST /api/scenes/3/generate-video-sequence", http.StatusOK, api.SceneVideosResult{OK: true, SceneID: 3, Shots: 5})
	env.handleJSON("POST /api/stories/1/generate-all-videos", http.StatusOK, api.AllVideosResult{OK: true, Scenes: 4, TotalShots: 20})

	cases := []struct {
		args   []string
		expect string
	}{
		{[]string{"generate", "shot", "9"}, "shot 9"},
		{[]string{"generate", "all", "1"}, "11 shot images"},
		{[]string{"generate", "video", "9"}, "video for shot 9"},
		{[]string{"generate", "scene-videos", "3"}, "5 videos for scene 3"},
		{[]string{"generate", "all-videos", "1"}, "20 videos across 4 scenes"},
	}
	for _, tc := range cases {
		out, _, err := runCLI(t, env, tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		requireContains(t, out, tc.expect)
	}
}

func TestComposeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.handleJSON("POST /api/scenes/3/compose", http.StatusOK, api.ComposeResult{OK: true, SceneID: 3})

	out, _, err := runCLI(t, env, "compose", "3")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	requireContains(t, out, "Composing scene 3")
}

func TestShotReorderSendsIDsInOrder(t *testing.T) {
	env := setupCLITestEnv(t)

	var captured map[string][]int64
	env.mux.HandleFunc("POST /api/shots/reorder", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})

	out, _, err := runCLI(t, env, "shot", "reorder", "30", "10", "20")
	if err != nil {
		t.Fatalf("shot reorder: %v", err)
	}
	requireContains(t, out, "Reordered shots")
	ids := captured["shot_ids"]
	if len(ids) != 3 || ids[0] != 30 || ids[1] != 10 || ids[2] != 20 {
		t.Fatalf("unexpected reorder body: %v", captured)
	}
}

func TestShotReorderRejectsDuplicates(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "shot", "reorder", "10", "10"); err == nil {
		t.Fatal("expected duplicate shot IDs to be rejected")
	}
}

func TestShotSetSendsOnlyChangedFields(t *testing.T) {
	env := setupCLITestEnv(t)

	var captured map[string]any
	env.mux.HandleFunc("PATCH /api/shots/9", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.Shot{ID: 9})
	})

	_, _, err := runCLI(t, env, "shot", "set", "9", "--lighting", "low key", "--duration", "4.5")
	if err != nil {
		t.Fatalf("shot set: %v", err)
	}
	if len(captured) != 2 {
		t.Fatalf("expected two fields in patch, got %v", captured)
	}
	if captured["lighting"] != "low key" {
		t.Fatalf("unexpected lighting: %v", captured["lighting"])
	}
}
