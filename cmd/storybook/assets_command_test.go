package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"storybook/internal/api"
)

func TestAssetsPullDownloadsCurrentImages(t *testing.T) {
	env := setupCLITestEnv(t)

	tree := api.StoryTree{
		Story: api.Story{ID: 4, Title: "The Lighthouse"},
		Chapters: []api.Chapter{{
			Scenes: []api.Scene{{
				ID: 40,
				Shots: []api.Shot{
					{ID: 400, GenerationStatus: "complete", CurrentImage: &api.Asset{
						AssetType: "image", FilePath: "story_4/shot_400/img.png",
					}},
					{ID: 401, GenerationStatus: "pending"},
				},
			}},
		}},
	}
	env.handleJSON("/api/stories/4/full", http.StatusOK, tree)
	env.mux.HandleFunc("/generated/story_4/shot_400/img.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	})

	out, _, err := runCLI(t, env, "assets", "pull", "4")
	if err != nil {
		t.Fatalf("assets pull: %v", err)
	}
	requireContains(t, out, "Pulled 1 assets")

	target := filepath.Join(env.assetsDir, "4_the-lighthouse", "scene_0040_shot_0400_image.png")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("expected pulled asset at %s: %v", target, err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected asset contents %q", data)
	}

	// A second pull skips the file that is already present.
	out, _, err = runCLI(t, env, "assets", "pull", "4")
	if err != nil {
		t.Fatalf("second assets pull: %v", err)
	}
	requireContains(t, out, "(1 already present)")
}
