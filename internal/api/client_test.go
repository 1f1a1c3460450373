package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storybook/internal/api"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := api.NewWithBaseURL(server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}
	return client
}

func TestListStoriesDecodesRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/stories" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 2, "title": "The Lighthouse", "status": "segmented", "chapter_count": 3, "scene_count": 9, "shot_count": 0},
			{"id": 1, "title": "First Draft", "status": "draft"}
		]`)
	}))

	stories, err := client.ListStories(context.Background())
	if err != nil {
		t.Fatalf("ListStories: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(stories))
	}
	if stories[0].Title != "The Lighthouse" || stories[0].SceneCount != 9 {
		t.Fatalf("unexpected first story: %+v", stories[0])
	}
}

func TestUpdateShotSendsOnlySetFields(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/shots/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 7, "shot_type": "close-up", "duration": 3.5}`)
	}))

	shotType := "close-up"
	duration := 3.5
	shot, err := client.UpdateShot(context.Background(), 7, api.ShotPatch{
		ShotType: &shotType,
		Duration: &duration,
	})
	if err != nil {
		t.Fatalf("UpdateShot: %v", err)
	}
	if shot.ShotType != "close-up" {
		t.Fatalf("unexpected shot: %+v", shot)
	}
	if len(captured) != 2 {
		t.Fatalf("expected exactly 2 fields in PATCH body, got %v", captured)
	}
	if captured["shot_type"] != "close-up" {
		t.Fatalf("unexpected shot_type in body: %v", captured)
	}
}

func TestReorderShotsPostsIDSequence(t *testing.T) {
	var captured struct {
		ShotIDs []int64 `json:"shot_ids"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/shots/reorder" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"ok": true}`)
	}))

	if err := client.ReorderShots(context.Background(), []int64{3, 1, 2}); err != nil {
		t.Fatalf("ReorderShots: %v", err)
	}
	if len(captured.ShotIDs) != 3 || captured.ShotIDs[0] != 3 {
		t.Fatalf("unexpected reorder body: %+v", captured)
	}
}

func TestErrorResponsesCarryBackendDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail": "Story not found"}`)
	}))

	_, err := client.GetStory(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail != "Story not found" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if !api.IsNotFound(err) {
		t.Fatal("IsNotFound should be true for 404")
	}
}

func TestGetWorldBibleDecodesNestedEntities(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stories/4/world-bible" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": 1, "story_id": 4,
			"characters": [{"id": 10, "name": "Mara", "role": "protagonist",
				"references": [{"id": 5, "ref_type": "portrait", "is_approved": true}]}],
			"locations": [{"id": 20, "name": "The Pier", "location_type": "exterior"}],
			"props": [],
			"camera_bible": {"id": 2, "lens_style": "anamorphic", "prompt_prefix": "shot on 35mm"}
		}`)
	}))

	bible, err := client.GetWorldBible(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetWorldBible: %v", err)
	}
	if len(bible.Characters) != 1 || bible.Characters[0].Name != "Mara" {
		t.Fatalf("unexpected characters: %+v", bible.Characters)
	}
	if len(bible.Characters[0].References) != 1 || !bible.Characters[0].References[0].IsApproved {
		t.Fatalf("unexpected references: %+v", bible.Characters[0].References)
	}
	if bible.CameraBible == nil || bible.CameraBible.LensStyle != "anamorphic" {
		t.Fatalf("unexpected camera bible: %+v", bible.CameraBible)
	}
}

func TestFetchFileResolvesGeneratedPaths(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generated/shots/7.png" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		io.WriteString(w, "binary-image-data")
	}))

	body, err := client.FetchFile(context.Background(), "shots/7.png")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "binary-image-data" {
		t.Fatalf("unexpected body: %q", data)
	}
}

func TestPlainTextErrorBodyKept(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream generation service unavailable")
	}))

	_, err := client.SegmentStory(context.Background(), 1)
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Detail != "upstream generation service unavailable" {
		t.Fatalf("unexpected detail: %q", apiErr.Detail)
	}
}
