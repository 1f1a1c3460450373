package mirror_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"storybook/internal/api"
	"storybook/internal/mirror"
	"storybook/internal/state"
)

func testTree(storyID int64, title string) *api.StoryTree {
	return &api.StoryTree{
		Story: api.Story{ID: storyID, Title: title, Status: "generating"},
		Chapters: []api.Chapter{{
			ID:      storyID*10 + 1,
			StoryID: storyID,
			Title:   "Chapter One",
			Scenes: []api.Scene{{
				ID:        storyID*100 + 1,
				SceneType: "scene",
				Shots: []api.Shot{{
					ID:               storyID*1000 + 1,
					ShotType:         "medium",
					GenerationStatus: "complete",
				}},
			}},
		}},
	}
}

func mustOpen(t *testing.T, dir string) *mirror.Store {
	t.Helper()
	store, err := mirror.Open(dir, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	ctx := context.Background()

	snap := state.NewSnapshot(testTree(7, "The Lighthouse"), &api.WorldBible{ID: 3, StoryID: 7})
	snap.ComposedScenes[701] = "videos/scene_701.mp4"

	if err := store.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx, 7)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Tree == nil || loaded.Tree.Title != "The Lighthouse" {
		t.Fatalf("unexpected tree: %#v", loaded.Tree)
	}
	if loaded.Bible == nil || loaded.Bible.ID != 3 {
		t.Fatalf("expected world bible to round-trip, got %#v", loaded.Bible)
	}
	if got := loaded.ComposedScenes[701]; got != "videos/scene_701.mp4" {
		t.Fatalf("unexpected composed scene path %q", got)
	}
	if shot := loaded.FindShot(7001); shot == nil || shot.GenerationStatus != "complete" {
		t.Fatalf("expected shot 7001 in loaded tree, got %#v", shot)
	}
	if loaded.FetchedAt.IsZero() {
		t.Fatal("expected fetched timestamp to round-trip")
	}
}

func TestSaveSnapshotUpserts(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	ctx := context.Background()

	first := state.NewSnapshot(testTree(7, "Draft Title"), nil)
	if err := store.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	second := state.NewSnapshot(testTree(7, "Final Title"), nil)
	if err := store.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("second SaveSnapshot failed: %v", err)
	}

	entries, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry after upsert, got %d", len(entries))
	}
	if entries[0].Title != "Final Title" {
		t.Fatalf("expected updated title, got %q", entries[0].Title)
	}
}

func TestLoadSnapshotNotCached(t *testing.T) {
	store := mustOpen(t, t.TempDir())

	_, err := store.LoadSnapshot(context.Background(), 42)
	if !errors.Is(err, mirror.ErrNotCached) {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"Oldest", "Middle", "Newest"} {
		snap := state.NewSnapshot(testTree(int64(i+1), title), nil)
		snap.FetchedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot %q failed: %v", title, err)
		}
	}

	entries, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Title != "Newest" || entries[2].Title != "Oldest" {
		t.Fatalf("unexpected ordering: %q, %q, %q", entries[0].Title, entries[1].Title, entries[2].Title)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 4; i++ {
		snap := state.NewSnapshot(testTree(i, "Story"), nil)
		snap.FetchedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	removed, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	entries, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(entries))
	}
	if entries[0].StoryID != 4 || entries[1].StoryID != 3 {
		t.Fatalf("expected newest two stories kept, got %d and %d", entries[0].StoryID, entries[1].StoryID)
	}
}

func TestOpenRejectsSecondWriter(t *testing.T) {
	dir := t.TempDir()
	_ = mustOpen(t, dir)

	_, err := mirror.Open(dir, nil)
	if !errors.Is(err, mirror.ErrLocked) {
		t.Fatalf("expected ErrLocked for second writer, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()

	db, err := sql.Open("sqlite", filepath.Join(dir, "mirror.db"))
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE schema_version (version INTEGER NOT NULL)"); err != nil {
		t.Fatalf("create version table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("insert version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	_, err = mirror.Open(dir, nil)
	if !errors.Is(err, mirror.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
