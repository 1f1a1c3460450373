package state

import (
	"context"
	"testing"
	"time"

	"storybook/internal/api"
)

func testTree() *api.StoryTree {
	return &api.StoryTree{
		Story: api.Story{ID: 1, Title: "Test", Status: "broken_down"},
		Chapters: []api.Chapter{
			{
				ID: 10,
				Scenes: []api.Scene{
					{
						ID: 100,
						Shots: []api.Shot{
							{ID: 1000, GenerationStatus: "pending"},
							{ID: 1001, GenerationStatus: "prompt_ready"},
						},
					},
					{
						ID: 101,
						Shots: []api.Shot{
							{ID: 1002, GenerationStatus: "complete"},
						},
					},
				},
			},
		},
	}
}

func TestVersionsAreMonotonic(t *testing.T) {
	store := NewStore()
	v1 := store.Set("a", 1)
	v2 := store.Set("b", 2)
	v3 := store.Set("a", 3)
	if !(v1 < v2 && v2 < v3) {
		t.Fatalf("versions not monotonic: %d %d %d", v1, v2, v3)
	}
	if store.Version("a") != v3 {
		t.Fatalf("key version not updated: %d != %d", store.Version("a"), v3)
	}
}

func TestWatchDeliversChanges(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := store.Watch(ctx)
	store.Set("key", "value")

	select {
	case change := <-ch:
		if change.Key != "key" {
			t.Fatalf("unexpected change key: %q", change.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change notice")
	}

	cancel()
	// Channel closes once the context ends.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel never closed")
		}
	}
}

func TestSlowWatcherNeverBlocksWriters(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = store.Watch(ctx) // nobody reads this channel

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			store.Set("key", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked by slow watcher")
	}

	value, _ := store.Get("key")
	if value != 999 {
		t.Fatalf("last write lost: %v", value)
	}
}

func TestSnapshotPatchesShotInPlace(t *testing.T) {
	snap := NewSnapshot(testTree(), nil)

	if !snap.SetShotStatus(1000, "generating") {
		t.Fatal("expected shot 1000 to be found")
	}
	if got := snap.FindShot(1000).GenerationStatus; got != "generating" {
		t.Fatalf("status not patched: %q", got)
	}
	if snap.SetShotStatus(9999, "generating") {
		t.Fatal("unknown shot should be ignored")
	}

	asset := &api.Asset{ID: 5, ShotID: 1001, AssetType: "image", FilePath: "shots/1001.png", IsCurrent: true}
	if !snap.AttachImage(1001, asset) {
		t.Fatal("expected image to attach")
	}
	shot := snap.FindShot(1001)
	if shot.CurrentImage == nil || shot.GenerationStatus != "complete" {
		t.Fatalf("attach did not complete shot: %+v", shot)
	}
}

func TestImageCounts(t *testing.T) {
	snap := NewSnapshot(testTree(), nil)
	counts := snap.ImageCounts()
	if counts.Total != 3 || counts.Pending != 1 || counts.PromptReady != 1 || counts.Complete != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestUpdateSnapshotOnlyNotifiesOnChange(t *testing.T) {
	store := NewStore()
	store.SetSnapshot(NewSnapshot(testTree(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Watch(ctx)

	changed := store.UpdateSnapshot(func(snap *Snapshot) bool {
		return snap.SetShotStatus(9999, "generating")
	})
	if changed {
		t.Fatal("patching an unknown shot should report no change")
	}
	select {
	case change := <-ch:
		t.Fatalf("unexpected notification: %+v", change)
	case <-time.After(50 * time.Millisecond):
	}

	changed = store.UpdateSnapshot(func(snap *Snapshot) bool {
		return snap.SetShotStatus(1000, "generating")
	})
	if !changed {
		t.Fatal("expected change")
	}
	select {
	case change := <-ch:
		if change.Key != KeySnapshot {
			t.Fatalf("unexpected change key: %q", change.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("missing notification")
	}
}

func TestReadSnapshotIsSafeDuringUpdates(t *testing.T) {
	store := NewStore()
	store.SetSnapshot(NewSnapshot(testTree(), nil))

	done := make(chan struct{})
	go func() {
		defer close(done)
		statuses := []string{"generating", "complete"}
		for i := 0; i < 500; i++ {
			store.UpdateSnapshot(func(snap *Snapshot) bool {
				return snap.SetShotStatus(1000, statuses[i%len(statuses)])
			})
		}
	}()

	for i := 0; i < 500; i++ {
		store.ReadSnapshot(func(snap *Snapshot) {
			counts := snap.ImageCounts()
			if counts.Total != 3 {
				t.Errorf("unexpected shot total: %d", counts.Total)
			}
		})
	}
	<-done
}

func TestConnectionDefaultsToDisconnected(t *testing.T) {
	store := NewStore()
	if store.Connection() != ConnDisconnected {
		t.Fatalf("unexpected default: %q", store.Connection())
	}
	store.SetConnection(ConnConnected)
	if store.Connection() != ConnConnected {
		t.Fatalf("unexpected connection: %q", store.Connection())
	}
}
