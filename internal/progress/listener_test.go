package progress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"storybook/internal/state"
)

var upgrader = websocket.Upgrader{}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestListenerAppliesEventsAndStops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		messages := []string{
			`{"type": "shot_progress", "shot_id": 1000, "status": "generating"}`,
			`{"type": "shot_progress", "shot_id": 1000, "status": "complete",
			  "image": {"id": 1, "shot_id": 1000, "asset_type": "image", "file_path": "shots/1000.png"}}`,
		}
		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	store := testStore()
	received := make(chan Event, 16)
	listener := NewListener(wsURL(server), store, nil, WithEventCallback(func(evt Event) {
		received <- evt
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listener.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	store.ReadSnapshot(func(snap *state.Snapshot) {
		shot := snap.FindShot(1000)
		if shot.GenerationStatus != "complete" || shot.CurrentImage == nil {
			t.Errorf("events not applied: %+v", shot)
		}
	})
	if store.Connection() != state.ConnConnected {
		t.Fatalf("unexpected connection state: %q", store.Connection())
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("unexpected Run error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on cancel")
	}
	if store.Connection() != state.ConnDisconnected {
		t.Fatalf("connection state not reset: %q", store.Connection())
	}
}

func TestListenerReconnectsAfterDrop(t *testing.T) {
	var dials atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := dials.Add(1)
		if n == 1 {
			// Drop the first connection immediately to force a redial.
			conn.Close()
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type": "generation_complete"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer server.Close()

	store := testStore()
	received := make(chan Event, 1)
	listener := NewListener(wsURL(server), store, nil, WithEventCallback(func(evt Event) {
		select {
		case received <- evt:
		default:
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go listener.Run(ctx)

	select {
	case evt := <-received:
		if evt.Type != TypeGenerationComplete {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-ctx.Done():
		t.Fatal("listener never reconnected")
	}
	if dials.Load() < 2 {
		t.Fatalf("expected at least 2 dials, got %d", dials.Load())
	}
}

func TestListenerSkipsMalformedFrames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`garbage`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "generation_complete"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	store := testStore()
	received := make(chan Event, 1)
	listener := NewListener(wsURL(server), store, nil, WithEventCallback(func(evt Event) {
		received <- evt
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go listener.Run(ctx)

	select {
	case evt := <-received:
		if evt.Type != TypeGenerationComplete {
			t.Fatalf("unexpected event after malformed frame: %+v", evt)
		}
	case <-ctx.Done():
		t.Fatal("listener died on malformed frame")
	}
}
