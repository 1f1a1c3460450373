package state

import (
	"context"
	"sync"
)

// Well-known store keys. Values are read back with the typed accessors below.
const (
	KeySnapshot   = "snapshot"
	KeyConnection = "connection"
	KeyExtraction = "extraction"
	KeyLastError  = "last_error"
)

// Connection states recorded under KeyConnection by the progress listener.
const (
	ConnDisconnected = "disconnected"
	ConnConnecting   = "connecting"
	ConnConnected    = "connected"
)

// Change describes one store mutation delivered to watchers.
type Change struct {
	Key     string
	Version uint64
}

// Store is the single shared mutable state object. Writes bump a monotonic
// version and notify watchers; reads always see the latest value
// (last-write-wins, no history).
type Store struct {
	mu       sync.RWMutex
	values   map[string]any
	versions map[string]uint64
	version  uint64

	watchMu  sync.Mutex
	watchers map[int]chan Change
	nextID   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		values:   make(map[string]any),
		versions: make(map[string]uint64),
		watchers: make(map[int]chan Change),
	}
}

// Set stores value under key and notifies watchers.
func (s *Store) Set(key string, value any) uint64 {
	s.mu.Lock()
	s.version++
	version := s.version
	s.values[key] = value
	s.versions[key] = version
	s.mu.Unlock()

	s.notify(Change{Key: key, Version: version})
	return version
}

// Get returns the current value under key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Version returns the store-wide version of the last write to key, or zero.
func (s *Store) Version(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[key]
}

// Update applies fn to the current value under key while holding the write
// lock, stores the result, and notifies watchers. The value passed to fn is
// nil when the key is unset.
func (s *Store) Update(key string, fn func(current any) any) uint64 {
	s.mu.Lock()
	s.version++
	version := s.version
	s.values[key] = fn(s.values[key])
	s.versions[key] = version
	s.mu.Unlock()

	s.notify(Change{Key: key, Version: version})
	return version
}

// Watch returns a channel of change notices. The channel closes when ctx
// ends. Watchers that fall behind lose intermediate notices rather than block
// writers; consumers re-read current values on wakeup, so a dropped notice
// only coalesces redraws.
func (s *Store) Watch(ctx context.Context) <-chan Change {
	ch := make(chan Change, 64)

	s.watchMu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		delete(s.watchers, id)
		s.watchMu.Unlock()
		close(ch)
	}()

	return ch
}

func (s *Store) notify(change Change) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}

// SetConnection records the progress channel connection state.
func (s *Store) SetConnection(status string) {
	s.Set(KeyConnection, status)
}

// Connection returns the recorded connection state.
func (s *Store) Connection() string {
	value, ok := s.Get(KeyConnection)
	if !ok {
		return ConnDisconnected
	}
	status, _ := value.(string)
	return status
}

// SetLastError records the most recent per-action error message.
func (s *Store) SetLastError(message string) {
	s.Set(KeyLastError, message)
}

// LastError returns the most recent error message, if any.
func (s *Store) LastError() string {
	value, ok := s.Get(KeyLastError)
	if !ok {
		return ""
	}
	message, _ := value.(string)
	return message
}

// SetExtraction records the current world bible extraction step text.
func (s *Store) SetExtraction(step string) {
	s.Set(KeyExtraction, step)
}

// Extraction returns the current extraction step text.
func (s *Store) Extraction() string {
	value, ok := s.Get(KeyExtraction)
	if !ok {
		return ""
	}
	step, _ := value.(string)
	return step
}

// SetSnapshot stores the current story tree snapshot.
func (s *Store) SetSnapshot(snap *Snapshot) {
	s.Set(KeySnapshot, snap)
}

// Snapshot returns the current story tree snapshot, or nil. The returned
// pointer is the live snapshot UpdateSnapshot mutates; callers that run
// concurrently with a progress listener must use ReadSnapshot instead.
func (s *Store) Snapshot() *Snapshot {
	value, ok := s.Get(KeySnapshot)
	if !ok {
		return nil
	}
	snap, _ := value.(*Snapshot)
	return snap
}

// ReadSnapshot runs fn with the current snapshot while holding the read
// lock, so renderers can traverse the tree concurrently with UpdateSnapshot.
// fn receives nil when no snapshot is loaded and must not retain the pointer
// or touch other store accessors, which take the same lock.
func (s *Store) ReadSnapshot(fn func(snap *Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, _ := s.values[KeySnapshot].(*Snapshot)
	fn(snap)
}

// UpdateSnapshot mutates the snapshot in place under the write lock. fn
// receives nil when no snapshot is loaded and must return true when it
// changed anything; unchanged snapshots do not notify watchers.
func (s *Store) UpdateSnapshot(fn func(snap *Snapshot) bool) bool {
	s.mu.Lock()
	snap, _ := s.values[KeySnapshot].(*Snapshot)
	changed := fn(snap)
	var version uint64
	if changed {
		s.version++
		version = s.version
		s.versions[KeySnapshot] = version
	}
	s.mu.Unlock()

	if changed {
		s.notify(Change{Key: KeySnapshot, Version: version})
	}
	return changed
}
