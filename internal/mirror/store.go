package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"storybook/internal/api"
	"storybook/internal/logging"
	"storybook/internal/state"
)

// ErrNotCached indicates no snapshot exists locally for the requested story.
var ErrNotCached = errors.New("story not cached")

// ErrLocked indicates another console process holds the mirror lock.
var ErrLocked = errors.New("mirror is locked by another process")

// Store persists fetched story trees to a local SQLite database so the
// console can show the last known state while the backend is unreachable.
type Store struct {
	db       *sql.DB
	path     string
	lock     *flock.Flock
	lockPath string
	logger   *slog.Logger
}

// Entry summarizes one cached snapshot without decoding its payload.
type Entry struct {
	StoryID   int64
	Title     string
	Status    string
	FetchedAt time.Time
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// payload is the JSON document stored per snapshot row.
type payload struct {
	Tree           *api.StoryTree   `json:"tree"`
	Bible          *api.WorldBible  `json:"bible,omitempty"`
	ComposedScenes map[int64]string `json:"composed_scenes,omitempty"`
}

// Open initializes or connects to the mirror database under dir. The writer
// lock is held for the lifetime of the store.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create mirror directory: %w", err)
	}

	lockPath := filepath.Join(dir, "mirror.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire mirror lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(dir, "mirror.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock, lockPath: lockPath, logger: logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database and releases the writer lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	if s.db != nil {
		closeErr = s.db.Close()
		s.db = nil
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("release mirror lock: %w", err)
		}
		s.lock = nil
	}
	return closeErr
}

// SaveSnapshot upserts the snapshot keyed by its story ID.
func (s *Store) SaveSnapshot(ctx context.Context, snap *state.Snapshot) error {
	ctx = ensureContext(ctx)
	if snap == nil || snap.Tree == nil {
		return errors.New("snapshot has no story tree")
	}

	doc, err := json.Marshal(payload{
		Tree:           snap.Tree,
		Bible:          snap.Bible,
		ComposedScenes: snap.ComposedScenes,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (story_id, title, status, fetched_at, payload)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(story_id) DO UPDATE SET
    title = excluded.title,
    status = excluded.status,
    fetched_at = excluded.fetched_at,
    payload = excluded.payload`,
		snap.Tree.ID, snap.Tree.Title, snap.Tree.Status,
		fetchedAt.UTC().Format(time.RFC3339Nano), string(doc))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Debug("snapshot mirrored",
		logging.Int64(logging.FieldStoryID, snap.Tree.ID),
		logging.String("path", s.path))
	return nil
}

// LoadSnapshot returns the cached snapshot for a story, or ErrNotCached.
func (s *Store) LoadSnapshot(ctx context.Context, storyID int64) (*state.Snapshot, error) {
	ctx = ensureContext(ctx)
	var (
		fetchedAt string
		doc       string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT fetched_at, payload FROM snapshots WHERE story_id = ?", storyID,
	).Scan(&fetchedAt, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: story %d", ErrNotCached, storyID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var p payload
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode snapshot for story %d: %w", storyID, err)
	}

	snap := &state.Snapshot{
		Tree:           p.Tree,
		Bible:          p.Bible,
		ComposedScenes: p.ComposedScenes,
	}
	if snap.ComposedScenes == nil {
		snap.ComposedScenes = make(map[int64]string)
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, fetchedAt); parseErr == nil {
		snap.FetchedAt = ts
	}
	return snap, nil
}

// ListSnapshots returns summaries of every cached story, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT story_id, title, status, fetched_at FROM snapshots ORDER BY fetched_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			fetchedAt string
		)
		if err := rows.Scan(&entry.StoryID, &entry.Title, &entry.Status, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, fetchedAt); parseErr == nil {
			entry.FetchedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return entries, nil
}

// Prune deletes all but the keep most recently fetched snapshots and reports
// how many rows were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	ctx = ensureContext(ctx)
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
DELETE FROM snapshots WHERE story_id NOT IN (
    SELECT story_id FROM snapshots ORDER BY fetched_at DESC LIMIT ?
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned snapshots: %w", err)
	}
	if removed > 0 {
		s.logger.Debug("pruned mirrored snapshots",
			logging.Int("removed", int(removed)),
			logging.Int("kept", keep))
	}
	return int(removed), nil
}
