// Package catalog records known songs, the current song and the history of
// pipeline stage runs in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports a song or setting that is not in the catalog.
var ErrNotFound = errors.New("catalog: not found")

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	name TEXT PRIMARY KEY,
	folder TEXT NOT NULL,
	live_start REAL NOT NULL DEFAULT 0,
	studio_start REAL NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	song TEXT NOT NULL,
	stage TEXT NOT NULL,
	status TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	started_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_song ON runs(song, started_at);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const keyCurrentSong = "current_song"

// Run statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Song is a catalogued song folder.
type Song struct {
	Name        string
	Folder      string
	LiveStart   float64
	StudioStart float64
	UpdatedAt   time.Time
}

// Run is one executed pipeline stage.
type Run struct {
	ID        uuid.UUID
	Song      string
	Stage     string
	Status    string
	Elapsed   time.Duration
	Error     string
	StartedAt time.Time
}

// Catalog is a handle on the database. It is safe for concurrent use.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures Open.
type Option func(*Catalog)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("catalog: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	c := &Catalog{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Close releases the database.
func (c *Catalog) Close() error { return c.db.Close() }

// UpsertSong inserts or replaces s. UpdatedAt is set to the current time.
func (c *Catalog) UpsertSong(ctx context.Context, s Song) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO songs (name, folder, live_start, studio_start, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.Folder, s.LiveStart, s.StudioStart, c.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("catalog: upsert %s: %w", s.Name, err)
	}
	return nil
}

// Song returns the named song or ErrNotFound.
func (c *Catalog) Song(ctx context.Context, name string) (Song, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT name, folder, live_start, studio_start, updated_at
		FROM songs WHERE name = ?`, name)

	s, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, fmt.Errorf("%w: song %q", ErrNotFound, name)
	}
	return s, err
}

// Songs lists every song ordered by name.
func (c *Catalog) Songs(ctx context.Context) ([]Song, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name, folder, live_start, studio_start, updated_at
		FROM songs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(r scanner) (Song, error) {
	var (
		s       Song
		updated int64
	)
	if err := r.Scan(&s.Name, &s.Folder, &s.LiveStart, &s.StudioStart, &updated); err != nil {
		return Song{}, err
	}
	s.UpdatedAt = time.UnixMilli(updated)
	return s, nil
}

// RecordRun stores r and returns its id. A zero ID is replaced by a new
// random UUID and a zero StartedAt by the current time.
func (c *Catalog) RecordRun(ctx context.Context, r Run) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = c.now()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (id, song, stage, status, elapsed_ms, error, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Song, r.Stage, r.Status, r.Elapsed.Milliseconds(), r.Error, r.StartedAt.UnixMilli())
	if err != nil {
		return uuid.Nil, fmt.Errorf("catalog: record %s run: %w", r.Stage, err)
	}
	return r.ID, nil
}

// Runs returns the most recent runs of song, newest first. A non-positive
// limit returns all of them.
func (c *Catalog) Runs(ctx context.Context, song string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, song, stage, status, elapsed_ms, error, started_at
		FROM runs WHERE song = ? ORDER BY started_at DESC, rowid DESC LIMIT ?`, song, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                  Run
			id                 string
			elapsed, startedAt int64
		)
		if err := rows.Scan(&id, &r.Song, &r.Stage, &r.Status, &elapsed, &r.Error, &startedAt); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("catalog: run id %q: %w", id, err)
		}
		r.Elapsed = time.Duration(elapsed) * time.Millisecond
		r.StartedAt = time.UnixMilli(startedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetCurrent marks name as the current song.
func (c *Catalog) SetCurrent(ctx context.Context, name string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, keyCurrentSong, name)
	return err
}

// Current returns the current song name or ErrNotFound.
func (c *Catalog) Current(ctx context.Context) (string, error) {
	var name string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, keyCurrentSong).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no current song", ErrNotFound)
	}
	return name, err
}
