// Package storage persists store snapshots in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/example/pinmark/internal/store"
)

// ErrNotFound is returned when a slot holds no snapshot.
var ErrNotFound = errors.New("snapshot not found")

// AutosaveSlot is the slot written on every change.
const AutosaveSlot = "autosave"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    slot       TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name       TEXT NOT NULL,
    data       TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Entry describes a stored snapshot without loading it.
type Entry struct {
	Slot      string
	ProjectID string
	Name      string
	UpdatedAt time.Time
}

// DB is a snapshot database.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn, err := fileDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db, now: time.Now}, nil
}

// fileDSN builds a sqlite URI for path with its special characters escaped.
func fileDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=rwc&_pragma=busy_timeout(5000)"}
	return u.String(), nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save writes snap into slot, replacing what was there.
func (d *DB) Save(ctx context.Context, slot string, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = d.db.ExecContext(ctx, `
        INSERT INTO snapshots (slot, project_id, name, data, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(slot) DO UPDATE SET
            project_id = excluded.project_id,
            name = excluded.name,
            data = excluded.data,
            updated_at = excluded.updated_at
    `, slot, snap.Project.ID, snap.Project.Name, string(data), d.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

// Load reads the snapshot in slot.
func (d *DB) Load(ctx context.Context, slot string) (store.Snapshot, error) {
	var data string
	err := d.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE slot = ?`, slot).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Snapshot{}, fmt.Errorf("%s: %w", slot, ErrNotFound)
		}
		return store.Snapshot{}, fmt.Errorf("load %s: %w", slot, err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode %s: %w", slot, err)
	}
	return snap, nil
}

// List returns every slot, most recently updated first.
func (d *DB) List(ctx context.Context) ([]Entry, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT slot, project_id, name, updated_at
        FROM snapshots
        ORDER BY updated_at DESC, slot
    `)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.Slot, &e.ProjectID, &e.Name, &ts); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes slot. Deleting an empty slot is not an error.
func (d *DB) Delete(ctx context.Context, slot string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete %s: %w", slot, err)
	}
	return nil
}
