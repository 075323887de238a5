package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/appstate"
	"github.com/example/pinmark/internal/storage"
	"github.com/example/pinmark/internal/store"
)

// workspace is a project file opened for editing.
type workspace struct {
	path    string
	store   *store.Store
	session *appstate.Session
	db      *storage.DB
}

// decodeProjectFile accepts a saved snapshot or a bare project document.
func decodeProjectFile(data []byte) (store.Snapshot, error) {
	var probe struct {
		Project json.RawMessage `json:"project"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode project file: %w", err)
	}
	if len(probe.Project) == 0 {
		p, err := annotation.ParseProject(data)
		if err != nil {
			return store.Snapshot{}, err
		}
		return store.Snapshot{Project: p}, nil
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode project file: %w", err)
	}
	return snap, nil
}

func readProjectFile(path string) (store.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Snapshot{}, err
	}
	snap, err := decodeProjectFile(data)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// writeProjectFile replaces path atomically.
func writeProjectFile(path string, snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".pinmark-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		closeWithLog(tmp.Name(), tmp)
		removeWithLog(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		removeWithLog(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		removeWithLog(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openWorkspace loads path into a fresh store and attaches autosave when it
// is enabled. A missing file is an error unless create is set.
func (r *root) openWorkspace(path string, create bool) (*workspace, error) {
	st := store.New()
	snap, err := readProjectFile(path)
	switch {
	case err == nil:
		if err := st.Restore(snap); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case create && errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	w := &workspace{path: path, store: st, session: appstate.NewSession(st)}
	if r != nil && r.config != nil && r.config.Autosave && r.config.Storage != "" {
		db, err := storage.Open(r.config.Storage)
		if err != nil {
			log.Printf("autosave: %v", err)
		} else {
			w.db = db
			storage.NewPersister(db, storage.AutosaveSlot).Attach(st)
		}
	}
	return w, nil
}

func (w *workspace) Save() error {
	return writeProjectFile(w.path, w.store.Snapshot())
}

func (w *workspace) Close() {
	if w.db != nil {
		closeWithLog("storage", w.db)
	}
}

func closeWithLog(name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		log.Printf("%s: close: %v", name, err)
	}
}

func removeWithLog(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("remove %s: %v", path, err)
	}
}

// marshalCompact encodes v without HTML escaping.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
