package storage

import (
	"context"
	"errors"
	"log"

	"github.com/example/pinmark/internal/store"
)

// Persister writes every store change into one slot. Failures are logged
// and otherwise ignored so editing carries on in memory.
type Persister struct {
	db   *DB
	slot string
}

// NewPersister returns a persister writing to slot.
func NewPersister(db *DB, slot string) *Persister {
	if slot == "" {
		slot = AutosaveSlot
	}
	return &Persister{db: db, slot: slot}
}

// Attach registers p as a change listener on st.
func (p *Persister) Attach(st *store.Store) {
	st.OnChange(p.Save)
}

// Save persists snap.
func (p *Persister) Save(snap store.Snapshot) {
	if p == nil || p.db == nil {
		return
	}
	if err := p.db.Save(context.Background(), p.slot, snap); err != nil {
		log.Printf("autosave: %v", err)
	}
}

// Restore loads the slot into st. A missing slot is not an error.
func (p *Persister) Restore(ctx context.Context, st *store.Store) (bool, error) {
	snap, err := p.db.Load(ctx, p.slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := st.Restore(snap); err != nil {
		return false, err
	}
	return true, nil
}
