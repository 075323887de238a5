// Package store owns the project being edited together with the per
// annotation visibility and lock overlays.
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

// ErrInvalidProject is returned when an imported project fails validation.
var ErrInvalidProject = errors.New("invalid project")

// Direction moves an annotation one step in paint order.
type Direction int

const (
	// Up moves towards the start of the list.
	Up Direction = iota
	// Down moves towards the end of the list.
	Down
)

// Snapshot is the persistable state of a store. Annotations are shared with
// the store and must not be modified.
type Snapshot struct {
	Project annotation.Project `json:"project"`
	Visible map[string]bool    `json:"visibility"`
	Locked  map[string]bool    `json:"locked"`
}

// Store is the single owner of the edited project. It is not safe for
// concurrent use.
type Store struct {
	project    annotation.Project
	visible    map[string]bool
	locked     map[string]bool
	selected   string
	nextNumber int
	listeners  []func(Snapshot)
	newID      func() string
}

// New returns a store holding an empty project.
func New() *Store {
	s := &Store{newID: func() string { return uuid.New().String() }}
	s.reset(annotation.NewProject(s.newID()))
	return s
}

func (s *Store) reset(p annotation.Project) {
	s.project = p
	s.visible = make(map[string]bool, len(p.Annotations))
	s.locked = make(map[string]bool, len(p.Annotations))
	for _, a := range p.Annotations {
		id := a.Base().ID
		s.visible[id] = true
		s.locked[id] = false
	}
	s.selected = ""
	s.nextNumber = maxNumber(p.Annotations) + 1
}

func maxNumber(list annotation.List) int {
	n := 0
	for _, a := range list {
		if p, ok := a.(*annotation.Point); ok && p.Number > n {
			n = p.Number
		}
	}
	return n
}

// OnChange registers fn to be called after every mutation.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed() {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.listeners {
		fn(snap)
	}
}

// Snapshot returns the current state for persistence.
func (s *Store) Snapshot() Snapshot {
	vis := make(map[string]bool, len(s.visible))
	for k, v := range s.visible {
		vis[k] = v
	}
	lk := make(map[string]bool, len(s.locked))
	for k, v := range s.locked {
		lk[k] = v
	}
	return Snapshot{Project: s.project, Visible: vis, Locked: lk}
}

// Project returns the current project. The annotation list is shared with
// the store.
func (s *Store) Project() *annotation.Project {
	return &s.project
}

// Annotations returns the ordered collection.
func (s *Store) Annotations() annotation.List {
	return s.project.Annotations
}

// Find returns the annotation with id or nil.
func (s *Store) Find(id string) annotation.Annotation {
	a, _ := s.project.Find(id)
	return a
}

// NextNumber reports the number the next point will receive.
func (s *Store) NextNumber() int { return s.nextNumber }

// CreatePoint returns a defaulted point at pos and consumes a number.
func (s *Store) CreatePoint(pos geom.Point) *annotation.Point {
	n := s.nextNumber
	s.nextNumber++
	return annotation.NewPoint(s.newID(), pos, n, s.project.DefaultPointSettings)
}

// CreateTextNote returns a defaulted note occupying box.
func (s *Store) CreateTextNote(box geom.Rect) *annotation.TextNote {
	return annotation.NewTextNote(s.newID(), box)
}

// CreateShape returns a defaulted shape occupying box.
func (s *Store) CreateShape(st annotation.ShapeType, box geom.Rect, seg *geom.Segment) *annotation.Shape {
	return annotation.NewShape(s.newID(), st, box, seg)
}

// Add appends a on top, selects it and marks it visible and unlocked.
func (s *Store) Add(a annotation.Annotation) {
	id := a.Base().ID
	s.project.Annotations = append(s.project.Annotations, a)
	s.visible[id] = true
	s.locked[id] = false
	s.selected = id
	if p, ok := a.(*annotation.Point); ok && p.Number >= s.nextNumber {
		s.nextNumber = p.Number + 1
	}
	s.changed()
}

// Update merges patch into the annotation with id. It reports whether the
// annotation exists.
func (s *Store) Update(id string, patch annotation.Patch) bool {
	a := s.Find(id)
	if a == nil {
		return false
	}
	patch.Apply(a)
	s.changed()
	return true
}

// Delete removes the annotation with id and prunes its overlay state.
func (s *Store) Delete(id string) {
	_, i := s.project.Find(id)
	if i < 0 {
		return
	}
	list := s.project.Annotations
	s.project.Annotations = append(list[:i:i], list[i+1:]...)
	if len(s.project.Annotations) == 0 {
		s.project.Annotations = nil
	}
	delete(s.visible, id)
	delete(s.locked, id)
	if s.selected == id {
		s.selected = ""
	}
	s.changed()
}

// Reorder swaps the annotation with its neighbour. Moving past either end
// does nothing.
func (s *Store) Reorder(id string, dir Direction) {
	_, i := s.project.Find(id)
	if i < 0 {
		return
	}
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	list := s.project.Annotations
	if j < 0 || j >= len(list) {
		return
	}
	list[i], list[j] = list[j], list[i]
	s.changed()
}

// MoveTo reinserts the annotation with id at index, clamped to the list.
func (s *Store) MoveTo(id string, index int) {
	a, i := s.project.Find(id)
	if i < 0 {
		return
	}
	list := append(s.project.Annotations[:i:i], s.project.Annotations[i+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	list = append(list[:index], append(annotation.List{a}, list[index:]...)...)
	s.project.Annotations = list
	s.changed()
}

// IsVisible reports the visibility of id; unknown ids are visible.
func (s *Store) IsVisible(id string) bool {
	v, ok := s.visible[id]
	return !ok || v
}

// IsLocked reports the lock state of id; unknown ids are unlocked.
func (s *Store) IsLocked(id string) bool {
	return s.locked[id]
}

func (s *Store) ToggleVisible(id string) {
	if s.Find(id) == nil {
		return
	}
	s.visible[id] = !s.IsVisible(id)
	s.changed()
}

func (s *Store) ToggleLocked(id string) {
	if s.Find(id) == nil {
		return
	}
	s.locked[id] = !s.IsLocked(id)
	s.changed()
}

// Select marks id as selected. An empty id or an unknown id clears the
// selection.
func (s *Store) Select(id string) {
	if id != "" && s.Find(id) == nil {
		id = ""
	}
	if s.selected == id {
		return
	}
	s.selected = id
}

func (s *Store) Selected() string { return s.selected }

// Clear replaces the project with a fresh empty one.
func (s *Store) Clear() {
	s.reset(annotation.NewProject(s.newID()))
	s.changed()
}

// Import replaces the project wholesale. The project keeps its id. Nothing
// changes when validation fails.
func (s *Store) Import(p annotation.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	s.reset(p)
	s.changed()
	return nil
}

// Restore loads a persisted snapshot including its overlay state.
func (s *Store) Restore(snap Snapshot) error {
	if err := snap.Project.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	s.reset(snap.Project)
	for id := range s.visible {
		if v, ok := snap.Visible[id]; ok {
			s.visible[id] = v
		}
		if l, ok := snap.Locked[id]; ok {
			s.locked[id] = l
		}
	}
	s.changed()
	return nil
}
