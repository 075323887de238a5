package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

func newTestStore() *Store {
	s := New()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func addPoint(s *Store) *annotation.Point {
	p := s.CreatePoint(geom.Pt(10, 10))
	s.Add(p)
	return p
}

func TestPointNumberingMonotonic(t *testing.T) {
	s := newTestStore()
	p1 := addPoint(s)
	p2 := addPoint(s)
	p3 := addPoint(s)
	if p1.Number != 1 || p2.Number != 2 || p3.Number != 3 {
		t.Fatalf("numbers %d %d %d", p1.Number, p2.Number, p3.Number)
	}
	s.Delete(p3.ID)
	p4 := addPoint(s)
	if p4.Number != 4 {
		t.Fatalf("deleted number reused: %d", p4.Number)
	}
	s.Delete(p2.ID)
	p5 := addPoint(s)
	if p5.Number != 5 {
		t.Fatalf("expected 5, got %d", p5.Number)
	}
}

func TestOverlayDefaults(t *testing.T) {
	s := newTestStore()
	p := addPoint(s)
	if !s.IsVisible(p.ID) || s.IsLocked(p.ID) {
		t.Fatal("new annotation should be visible and unlocked")
	}
	delete(s.visible, p.ID)
	delete(s.locked, p.ID)
	if !s.IsVisible(p.ID) || s.IsLocked(p.ID) {
		t.Fatal("missing overlay entries should fail open")
	}
	s.ToggleVisible(p.ID)
	s.ToggleLocked(p.ID)
	if s.IsVisible(p.ID) || !s.IsLocked(p.ID) {
		t.Fatal("toggles had no effect")
	}
	s.Delete(p.ID)
	if _, ok := s.visible[p.ID]; ok {
		t.Fatal("visibility not pruned")
	}
	if _, ok := s.locked[p.ID]; ok {
		t.Fatal("lock not pruned")
	}
}

func TestAddSelectsAndDeleteClearsSelection(t *testing.T) {
	s := newTestStore()
	p := addPoint(s)
	if s.Selected() != p.ID {
		t.Fatalf("selected %q", s.Selected())
	}
	s.Delete(p.ID)
	if s.Selected() != "" {
		t.Fatalf("selection kept after delete: %q", s.Selected())
	}
}

func ids(s *Store) []string {
	var out []string
	for _, a := range s.Annotations() {
		out = append(out, a.Base().ID)
	}
	return out
}

func TestReorder(t *testing.T) {
	s := newTestStore()
	a, b, c := addPoint(s), addPoint(s), addPoint(s)
	s.Reorder(a.ID, Up)
	s.Reorder(c.ID, Down)
	if got := fmt.Sprint(ids(s)); got != fmt.Sprint([]string{a.ID, b.ID, c.ID}) {
		t.Fatalf("boundary reorder changed order: %v", got)
	}
	s.Reorder(c.ID, Up)
	if got := fmt.Sprint(ids(s)); got != fmt.Sprint([]string{a.ID, c.ID, b.ID}) {
		t.Fatalf("up: %v", got)
	}
	s.MoveTo(a.ID, 10)
	if got := fmt.Sprint(ids(s)); got != fmt.Sprint([]string{c.ID, b.ID, a.ID}) {
		t.Fatalf("move to end: %v", got)
	}
	s.MoveTo(b.ID, 0)
	if got := fmt.Sprint(ids(s)); got != fmt.Sprint([]string{b.ID, c.ID, a.ID}) {
		t.Fatalf("move to start: %v", got)
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	s := newTestStore()
	calls := 0
	s.OnChange(func(Snapshot) { calls++ })
	if s.Update("missing", annotation.Patch{X: annotation.Ptr(1.0)}) {
		t.Fatal("update reported success for unknown id")
	}
	s.Delete("missing")
	s.Reorder("missing", Up)
	s.MoveTo("missing", 0)
	s.ToggleLocked("missing")
	s.ToggleVisible("missing")
	if calls != 0 {
		t.Fatalf("listeners fired %d times", calls)
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	s := newTestStore()
	addPoint(s)
	before := s.Project().ID
	bad := annotation.NewProject("")
	err := s.Import(bad)
	if !errors.Is(err, ErrInvalidProject) {
		t.Fatalf("expected ErrInvalidProject, got %v", err)
	}
	if s.Project().ID != before || len(s.Annotations()) != 1 {
		t.Fatal("failed import modified the store")
	}
}

func TestImportResetsState(t *testing.T) {
	s := newTestStore()
	old := addPoint(s)
	s.ToggleLocked(old.ID)

	p := annotation.NewProject("imported")
	p.Annotations = annotation.List{
		annotation.NewPoint("a", geom.Pt(0, 0), 7, annotation.DefaultPointSettings()),
		annotation.NewPoint("b", geom.Pt(0, 0), 3, annotation.DefaultPointSettings()),
	}
	if err := s.Import(p); err != nil {
		t.Fatalf("import: %v", err)
	}
	if s.Project().ID != "imported" {
		t.Fatalf("import minted a new id: %q", s.Project().ID)
	}
	if s.Selected() != "" {
		t.Fatal("selection survived import")
	}
	if s.NextNumber() != 8 {
		t.Fatalf("next number %d", s.NextNumber())
	}
	for _, id := range []string{"a", "b"} {
		if !s.IsVisible(id) || s.IsLocked(id) {
			t.Fatalf("%s overlay not reset", id)
		}
	}
	if _, ok := s.locked[old.ID]; ok {
		t.Fatal("stale overlay entry kept")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore()
	addPoint(s)
	before := s.Project().ID
	s.Clear()
	if s.Project().ID == before || len(s.Annotations()) != 0 || s.NextNumber() != 1 {
		t.Fatal("clear kept previous state")
	}
}

func TestRestoreKeepsOverlays(t *testing.T) {
	s := newTestStore()
	p := addPoint(s)
	s.ToggleVisible(p.ID)
	snap := s.Snapshot()

	other := newTestStore()
	if err := other.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if other.IsVisible(p.ID) {
		t.Fatal("hidden state lost")
	}
}

func TestSetViewClampsZoom(t *testing.T) {
	s := newTestStore()
	s.SetView(geom.Viewport{Zoom: 40})
	if s.Project().Zoom != geom.MaxZoom {
		t.Fatalf("zoom %v", s.Project().Zoom)
	}
}
