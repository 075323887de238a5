package appstate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
	"github.com/example/pinmark/internal/store"
)

func newCanvasSession(t *testing.T) *Session {
	t.Helper()
	st := store.New()
	st.SetBackground("data:image/png;base64,AAAA", 800, 600)
	return NewSession(st)
}

func left(x, y float64) PointerEvent {
	return PointerEvent{Pos: geom.Pt(x, y), Button: ButtonLeft}
}

func drag(s *Session, from, to geom.Point) {
	s.PointerDown(PointerEvent{Pos: from, Button: ButtonLeft})
	s.PointerMove(PointerEvent{Pos: to, Button: ButtonLeft})
	s.PointerUp(PointerEvent{Pos: to, Button: ButtonLeft})
}

func onlyShape(t *testing.T, s *Session) *annotation.Shape {
	t.Helper()
	list := s.Store().Annotations()
	if len(list) != 1 {
		t.Fatalf("got %d annotations, want 1", len(list))
	}
	sh, ok := list[0].(*annotation.Shape)
	if !ok {
		t.Fatalf("got %T, want *annotation.Shape", list[0])
	}
	return sh
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCreateAndDragRectangle(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(100, 100), geom.Pt(220, 180))

	sh := onlyShape(t, s)
	if sh.ShapeType != annotation.Rectangle {
		t.Fatalf("shape type %q", sh.ShapeType)
	}
	if diff := cmp.Diff(geom.Rect{X: 100, Y: 100, W: 120, H: 80}, sh.Bounds()); diff != "" {
		t.Fatalf("created box mismatch (-want +got):\n%s", diff)
	}
	if s.Mode() != ModeIdle || s.Draft() != nil {
		t.Fatalf("session not idle after release: %v", s.Mode())
	}

	s.SetTool(ToolSelect)
	drag(s, geom.Pt(150, 120), geom.Pt(180, 110))
	if diff := cmp.Diff(geom.Rect{X: 130, Y: 90, W: 120, H: 80}, sh.Bounds()); diff != "" {
		t.Fatalf("dragged box mismatch (-want +got):\n%s", diff)
	}
}

func TestDraftShownWhileDrawing(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolCircle)
	s.PointerDown(left(10, 10))
	s.PointerMove(left(60, 40))
	if s.Mode() != ModeDrawing {
		t.Fatalf("mode %v, want drawing", s.Mode())
	}
	d, ok := s.Draft().(*annotation.Shape)
	if !ok || d.Bounds() != (geom.Rect{X: 10, Y: 10, W: 50, H: 30}) {
		t.Fatalf("unexpected draft %#v", s.Draft())
	}
	if len(s.Store().Annotations()) != 0 {
		t.Fatal("draft must not be committed before release")
	}
}

func TestTextClickFallsBackToDefaultSize(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolText)
	s.PointerDown(left(300, 300))
	s.PointerUp(left(300, 300))

	list := s.Store().Annotations()
	if len(list) != 1 {
		t.Fatalf("got %d annotations, want 1", len(list))
	}
	n, ok := list[0].(*annotation.TextNote)
	if !ok {
		t.Fatalf("got %T, want *annotation.TextNote", list[0])
	}
	if n.Width != 200 || n.Height != 100 {
		t.Fatalf("note size %vx%v, want 200x100", n.Width, n.Height)
	}
	if s.EditingID() != n.ID {
		t.Fatalf("new note should be in edit mode")
	}
}

func TestTinyShapeDragIsDropped(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(100, 100), geom.Pt(104, 103))
	if n := len(s.Store().Annotations()); n != 0 {
		t.Fatalf("got %d annotations, want none", n)
	}
	drag(s, geom.Pt(100, 100), geom.Pt(108, 102))
	sh := onlyShape(t, s)
	if sh.Width != 10 || sh.Height != 10 {
		t.Fatalf("size %vx%v, want floor 10x10", sh.Width, sh.Height)
	}
}

func TestCreationNeedsBackground(t *testing.T) {
	s := NewSession(store.New())
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(0, 0), geom.Pt(100, 100))
	s.SetTool(ToolPoint)
	s.PointerDown(left(5, 5))
	if n := len(s.Store().Annotations()); n != 0 {
		t.Fatalf("got %d annotations without a background", n)
	}
}

func TestLineEndpointIndependentOfBox(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolLine)
	drag(s, geom.Pt(50, 200), geom.Pt(250, 50))

	sh := onlyShape(t, s)
	if diff := cmp.Diff(geom.Rect{X: 50, Y: 50, W: 200, H: 150}, sh.Bounds()); diff != "" {
		t.Fatalf("box mismatch (-want +got):\n%s", diff)
	}
	want := &annotation.Endpoints{StartX: 0, StartY: 150, EndX: 200, EndY: 0}
	if diff := cmp.Diff(want, sh.Endpoints); diff != "" {
		t.Fatalf("endpoints mismatch (-want +got):\n%s", diff)
	}

	s.SetTool(ToolSelect)
	drag(s, geom.Pt(50, 200), geom.Pt(50, 50))
	if diff := cmp.Diff(geom.Rect{X: 50, Y: 50, W: 200, H: geom.MinResize}, sh.Bounds()); diff != "" {
		t.Fatalf("box after endpoint drag (-want +got):\n%s", diff)
	}
	want = &annotation.Endpoints{StartX: 0, StartY: 0, EndX: 200, EndY: 0}
	if diff := cmp.Diff(want, sh.Endpoints); diff != "" {
		t.Fatalf("endpoints after drag (-want +got):\n%s", diff)
	}
}

func TestResizeFloor(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(100, 100), geom.Pt(220, 180))
	sh := onlyShape(t, s)

	s.SetTool(ToolSelect)
	s.PointerDown(left(220, 180))
	if s.Mode() != ModeResizing {
		t.Fatalf("mode %v, want resizing", s.Mode())
	}
	s.PointerMove(left(90, 90))
	s.PointerUp(left(90, 90))
	if diff := cmp.Diff(geom.Rect{X: 100, Y: 100, W: 20, H: 20}, sh.Bounds()); diff != "" {
		t.Fatalf("box mismatch (-want +got):\n%s", diff)
	}
}

func TestResizeWestKeepsEastEdge(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(100, 100), geom.Pt(220, 180))
	sh := onlyShape(t, s)

	s.SetTool(ToolSelect)
	drag(s, geom.Pt(100, 140), geom.Pt(300, 140))
	if sh.X+sh.Width != 220 || sh.Width != 20 {
		t.Fatalf("box %v, want east edge at 220 and width 20", sh.Bounds())
	}
}

func TestRotationContinuity(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(100, 100), geom.Pt(220, 180))
	sh := onlyShape(t, s)
	s.Store().Update(sh.ID, annotation.Patch{Rotation: annotation.Ptr(30.0)})

	s.SetTool(ToolSelect)
	c := sh.Bounds().Center()
	grip := geom.RotateHandle(sh.Bounds(), 1).RotateAround(c, 30)
	s.PointerDown(PointerEvent{Pos: grip, Button: ButtonLeft})
	if s.Mode() != ModeRotating {
		t.Fatalf("mode %v, want rotating", s.Mode())
	}
	s.PointerMove(PointerEvent{Pos: grip, Button: ButtonLeft})
	s.PointerUp(PointerEvent{Pos: grip, Button: ButtonLeft})
	if !approx(sh.Rotation, 30) {
		t.Fatalf("rotation jumped to %v", sh.Rotation)
	}

	grip = geom.RotateHandle(sh.Bounds(), 1).RotateAround(c, 30)
	s.PointerDown(PointerEvent{Pos: grip, Button: ButtonLeft})
	to := geom.Pt(c.X+60*math.Cos(math.Pi/6), c.Y+60*math.Sin(math.Pi/6))
	s.PointerMove(PointerEvent{Pos: to, Button: ButtonLeft})
	s.PointerUp(PointerEvent{Pos: to, Button: ButtonLeft})
	if !approx(sh.Rotation, 120) {
		t.Fatalf("rotation %v, want 120", sh.Rotation)
	}
}

func addPointWithImages(t *testing.T, s *Session, at geom.Point, urls ...string) *annotation.Point {
	t.Helper()
	s.SetTool(ToolPoint)
	s.PointerDown(PointerEvent{Pos: at, Button: ButtonLeft})
	s.PointerUp(PointerEvent{Pos: at, Button: ButtonLeft})
	list := s.Store().Annotations()
	p, ok := list[len(list)-1].(*annotation.Point)
	if !ok {
		t.Fatalf("got %T, want *annotation.Point", list[len(list)-1])
	}
	s.Store().Update(p.ID, annotation.Patch{AttachedImageURLs: &urls})
	s.SetTool(ToolSelect)
	return p
}

func TestClickOpensPreviewButDragDoesNot(t *testing.T) {
	s := newCanvasSession(t)
	p := addPointWithImages(t, s, geom.Pt(50, 50), "img-a", "img-b")

	s.PointerDown(left(50, 50))
	s.PointerUp(left(50, 50))
	if _, ok := s.Preview(); !ok {
		t.Fatal("click without movement should open the preview")
	}
	if got := s.PreviewImage(); got != "img-a" {
		t.Fatalf("preview shows %q, want img-a", got)
	}
	s.KeyDown(KeyEvent{Key: KeyEscape})
	if _, ok := s.Preview(); ok {
		t.Fatal("escape should close the preview")
	}

	drag(s, geom.Pt(50, 50), geom.Pt(60, 65))
	if !s.HasDragged() {
		t.Fatal("movement should set hasDragged")
	}
	if _, ok := s.Preview(); ok {
		t.Fatal("drag must not open the preview")
	}
	if p.X != 60 || p.Y != 65 {
		t.Fatalf("point at (%v,%v), want (60,65)", p.X, p.Y)
	}
}

func TestLockedHitSelectsWithoutDragging(t *testing.T) {
	s := newCanvasSession(t)
	p := addPointWithImages(t, s, geom.Pt(50, 50), "img-a")
	s.Store().ToggleLocked(p.ID)
	s.Store().Select("")

	drag(s, geom.Pt(50, 50), geom.Pt(90, 90))
	if p.X != 50 || p.Y != 50 {
		t.Fatalf("locked point moved to (%v,%v)", p.X, p.Y)
	}
	if s.Store().Selected() != p.ID {
		t.Fatal("locked point should still be selectable")
	}
	if _, ok := s.Preview(); !ok {
		t.Fatal("locked point with images should open the preview")
	}

	s.KeyDown(KeyEvent{Key: KeyDelete})
	if s.Store().Find(p.ID) == nil {
		t.Fatal("locked point must not be deleted")
	}
}

func TestHiddenAnnotationsAreNotHit(t *testing.T) {
	s := newCanvasSession(t)
	p := addPointWithImages(t, s, geom.Pt(50, 50))
	s.Store().ToggleVisible(p.ID)
	s.PointerDown(left(50, 50))
	s.PointerUp(left(50, 50))
	if s.Store().Selected() != "" {
		t.Fatal("hidden point should not be selectable")
	}
}

func TestPreviewNavigationWraps(t *testing.T) {
	s := newCanvasSession(t)
	addPointWithImages(t, s, geom.Pt(50, 50), "a", "b", "c")
	s.PointerDown(left(50, 50))
	s.PointerUp(left(50, 50))

	s.KeyDown(KeyEvent{Key: KeyRight})
	if got := s.PreviewImage(); got != "b" {
		t.Fatalf("after right got %q, want b", got)
	}
	s.KeyDown(KeyEvent{Key: KeyLeft})
	s.KeyDown(KeyEvent{Key: KeyLeft})
	if got := s.PreviewImage(); got != "c" {
		t.Fatalf("after wrapping left got %q, want c", got)
	}
}

func TestShortcuts(t *testing.T) {
	s := newCanvasSession(t)
	s.KeyDown(KeyEvent{Rune: 'r'})
	if s.Tool() != ToolRectangle {
		t.Fatalf("tool %v, want rectangle", s.Tool())
	}
	s.KeyDown(KeyEvent{Rune: 'A'})
	if s.Tool() != ToolArrow {
		t.Fatalf("tool %v, want arrow", s.Tool())
	}

	s.SetTextFocus(true)
	s.KeyDown(KeyEvent{Rune: 'c'})
	if s.Tool() != ToolArrow {
		t.Fatal("shortcuts must be ignored while a text field has focus")
	}
	s.SetTextFocus(false)

	p := addPointWithImages(t, s, geom.Pt(50, 50))
	s.KeyDown(KeyEvent{Key: KeyBackspace})
	if s.Store().Find(p.ID) != nil {
		t.Fatal("backspace should delete the selection")
	}
}

func TestInlineTextEditing(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolText)
	s.PointerDown(left(10, 10))
	s.PointerUp(left(10, 10))
	id := s.EditingID()

	for _, r := range "hix" {
		s.KeyDown(KeyEvent{Rune: r})
	}
	s.KeyDown(KeyEvent{Key: KeyBackspace})
	s.KeyDown(KeyEvent{Key: KeyEnter})
	s.KeyDown(KeyEvent{Key: KeySpace})
	s.KeyDown(KeyEvent{Rune: 'v'})
	if s.Tool() != ToolText {
		t.Fatal("typing must not switch tools")
	}
	s.KeyDown(KeyEvent{Key: KeyEscape})

	n := s.Store().Find(id).(*annotation.TextNote)
	if n.Content != "hi\n v" {
		t.Fatalf("content %q", n.Content)
	}
	if s.EditingID() != "" {
		t.Fatal("escape should leave edit mode")
	}

	s.SetTool(ToolSelect)
	if !s.DoubleClick(geom.Pt(20, 20)) {
		t.Fatal("double click on a note should report editing")
	}
	if s.EditingID() != id || s.EditText() != "hi\n v" {
		t.Fatalf("double click should start editing %s", id)
	}
	s.PointerDown(left(700, 500))
	s.PointerUp(left(700, 500))
	if s.EditingID() != "" {
		t.Fatal("clicking outside should commit the note")
	}
}

func TestDoubleClickOffNoteKeepsPress(t *testing.T) {
	s := newCanvasSession(t)
	s.SetTool(ToolPoint)
	s.PointerDown(left(10, 10))
	s.PointerUp(left(10, 10))
	if s.DoubleClick(geom.Pt(12, 11)) {
		t.Fatal("no note under the press, nothing to edit")
	}
	s.PointerDown(left(12, 11))
	s.PointerUp(left(12, 11))
	if n := len(s.Store().Annotations()); n != 2 {
		t.Fatalf("got %d points, want 2", n)
	}
}

func TestPanning(t *testing.T) {
	s := newCanvasSession(t)
	s.KeyDown(KeyEvent{Key: KeySpace})
	drag(s, geom.Pt(0, 0), geom.Pt(15, -5))
	s.KeyUp(KeyEvent{Key: KeySpace})
	v := s.Store().Project().View()
	if v.PanX != 15 || v.PanY != -5 {
		t.Fatalf("pan (%v,%v), want (15,-5)", v.PanX, v.PanY)
	}

	s.PointerDown(PointerEvent{Pos: geom.Pt(0, 0), Button: ButtonMiddle})
	s.PointerMove(PointerEvent{Pos: geom.Pt(5, 5), Button: ButtonMiddle})
	s.PointerUp(PointerEvent{Pos: geom.Pt(5, 5), Button: ButtonMiddle})
	v = s.Store().Project().View()
	if v.PanX != 20 || v.PanY != 0 {
		t.Fatalf("pan (%v,%v), want (20,0)", v.PanX, v.PanY)
	}

	s.SetTool(ToolRectangle)
	s.PointerDown(PointerEvent{Pos: geom.Pt(0, 0), Button: ButtonLeft, Alt: true})
	if s.Mode() != ModePanning {
		t.Fatalf("alt+drag mode %v, want panning", s.Mode())
	}
}

func TestWheelZoomKeepsPointerFixed(t *testing.T) {
	s := newCanvasSession(t)
	s.Store().SetView(geom.Viewport{Zoom: 1, PanX: 30, PanY: 40})
	at := geom.Pt(200, 100)
	before := s.Store().Project().Transform().ScreenToWorld(at)
	s.Wheel(WheelEvent{Pos: at, DeltaY: -1})
	tr := s.Store().Project().Transform()
	if !approx(tr.Zoom(), 1.1) {
		t.Fatalf("zoom %v, want 1.1", tr.Zoom())
	}
	after := tr.ScreenToWorld(at)
	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Fatalf("world point moved from %v to %v", before, after)
	}
}

func TestBackgroundEditMode(t *testing.T) {
	s := newCanvasSession(t)
	s.Store().SetView(geom.Viewport{Zoom: 2})
	s.SetTool(ToolRectangle)
	s.ToggleBackgroundEdit()
	if !s.BackgroundEdit() || s.Tool() != ToolSelect {
		t.Fatal("background edit should force the select tool")
	}
	s.SetTool(ToolCircle)
	if s.Tool() != ToolSelect {
		t.Fatal("tool changes are ignored while editing the background")
	}

	drag(s, geom.Pt(10, 10), geom.Pt(30, 50))
	bg := s.Store().Project().BackgroundSettings
	if bg.OffsetX != 10 || bg.OffsetY != 20 {
		t.Fatalf("offset (%v,%v), want (10,20)", bg.OffsetX, bg.OffsetY)
	}
	s.Wheel(WheelEvent{Pos: geom.Pt(0, 0), DeltaY: -1})
	if bg := s.Store().Project().BackgroundSettings; !approx(bg.Scale, 1.1) {
		t.Fatalf("scale %v, want 1.1", bg.Scale)
	}
	if z := s.Store().Project().Zoom; z != 2 {
		t.Fatalf("view zoom changed to %v", z)
	}

	s.KeyDown(KeyEvent{Key: KeyEscape})
	if s.BackgroundEdit() {
		t.Fatal("escape should leave background edit")
	}
	s.ResetBackground()
	if diff := cmp.Diff(geom.IdentityBackground(), s.Store().Project().BackgroundSettings); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestBackgroundEditNeedsImage(t *testing.T) {
	s := NewSession(store.New())
	s.ToggleBackgroundEdit()
	if s.BackgroundEdit() {
		t.Fatal("background edit requires a background")
	}
}

func TestMapModeClicks(t *testing.T) {
	s := newCanvasSession(t)
	s.Store().SetMode(annotation.ModeMap)
	s.SetTool(ToolRectangle)
	drag(s, geom.Pt(0, 0), geom.Pt(100, 100))
	s.MapClick(annotation.LatLng{Lat: 1, Lng: 2})
	if n := len(s.Store().Annotations()); n != 0 {
		t.Fatalf("got %d annotations, want none", n)
	}

	s.SetTool(ToolPoint)
	s.MapClick(annotation.LatLng{Lat: 51.5, Lng: -0.12})
	list := s.Store().Annotations()
	if len(list) != 1 {
		t.Fatalf("got %d annotations, want 1", len(list))
	}
	p := list[0].(*annotation.Point)
	if p.Lat == nil || *p.Lat != 51.5 || p.Lng == nil || *p.Lng != -0.12 || p.Number != 1 {
		t.Fatalf("unexpected point %+v", p)
	}
}
