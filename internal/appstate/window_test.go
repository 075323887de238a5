package appstate

import (
	"math"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
	"github.com/example/pinmark/internal/store"
	"github.com/example/pinmark/internal/theme"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		in   key.Event
		want KeyEvent
	}{
		{key.Event{Code: key.CodeEscape}, KeyEvent{Key: KeyEscape}},
		{key.Event{Code: key.CodeDeleteBackspace}, KeyEvent{Key: KeyBackspace}},
		{key.Event{Code: key.CodeDeleteForward}, KeyEvent{Key: KeyDelete}},
		{key.Event{Code: key.CodeSpacebar, Rune: ' '}, KeyEvent{Key: KeySpace}},
		{key.Event{Code: key.CodeLeftArrow}, KeyEvent{Key: KeyLeft}},
		{key.Event{Code: key.CodeP, Rune: 'p'}, KeyEvent{Rune: 'p'}},
		{key.Event{Code: key.CodeLeftShift, Rune: -1}, KeyEvent{}},
	}
	for _, tc := range tests {
		if got := translateKey(tc.in); got != tc.want {
			t.Errorf("translateKey(%v) = %+v, want %+v", tc.in.Code, got, tc.want)
		}
	}
}

func TestTranslateWheel(t *testing.T) {
	pos := geom.Pt(3, 4)
	we, ok := translateWheel(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, pos)
	if !ok || we.DeltaY >= 0 || we.Pos != pos {
		t.Fatalf("wheel up gave %+v %v", we, ok)
	}
	if _, ok := translateWheel(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirPress}, pos); ok {
		t.Fatal("left press is not a wheel event")
	}
}

func TestToCanvas(t *testing.T) {
	p, in := toCanvas(mouse.Event{X: 10, Y: toolbarHeight + 5}, 600)
	if !in || p != geom.Pt(10, 5) {
		t.Fatalf("got %v %v", p, in)
	}
	if _, in := toCanvas(mouse.Event{X: 10, Y: 2}, 600); in {
		t.Fatal("toolbar is outside the canvas")
	}
}

func TestToolAt(t *testing.T) {
	if tool, ok := toolAt(6); !ok || tool != ToolSelect {
		t.Fatalf("got %v %v, want select", tool, ok)
	}
	if _, ok := toolAt(5000); ok {
		t.Fatal("no tool that far right")
	}
}

func TestMercatorViewRoundTrip(t *testing.T) {
	mv := &mercatorView{center: annotation.LatLng{Lat: 40.7128, Lng: -74.006}, zoom: 13, size: geom.Size{W: 800, H: 600}}
	centre := mv.screenAt(mv.center)
	if math.Abs(centre.X-400) > 1e-6 || math.Abs(centre.Y-300) > 1e-6 {
		t.Fatalf("centre projects to %v", centre)
	}
	ll := mv.latLngAt(geom.Pt(120, 80))
	back := mv.screenAt(ll)
	if math.Abs(back.X-120) > 1e-6 || math.Abs(back.Y-80) > 1e-6 {
		t.Fatalf("round trip gave %v", back)
	}
	mv.pan(geom.Pt(100, 0))
	if mv.center.Lng <= -74.006 {
		t.Fatalf("panning right should move east, got %v", mv.center.Lng)
	}
}

func TestWithTheme(t *testing.T) {
	s := NewSession(store.New())
	if w := NewWindow(s, WithTheme(nil)); w.theme == nil || w.theme.Name != theme.Default().Name {
		t.Fatalf("nil theme should keep the default, got %+v", w.theme)
	}
	custom := &theme.Theme{Name: "Custom"}
	if w := NewWindow(s, WithTheme(custom)); w.theme != custom {
		t.Fatalf("got %+v, want custom theme", w.theme)
	}
}

func TestClickTracker(t *testing.T) {
	var c clickTracker
	t0 := time.Unix(100, 0)
	if c.press(geom.Pt(10, 10), t0) {
		t.Fatal("first press is never a double click")
	}
	if c.press(geom.Pt(300, 200), t0.Add(100*time.Millisecond)) {
		t.Fatal("a quick press elsewhere is a new click")
	}
	if !c.press(geom.Pt(302, 199), t0.Add(200*time.Millisecond)) {
		t.Fatal("a quick press in the same spot is a double click")
	}
	if c.press(geom.Pt(302, 199), t0.Add(300*time.Millisecond)) {
		t.Fatal("a third press starts over")
	}
	if c.press(geom.Pt(302, 199), t0.Add(300*time.Millisecond+doubleClickGap)) {
		t.Fatal("a slow second press is a new click")
	}
}
