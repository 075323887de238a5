package render

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearPt(a, b geom.Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func canvasProject() *annotation.Project {
	p := annotation.NewProject("p1")
	p.BackgroundImage = "data:image/png;base64,AAAA"
	p.BackgroundWidth = 400
	p.BackgroundHeight = 300
	return &p
}

func TestProjectMapModeYieldsNothing(t *testing.T) {
	p := canvasProject()
	p.Mode = annotation.ModeMap
	p.Annotations = annotation.List{annotation.NewPoint("a", geom.Pt(1, 1), 1, annotation.DefaultPointSettings())}
	if items := Project(Frame{Project: p}); items != nil {
		t.Fatalf("expected no items in map mode, got %d", len(items))
	}
}

func TestProjectBackgroundEditShowsOnlyBackdrop(t *testing.T) {
	p := canvasProject()
	p.Annotations = annotation.List{annotation.NewPoint("a", geom.Pt(1, 1), 1, annotation.DefaultPointSettings())}
	items := Project(Frame{Project: p, BackgroundEdit: true})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if _, ok := items[0].(Backdrop); !ok {
		t.Fatalf("got %T, want Backdrop", items[0])
	}
}

func TestProjectSkipsHidden(t *testing.T) {
	p := canvasProject()
	p.Annotations = annotation.List{
		annotation.NewPoint("a", geom.Pt(1, 1), 1, annotation.DefaultPointSettings()),
		annotation.NewPoint("b", geom.Pt(2, 2), 2, annotation.DefaultPointSettings()),
	}
	items := Project(Frame{Project: p, Visible: func(id string) bool { return id != "a" }})
	if len(items) != 2 {
		t.Fatalf("got %d items, want backdrop and one marker", len(items))
	}
	if m := items[1].(Marker); m.ID != "b" {
		t.Fatalf("got marker %s, want b", m.ID)
	}
}

func TestProjectMarkerPosition(t *testing.T) {
	p := canvasProject()
	p.Zoom, p.PanX, p.PanY = 2, 1, 1
	p.BackgroundSettings.OffsetX = 5
	p.Annotations = annotation.List{annotation.NewPoint("a", geom.Pt(10, 10), 3, annotation.PointSettings{Size: 20, Color: "#ff0000"})}
	m := Project(Frame{Project: p, Selected: "a"})[1].(Marker)
	if !nearPt(m.Center, geom.Pt(31, 21)) {
		t.Fatalf("centre %v, want (31,21)", m.Center)
	}
	if m.Radius != 20 || !m.Selected || m.Number != 3 {
		t.Fatalf("unexpected marker %+v", m)
	}
}

func TestProjectRectangleInset(t *testing.T) {
	p := canvasProject()
	p.Zoom, p.PanX, p.PanY = 2, 5, 5
	s := annotation.NewShape("s", annotation.Rectangle, geom.Rect{X: 10, Y: 20, W: 100, H: 50}, nil)
	s.StrokeWidth = 4
	p.Annotations = annotation.List{s}
	f := Project(Frame{Project: p})[1].(Figure)
	want := geom.Rect{X: 25, Y: 45, W: 200, H: 100}
	if diff := cmp.Diff(want, f.Box); diff != "" {
		t.Fatalf("box mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Rect{X: 29, Y: 49, W: 192, H: 92}, f.Inset); diff != "" {
		t.Fatalf("inset mismatch (-want +got):\n%s", diff)
	}
	if f.StrokeWidth != 8 {
		t.Fatalf("stroke width %v, want 8", f.StrokeWidth)
	}
	if f.Fill != f.Stroke {
		t.Fatalf("fill %q should fall back to stroke %q", f.Fill, f.Stroke)
	}
}

func TestProjectArrowHead(t *testing.T) {
	p := canvasProject()
	seg := geom.Segment{Start: geom.Pt(0, 0), End: geom.Pt(100, 0)}
	p.Annotations = annotation.List{annotation.NewShape("s", annotation.Arrow, geom.Rect{W: 100, H: 20}, &seg)}
	f := Project(Frame{Project: p})[1].(Figure)
	if !nearPt(f.To, geom.Pt(92, 0)) {
		t.Fatalf("shaft ends at %v, want (92,0)", f.To)
	}
	dx := 12 * math.Cos(math.Pi/6)
	if !nearPt(f.Head[0], geom.Pt(100, 0)) || !nearPt(f.Head[1], geom.Pt(100-dx, 6)) || !nearPt(f.Head[2], geom.Pt(100-dx, -6)) {
		t.Fatalf("unexpected head %v", f.Head)
	}
}

func TestProjectArrowHeadIgnoresZoom(t *testing.T) {
	p := canvasProject()
	p.Zoom = 3
	seg := geom.Segment{Start: geom.Pt(0, 0), End: geom.Pt(0, 50)}
	p.Annotations = annotation.List{annotation.NewShape("s", annotation.Arrow, geom.Rect{W: 20, H: 50}, &seg)}
	f := Project(Frame{Project: p})[1].(Figure)
	if got := math.Hypot(f.End.X-f.To.X, f.End.Y-f.To.Y); !near(got, ArrowTrim) {
		t.Fatalf("trim %v, want %v", got, float64(ArrowTrim))
	}
}

func TestProjectDraftIsDashedAndLast(t *testing.T) {
	p := canvasProject()
	p.Annotations = annotation.List{annotation.NewPoint("a", geom.Pt(1, 1), 1, annotation.DefaultPointSettings())}
	draft := annotation.NewShape("", annotation.Circle, geom.Rect{X: 1, Y: 1, W: 30, H: 30}, nil)
	items := Project(Frame{Project: p, Draft: draft})
	f, ok := items[len(items)-1].(Figure)
	if !ok || !f.Dashed {
		t.Fatalf("expected a dashed figure last, got %#v", items[len(items)-1])
	}
}

func TestProjectEditingNoteShowsBuffer(t *testing.T) {
	p := canvasProject()
	n := annotation.NewTextNote("n", geom.Rect{X: 0, Y: 0, W: 200, H: 100})
	n.Content = "old"
	p.Annotations = annotation.List{n}
	note := Project(Frame{Project: p, Editing: "n", EditText: "new"})[1].(Note)
	if !note.Editing || note.Content != "new" {
		t.Fatalf("unexpected note %+v", note)
	}
	if note.BackgroundOpacity != 1 {
		t.Fatalf("opacity %v, want 1", note.BackgroundOpacity)
	}
}

func TestBackdropMatrixMatchesTransform(t *testing.T) {
	p := canvasProject()
	p.Zoom, p.PanX, p.PanY = 2, 10, 20
	p.BackgroundSettings = geom.Background{Scale: 0.5, OffsetX: 3, OffsetY: 4}
	b := Project(Frame{Project: p})[0].(Backdrop)
	got := geom.Apply(b.Matrix, geom.Pt(0, 0))
	want := p.Transform().DocumentToScreen(geom.Pt(0, 0))
	if !nearPt(got, want) {
		t.Fatalf("image origin at %v, want %v", got, want)
	}
}
