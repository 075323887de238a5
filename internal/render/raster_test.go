package render

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}},
		{"#0f0", color.RGBA{0, 255, 0, 255}},
		{"#00000080", color.RGBA{0, 0, 0, 128}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseColor("#12345"); err == nil {
		t.Fatal("expected error for bad hex length")
	}
}

func TestRasterRectangleStroke(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	f := Figure{
		Type:        annotation.Rectangle,
		Box:         geom.Rect{X: 10, Y: 10, W: 50, H: 50},
		Inset:       geom.Rect{X: 11, Y: 11, W: 48, H: 48},
		Stroke:      "#ff0000",
		StrokeWidth: 2,
	}
	(&Raster{}).Draw(dst, []Item{f})
	if got := dst.RGBAAt(30, 11); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("stroke pixel %v, want red", got)
	}
	if got := dst.RGBAAt(30, 30); got.A != 0 {
		t.Fatalf("interior should stay empty without fill, got %v", got)
	}
}

func TestRasterFilledCircle(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	f := Figure{
		Type:        annotation.Circle,
		Box:         geom.Rect{X: 0, Y: 0, W: 100, H: 100},
		Inset:       geom.Rect{X: 1, Y: 1, W: 98, H: 98},
		Stroke:      "#0000ff",
		StrokeWidth: 2,
		Fill:        "#0000ff",
		FillOpacity: 1,
	}
	(&Raster{}).Draw(dst, []Item{f})
	if got := dst.RGBAAt(50, 50); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("centre pixel %v, want blue", got)
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("corner outside the ellipse was painted: %v", got)
	}
}

func TestRasterBackdropPlacement(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range bg.Pix {
		bg.Pix[i] = 255
	}
	p := canvasProject()
	p.BackgroundWidth, p.BackgroundHeight = 10, 10
	p.PanX, p.PanY = 20, 20
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	(&Raster{Background: bg}).Draw(dst, Project(Frame{Project: p}))
	if got := dst.RGBAAt(25, 25); got.A == 0 {
		t.Fatal("expected background inside the panned rectangle")
	}
	if got := dst.RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("background leaked outside its rectangle: %v", got)
	}
}

func TestRasterNoteDrawsBackground(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 120, 80))
	n := Note{
		Box:               geom.Rect{X: 10, Y: 10, W: 100, H: 60},
		Content:           "hello world",
		FontSize:          14,
		TextColor:         "#000000",
		Background:        "#00ff00",
		BackgroundOpacity: 1,
	}
	(&Raster{}).Draw(dst, []Item{n})
	if got := dst.RGBAAt(100, 60); got != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("note background %v, want green", got)
	}
}

func TestWrapText(t *testing.T) {
	face, err := faceFor(14, false)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	lines := wrapText(face, "one two three four five six\nseven", 60)
	if len(lines) < 3 {
		t.Fatalf("expected wrapping, got %q", lines)
	}
	if lines[len(lines)-1] != "seven" {
		t.Fatalf("explicit newline not honoured: %q", lines)
	}
}

func TestWriteSVG(t *testing.T) {
	p := canvasProject()
	pt := annotation.NewPoint("a", geom.Pt(10, 10), 1, annotation.DefaultPointSettings())
	pt.AttachedImageURLs = []string{"data:image/jpeg;base64,xyz"}
	pt.Label = `Fish & "chips"`
	n := annotation.NewTextNote("n", geom.Rect{W: 200, H: 100})
	n.Content = "<b>hi</b>"
	n.Rotation = 45
	seg := geom.Segment{Start: geom.Pt(0, 0), End: geom.Pt(100, 0)}
	p.Annotations = annotation.List{pt, n, annotation.NewShape("s", annotation.Arrow, geom.Rect{W: 100, H: 20}, &seg)}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, Project(Frame{Project: p})); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`class="pm-background"`,
		`preserveAspectRatio="none" transform="matrix(`,
		`data-images="[&#34;data:image/jpeg;base64,xyz&#34;]"`,
		`Fish &amp; &#34;chips&#34;`,
		`&lt;b&gt;hi&lt;/b&gt;`,
		`rotate(45 100 50)`,
		`<line x1="0" y1="0" x2="92" y2="0"`,
		`<polygon points="100,0 `,
		`<g class="pm-shape pm-arrow" data-id="s" data-arrow="0 0 100 0">`,
		`class="pm-ring" data-r="`,
		`font-size="12" fill="#111827" class="pm-label" data-y="`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
