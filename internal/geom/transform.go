// Package geom implements the coordinate spaces shared by the editor, the
// renderers and the exporter.
//
// Screen space is pixels relative to the canvas. World space undoes the
// viewport pan and zoom. Document space is world space with the background
// offset removed and is what annotations are stored in.
package geom

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 5.0
	ZoomStep = 0.1
)

// Viewport is the pan and zoom of the canvas.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// Background is the transform applied to the background image only.
// Offsets are stored in unscaled background units.
type Background struct {
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	OffsetX  float64 `json:"offsetX"`
	OffsetY  float64 `json:"offsetY"`
}

// IdentityBackground returns settings that leave the background untouched.
func IdentityBackground() Background {
	return Background{Scale: 1}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return clamp(z, MinZoom, MaxZoom)
}

// Transform converts between screen, world and document space.
type Transform struct {
	View       Viewport
	Background Background
}

func (t Transform) zoom() float64 {
	if t.View.Zoom <= 0 {
		return 1
	}
	return t.View.Zoom
}

func (t Transform) bgScale() float64 {
	if t.Background.Scale <= 0 {
		return 1
	}
	return t.Background.Scale
}

// Zoom reports the effective zoom factor.
func (t Transform) Zoom() float64 { return t.zoom() }

// ScreenToWorld undoes pan and zoom.
func (t Transform) ScreenToWorld(p Point) Point {
	z := t.zoom()
	return Point{(p.X - t.View.PanX) / z, (p.Y - t.View.PanY) / z}
}

// WorldToScreen applies zoom and pan.
func (t Transform) WorldToScreen(p Point) Point {
	z := t.zoom()
	return Point{p.X*z + t.View.PanX, p.Y*z + t.View.PanY}
}

// ScreenToDocument converts a pointer position into annotation coordinates.
func (t Transform) ScreenToDocument(p Point) Point {
	w := t.ScreenToWorld(p)
	return Point{w.X - t.Background.OffsetX, w.Y - t.Background.OffsetY}
}

// DocumentToScreen maps annotation coordinates to the canvas:
// screen = (offset + x) * zoom + pan.
func (t Transform) DocumentToScreen(p Point) Point {
	return t.WorldToScreen(Point{t.Background.OffsetX + p.X, t.Background.OffsetY + p.Y})
}

// Length scales a document length to screen pixels.
func (t Transform) Length(v float64) float64 {
	return v * t.zoom()
}

// BackgroundMatrix returns the transform placing the background image on
// screen: translate(pan + offset*zoom), then scale(zoom*bgScale), then
// rotate(bgRotation), with rotation and scale about the image origin.
func (t Transform) BackgroundMatrix() matrix.Matrix {
	z := t.zoom()
	s := z * t.bgScale()
	tx := t.View.PanX + t.Background.OffsetX*z
	ty := t.View.PanY + t.Background.OffsetY*z
	return matrix.RotateDeg(t.Background.Rotation).Mul(matrix.Scale(s, s)).Mul(matrix.Translate(tx, ty))
}

// Apply maps p through a PDF-ordered matrix.
func Apply(m matrix.Matrix, p Point) Point {
	return Point{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ZoomAt changes the zoom to z1 while keeping the world point under mouse
// fixed on screen.
func ZoomAt(v Viewport, mouse Point, z1 float64) Viewport {
	z0 := v.Zoom
	if z0 <= 0 {
		z0 = 1
	}
	z1 = ClampZoom(z1)
	wx := (mouse.X - v.PanX) / z0
	wy := (mouse.Y - v.PanY) / z0
	return Viewport{Zoom: z1, PanX: mouse.X - wx*z1, PanY: mouse.Y - wy*z1}
}

// AngleDeg returns the angle of p around center in degrees.
func AngleDeg(center, p Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
}

// ComposeRotation applies the rotation delta of a drag to the rotation the
// shape had when the drag started.
func ComposeRotation(startAngle, currentAngle, startRotation float64) float64 {
	return currentAngle - startAngle + startRotation
}

// Fit returns a viewport showing an image of size img centred in a
// container of size container.
func Fit(container, img Size) Viewport {
	if img.W <= 0 || img.H <= 0 || container.W <= 0 || container.H <= 0 {
		return Viewport{Zoom: 1}
	}
	z := math.Min(container.W/img.W, container.H/img.H)
	z = ClampZoom(z)
	return Viewport{
		Zoom: z,
		PanX: (container.W - img.W*z) / 2,
		PanY: (container.H - img.H*z) / 2,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
