// Package render turns a project and view into screen space draw items and
// paints them as raster images or SVG. The live window and the exporter use
// the same items so both produce identical geometry.
package render

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

const (
	// ArrowHead is the length of an arrow head in pixels.
	ArrowHead = 12
	// ArrowHeadAngle is the half angle of an arrow head in degrees.
	ArrowHeadAngle = 30
	// ArrowTrim shortens the arrow shaft so it ends inside the head.
	ArrowTrim = 8
	// MarkerRing is the width of the white ring around a pin.
	MarkerRing = 2
	// LabelOffset is the distance from a pin's edge to its label baseline.
	LabelOffset = 16
	// LabelSize is the pin label font size.
	LabelSize = 12
)

// Frame is everything the projector needs.
type Frame struct {
	Project *annotation.Project
	// Visible reports overlay visibility; nil treats everything as visible.
	Visible        func(id string) bool
	Selected       string
	Editing        string
	EditText       string
	BackgroundEdit bool
	// Draft is an uncommitted shape or note drawn dashed.
	Draft annotation.Annotation
}

// Item is one of Backdrop, Marker, Note or Figure.
type Item interface {
	item()
}

// Backdrop places the background image. Matrix maps image pixels to screen.
type Backdrop struct {
	Image  string
	Width  float64
	Height float64
	Matrix matrix.Matrix
}

// Marker is a numbered pin.
type Marker struct {
	ID       string
	Center   geom.Point
	Radius   float64
	Color    string
	Number   int
	Label    string
	Images   []string
	Selected bool
}

// Note is a text box. Box is unrotated; Rotation turns it about its centre.
type Note struct {
	ID                string
	Box               geom.Rect
	Rotation          float64
	Content           string
	FontSize          float64
	Bold              bool
	TextColor         string
	Background        string
	BackgroundOpacity float64
	BorderColor       string
	BorderWidth       float64
	Selected          bool
	Editing           bool
	Dashed            bool
}

// Figure is a rectangle, circle, line or arrow. All coordinates are screen
// space before Rotation is applied about Box's centre.
type Figure struct {
	ID          string
	Type        annotation.ShapeType
	Box         geom.Rect
	Rotation    float64
	Stroke      string
	StrokeWidth float64
	Fill        string
	FillOpacity float64
	Dashed      bool
	Selected    bool

	// Inset is the stroked outline of a rectangle or circle, shrunk by half
	// the stroke width.
	Inset geom.Rect
	// From and To are the drawn segment of a line or arrow shaft.
	From geom.Point
	To   geom.Point
	// Start and End are the untrimmed line endpoints.
	Start geom.Point
	End   geom.Point
	// Head is the arrow tip triangle.
	Head [3]geom.Point
}

func (Backdrop) item() {}
func (Marker) item()   {}
func (Note) item()     {}
func (Figure) item()   {}

// Project computes the draw items for f in paint order. Map projects yield
// nothing; their markers are drawn by the map widget.
func Project(f Frame) []Item {
	p := f.Project
	if p == nil || p.Mode == annotation.ModeMap {
		return nil
	}
	tr := p.Transform()
	var items []Item
	if p.BackgroundImage != "" {
		items = append(items, Backdrop{
			Image:  p.BackgroundImage,
			Width:  float64(p.BackgroundWidth),
			Height: float64(p.BackgroundHeight),
			Matrix: tr.BackgroundMatrix(),
		})
	}
	if f.BackgroundEdit {
		return items
	}
	for _, a := range p.Annotations {
		id := a.Base().ID
		if f.Visible != nil && !f.Visible(id) {
			continue
		}
		items = append(items, projectOne(a, tr, f, false))
	}
	if f.Draft != nil {
		items = append(items, projectOne(f.Draft, tr, f, true))
	}
	return items
}

func projectOne(a annotation.Annotation, tr geom.Transform, f Frame, dashed bool) Item {
	z := tr.Zoom()
	id := a.Base().ID
	selected := !dashed && id == f.Selected
	switch v := a.(type) {
	case *annotation.Point:
		return Marker{
			ID:       v.ID,
			Center:   tr.DocumentToScreen(geom.Pt(v.X, v.Y)),
			Radius:   v.DisplaySize() / 2 * z,
			Color:    v.DisplayColor(),
			Number:   v.Number,
			Label:    v.Label,
			Images:   v.AttachedImageURLs,
			Selected: selected,
		}
	case *annotation.TextNote:
		n := Note{
			ID:                v.ID,
			Box:               screenBox(v.Bounds(), tr),
			Rotation:          v.Rotation,
			Content:           v.Content,
			FontSize:          v.DisplayFontSize() * z,
			Bold:              v.FontWeight == annotation.FontBold,
			TextColor:         v.DisplayTextColor(),
			Background:        v.DisplayBackground(),
			BackgroundOpacity: v.Opacity(),
			BorderColor:       v.DisplayBorderColor(),
			BorderWidth:       v.Border() * z,
			Selected:          selected,
			Dashed:            dashed,
		}
		if !dashed && v.ID == f.Editing {
			n.Editing = true
			n.Content = f.EditText
		}
		return n
	case *annotation.Shape:
		return figure(v, tr, dashed, selected)
	}
	panic(fmt.Sprintf("render: unhandled annotation %T", a))
}

func screenBox(r geom.Rect, tr geom.Transform) geom.Rect {
	o := tr.DocumentToScreen(r.Origin())
	return geom.Rect{X: o.X, Y: o.Y, W: tr.Length(r.W), H: tr.Length(r.H)}
}

func figure(s *annotation.Shape, tr geom.Transform, dashed, selected bool) Figure {
	box := screenBox(s.Bounds(), tr)
	sw := tr.Length(s.DisplayStrokeWidth())
	f := Figure{
		ID:          s.ID,
		Type:        s.ShapeType,
		Box:         box,
		Rotation:    s.Rotation,
		Stroke:      s.DisplayStroke(),
		StrokeWidth: sw,
		Fill:        s.Fill(),
		FillOpacity: s.FillOpacity,
		Dashed:      dashed,
		Selected:    selected,
	}
	switch s.ShapeType {
	case annotation.Line, annotation.Arrow:
		seg := s.Segment()
		f.Start = box.Origin().Add(seg.Start.Mul(tr.Zoom()))
		f.End = box.Origin().Add(seg.End.Mul(tr.Zoom()))
		f.From, f.To = f.Start, f.End
		if s.ShapeType == annotation.Arrow {
			f.To, f.Head = arrowGeometry(f.Start, f.End)
		}
	default:
		f.Inset = box.Inset(sw / 2)
	}
	return f
}

// arrowGeometry trims the shaft and builds the head triangle with its tip at
// end.
func arrowGeometry(start, end geom.Point) (geom.Point, [3]geom.Point) {
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	half := ArrowHeadAngle * math.Pi / 180
	shaft := geom.Pt(end.X-ArrowTrim*math.Cos(angle), end.Y-ArrowTrim*math.Sin(angle))
	head := [3]geom.Point{
		end,
		{X: end.X - ArrowHead*math.Cos(angle-half), Y: end.Y - ArrowHead*math.Sin(angle-half)},
		{X: end.X - ArrowHead*math.Cos(angle+half), Y: end.Y - ArrowHead*math.Sin(angle+half)},
	}
	return shaft, head
}
