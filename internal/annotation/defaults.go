package annotation

import (
	"math"

	"github.com/example/pinmark/internal/geom"
)

const (
	DefaultPointSize  = 32
	MinPointSize      = 16
	MaxPointSize      = 64
	DefaultPointColor = "#3b82f6"

	DefaultTextWidth       = 200
	DefaultTextHeight      = 100
	DefaultFontSize        = 14
	MinFontSize            = 10
	MaxFontSize            = 32
	DefaultTextColor       = "#000000"
	DefaultTextBackground  = "#ffffff"
	DefaultTextBorderColor = "#e5e7eb"
	DefaultTextBorderWidth = 1
	MaxBorderWidth         = 4

	DefaultStrokeColor = "#3b82f6"
	DefaultStrokeWidth = 2
	MinStrokeWidth     = 1
	MaxStrokeWidth     = 8
)

// PointSettings are applied to newly created points.
type PointSettings struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// DefaultPointSettings returns the stock pin appearance.
func DefaultPointSettings() PointSettings {
	return PointSettings{Size: DefaultPointSize, Color: DefaultPointColor}
}

// NewPoint returns a pin centred at pos.
func NewPoint(id string, pos geom.Point, number int, settings PointSettings) *Point {
	if settings.Size <= 0 {
		settings.Size = DefaultPointSize
	}
	if settings.Color == "" {
		settings.Color = DefaultPointColor
	}
	return &Point{
		Common: Common{ID: id, X: pos.X, Y: pos.Y},
		Number: number,
		Size:   clamp(settings.Size, MinPointSize, MaxPointSize),
		Color:  settings.Color,
	}
}

// NewTextNote returns an empty note occupying box.
func NewTextNote(id string, box geom.Rect) *TextNote {
	return &TextNote{
		Common:            Common{ID: id, X: box.X, Y: box.Y},
		Width:             box.W,
		Height:            box.H,
		FontSize:          DefaultFontSize,
		FontWeight:        FontNormal,
		TextColor:         DefaultTextColor,
		BackgroundColor:   DefaultTextBackground,
		BackgroundOpacity: Ptr(1.0),
		BorderColor:       DefaultTextBorderColor,
		BorderWidth:       Ptr(float64(DefaultTextBorderWidth)),
	}
}

// NewShape returns a shape occupying box. seg is only kept for lines and
// arrows.
func NewShape(id string, st ShapeType, box geom.Rect, seg *geom.Segment) *Shape {
	s := &Shape{
		Common:      Common{ID: id, X: box.X, Y: box.Y},
		ShapeType:   st,
		Width:       box.W,
		Height:      box.H,
		StrokeColor: DefaultStrokeColor,
		StrokeWidth: DefaultStrokeWidth,
	}
	if st.HasEndpoints() && seg != nil {
		s.Endpoints = &Endpoints{StartX: seg.Start.X, StartY: seg.Start.Y, EndX: seg.End.X, EndY: seg.End.Y}
	}
	return s
}

// DisplaySize is the pin diameter, falling back to the default.
func (p *Point) DisplaySize() float64 {
	if p.Size <= 0 {
		return DefaultPointSize
	}
	return p.Size
}

func (p *Point) DisplayColor() string {
	if p.Color == "" {
		return DefaultPointColor
	}
	return p.Color
}

func (t *TextNote) DisplayFontSize() float64 {
	if t.FontSize <= 0 {
		return DefaultFontSize
	}
	return t.FontSize
}

func (t *TextNote) DisplayTextColor() string {
	if t.TextColor == "" {
		return DefaultTextColor
	}
	return t.TextColor
}

func (t *TextNote) DisplayBackground() string {
	if t.BackgroundColor == "" {
		return DefaultTextBackground
	}
	return t.BackgroundColor
}

// Opacity is the background opacity, 1 when unset.
func (t *TextNote) Opacity() float64 {
	if t.BackgroundOpacity == nil {
		return 1
	}
	return clamp(*t.BackgroundOpacity, 0, 1)
}

func (t *TextNote) DisplayBorderColor() string {
	if t.BorderColor == "" {
		return DefaultTextBorderColor
	}
	return t.BorderColor
}

// Border is the border width, 1 when unset.
func (t *TextNote) Border() float64 {
	if t.BorderWidth == nil {
		return DefaultTextBorderWidth
	}
	return clamp(*t.BorderWidth, 0, MaxBorderWidth)
}

func (s *Shape) DisplayStroke() string {
	if s.StrokeColor == "" {
		return DefaultStrokeColor
	}
	return s.StrokeColor
}

func (s *Shape) DisplayStrokeWidth() float64 {
	if s.StrokeWidth <= 0 {
		return DefaultStrokeWidth
	}
	return s.StrokeWidth
}

// Fill is the fill colour, the stroke colour when unset.
func (s *Shape) Fill() string {
	if s.FillColor == "" {
		return s.DisplayStroke()
	}
	return s.FillColor
}

// Segment returns the line endpoints relative to the shape origin. Shapes
// saved without endpoints get a rising line or a horizontal arrow across
// their box.
func (s *Shape) Segment() geom.Segment {
	if s.Endpoints != nil {
		return geom.Segment{
			Start: geom.Pt(s.Endpoints.StartX, s.Endpoints.StartY),
			End:   geom.Pt(s.Endpoints.EndX, s.Endpoints.EndY),
		}
	}
	if s.ShapeType == Arrow {
		return geom.Segment{Start: geom.Pt(0, s.Height/2), End: geom.Pt(s.Width, s.Height/2)}
	}
	return geom.Segment{Start: geom.Pt(0, s.Height), End: geom.Pt(s.Width, 0)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
