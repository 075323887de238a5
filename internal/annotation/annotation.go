// Package annotation defines the markup objects placed over a background and
// the project that holds them.
package annotation

import (
	"github.com/example/pinmark/internal/geom"
)

// Kind discriminates the annotation variants on the wire.
type Kind string

const (
	KindPoint Kind = "point"
	KindText  Kind = "text"
	KindShape Kind = "shape"
)

// ShapeType selects the geometry of a Shape.
type ShapeType string

const (
	Rectangle ShapeType = "rectangle"
	Circle    ShapeType = "circle"
	Line      ShapeType = "line"
	Arrow     ShapeType = "arrow"
)

// Valid reports whether s is one of the supported shape types.
func (s ShapeType) Valid() bool {
	switch s {
	case Rectangle, Circle, Line, Arrow:
		return true
	}
	return false
}

// HasEndpoints reports whether the shape direction is stored as endpoints.
func (s ShapeType) HasEndpoints() bool {
	return s == Line || s == Arrow
}

type FontWeight string

const (
	FontNormal FontWeight = "normal"
	FontBold   FontWeight = "bold"
)

// Common holds the fields shared by every annotation.
type Common struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Label    string   `json:"label,omitempty"`
	Rotation float64  `json:"rotation,omitempty"`
}

// Annotation is implemented by *Point, *TextNote and *Shape only.
type Annotation interface {
	Base() *Common
	Kind() Kind
	// Bounds is the unrotated box in document space.
	Bounds() geom.Rect
	Clone() Annotation
	sealed()
}

// Point is a numbered pin. X and Y are its centre.
type Point struct {
	Common
	Number            int
	Size              float64
	Color             string
	AttachedImageURLs []string
}

// TextNote is a box of text.
type TextNote struct {
	Common
	Width             float64
	Height            float64
	Content           string
	FontSize          float64
	FontWeight        FontWeight
	TextColor         string
	BackgroundColor   string
	BackgroundOpacity *float64
	BorderColor       string
	BorderWidth       *float64
}

// Endpoints are line ends relative to the shape origin.
type Endpoints struct {
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
}

// Shape is a rectangle, circle, line or arrow. Endpoints is set for lines
// and arrows.
type Shape struct {
	Common
	ShapeType   ShapeType
	Width       float64
	Height      float64
	Endpoints   *Endpoints
	StrokeColor string
	StrokeWidth float64
	FillColor   string
	FillOpacity float64
}

func (c *Common) Base() *Common { return c }

func (*Point) Kind() Kind    { return KindPoint }
func (*TextNote) Kind() Kind { return KindText }
func (*Shape) Kind() Kind    { return KindShape }

func (*Point) sealed()    {}
func (*TextNote) sealed() {}
func (*Shape) sealed()    {}

func (p *Point) Bounds() geom.Rect {
	s := p.DisplaySize()
	return geom.Rect{X: p.X - s/2, Y: p.Y - s/2, W: s, H: s}
}

func (t *TextNote) Bounds() geom.Rect {
	return geom.Rect{X: t.X, Y: t.Y, W: t.Width, H: t.Height}
}

func (s *Shape) Bounds() geom.Rect {
	return geom.Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
}

func (c Common) clone() Common {
	out := c
	if c.Lat != nil {
		out.Lat = Ptr(*c.Lat)
	}
	if c.Lng != nil {
		out.Lng = Ptr(*c.Lng)
	}
	return out
}

func (p *Point) Clone() Annotation {
	out := *p
	out.Common = p.Common.clone()
	if p.AttachedImageURLs != nil {
		out.AttachedImageURLs = append([]string(nil), p.AttachedImageURLs...)
	}
	return &out
}

func (t *TextNote) Clone() Annotation {
	out := *t
	out.Common = t.Common.clone()
	if t.BackgroundOpacity != nil {
		out.BackgroundOpacity = Ptr(*t.BackgroundOpacity)
	}
	if t.BorderWidth != nil {
		out.BorderWidth = Ptr(*t.BorderWidth)
	}
	return &out
}

func (s *Shape) Clone() Annotation {
	out := *s
	out.Common = s.Common.clone()
	if s.Endpoints != nil {
		ep := *s.Endpoints
		out.Endpoints = &ep
	}
	return &out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
