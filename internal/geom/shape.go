package geom

import "math"

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{x, y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// RotateAround rotates p by deg degrees around c.
func (p Point) RotateAround(c Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{c.X + dx*cos - dy*sin, c.Y + dx*sin + dy*cos}
}

// Size is a width and height.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned box given by its origin and dimensions.
type Rect struct {
	X, Y, W, H float64
}

// BoxFrom returns the box spanned by two corners in any order.
func BoxFrom(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

func (r Rect) Origin() Point { return Point{r.X, r.Y} }

func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r grown by tol on every side.
func (r Rect) Contains(p Point, tol float64) bool {
	return p.X >= r.X-tol && p.X <= r.X+r.W+tol && p.Y >= r.Y-tol && p.Y <= r.Y+r.H+tol
}

// Inset shrinks r by d on every side, never below zero size.
func (r Rect) Inset(d float64) Rect {
	out := Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
	if out.W < 0 {
		out.X = r.X + r.W/2
		out.W = 0
	}
	if out.H < 0 {
		out.Y = r.Y + r.H/2
		out.H = 0
	}
	return out
}

// Corners lists the four corners clockwise from the origin.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Segment holds line endpoints relative to a box origin.
type Segment struct {
	Start, End Point
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = clamp(t, 0, 1)
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
