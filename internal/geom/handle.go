package geom

import "math"

// Handle identifies a manipulation grip on a selected annotation.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleStart
	HandleEnd
	HandleRotate
)

var handleNames = [...]string{"none", "nw", "n", "ne", "e", "se", "s", "sw", "w", "start", "end", "rotate"}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "unknown"
}

const (
	// HandleSize is the on-screen edge length of a handle square.
	HandleSize = 8
	// RotateOffset is the on-screen distance of the rotation grip above the
	// top edge.
	RotateOffset = 20
	// MinResize is the smallest width or height a resize drag can produce.
	MinResize = 20
)

// BoxHandles returns the eight resize grips of r clockwise from the
// north-west corner.
func BoxHandles(r Rect) map[Handle]Point {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	return map[Handle]Point{
		HandleNW: {r.X, r.Y},
		HandleN:  {cx, r.Y},
		HandleNE: {r.X + r.W, r.Y},
		HandleE:  {r.X + r.W, cy},
		HandleSE: {r.X + r.W, r.Y + r.H},
		HandleS:  {cx, r.Y + r.H},
		HandleSW: {r.X, r.Y + r.H},
		HandleW:  {r.X, cy},
	}
}

// RotateHandle returns the rotation grip for r. zoom converts the fixed
// on-screen offset into document units.
func RotateHandle(r Rect, zoom float64) Point {
	if zoom <= 0 {
		zoom = 1
	}
	return Point{r.X + r.W/2, r.Y - RotateOffset/zoom}
}

// ResizeBox applies a pointer delta to the edges controlled by h. West and
// north grips move the origin so the opposite edge stays put. Every
// dimension is floored at MinResize.
func ResizeBox(r Rect, h Handle, dx, dy float64) Rect {
	switch h {
	case HandleNE, HandleE, HandleSE:
		r.W = math.Max(MinResize, r.W+dx)
	case HandleNW, HandleW, HandleSW:
		w := math.Max(MinResize, r.W-dx)
		r.X += r.W - w
		r.W = w
	}
	switch h {
	case HandleSW, HandleS, HandleSE:
		r.H = math.Max(MinResize, r.H+dy)
	case HandleNW, HandleN, HandleNE:
		hh := math.Max(MinResize, r.H-dy)
		r.Y += r.H - hh
		r.H = hh
	}
	return r
}

// MoveEndpoint moves the start or end of a line by a pointer delta and
// rebuilds the bounding box from the absolute endpoints. The returned
// segment is relative to the new box origin.
func MoveEndpoint(r Rect, seg Segment, h Handle, dx, dy float64) (Rect, Segment) {
	start := r.Origin().Add(seg.Start)
	end := r.Origin().Add(seg.End)
	switch h {
	case HandleStart:
		start = start.Add(Point{dx, dy})
	case HandleEnd:
		end = end.Add(Point{dx, dy})
	default:
		return r, seg
	}
	box := BoxFrom(start, end)
	out := Segment{Start: start.Sub(box.Origin()), End: end.Sub(box.Origin())}
	box.W = math.Max(MinResize, box.W)
	box.H = math.Max(MinResize, box.H)
	return box, out
}
