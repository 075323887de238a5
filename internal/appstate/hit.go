package appstate

import (
	"math"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

// hitSlop is the on-screen tolerance for grabbing thin geometry.
const hitSlop = 4

// local maps a document point into the unrotated frame of a.
func local(a annotation.Annotation, p geom.Point) geom.Point {
	rot := a.Base().Rotation
	if rot == 0 {
		return p
	}
	return p.RotateAround(a.Bounds().Center(), -rot)
}

// hitBody reports whether p, in document space, touches a.
func hitBody(a annotation.Annotation, p geom.Point, zoom float64) bool {
	tol := hitSlop / zoom
	switch v := a.(type) {
	case *annotation.Point:
		c := geom.Pt(v.X, v.Y)
		return math.Hypot(p.X-c.X, p.Y-c.Y) <= v.DisplaySize()/2+tol
	case *annotation.TextNote:
		return v.Bounds().Contains(local(a, p), tol)
	case *annotation.Shape:
		lp := local(a, p)
		if v.ShapeType.HasEndpoints() {
			seg := v.Segment()
			o := v.Bounds().Origin()
			return geom.DistanceToSegment(lp, o.Add(seg.Start), o.Add(seg.End)) <= v.DisplayStrokeWidth()/2+tol
		}
		return v.Bounds().Contains(lp, tol)
	}
	return false
}

// handles returns the grips offered by a in document space, unrotated.
func handles(a annotation.Annotation, zoom float64) map[geom.Handle]geom.Point {
	switch v := a.(type) {
	case *annotation.TextNote:
		hs := geom.BoxHandles(v.Bounds())
		hs[geom.HandleRotate] = geom.RotateHandle(v.Bounds(), zoom)
		return hs
	case *annotation.Shape:
		if v.ShapeType.HasEndpoints() {
			seg := v.Segment()
			o := v.Bounds().Origin()
			return map[geom.Handle]geom.Point{
				geom.HandleStart: o.Add(seg.Start),
				geom.HandleEnd:   o.Add(seg.End),
			}
		}
		hs := geom.BoxHandles(v.Bounds())
		hs[geom.HandleRotate] = geom.RotateHandle(v.Bounds(), zoom)
		return hs
	}
	return nil
}

// hitHandle returns the grip of a under p, preferring endpoint and rotation
// grips over box grips.
func hitHandle(a annotation.Annotation, p geom.Point, zoom float64) geom.Handle {
	lp := local(a, p)
	reach := (geom.HandleSize/2 + 2) / zoom
	best := geom.HandleNone
	bestDist := math.Inf(1)
	for h, hp := range handles(a, zoom) {
		d := math.Max(math.Abs(lp.X-hp.X), math.Abs(lp.Y-hp.Y))
		if d > reach {
			continue
		}
		if d < bestDist || (d == bestDist && h > best) {
			best, bestDist = h, d
		}
	}
	return best
}
