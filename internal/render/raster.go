package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

const dashLength = 6

var (
	selectionColor = color.RGBA{59, 130, 246, 255}
	// CanvasColor is painted behind the background image.
	CanvasColor  = color.RGBA{243, 244, 246, 255}
	checkerLight = color.RGBA{220, 220, 220, 255}
	checkerDark  = color.RGBA{192, 192, 192, 255}
)

// Raster paints draw items onto an RGBA image.
type Raster struct {
	// Background is the decoded background image referenced by Backdrop
	// items. A nil Background draws a checkerboard placeholder.
	Background image.Image
	// Handles draws selection handles. The exporter leaves them off.
	Handles bool
}

// Draw paints items onto dst in order.
func (r *Raster) Draw(dst *image.RGBA, items []Item) {
	for _, it := range items {
		switch v := it.(type) {
		case Backdrop:
			r.backdrop(dst, v)
		case Marker:
			r.marker(dst, v)
		case Note:
			r.note(dst, v)
		case Figure:
			r.figure(dst, v)
		}
	}
}

// Aff3 converts a matrix to the affine form used by x/image/draw.
func Aff3(m matrix.Matrix) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

func (r *Raster) backdrop(dst *image.RGBA, b Backdrop) {
	if r.Background == nil {
		corners := []geom.Point{
			geom.Apply(b.Matrix, geom.Pt(0, 0)),
			geom.Apply(b.Matrix, geom.Pt(b.Width, 0)),
			geom.Apply(b.Matrix, geom.Pt(b.Width, b.Height)),
			geom.Apply(b.Matrix, geom.Pt(0, b.Height)),
		}
		fillPolygon(dst, corners, checkerDark)
		return
	}
	sb := r.Background.Bounds()
	m := b.Matrix
	if sb.Dx() > 0 && sb.Dy() > 0 && b.Width > 0 && b.Height > 0 &&
		(float64(sb.Dx()) != b.Width || float64(sb.Dy()) != b.Height) {
		// The stored dimensions win over the decoded ones so annotations
		// keep lining up with a downscaled copy.
		m = matrix.Scale(b.Width/float64(sb.Dx()), b.Height/float64(sb.Dy())).Mul(m)
	}
	if sb.Min != (image.Point{}) {
		m = matrix.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)).Mul(m)
	}
	xdraw.BiLinear.Transform(dst, Aff3(m), r.Background, sb, xdraw.Over, nil)
}

func (r *Raster) marker(dst *image.RGBA, m Marker) {
	col := colorOr(m.Color, colorOr(annotation.DefaultPointColor, selectionColor))
	cx, cy := round(m.Center.X), round(m.Center.Y)
	rad := round(m.Radius)
	if rad < 1 {
		rad = 1
	}
	if m.Selected {
		drawFilledCircle(dst, cx, cy, rad+5, selectionColor)
	}
	drawNumberBox(dst, cx, cy, m.Number, col, rad)
	if len(m.Images) > 0 {
		bx := cx + int(float64(rad)*0.7)
		by := cy - int(float64(rad)*0.7)
		drawFilledCircle(dst, bx, by, 4, color.White)
		drawFilledCircle(dst, bx, by, 3, color.RGBA{16, 185, 129, 255})
	}
	if m.Label != "" {
		drawCaption(dst, cx, cy+rad+4, m.Label)
	}
}

func (r *Raster) note(dst *image.RGBA, n Note) {
	w := int(math.Ceil(n.Box.W))
	h := int(math.Ceil(n.Box.H))
	if w <= 0 || h <= 0 {
		return
	}
	tile := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := withOpacity(colorOr(n.Background, color.RGBA{255, 255, 255, 255}), n.BackgroundOpacity)
	draw.Draw(tile, tile.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if n.BorderWidth > 0 || n.Dashed {
		dash := 0.0
		if n.Dashed {
			dash = dashLength
		}
		border := colorOr(n.BorderColor, color.RGBA{229, 231, 235, 255})
		outline := geom.Rect{W: float64(w - 1), H: float64(h - 1)}.Corners()
		strokePath(tile, outline[:], true, border, thickness(n.BorderWidth), dash)
	}
	if err := drawTextBlock(tile, n.Content, n.FontSize, n.Bold, colorOr(n.TextColor, color.RGBA{A: 255}), n.Editing); err != nil {
		log.Printf("draw note %s: %v", n.ID, err)
	}

	if n.Rotation == 0 {
		at := image.Pt(round(n.Box.X), round(n.Box.Y))
		draw.Draw(dst, tile.Bounds().Add(at), tile, image.Point{}, draw.Over)
	} else {
		xdraw.BiLinear.Transform(dst, rotationAff3(n.Box, n.Rotation), tile, tile.Bounds(), xdraw.Over, nil)
	}
	if n.Selected && r.Handles {
		r.boxSelection(dst, n.Box, n.Rotation)
	}
}

// rotationAff3 maps a tile of box's size onto box rotated about its centre.
func rotationAff3(box geom.Rect, deg float64) f64.Aff3 {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	c := box.Center()
	hw, hh := box.W/2, box.H/2
	return f64.Aff3{
		cos, -sin, c.X - cos*hw + sin*hh,
		sin, cos, c.Y - sin*hw - cos*hh,
	}
}

func (r *Raster) figure(dst *image.RGBA, f Figure) {
	stroke := colorOr(f.Stroke, selectionColor)
	thick := thickness(f.StrokeWidth)
	dash := 0.0
	if f.Dashed {
		dash = dashLength
	}
	c := f.Box.Center()
	switch f.Type {
	case annotation.Rectangle, annotation.Circle:
		var pts []geom.Point
		if f.Type == annotation.Rectangle {
			corners := f.Inset.Corners()
			pts = corners[:]
		} else {
			pts = ellipsePoints(f.Inset)
		}
		pts = rotateAll(pts, c, f.Rotation)
		if f.FillOpacity > 0 {
			fillPolygon(dst, pts, withOpacity(colorOr(f.Fill, stroke), f.FillOpacity))
		}
		strokePath(dst, pts, true, stroke, thick, dash)
		if f.Selected && r.Handles {
			r.boxSelection(dst, f.Box, f.Rotation)
		}
	case annotation.Line, annotation.Arrow:
		seg := rotateAll([]geom.Point{f.From, f.To}, c, f.Rotation)
		strokePath(dst, seg, false, stroke, thick, dash)
		if f.Type == annotation.Arrow {
			fillPolygon(dst, rotateAll(f.Head[:], c, f.Rotation), stroke)
		}
		if f.Selected && r.Handles {
			ends := rotateAll([]geom.Point{f.Start, f.End}, c, f.Rotation)
			drawHandle(dst, ends[0])
			drawHandle(dst, ends[1])
		}
	}
}

// boxSelection draws the dashed outline, resize handles and rotate handle
// of a selected box.
func (r *Raster) boxSelection(dst *image.RGBA, box geom.Rect, rotation float64) {
	c := box.Center()
	corners := box.Corners()
	strokePath(dst, rotateAll(corners[:], c, rotation), true, selectionColor, 1, 4)
	for _, p := range geom.BoxHandles(box) {
		drawHandle(dst, p.RotateAround(c, rotation))
	}
	top := geom.Pt(c.X, box.Y).RotateAround(c, rotation)
	knob := geom.RotateHandle(box, 1).RotateAround(c, rotation)
	drawLine(dst, round(top.X), round(top.Y), round(knob.X), round(knob.Y), selectionColor, 1)
	drawFilledCircle(dst, round(knob.X), round(knob.Y), geom.HandleSize/2, selectionColor)
}

// Placeholder paints the empty canvas shown before a background is chosen.
func Placeholder(dst *image.RGBA) {
	drawCheckerboard(dst, dst.Bounds(), 16, checkerLight, checkerDark)
}
