package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/pinmark/internal/geom"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func round(v float64) int { return int(math.Round(v)) }

func thickness(w float64) int {
	t := round(w)
	if t < 1 {
		return 1
	}
	return t
}

// strokePath draws a polyline. dash > 0 alternates painted and skipped runs
// of that many pixels.
func strokePath(img *image.RGBA, pts []geom.Point, closed bool, col color.Color, thick int, dash float64) {
	if len(pts) < 2 {
		return
	}
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	travelled := 0.0
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		if dash <= 0 {
			drawLine(img, round(a.X), round(a.Y), round(b.X), round(b.Y), col, thick)
			continue
		}
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		for t := 0.0; t < length; {
			phase := math.Mod(travelled+t, 2*dash)
			run := dash - math.Mod(phase, dash)
			end := math.Min(length, t+run)
			if phase < dash {
				p0 := lerp(a, b, t/length)
				p1 := lerp(a, b, end/length)
				drawLine(img, round(p0.X), round(p0.Y), round(p1.X), round(p1.Y), col, thick)
			}
			t = end
		}
		travelled += length
	}
}

func lerp(a, b geom.Point, t float64) geom.Point {
	return geom.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
}

// fillPolygon fills pts using the even-odd rule, compositing col over img.
func fillPolygon(img *image.RGBA, pts []geom.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	b := img.Bounds()
	y0 := max(int(math.Floor(minY)), b.Min.Y)
	y1 := min(int(math.Ceil(maxY)), b.Max.Y-1)
	src := image.NewUniform(col)
	var xs []float64
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a := pts[i]
			c := pts[(i+1)%len(pts)]
			if (a.Y <= sy && c.Y > sy) || (c.Y <= sy && a.Y > sy) {
				xs = append(xs, a.X+(sy-a.Y)/(c.Y-a.Y)*(c.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := round(xs[i])
			x1 := round(xs[i+1])
			if x1 <= x0 {
				continue
			}
			draw.Draw(img, image.Rect(x0, y, x1, y+1), src, image.Point{}, draw.Over)
		}
	}
}

// ellipsePoints samples the ellipse inscribed in r.
func ellipsePoints(r geom.Rect) []geom.Point {
	rx, ry := r.W/2, r.H/2
	c := r.Center()
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt((rx*rx+ry*ry)/2) / 4))
	if steps < 16 {
		steps = 16
	}
	pts := make([]geom.Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = geom.Pt(c.X+math.Cos(a)*rx, c.Y+math.Sin(a)*ry)
	}
	return pts
}

func rotateAll(pts []geom.Point, c geom.Point, deg float64) []geom.Point {
	if deg == 0 {
		return pts
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = p.RotateAround(c, deg)
	}
	return out
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(img.Bounds()) {
					img.Set(px, py, col)
				}
			}
		}
	}
}

// drawNumberBox draws a numbered pin with the circle centred at (cx, cy).
// The number is black or white depending on the pin brightness.
func drawNumberBox(img *image.RGBA, cx, cy, num int, col color.Color, r int) {
	drawFilledCircle(img, cx, cy, r+2, color.White)
	drawFilledCircle(img, cx, cy, r, col)

	cr, cg, cb, _ := col.RGBA()
	brightness := 0.299*float64(cr>>8) + 0.587*float64(cg>>8) + 0.114*float64(cb>>8)
	textCol := color.Black
	if brightness < 128 {
		textCol = color.White
	}

	text := strconv.Itoa(num)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textCol),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(cx-w/2, cy+4)
	d.DrawString(text)
}

// drawCaption writes text centred horizontally below (cx, y).
func drawCaption(img *image.RGBA, cx, y int, text string) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(text).Ceil()
	bg := image.Rect(cx-w/2-3, y, cx+w/2+3, y+16)
	draw.Draw(img, bg, image.NewUniform(color.RGBA{255, 255, 255, 220}), image.Point{}, draw.Over)
	d.Dst = img
	d.Src = image.Black
	d.Dot = fixed.P(cx-w/2, y+12)
	d.DrawString(text)
}

func drawHandle(img *image.RGBA, p geom.Point) {
	hs := geom.HandleSize / 2
	x, y := round(p.X), round(p.Y)
	r := image.Rect(x-hs, y-hs, x+hs, y+hs)
	draw.Draw(img, r, image.White, image.Point{}, draw.Src)
	strokePath(img, []geom.Point{
		geom.Pt(float64(r.Min.X), float64(r.Min.Y)),
		geom.Pt(float64(r.Max.X-1), float64(r.Min.Y)),
		geom.Pt(float64(r.Max.X-1), float64(r.Max.Y-1)),
		geom.Pt(float64(r.Min.X), float64(r.Max.Y-1)),
	}, true, selectionColor, 1, 0)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
