package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ShadowOptions configures the drop shadow around exported pictures.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult is a picture with its shadow.
type ShadowResult struct {
	Image *image.RGBA
	// Offset is where the original top-left corner landed on the expanded
	// canvas.
	Offset image.Point
}

// DefaultShadowOptions is the shadow used by PNG export.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// ApplyShadow draws img over a blurred, offset copy of its alpha channel on
// a canvas large enough for both. The result has a zero origin. A zero
// opacity returns img unchanged.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	src := img.Bounds()
	if src.Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	alpha := uint8(min(opts.Opacity, 1)*255 + 0.5)
	if alpha == 0 {
		return ShadowResult{Image: img}
	}
	radius := max(opts.Radius, 0)

	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	canvas := src.Union(shadow)

	mask := image.NewGray(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	boxBlur(mask, radius)

	dst := image.NewRGBA(image.Rect(0, 0, canvas.Dx(), canvas.Dy()))
	ink := image.NewUniform(color.RGBA{A: alpha})
	xdraw.DrawMask(dst, mask.Bounds().Add(shadow.Min.Sub(canvas.Min)), ink, image.Point{}, mask, image.Point{}, xdraw.Over)
	xdraw.Draw(dst, src.Sub(canvas.Min), img, src.Min, xdraw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(canvas.Min)}
}

// boxBlur blurs g in place with a (2r+1) box, horizontally then vertically.
// Windows are clipped at the edges.
func boxBlur(g *image.Gray, r int) {
	if r <= 0 {
		return
	}
	w, h := g.Rect.Dx(), g.Rect.Dy()
	line := make([]uint8, max(w, h))
	sums := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		blurLine(row, 1, w, r, line, sums)
	}
	for x := 0; x < w; x++ {
		blurLine(g.Pix[x:], g.Stride, h, r, line, sums)
	}
}

// blurLine averages n samples spaced step apart in pix.
func blurLine(pix []uint8, step, n, r int, line []uint8, sums []int) {
	for i := 0; i < n; i++ {
		sums[i+1] = sums[i] + int(pix[i*step])
	}
	for i := 0; i < n; i++ {
		lo, hi := max(i-r, 0), min(i+r, n-1)
		line[i] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
	}
	for i := 0; i < n; i++ {
		pix[i*step] = line[i]
	}
}
