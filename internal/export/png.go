package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
	"github.com/example/pinmark/internal/ingest"
	"github.com/example/pinmark/internal/render"
)

// PNGOptions controls raster export.
type PNGOptions struct {
	// Shadow adds a drop shadow around the picture.
	Shadow bool
}

const (
	blankWidth  = 800
	blankHeight = 600
	blankMargin = 20
)

// Image rasterizes p at zoom 1 without pan. The picture is sized to the
// background, or to the annotations when there is none.
func Image(p *annotation.Project, visible func(id string) bool) (*image.RGBA, error) {
	flat := *p
	flat.Zoom, flat.PanX, flat.PanY = 1, 0, 0

	var bg image.Image
	if flat.BackgroundImage != "" {
		img, err := ingest.DecodeDataURI(flat.BackgroundImage)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		bg = img
	}
	w, h := canvasSize(&flat, bg, visible)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(render.CanvasColor), image.Point{}, draw.Src)

	r := render.Raster{Background: bg}
	r.Draw(dst, render.Project(render.Frame{Project: &flat, Visible: visible}))
	return dst, nil
}

func canvasSize(p *annotation.Project, bg image.Image, visible func(string) bool) (int, int) {
	if bg != nil {
		w, h := p.BackgroundWidth, p.BackgroundHeight
		if w <= 0 || h <= 0 {
			w, h = bg.Bounds().Dx(), bg.Bounds().Dy()
		}
		return w, h
	}
	var ext geom.Point
	for _, a := range p.Annotations {
		if visible != nil && !visible(a.Base().ID) {
			continue
		}
		b := a.Bounds()
		ext.X = math.Max(ext.X, b.X+b.W)
		ext.Y = math.Max(ext.Y, b.Y+b.H)
	}
	w := max(blankWidth, int(math.Ceil(ext.X))+blankMargin)
	h := max(blankHeight, int(math.Ceil(ext.Y))+blankMargin)
	return w, h
}

// PNG writes p as a PNG image.
func PNG(w io.Writer, p *annotation.Project, visible func(id string) bool, opts PNGOptions) error {
	img, err := Image(p, visible)
	if err != nil {
		return err
	}
	if opts.Shadow {
		img = render.ApplyShadow(img, render.DefaultShadowOptions()).Image
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
