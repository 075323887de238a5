package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// notePadding is the inner padding of a text note in screen pixels.
const notePadding = 8

var (
	regularFont *sfnt.Font
	boldFont    *sfnt.Font
	faces       sync.Map // map[faceKey]font.Face
)

type faceKey struct {
	size float64
	bold bool
}

func init() {
	var err error
	regularFont, err = opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	boldFont, err = opentype.Parse(gobold.TTF)
	if err != nil {
		log.Fatalf("parse bold font: %v", err)
	}
}

// faceFor returns a cached face; sizes are rounded to a quarter point so
// zooming does not grow the cache without bound.
func faceFor(size float64, bold bool) (font.Face, error) {
	if size < 1 {
		size = 1
	}
	size = math.Round(size*4) / 4
	key := faceKey{size, bold}
	if f, ok := faces.Load(key); ok {
		return f.(font.Face), nil
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	if src == nil {
		return nil, fmt.Errorf("text font not initialised")
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faces.Store(key, face)
	return face, nil
}

// wrapText splits text into lines no wider than width. Explicit newlines
// always break; a word wider than width is broken by rune.
func wrapText(face font.Face, text string, width int) []string {
	d := &font.Drawer{Face: face}
	fits := func(s string) bool { return d.MeasureString(s).Ceil() <= width }
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			next := w
			if cur != "" {
				next = cur + " " + w
			}
			if fits(next) {
				cur = next
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
			}
			cur = ""
			for _, r := range w {
				if cur != "" && !fits(cur+string(r)) {
					lines = append(lines, cur)
					cur = ""
				}
				cur += string(r)
			}
		}
		lines = append(lines, cur)
	}
	return lines
}

// drawTextBlock writes wrapped text into img starting at the padded top-left
// corner, clipping lines that fall below the box.
func drawTextBlock(img *image.RGBA, text string, size float64, bold bool, col color.Color, caret bool) error {
	face, err := faceFor(size, bold)
	if err != nil {
		return err
	}
	b := img.Bounds()
	pad := notePadding
	if b.Dx() < 2*pad+1 {
		pad = 0
	}
	m := face.Metrics()
	lineH := m.Height.Ceil()
	if lineH <= 0 {
		lineH = int(size * 1.2)
	}
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	lines := wrapText(face, text, b.Dx()-2*pad)
	y := b.Min.Y + pad + m.Ascent.Ceil()
	var last fixed.Point26_6
	for _, line := range lines {
		if y-m.Ascent.Ceil() > b.Max.Y {
			break
		}
		d.Dot = fixed.P(b.Min.X+pad, y)
		d.DrawString(line)
		last = d.Dot
		y += lineH
	}
	if caret {
		x := last.X.Ceil()
		top := last.Y.Ceil() - m.Ascent.Ceil()
		if len(lines) == 0 {
			x, top = b.Min.X+pad, b.Min.Y+pad
		}
		drawLine(img, x+1, top, x+1, top+m.Ascent.Ceil()+m.Descent.Ceil(), col, 1)
	}
	return nil
}
