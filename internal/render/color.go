package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa or an SVG colour name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	switch len(hex) {
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length in %q", s)
}

// colorOr parses s and falls back to def on error.
func colorOr(s string, def color.RGBA) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// withOpacity scales a straight alpha colour by op and returns it
// premultiplied.
func withOpacity(c color.RGBA, op float64) color.RGBA {
	if op < 0 {
		op = 0
	}
	if op > 1 {
		op = 1
	}
	a := float64(c.A) / 255 * op
	return color.RGBA{
		R: uint8(float64(c.R)*a + 0.5),
		G: uint8(float64(c.G)*a + 0.5),
		B: uint8(float64(c.B)*a + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
