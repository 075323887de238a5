package render

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

// svgWriter keeps the first write error so element helpers stay terse.
type svgWriter struct {
	w   io.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(v string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(v))
	return strings.ReplaceAll(b.String(), `"`, "&#34;")
}

// SVGMatrix formats m as an SVG transform.
func SVGMatrix(m [6]float64) string {
	return "matrix(" + num(m[0]) + " " + num(m[1]) + " " + num(m[2]) + " " + num(m[3]) + " " + num(m[4]) + " " + num(m[5]) + ")"
}

func rotateAttr(deg float64, c geom.Point) string {
	if deg == 0 {
		return ""
	}
	return ` transform="rotate(` + num(deg) + " " + num(c.X) + " " + num(c.Y) + `)"`
}

// WriteSVG writes items as the inner elements of an SVG group. Attribute
// values use the same screen coordinates as the raster back end.
func WriteSVG(w io.Writer, items []Item) error {
	s := &svgWriter{w: w}
	for _, it := range items {
		switch v := it.(type) {
		case Backdrop:
			s.printf(`<image class="pm-background" href="%s" width="%s" height="%s" preserveAspectRatio="none" transform="%s"/>`+"\n",
				attr(v.Image), num(v.Width), num(v.Height), SVGMatrix(v.Matrix))
		case Marker:
			s.marker(v)
		case Note:
			s.note(v)
		case Figure:
			s.figure(v)
		}
	}
	return s.err
}

func (s *svgWriter) marker(m Marker) {
	images := "[]"
	if len(m.Images) > 0 {
		b, err := json.Marshal(m.Images)
		if err != nil {
			s.err = fmt.Errorf("encode images for %s: %w", m.ID, err)
			return
		}
		images = string(b)
	}
	col := Hex(colorOr(m.Color, colorOr(annotation.DefaultPointColor, selectionColor)))
	textCol := "#000000"
	c := colorOr(m.Color, selectionColor)
	if 0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B) < 128 {
		textCol = "#ffffff"
	}
	s.printf(`<g class="pm-point" data-id="%s" data-images="%s">`, attr(m.ID), attr(images))
	s.printf(`<circle cx="%s" cy="%s" r="%s" fill="#ffffff" class="pm-ring" data-r="%s"/>`,
		num(m.Center.X), num(m.Center.Y), num(m.Radius+MarkerRing), num(m.Radius))
	s.printf(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(m.Center.X), num(m.Center.Y), num(m.Radius), col)
	s.printf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-weight="bold" font-size="%s" fill="%s">%d</text>`,
		num(m.Center.X), num(m.Center.Y), num(m.Radius), textCol, m.Number)
	if m.Label != "" {
		s.printf(`<text x="%s" y="%s" text-anchor="middle" font-family="sans-serif" font-size="%d" fill="#111827" class="pm-label" data-y="%s">%s</text>`,
			num(m.Center.X), num(m.Center.Y+m.Radius+LabelOffset), LabelSize, num(m.Center.Y+m.Radius), attr(m.Label))
	}
	s.printf("</g>\n")
}

func (s *svgWriter) note(n Note) {
	dash := ""
	if n.Dashed {
		dash = ` stroke-dasharray="6 6"`
	}
	weight := "normal"
	if n.Bold {
		weight = "bold"
	}
	b := n.Box
	s.printf(`<g class="pm-text" data-id="%s"%s>`, attr(n.ID), rotateAttr(n.Rotation, b.Center()))
	s.printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%s"%s/>`,
		num(b.X), num(b.Y), num(b.W), num(b.H), attr(n.Background), num(n.BackgroundOpacity), attr(n.BorderColor), num(n.BorderWidth), dash)
	s.printf(`<foreignObject x="%s" y="%s" width="%s" height="%s">`, num(b.X), num(b.Y), num(b.W), num(b.H))
	s.printf(`<div xmlns="http://www.w3.org/1999/xhtml" style="box-sizing:border-box;width:100%%;height:100%%;padding:%dpx;overflow:hidden;white-space:pre-wrap;word-wrap:break-word;font-family:sans-serif;font-size:%spx;font-weight:%s;color:%s">%s</div>`,
		notePadding, num(n.FontSize), weight, attr(n.TextColor), attr(n.Content))
	s.printf("</foreignObject></g>\n")
}

func (s *svgWriter) figure(f Figure) {
	dash := ""
	if f.Dashed {
		dash = ` stroke-dasharray="6 6"`
	}
	stroke := attr(f.Stroke)
	// arrows carry their untrimmed ends so a viewer can rebuild the head at
	// a fixed pixel size
	class, ends := "pm-shape", ""
	if f.Type == annotation.Arrow {
		class = "pm-shape pm-arrow"
		ends = ` data-arrow="` + num(f.Start.X) + " " + num(f.Start.Y) + " " + num(f.End.X) + " " + num(f.End.Y) + `"`
	}
	s.printf(`<g class="%s" data-id="%s"%s%s>`, class, attr(f.ID), ends, rotateAttr(f.Rotation, f.Box.Center()))
	switch f.Type {
	case annotation.Rectangle:
		r := f.Inset
		s.printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%s"%s/>`,
			num(r.X), num(r.Y), num(r.W), num(r.H), attr(f.Fill), num(f.FillOpacity), stroke, num(f.StrokeWidth), dash)
	case annotation.Circle:
		r := f.Inset
		c := r.Center()
		s.printf(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%s"%s/>`,
			num(c.X), num(c.Y), num(r.W/2), num(r.H/2), attr(f.Fill), num(f.FillOpacity), stroke, num(f.StrokeWidth), dash)
	case annotation.Line, annotation.Arrow:
		s.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"%s/>`,
			num(f.From.X), num(f.From.Y), num(f.To.X), num(f.To.Y), stroke, num(f.StrokeWidth), dash)
		if f.Type == annotation.Arrow {
			h := f.Head
			s.printf(`<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`,
				num(h[0].X), num(h[0].Y), num(h[1].X), num(h[1].Y), num(h[2].X), num(h[2].Y), stroke)
		}
	}
	s.printf("</g>\n")
}
