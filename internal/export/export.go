// Package export writes projects as standalone HTML documents and reads
// them back.
package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"sync"
	"text/template"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/render"
)

// ErrNoDataBlock is returned when a document carries no project data.
var ErrNoDataBlock = errors.New("no pinmark data block")

// DataBlockID is the id of the script element holding the project JSON.
const DataBlockID = "pinmark-data"

// DefaultTileURL is the tile layer used by map exports.
const DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	tmplOnce sync.Once
	tmpl     *template.Template
)

func parseTemplates() {
	tmpl = template.Must(template.New("").Funcs(map[string]any{
		"esc": html.EscapeString,
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

// Options controls document generation.
type Options struct {
	// TileURL overrides DefaultTileURL for map projects.
	TileURL string
}

type canvasPage struct {
	Title   string
	DataID  string
	Data    string
	SVG     string
	Zoom    float64
	PanX    float64
	PanY    float64
	MinZoom float64
	MaxZoom float64

	// Fixed pixel sizes the viewer keeps constant while zooming.
	ArrowHead      float64
	ArrowHeadAngle float64
	ArrowTrim      float64
	MarkerRing     float64
	LabelOffset    float64
	LabelSize      float64
}

type mapMarker struct {
	ID     string   `json:"id"`
	Lat    float64  `json:"lat"`
	Lng    float64  `json:"lng"`
	Number int      `json:"number"`
	Label  string   `json:"label,omitempty"`
	Color  string   `json:"color"`
	Size   float64  `json:"size"`
	Images []string `json:"images,omitempty"`
}

type mapPage struct {
	Title   string
	DataID  string
	Data    string
	Markers string
	TileURL string
	Lat     float64
	Lng     float64
	Zoom    float64
}

// HTML writes p as a self-contained document. visible filters what is
// drawn; nil shows everything. The embedded data block always holds the
// complete project.
func HTML(w io.Writer, p *annotation.Project, visible func(id string) bool, opts Options) error {
	tmplOnce.Do(parseTemplates)
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	title := p.Name
	if title == "" {
		title = "Untitled Project"
	}
	if p.Mode == annotation.ModeMap {
		return writeMap(w, p, visible, opts, title, string(data))
	}

	var svg bytes.Buffer
	items := render.Project(render.Frame{Project: p, Visible: visible})
	if err := render.WriteSVG(&svg, items); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	page := canvasPage{
		Title:   title,
		DataID:  DataBlockID,
		Data:    string(data),
		SVG:     svg.String(),
		Zoom:    p.Zoom,
		PanX:    p.PanX,
		PanY:    p.PanY,
		MinZoom: 0.1,
		MaxZoom: 5,

		ArrowHead:      render.ArrowHead,
		ArrowHeadAngle: render.ArrowHeadAngle,
		ArrowTrim:      render.ArrowTrim,
		MarkerRing:     render.MarkerRing,
		LabelOffset:    render.LabelOffset,
		LabelSize:      render.LabelSize,
	}
	if page.Zoom <= 0 {
		page.Zoom = 1
	}
	if err := tmpl.ExecuteTemplate(w, "canvas.html.tmpl", page); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func writeMap(w io.Writer, p *annotation.Project, visible func(string) bool, opts Options, title, data string) error {
	markers := []mapMarker{}
	for _, a := range p.Annotations {
		pt, ok := a.(*annotation.Point)
		if !ok || pt.Lat == nil || pt.Lng == nil {
			continue
		}
		if visible != nil && !visible(pt.ID) {
			continue
		}
		markers = append(markers, mapMarker{
			ID:     pt.ID,
			Lat:    *pt.Lat,
			Lng:    *pt.Lng,
			Number: pt.Number,
			Label:  pt.Label,
			Color:  markerColor(pt.DisplayColor()),
			Size:   pt.DisplaySize(),
			Images: pt.AttachedImageURLs,
		})
	}
	mb, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("encode markers: %w", err)
	}
	center, zoom := p.Map()
	tiles := opts.TileURL
	if tiles == "" {
		tiles = DefaultTileURL
	}
	page := mapPage{
		Title:   title,
		DataID:  DataBlockID,
		Data:    data,
		Markers: string(mb),
		TileURL: tiles,
		Lat:     center.Lat,
		Lng:     center.Lng,
		Zoom:    zoom,
	}
	if err := tmpl.ExecuteTemplate(w, "map.html.tmpl", page); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// markerColor normalises c to #rrggbb so it can only ever be a colour in
// the generated page.
func markerColor(c string) string {
	rgba, err := render.ParseColor(c)
	if err != nil {
		rgba, _ = render.ParseColor(annotation.DefaultPointColor)
	}
	return render.Hex(rgba)
}

// Extract reads the project embedded in a document written by HTML.
func Extract(r io.Reader) (annotation.Project, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return annotation.Project{}, fmt.Errorf("read document: %w", err)
	}
	block, err := dataBlock(doc)
	if err != nil {
		return annotation.Project{}, err
	}
	return annotation.ParseProject(block)
}

func dataBlock(doc []byte) ([]byte, error) {
	marker := []byte(`id="` + DataBlockID + `"`)
	i := bytes.Index(doc, marker)
	if i < 0 {
		return nil, ErrNoDataBlock
	}
	rest := doc[i+len(marker):]
	open := bytes.IndexByte(rest, '>')
	if open < 0 {
		return nil, ErrNoDataBlock
	}
	rest = rest[open+1:]
	end := bytes.Index(rest, []byte("</script>"))
	if end < 0 {
		return nil, ErrNoDataBlock
	}
	block := bytes.TrimSpace(rest[:end])
	if len(block) == 0 {
		return nil, ErrNoDataBlock
	}
	return block, nil
}
