package annotation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/pinmark/internal/geom"
)

// Mode selects between an image canvas and a geographic map.
type Mode string

const (
	ModeCanvas Mode = "canvas"
	ModeMap    Mode = "map"
)

// LatLng is a geographic position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultMapCenter is used for map projects that have not been moved yet.
var DefaultMapCenter = LatLng{Lat: 40.7128, Lng: -74.0060}

const DefaultMapZoom = 13

// Project is the document being edited.
type Project struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Mode                 Mode            `json:"mode"`
	BackgroundImage      string          `json:"backgroundImage,omitempty"`
	BackgroundWidth      int             `json:"backgroundWidth,omitempty"`
	BackgroundHeight     int             `json:"backgroundHeight,omitempty"`
	BackgroundSettings   geom.Background `json:"backgroundSettings"`
	Annotations          List            `json:"annotations"`
	Zoom                 float64         `json:"zoom"`
	PanX                 float64         `json:"panX"`
	PanY                 float64         `json:"panY"`
	MapCenter            *LatLng         `json:"mapCenter,omitempty"`
	MapZoom              float64         `json:"mapZoom,omitempty"`
	DefaultPointSettings PointSettings   `json:"defaultPointSettings"`
}

// NewProject returns an empty canvas project.
func NewProject(id string) Project {
	return Project{
		ID:                   id,
		Name:                 "Untitled Project",
		Mode:                 ModeCanvas,
		BackgroundSettings:   geom.IdentityBackground(),
		Zoom:                 1,
		DefaultPointSettings: DefaultPointSettings(),
	}
}

// View returns the viewport stored in the project.
func (p *Project) View() geom.Viewport {
	return geom.Viewport{Zoom: p.Zoom, PanX: p.PanX, PanY: p.PanY}
}

// Transform returns the document to screen transform at the stored view.
func (p *Project) Transform() geom.Transform {
	return geom.Transform{View: p.View(), Background: p.BackgroundSettings}
}

// Map returns the stored map view, falling back to the defaults.
func (p *Project) Map() (LatLng, float64) {
	c := DefaultMapCenter
	if p.MapCenter != nil {
		c = *p.MapCenter
	}
	z := p.MapZoom
	if z <= 0 {
		z = DefaultMapZoom
	}
	return c, z
}

// Find returns the annotation with id and its index, or nil and -1.
func (p *Project) Find(id string) (Annotation, int) {
	for i, a := range p.Annotations {
		if a.Base().ID == id {
			return a, i
		}
	}
	return nil, -1
}

// Clone returns a deep copy.
func (p Project) Clone() Project {
	out := p
	if p.MapCenter != nil {
		c := *p.MapCenter
		out.MapCenter = &c
	}
	out.Annotations = nil
	for _, a := range p.Annotations {
		out.Annotations = append(out.Annotations, a.Clone())
	}
	return out
}

// Validate checks the structural rules a project must satisfy before it can
// replace the current one.
func (p *Project) Validate() error {
	if p.ID == "" {
		return errors.New("project id is empty")
	}
	switch p.Mode {
	case ModeCanvas, ModeMap:
	default:
		return fmt.Errorf("unknown mode %q", p.Mode)
	}
	seen := make(map[string]bool, len(p.Annotations))
	for i, a := range p.Annotations {
		if a == nil {
			return fmt.Errorf("annotation %d is null", i)
		}
		id := a.Base().ID
		if id == "" {
			return fmt.Errorf("annotation %d has no id", i)
		}
		if seen[id] {
			return fmt.Errorf("duplicate annotation id %q", id)
		}
		seen[id] = true
		if s, ok := a.(*Shape); ok && !s.ShapeType.Valid() {
			return fmt.Errorf("annotation %q: unknown shape type %q", id, s.ShapeType)
		}
	}
	return nil
}

// ParseProject decodes and validates a project document.
func ParseProject(data []byte) (Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("decode project: %w", err)
	}
	if p.Mode == "" {
		p.Mode = ModeCanvas
	}
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}
