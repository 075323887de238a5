package store

import (
	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
)

// SetView stores the viewport. Zoom is clamped.
func (s *Store) SetView(v geom.Viewport) {
	v.Zoom = geom.ClampZoom(v.Zoom)
	p := &s.project
	if p.Zoom == v.Zoom && p.PanX == v.PanX && p.PanY == v.PanY {
		return
	}
	p.Zoom, p.PanX, p.PanY = v.Zoom, v.PanX, v.PanY
	s.changed()
}

// SetBackground installs a background image of the given pixel size and
// resets its transform.
func (s *Store) SetBackground(ref string, width, height int) {
	s.project.BackgroundImage = ref
	s.project.BackgroundWidth = width
	s.project.BackgroundHeight = height
	s.project.BackgroundSettings = geom.IdentityBackground()
	s.changed()
}

// FitBackground centres the background inside a container of the given
// size.
func (s *Store) FitBackground(container geom.Size) {
	p := &s.project
	if p.BackgroundWidth <= 0 || p.BackgroundHeight <= 0 {
		return
	}
	s.SetView(geom.Fit(container, geom.Size{W: float64(p.BackgroundWidth), H: float64(p.BackgroundHeight)}))
}

// SetBackgroundSettings stores the background transform. Scale is clamped.
func (s *Store) SetBackgroundSettings(b geom.Background) {
	b.Scale = geom.ClampZoom(b.Scale)
	if s.project.BackgroundSettings == b {
		return
	}
	s.project.BackgroundSettings = b
	s.changed()
}

func (s *Store) SetName(name string) {
	if s.project.Name == name {
		return
	}
	s.project.Name = name
	s.changed()
}

func (s *Store) SetMode(m annotation.Mode) {
	if s.project.Mode == m {
		return
	}
	s.project.Mode = m
	s.selected = ""
	s.changed()
}

// SetMapView stores the map centre and zoom level.
func (s *Store) SetMapView(center annotation.LatLng, zoom float64) {
	p := &s.project
	if p.MapCenter != nil && *p.MapCenter == center && p.MapZoom == zoom {
		return
	}
	c := center
	p.MapCenter = &c
	p.MapZoom = zoom
	s.changed()
}

// SetDefaultPointSettings changes the appearance of points created later.
func (s *Store) SetDefaultPointSettings(ps annotation.PointSettings) {
	ps.Size = clampSize(ps.Size)
	if ps.Color == "" {
		ps.Color = annotation.DefaultPointColor
	}
	s.project.DefaultPointSettings = ps
	s.changed()
}

func clampSize(v float64) float64 {
	switch {
	case v <= 0:
		return annotation.DefaultPointSize
	case v < annotation.MinPointSize:
		return annotation.MinPointSize
	case v > annotation.MaxPointSize:
		return annotation.MaxPointSize
	}
	return v
}
