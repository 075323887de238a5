package appstate

import (
	"math"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/store"
)

const (
	mapCenterEpsilon = 1e-6
	mapZoomEpsilon   = 0.01
)

// MapView is the map widget whose view is kept in step with the project.
type MapView interface {
	View() (annotation.LatLng, float64)
	FlyTo(center annotation.LatLng, zoom float64)
}

// MapSync copies the map view into the store when the user moves the map
// and flies the map when the store changes. A fly started here is not
// echoed back until the widget reports the end of the move.
type MapSync struct {
	store     *store.Store
	view      MapView
	animating bool
}

func NewMapSync(st *store.Store, view MapView) *MapSync {
	return &MapSync{store: st, view: view}
}

// Animating reports whether a programmatic fly is in progress.
func (m *MapSync) Animating() bool { return m.animating }

// MoveEnd records the widget view in the store.
func (m *MapSync) MoveEnd() {
	m.animating = false
	c, z := m.view.View()
	m.store.SetMapView(c, z)
}

// Apply flies the widget to the stored view when they differ.
func (m *MapSync) Apply() {
	if m.animating {
		return
	}
	want, wantZoom := m.store.Project().Map()
	have, haveZoom := m.view.View()
	if math.Abs(want.Lat-have.Lat) <= mapCenterEpsilon &&
		math.Abs(want.Lng-have.Lng) <= mapCenterEpsilon &&
		math.Abs(wantZoom-haveZoom) <= mapZoomEpsilon {
		return
	}
	m.animating = true
	m.view.FlyTo(want, wantZoom)
}
