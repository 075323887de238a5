package appstate

import (
	"image"
	"image/draw"
	"log"
	"math"
	"strconv"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
	"github.com/example/pinmark/internal/ingest"
	"github.com/example/pinmark/internal/render"
	"github.com/example/pinmark/internal/store"
	"github.com/example/pinmark/internal/theme"
)

const (
	toolbarHeight  = 24
	statusHeight   = 20
	doubleClickGap = 400 * time.Millisecond
	// doubleClickSlop is how far, in pixels, the second press may land
	// from the first.
	doubleClickSlop = 4
)

// clickTracker pairs left presses into double clicks.
type clickTracker struct {
	at  time.Time
	pos geom.Point
}

// press records a left press and reports whether it completes a double
// click with the previous one.
func (c *clickTracker) press(pos geom.Point, now time.Time) bool {
	double := !c.at.IsZero() && now.Sub(c.at) < doubleClickGap &&
		math.Abs(pos.X-c.pos.X) <= doubleClickSlop && math.Abs(pos.Y-c.pos.Y) <= doubleClickSlop
	if double {
		c.at = time.Time{}
	} else {
		c.at, c.pos = now, pos
	}
	return double
}

var toolLabels = []struct {
	tool  Tool
	label string
}{
	{ToolSelect, "V:Select"},
	{ToolPoint, "P:Point"},
	{ToolText, "T:Text"},
	{ToolRectangle, "R:Rect"},
	{ToolCircle, "C:Circle"},
	{ToolLine, "L:Line"},
	{ToolArrow, "A:Arrow"},
}

// moveEnd is posted after a programmatic map fly so the view is written
// back on the event loop.
type moveEnd struct{}

// Window runs the interactive editor for a session.
type Window struct {
	session *Session
	title   string
	onSave  func() error
	onClose func()
	theme   *theme.Theme

	images map[string]image.Image
	redraw chan struct{}
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithTitle sets the window title shown in the toolbar.
func WithTitle(t string) WindowOption { return func(w *Window) { w.title = t } }

// WithOnSave registers the Ctrl+S handler.
func WithOnSave(fn func() error) WindowOption { return func(w *Window) { w.onSave = fn } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) WindowOption { return func(w *Window) { w.onClose = fn } }

// WithTheme sets the chrome palette.
func WithTheme(t *theme.Theme) WindowOption {
	return func(w *Window) {
		if t != nil {
			w.theme = t
		}
	}
}

// NewWindow creates a window for s. Store changes repaint the window.
func NewWindow(s *Session, opts ...WindowOption) *Window {
	w := &Window{
		session: s,
		title:   "Pinmark",
		theme:   theme.Default(),
		images:  map[string]image.Image{},
		redraw:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(w)
	}
	s.Store().OnChange(w.changed)
	return w
}

func (w *Window) changed(store.Snapshot) {
	select {
	case w.redraw <- struct{}{}:
	default:
	}
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() { driver.Main(w.Main) }

// Main is the shiny entry point.
func (w *Window) Main(s screen.Screen) {
	width, height := 1280, 800
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()
	defer func() {
		if w.onClose != nil {
			w.onClose()
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-w.redraw:
				win.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	mv := &mercatorView{}
	mv.center, mv.zoom = w.session.Store().Project().Map()
	ms := NewMapSync(w.session.Store(), mv)
	mv.onFly = func() { win.Send(moveEnd{}) }

	var (
		clicks    clickTracker
		mapPress  *geom.Point
		mapLast   geom.Point
		mapMoved  bool
	)
	canvasSize := func() geom.Size {
		return geom.Size{W: float64(width), H: float64(height - toolbarHeight - statusHeight)}
	}

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			mv.size = canvasSize()
			win.Send(paint.Event{})
		case moveEnd:
			ms.MoveEnd()
		case paint.Event:
			ms.Apply()
			w.paint(s, win, width, height, mv)
		case mouse.Event:
			pos, inCanvas := toCanvas(e, height)
			if !inCanvas && e.Direction == mouse.DirPress && e.Y < toolbarHeight {
				if t, ok := toolAt(int(e.X)); ok {
					w.session.SetTool(t)
					win.Send(paint.Event{})
				}
				continue
			}
			if w.session.Store().Project().Mode == annotation.ModeMap {
				w.mapMouse(e, pos, mv, ms, &mapPress, &mapLast, &mapMoved)
				win.Send(paint.Event{})
				continue
			}
			if we, ok := translateWheel(e, pos); ok {
				w.session.Wheel(we)
				continue
			}
			pe := PointerEvent{Pos: pos, Button: translateButton(e.Button), Alt: e.Modifiers&key.ModAlt != 0}
			switch e.Direction {
			case mouse.DirPress:
				if pe.Button == ButtonLeft && w.clicks(&clicks, pos) {
					break
				}
				w.session.PointerDown(pe)
			case mouse.DirRelease:
				w.session.PointerUp(pe)
			case mouse.DirNone:
				w.session.PointerMove(pe)
			}
			win.Send(paint.Event{})
		case key.Event:
			w.handleKey(e)
			win.Send(paint.Event{})
		}
	}
}

// clicks feeds a left press to the tracker and, for a double click, tries
// to start text editing. A false return means the press still needs to go
// to PointerDown.
func (w *Window) clicks(c *clickTracker, pos geom.Point) bool {
	return c.press(pos, time.Now()) && w.session.DoubleClick(pos)
}

func (w *Window) handleKey(e key.Event) {
	if e.Direction == key.DirPress && e.Modifiers&key.ModControl != 0 && w.session.EditingID() == "" {
		switch e.Code {
		case key.CodeB:
			w.session.ToggleBackgroundEdit()
		case key.CodeR:
			w.session.ResetBackground()
		case key.CodeS:
			if w.onSave != nil {
				if err := w.onSave(); err != nil {
					log.Printf("save: %v", err)
				}
			}
		}
		return
	}
	ke := translateKey(e)
	switch e.Direction {
	case key.DirPress, key.DirNone:
		w.session.KeyDown(ke)
	case key.DirRelease:
		w.session.KeyUp(ke)
	}
}

// mapMouse drags and zooms the map view and places points on clicks.
func (w *Window) mapMouse(e mouse.Event, pos geom.Point, mv *mercatorView, ms *MapSync, press **geom.Point, last *geom.Point, moved *bool) {
	switch {
	case e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown:
		if e.Direction == mouse.DirRelease {
			return
		}
		if e.Button == mouse.ButtonWheelUp {
			mv.zoom = min(mv.zoom+1, 19)
		} else {
			mv.zoom = max(mv.zoom-1, 1)
		}
		ms.MoveEnd()
	case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft:
		p := pos
		*press, *last, *moved = &p, pos, false
	case e.Direction == mouse.DirNone && *press != nil:
		mv.pan(last.Sub(pos))
		*last = pos
		*moved = true
	case e.Direction == mouse.DirRelease && *press != nil:
		if *moved {
			ms.MoveEnd()
		} else {
			w.session.MapClick(mv.latLngAt(pos))
		}
		*press = nil
	}
}

func (w *Window) image(ref string) image.Image {
	if ref == "" {
		return nil
	}
	if img, ok := w.images[ref]; ok {
		return img
	}
	img, err := ingest.DecodeDataURI(ref)
	if err != nil {
		log.Printf("decode image: %v", err)
	}
	w.images[ref] = img
	return img
}

func (w *Window) paint(s screen.Screen, win screen.Window, width, height int, mv *mercatorView) {
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Pt(width, height))
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	canvasRect := image.Rect(0, toolbarHeight, width, height-statusHeight)
	canvas := dst.SubImage(canvasRect).(*image.RGBA)
	// Shift the canvas so screen space starts at its top-left corner.
	canvas.Rect = canvas.Rect.Sub(canvasRect.Min)

	p := w.session.Store().Project()
	switch {
	case p.Mode == annotation.ModeMap:
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(w.theme.MapBackground), image.Point{}, draw.Src)
		w.paintMapMarkers(canvas, mv)
	case p.BackgroundImage == "":
		render.Placeholder(canvas)
	default:
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(w.theme.Canvas), image.Point{}, draw.Src)
		r := &render.Raster{Background: w.image(p.BackgroundImage), Handles: true}
		r.Draw(canvas, render.Project(w.session.Frame()))
	}
	w.paintPreview(canvas)
	w.paintChrome(dst, width, height)
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}

func (w *Window) paintMapMarkers(dst *image.RGBA, mv *mercatorView) {
	st := w.session.Store()
	var items []render.Item
	for _, a := range st.Annotations() {
		pt, ok := a.(*annotation.Point)
		if !ok || pt.Lat == nil || pt.Lng == nil || !st.IsVisible(pt.ID) {
			continue
		}
		items = append(items, render.Marker{
			ID:       pt.ID,
			Center:   mv.screenAt(annotation.LatLng{Lat: *pt.Lat, Lng: *pt.Lng}),
			Radius:   pt.DisplaySize() / 2,
			Color:    pt.DisplayColor(),
			Number:   pt.Number,
			Label:    pt.Label,
			Images:   pt.AttachedImageURLs,
			Selected: pt.ID == st.Selected(),
		})
	}
	(&render.Raster{}).Draw(dst, items)
}

func (w *Window) paintPreview(dst *image.RGBA) {
	img := w.image(w.session.PreviewImage())
	if img == nil {
		return
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(w.theme.PreviewDim), image.Point{}, draw.Over)
	b := dst.Bounds().Inset(40)
	v := geom.Fit(geom.Size{W: float64(b.Dx()), H: float64(b.Dy())},
		geom.Size{W: float64(img.Bounds().Dx()), H: float64(img.Bounds().Dy())})
	p := annotation.NewProject("preview")
	p.BackgroundImage = "preview"
	p.BackgroundWidth, p.BackgroundHeight = img.Bounds().Dx(), img.Bounds().Dy()
	p.Zoom, p.PanX, p.PanY = v.Zoom, v.PanX+float64(b.Min.X), v.PanY+float64(b.Min.Y)
	(&render.Raster{Background: img}).Draw(dst, render.Project(render.Frame{Project: &p}))
}

func (w *Window) paintChrome(dst *image.RGBA, width, height int) {
	draw.Draw(dst, image.Rect(0, 0, width, toolbarHeight), image.NewUniform(w.theme.Toolbar), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, height-statusHeight, width, height), image.NewUniform(w.theme.Toolbar), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Face: basicfont.Face7x13}
	x := 4
	for _, tl := range toolLabels {
		lw := d.MeasureString(tl.label).Ceil() + 8
		if tl.tool == w.session.Tool() {
			draw.Draw(dst, image.Rect(x, 2, x+lw, toolbarHeight-2), image.NewUniform(w.theme.ToolActive), image.Point{}, draw.Src)
		}
		d.Src = image.NewUniform(w.theme.ToolbarText)
		d.Dot = fixed.P(x+4, 16)
		d.DrawString(tl.label)
		x += lw + 2
	}
	d.Dot = fixed.P(4, height-6)
	d.DrawString(w.status())
}

func (w *Window) status() string {
	p := w.session.Store().Project()
	s := p.Name + " | " + w.session.Mode().String()
	if p.Mode == annotation.ModeMap {
		c, z := p.Map()
		return s + " | map " + strconv.FormatFloat(c.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 5, 64) + " z" + formatFloat(z)
	}
	if w.session.BackgroundEdit() {
		s += " | background edit (Ctrl+B to leave)"
	}
	return s + " | zoom " + strconv.Itoa(int(p.View().Zoom*100+0.5)) + "%"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toolAt(x int) (Tool, bool) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	pos := 4
	for _, tl := range toolLabels {
		lw := d.MeasureString(tl.label).Ceil() + 8
		if x >= pos && x < pos+lw {
			return tl.tool, true
		}
		pos += lw + 2
	}
	return ToolSelect, false
}

// toCanvas converts window pixels to canvas screen space.
func toCanvas(e mouse.Event, height int) (geom.Point, bool) {
	p := geom.Pt(float64(e.X), float64(e.Y)-toolbarHeight)
	return p, e.Y >= toolbarHeight && int(e.Y) < height-statusHeight
}

func translateButton(b mouse.Button) Button {
	switch b {
	case mouse.ButtonLeft:
		return ButtonLeft
	case mouse.ButtonMiddle:
		return ButtonMiddle
	case mouse.ButtonRight:
		return ButtonRight
	}
	return ButtonNone
}

func translateWheel(e mouse.Event, pos geom.Point) (WheelEvent, bool) {
	if e.Direction == mouse.DirRelease {
		return WheelEvent{}, false
	}
	switch e.Button {
	case mouse.ButtonWheelUp:
		return WheelEvent{Pos: pos, DeltaY: -1}, true
	case mouse.ButtonWheelDown:
		return WheelEvent{Pos: pos, DeltaY: 1}, true
	}
	return WheelEvent{}, false
}

func translateKey(e key.Event) KeyEvent {
	switch e.Code {
	case key.CodeEscape:
		return KeyEvent{Key: KeyEscape}
	case key.CodeDeleteForward:
		return KeyEvent{Key: KeyDelete}
	case key.CodeDeleteBackspace:
		return KeyEvent{Key: KeyBackspace}
	case key.CodeSpacebar:
		return KeyEvent{Key: KeySpace}
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return KeyEvent{Key: KeyEnter}
	case key.CodeLeftArrow:
		return KeyEvent{Key: KeyLeft}
	case key.CodeRightArrow:
		return KeyEvent{Key: KeyRight}
	}
	if e.Rune > 0 {
		return KeyEvent{Rune: e.Rune}
	}
	return KeyEvent{}
}

// mercatorView is a tile-less map surface: it tracks a centre and zoom and
// projects geographic points onto the canvas.
type mercatorView struct {
	center annotation.LatLng
	zoom   float64
	size   geom.Size
	onFly  func()
}

func (m *mercatorView) View() (annotation.LatLng, float64) { return m.center, m.zoom }

func (m *mercatorView) FlyTo(c annotation.LatLng, z float64) {
	m.center, m.zoom = c, z
	if m.onFly != nil {
		m.onFly()
	}
}

func (m *mercatorView) origin() geom.Point {
	c := geom.Mercator(m.center.Lat, m.center.Lng, m.zoom)
	return c.Sub(geom.Pt(m.size.W/2, m.size.H/2))
}

func (m *mercatorView) screenAt(ll annotation.LatLng) geom.Point {
	return geom.Mercator(ll.Lat, ll.Lng, m.zoom).Sub(m.origin())
}

func (m *mercatorView) latLngAt(p geom.Point) annotation.LatLng {
	lat, lng := geom.InverseMercator(p.Add(m.origin()), m.zoom)
	return annotation.LatLng{Lat: lat, Lng: lng}
}

// pan moves the view by d screen pixels.
func (m *mercatorView) pan(d geom.Point) {
	c := geom.Mercator(m.center.Lat, m.center.Lng, m.zoom).Add(d)
	m.center.Lat, m.center.Lng = geom.InverseMercator(c, m.zoom)
}
