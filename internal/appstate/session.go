package appstate

import (
	"math"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geom"
	"github.com/example/pinmark/internal/render"
	"github.com/example/pinmark/internal/store"
)

const (
	// minTextW and minTextH are the smallest dragged box that becomes a
	// note of that size. Smaller drags get the default note size.
	minTextW = 30
	minTextH = 20
	// clickSlop is the largest drag, in document units, treated as a click
	// when creating shapes.
	clickSlop = 5
	// minShape floors the size of a newly drawn shape.
	minShape = 10
)

// Preview is an open image preview for a point's attachments.
type Preview struct {
	ID    string
	Index int
}

// Session interprets pointer and keyboard input against a store. It owns
// all transient editor state. It is not safe for concurrent use.
type Session struct {
	store *store.Store

	tool           Tool
	mode           Mode
	spaceHeld      bool
	textFocus      bool
	backgroundEdit bool

	editingID  string
	editBuffer []rune
	preview    *Preview

	activeID   string
	handle     geom.Handle
	anchor     geom.Point
	press      geom.Point
	last       geom.Point
	grab       geom.Point
	hasDragged bool
	draft      annotation.Annotation

	rotCenter     geom.Point
	rotStartAngle float64
	rotStart      float64
}

// NewSession returns an idle session with the select tool active.
func NewSession(st *store.Store) *Session {
	return &Session{store: st}
}

func (s *Session) Store() *store.Store { return s.store }
func (s *Session) Tool() Tool { return s.tool }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) BackgroundEdit() bool { return s.backgroundEdit }
func (s *Session) EditingID() string { return s.editingID }
func (s *Session) EditText() string { return string(s.editBuffer) }
func (s *Session) HasDragged() bool { return s.hasDragged }
func (s *Session) Draft() annotation.Annotation { return s.draft }

// Preview returns the open image preview, if any.
func (s *Session) Preview() (Preview, bool) {
	if s.preview == nil {
		return Preview{}, false
	}
	return *s.preview, true
}

// PreviewImage returns the attachment currently shown by the preview.
func (s *Session) PreviewImage() string {
	if s.preview == nil {
		return ""
	}
	p, ok := s.store.Find(s.preview.ID).(*annotation.Point)
	if !ok || s.preview.Index >= len(p.AttachedImageURLs) {
		return ""
	}
	return p.AttachedImageURLs[s.preview.Index]
}

// SetTool changes the active tool. Tools are fixed while editing the
// background.
func (s *Session) SetTool(t Tool) {
	if s.backgroundEdit {
		return
	}
	s.tool = t
}

// SetTextFocus tells the session that keyboard focus is in a text field
// outside the canvas, which suppresses shortcuts.
func (s *Session) SetTextFocus(focused bool) { s.textFocus = focused }

func (s *Session) transform() geom.Transform {
	return s.store.Project().Transform()
}

func (s *Session) canAnnotate() bool {
	p := s.store.Project()
	return p.Mode == annotation.ModeCanvas && p.BackgroundImage != ""
}

// PointerDown starts an interaction. Presses while another interaction is
// active are ignored.
func (s *Session) PointerDown(e PointerEvent) {
	if s.mode != ModeIdle {
		return
	}
	if e.Button == ButtonMiddle || (e.Button == ButtonLeft && (e.Alt || s.spaceHeld)) {
		s.mode = ModePanning
		s.last = e.Pos
		return
	}
	if e.Button != ButtonLeft || s.store.Project().Mode == annotation.ModeMap {
		return
	}
	if s.backgroundEdit {
		s.mode = ModeDraggingBackground
		s.last = e.Pos
		return
	}
	tr := s.transform()
	doc := tr.ScreenToDocument(e.Pos)
	if s.editingID != "" {
		if n := s.store.Find(s.editingID); n != nil && hitBody(n, doc, tr.Zoom()) {
			return
		}
		s.CommitText()
	}
	switch s.tool {
	case ToolSelect:
		s.pressSelect(e.Pos, doc, tr.Zoom())
	case ToolPoint:
		if !s.canAnnotate() {
			return
		}
		s.store.Add(s.store.CreatePoint(doc))
	default:
		if !s.canAnnotate() {
			return
		}
		s.mode = ModeDrawing
		s.anchor = doc
		s.updateDraft(doc)
	}
}

func (s *Session) pressSelect(screen, doc geom.Point, zoom float64) {
	if sel := s.store.Find(s.store.Selected()); sel != nil && s.store.IsVisible(sel.Base().ID) && !s.store.IsLocked(sel.Base().ID) {
		if h := hitHandle(sel, doc, zoom); h != geom.HandleNone {
			s.activeID = sel.Base().ID
			s.handle = h
			if h == geom.HandleRotate {
				s.mode = ModeRotating
				s.rotCenter = s.transform().DocumentToScreen(sel.Bounds().Center())
				s.rotStartAngle = geom.AngleDeg(s.rotCenter, screen)
				s.rotStart = sel.Base().Rotation
				return
			}
			s.mode = ModeResizing
			s.last = doc
			return
		}
	}
	hit := s.topmost(doc, zoom)
	if hit == nil {
		s.store.Select("")
		return
	}
	id := hit.Base().ID
	s.store.Select(id)
	s.activeID = id
	if s.store.IsLocked(id) {
		s.openPreview(hit)
		return
	}
	c := hit.Base()
	s.mode = ModeDragging
	s.grab = doc.Sub(geom.Pt(c.X, c.Y))
	s.press = screen
	s.hasDragged = false
}

func (s *Session) topmost(doc geom.Point, zoom float64) annotation.Annotation {
	list := s.store.Annotations()
	for i := len(list) - 1; i >= 0; i-- {
		a := list[i]
		if !s.store.IsVisible(a.Base().ID) {
			continue
		}
		if hitBody(a, doc, zoom) {
			return a
		}
	}
	return nil
}

// PointerMove advances the active interaction.
func (s *Session) PointerMove(e PointerEvent) {
	switch s.mode {
	case ModePanning:
		d := e.Pos.Sub(s.last)
		s.last = e.Pos
		v := s.store.Project().View()
		v.PanX += d.X
		v.PanY += d.Y
		s.store.SetView(v)
	case ModeDraggingBackground:
		tr := s.transform()
		d := e.Pos.Sub(s.last).Mul(1 / tr.Zoom())
		s.last = e.Pos
		bg := s.store.Project().BackgroundSettings
		bg.OffsetX += d.X
		bg.OffsetY += d.Y
		s.store.SetBackgroundSettings(bg)
	case ModeDrawing:
		s.updateDraft(s.transform().ScreenToDocument(e.Pos))
	case ModeDragging:
		if e.Pos != s.press {
			s.hasDragged = true
		}
		to := s.transform().ScreenToDocument(e.Pos).Sub(s.grab)
		s.store.Update(s.activeID, annotation.Patch{X: annotation.Ptr(to.X), Y: annotation.Ptr(to.Y)})
	case ModeResizing:
		doc := s.transform().ScreenToDocument(e.Pos)
		d := doc.Sub(s.last)
		s.last = doc
		s.resize(d)
	case ModeRotating:
		angle := geom.AngleDeg(s.rotCenter, e.Pos)
		rot := geom.ComposeRotation(s.rotStartAngle, angle, s.rotStart)
		s.store.Update(s.activeID, annotation.Patch{Rotation: annotation.Ptr(rot)})
	}
}

func (s *Session) resize(d geom.Point) {
	a := s.store.Find(s.activeID)
	if a == nil {
		return
	}
	box := a.Bounds()
	if sh, ok := a.(*annotation.Shape); ok && (s.handle == geom.HandleStart || s.handle == geom.HandleEnd) {
		nb, seg := geom.MoveEndpoint(box, sh.Segment(), s.handle, d.X, d.Y)
		s.store.Update(s.activeID, boxPatch(nb, &annotation.Endpoints{
			StartX: seg.Start.X, StartY: seg.Start.Y, EndX: seg.End.X, EndY: seg.End.Y,
		}))
		return
	}
	s.store.Update(s.activeID, boxPatch(geom.ResizeBox(box, s.handle, d.X, d.Y), nil))
}

func boxPatch(r geom.Rect, ep *annotation.Endpoints) annotation.Patch {
	return annotation.Patch{
		X:         annotation.Ptr(r.X),
		Y:         annotation.Ptr(r.Y),
		Width:     annotation.Ptr(r.W),
		Height:    annotation.Ptr(r.H),
		Endpoints: ep,
	}
}

// PointerUp finishes the active interaction and returns to idle.
func (s *Session) PointerUp(e PointerEvent) {
	switch s.mode {
	case ModeDrawing:
		s.commitDraft(s.transform().ScreenToDocument(e.Pos))
	case ModeDragging:
		if !s.hasDragged {
			if a := s.store.Find(s.activeID); a != nil {
				s.openPreview(a)
			}
		}
	}
	s.mode = ModeIdle
	s.activeID = ""
	s.handle = geom.HandleNone
	s.draft = nil
}

func (s *Session) openPreview(a annotation.Annotation) {
	if p, ok := a.(*annotation.Point); ok && len(p.AttachedImageURLs) > 0 {
		s.preview = &Preview{ID: p.ID}
	}
}

func (s *Session) updateDraft(cur geom.Point) {
	box := geom.BoxFrom(s.anchor, cur)
	if s.tool == ToolText {
		s.draft = annotation.NewTextNote("", box)
		return
	}
	st, ok := s.tool.ShapeType()
	if !ok {
		return
	}
	seg := geom.Segment{Start: s.anchor.Sub(box.Origin()), End: cur.Sub(box.Origin())}
	s.draft = annotation.NewShape("", st, box, &seg)
}

func (s *Session) commitDraft(cur geom.Point) {
	box := geom.BoxFrom(s.anchor, cur)
	if s.tool == ToolText {
		if box.W < minTextW || box.H < minTextH {
			box.W, box.H = annotation.DefaultTextWidth, annotation.DefaultTextHeight
		}
		n := s.store.CreateTextNote(box)
		s.store.Add(n)
		s.beginEditing(n)
		return
	}
	st, ok := s.tool.ShapeType()
	if !ok {
		return
	}
	if box.W <= clickSlop && box.H <= clickSlop {
		return
	}
	seg := geom.Segment{Start: s.anchor.Sub(box.Origin()), End: cur.Sub(box.Origin())}
	box.W = math.Max(box.W, minShape)
	box.H = math.Max(box.H, minShape)
	s.store.Add(s.store.CreateShape(st, box, &seg))
}

// Wheel zooms the view toward the pointer, or scales the background while
// editing it.
func (s *Session) Wheel(e WheelEvent) {
	p := s.store.Project()
	if p.Mode == annotation.ModeMap || e.DeltaY == 0 {
		return
	}
	step := geom.ZoomStep
	if e.DeltaY > 0 {
		step = -step
	}
	if s.backgroundEdit {
		bg := p.BackgroundSettings
		if bg.Scale <= 0 {
			bg.Scale = 1
		}
		bg.Scale = geom.ClampZoom(bg.Scale + step)
		s.store.SetBackgroundSettings(bg)
		return
	}
	v := p.View()
	if v.Zoom <= 0 {
		v.Zoom = 1
	}
	s.store.SetView(geom.ZoomAt(v, e.Pos, v.Zoom+step))
}

// DoubleClick starts inline editing of the note under pos and reports
// whether it did.
func (s *Session) DoubleClick(pos geom.Point) bool {
	if s.backgroundEdit || s.store.Project().Mode == annotation.ModeMap {
		return false
	}
	tr := s.transform()
	hit := s.topmost(tr.ScreenToDocument(pos), tr.Zoom())
	n, ok := hit.(*annotation.TextNote)
	if !ok || s.store.IsLocked(n.ID) {
		return false
	}
	s.store.Select(n.ID)
	s.beginEditing(n)
	return true
}

func (s *Session) beginEditing(n *annotation.TextNote) {
	s.editingID = n.ID
	s.editBuffer = []rune(n.Content)
}

// CommitText writes the edit buffer back to the note and leaves edit mode.
func (s *Session) CommitText() {
	if s.editingID == "" {
		return
	}
	id := s.editingID
	content := string(s.editBuffer)
	s.editingID = ""
	s.editBuffer = nil
	s.store.Update(id, annotation.Patch{Content: &content})
}

// ToggleBackgroundEdit switches pointer input between annotations and the
// background transform.
func (s *Session) ToggleBackgroundEdit() {
	if !s.backgroundEdit && s.store.Project().BackgroundImage == "" {
		return
	}
	s.CommitText()
	s.backgroundEdit = !s.backgroundEdit
	if s.backgroundEdit {
		s.tool = ToolSelect
		s.store.Select("")
	}
}

// ResetBackground restores the identity background transform.
func (s *Session) ResetBackground() {
	s.store.SetBackgroundSettings(geom.IdentityBackground())
}

// MapClick places a point at a geographic position when the point tool is
// active in map mode.
func (s *Session) MapClick(at annotation.LatLng) {
	if s.store.Project().Mode != annotation.ModeMap || s.tool != ToolPoint {
		return
	}
	p := s.store.CreatePoint(geom.Point{})
	p.Lat = annotation.Ptr(at.Lat)
	p.Lng = annotation.Ptr(at.Lng)
	s.store.Add(p)
}

// Frame returns the render input for the current state.
func (s *Session) Frame() render.Frame {
	return render.Frame{
		Project:        s.store.Project(),
		Visible:        s.store.IsVisible,
		Selected:       s.store.Selected(),
		Editing:        s.editingID,
		EditText:       string(s.editBuffer),
		BackgroundEdit: s.backgroundEdit,
		Draft:          s.draft,
	}
}
