package appstate

import "github.com/example/pinmark/internal/geom"

// Click presses and releases the left button over a document position.
func (s *Session) Click(at geom.Point) {
	p := s.transform().DocumentToScreen(at)
	s.PointerDown(PointerEvent{Pos: p, Button: ButtonLeft})
	s.PointerUp(PointerEvent{Pos: p, Button: ButtonLeft})
}

// Drag presses the left button at from, moves to to and releases. Both are
// document positions converted with the current view, so the same
// thresholds apply as for mouse input.
func (s *Session) Drag(from, to geom.Point) {
	tr := s.transform()
	a, b := tr.DocumentToScreen(from), tr.DocumentToScreen(to)
	s.PointerDown(PointerEvent{Pos: a, Button: ButtonLeft})
	s.PointerMove(PointerEvent{Pos: b, Button: ButtonLeft})
	s.PointerUp(PointerEvent{Pos: b, Button: ButtonLeft})
}

// Type sends text as key presses.
func (s *Session) Type(text string) {
	for _, r := range text {
		switch r {
		case '\n':
			s.KeyDown(KeyEvent{Key: KeyEnter})
		case ' ':
			s.KeyDown(KeyEvent{Key: KeySpace, Rune: ' '})
			s.KeyUp(KeyEvent{Key: KeySpace, Rune: ' '})
		default:
			s.KeyDown(KeyEvent{Rune: r})
		}
	}
}
