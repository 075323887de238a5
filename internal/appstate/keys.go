package appstate

import (
	"unicode"

	"github.com/example/pinmark/internal/annotation"
)

// KeyDown handles a key press. While a note is being edited every key goes
// to the edit buffer; while focus is in another text field shortcuts are
// ignored.
func (s *Session) KeyDown(e KeyEvent) {
	if s.editingID != "" {
		s.editKey(e)
		return
	}
	if s.textFocus {
		return
	}
	switch e.Key {
	case KeySpace:
		s.spaceHeld = true
		return
	case KeyEscape:
		s.store.Select("")
		s.preview = nil
		s.backgroundEdit = false
		return
	case KeyDelete, KeyBackspace:
		id := s.store.Selected()
		if id != "" && !s.store.IsLocked(id) {
			s.store.Delete(id)
		}
		return
	case KeyLeft, KeyRight:
		s.stepPreview(e.Key)
		return
	}
	if e.Rune == ' ' {
		s.spaceHeld = true
		return
	}
	if t, ok := toolKeys[unicode.ToLower(e.Rune)]; ok {
		s.SetTool(t)
	}
}

// KeyUp handles a key release.
func (s *Session) KeyUp(e KeyEvent) {
	if e.Key == KeySpace || e.Rune == ' ' {
		s.spaceHeld = false
	}
}

func (s *Session) editKey(e KeyEvent) {
	switch e.Key {
	case KeyEscape:
		s.CommitText()
	case KeyBackspace:
		if n := len(s.editBuffer); n > 0 {
			s.editBuffer = s.editBuffer[:n-1]
		}
	case KeyEnter:
		s.editBuffer = append(s.editBuffer, '\n')
	case KeySpace:
		s.editBuffer = append(s.editBuffer, ' ')
	default:
		if e.Rune > 0 && unicode.IsPrint(e.Rune) {
			s.editBuffer = append(s.editBuffer, e.Rune)
		}
	}
}

func (s *Session) stepPreview(k Key) {
	if s.preview == nil {
		return
	}
	p, ok := s.store.Find(s.preview.ID).(*annotation.Point)
	if !ok {
		s.preview = nil
		return
	}
	n := len(p.AttachedImageURLs)
	if n < 2 {
		return
	}
	if k == KeyLeft {
		s.preview.Index = (s.preview.Index - 1 + n) % n
	} else {
		s.preview.Index = (s.preview.Index + 1) % n
	}
}
