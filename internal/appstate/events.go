package appstate

import "github.com/example/pinmark/internal/geom"

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a press, move or release in screen coordinates.
type PointerEvent struct {
	Pos    geom.Point
	Button Button
	Alt    bool
}

// WheelEvent is a scroll at Pos. Negative DeltaY scrolls up and zooms in.
type WheelEvent struct {
	Pos    geom.Point
	DeltaY float64
}

// Key names the non-printing keys the editor reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyLeft
	KeyRight
)

// KeyEvent carries either a named key or a printable rune.
type KeyEvent struct {
	Key  Key
	Rune rune
}
