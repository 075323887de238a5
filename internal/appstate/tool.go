package appstate

import "github.com/example/pinmark/internal/annotation"

// Tool is the active editing tool. It is independent of the interaction
// mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPoint
	ToolText
	ToolRectangle
	ToolCircle
	ToolLine
	ToolArrow
)

var toolNames = [...]string{"select", "point", "text", "rectangle", "circle", "line", "arrow"}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "unknown"
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return ToolSelect, false
}

// toolKeys maps single letter shortcuts to tools.
var toolKeys = map[rune]Tool{
	'v': ToolSelect,
	'p': ToolPoint,
	't': ToolText,
	'r': ToolRectangle,
	'c': ToolCircle,
	'l': ToolLine,
	'a': ToolArrow,
}

// ShapeType returns the shape drawn by t, if any.
func (t Tool) ShapeType() (annotation.ShapeType, bool) {
	switch t {
	case ToolRectangle:
		return annotation.Rectangle, true
	case ToolCircle:
		return annotation.Circle, true
	case ToolLine:
		return annotation.Line, true
	case ToolArrow:
		return annotation.Arrow, true
	}
	return "", false
}

// Mode is the pointer interaction in progress. Exactly one is active.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeDrawing
	ModeDragging
	ModeResizing
	ModeRotating
	ModeDraggingBackground
)

var modeNames = [...]string{"idle", "panning", "drawing", "dragging", "resizing", "rotating", "draggingBackground"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}
