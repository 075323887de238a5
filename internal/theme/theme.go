// Package theme holds the colour palette of the editor window.
package theme

import (
	"image/color"
)

// Theme defines the colors used for window chrome. Annotation colours come
// from the project, never from the theme.
type Theme struct {
	Name string

	// Toolbar and status bar
	Toolbar     color.RGBA
	ToolbarText color.RGBA
	ToolActive  color.RGBA

	// Canvas
	Canvas        color.RGBA // behind the background image
	MapBackground color.RGBA // map mode has no tiles in the window
	PreviewDim    color.RGBA // overlay behind an image preview
}

// Default returns the built-in dark chrome.
func Default() *Theme {
	return &Theme{
		Name:          "Default",
		Toolbar:       color.RGBA{31, 41, 55, 255},
		ToolbarText:   color.RGBA{255, 255, 255, 255},
		ToolActive:    color.RGBA{59, 130, 246, 255},
		Canvas:        color.RGBA{243, 244, 246, 255},
		MapBackground: color.RGBA{170, 211, 223, 255},
		PreviewDim:    color.RGBA{0, 0, 0, 200},
	}
}
