package ingest

import (
	"context"
	"fmt"
	"image"
	"os"
)

// Source selects how a screen capture is taken.
type Source int

const (
	// SourceScreen asks the desktop portal for a full screenshot and falls
	// back to the X11 root window.
	SourceScreen Source = iota
	// SourceRegion lets the user pick a region through the portal.
	SourceRegion
	// SourceX11 reads the X11 root window directly.
	SourceX11
)

// ParseSource maps a command line name to a Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "", "screen":
		return SourceScreen, nil
	case "region":
		return SourceRegion, nil
	case "x11":
		return SourceX11, nil
	}
	return SourceScreen, fmt.Errorf("unknown capture source %q", s)
}

var (
	portalScreenshot = portalCapture
	x11Screenshot    = x11Capture
)

// Capture grabs the screen as a background image.
func Capture(ctx context.Context, src Source) (*image.RGBA, error) {
	switch src {
	case SourceRegion:
		return portalScreenshot(ctx, true)
	case SourceX11:
		return x11Screenshot()
	}
	img, portalErr := portalScreenshot(ctx, false)
	if portalErr == nil {
		return img, nil
	}
	if os.Getenv("DISPLAY") == "" {
		return nil, portalErr
	}
	img, err := x11Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screen capture: %v; x11 fallback failed: %w", portalErr, err)
	}
	return img, nil
}
