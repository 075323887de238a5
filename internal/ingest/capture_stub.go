//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package ingest

import (
	"context"
	"errors"
	"image"
)

var errNoCapture = errors.New("screen capture is not supported on this platform")

func portalCapture(context.Context, bool) (*image.RGBA, error) { return nil, errNoCapture }

func x11Capture() (*image.RGBA, error) { return nil, errNoCapture }
