// Package clipboard moves images between the system clipboard and projects.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"

	"github.com/example/pinmark/internal/ingest"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNoImage   = errors.New("clipboard does not contain image data")
)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay() && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = backendInit()
	})
	return initErr
}

func needsDisplay() bool {
	return runtime.GOOS != "darwin" && runtime.GOOS != "windows"
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return backendWrite(buf.Bytes())
}

// ReadAsset returns the clipboard image as a background asset. The PNG
// bytes are kept as they are.
func ReadAsset() (ingest.Asset, error) {
	if err := ensureInit(); err != nil {
		return ingest.Asset{}, err
	}
	data := backendRead()
	if len(data) == 0 {
		return ingest.Asset{}, errNoImage
	}
	return ingest.FromBytes(data)
}
