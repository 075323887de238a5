package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"

	xdraw "golang.org/x/image/draw"
)

// CompressConfig controls how attachments are re-encoded.
type CompressConfig struct {
	// MaxWidth and MaxHeight bound the output; 0 disables the bound.
	MaxWidth  int
	MaxHeight int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultCompressConfig returns the attachment defaults.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{MaxWidth: 1920, MaxHeight: 1920, Quality: 70}
}

// FitWithin scales w x h down to fit the bounds, keeping the aspect ratio.
// Images that already fit are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return w, h
	}
	return max(1, int(float64(w)*scale+0.5)), max(1, int(float64(h)*scale+0.5))
}

// CompressImage scales img to fit the configured bounds and encodes it as
// JPEG. Transparent areas are flattened onto white.
func CompressImage(img image.Image, cfg CompressConfig) ([]byte, error) {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), cfg.MaxWidth, cfg.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)

	q := cfg.Quality
	if q < 1 || q > 100 {
		q = DefaultCompressConfig().Quality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// CompressFiles reads and compresses each file in order and returns the
// resulting data URIs. The batch is all-or-nothing: the first failure
// discards everything.
func CompressFiles(ctx context.Context, paths []string, cfg CompressConfig) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		img, _, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		jpg, err := CompressImage(img, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, EncodeDataURI(MIMEImageJPEG, jpg))
	}
	return out, nil
}
