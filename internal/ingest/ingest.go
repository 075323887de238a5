// Package ingest turns image files, captures and pasted images into the
// data URIs stored in projects.
package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/webp"
)

// ErrUnsupported reports input that is not a decodable image.
var ErrUnsupported = errors.New("unsupported image")

const (
	MIMEImageJPEG = "image/jpeg"
	MIMEImagePNG  = "image/png"
	MIMEImageGIF  = "image/gif"
	MIMEImageWebP = "image/webp"
)

var formatMIME = map[string]string{
	"jpeg": MIMEImageJPEG,
	"png":  MIMEImagePNG,
	"gif":  MIMEImageGIF,
	"webp": MIMEImageWebP,
}

// Asset is an image reference ready to be stored in a project.
type Asset struct {
	DataURI string
	Width   int
	Height  int
}

// Decode decodes png, jpeg, gif or webp data.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupported
		}
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// FromBytes wraps encoded image data as an asset without re-encoding it.
func FromBytes(data []byte) (Asset, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Asset{}, ErrUnsupported
		}
		return Asset{}, fmt.Errorf("read image header: %w", err)
	}
	mime, ok := formatMIME[format]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	return Asset{DataURI: EncodeDataURI(mime, data), Width: cfg.Width, Height: cfg.Height}, nil
}

// Load reads an image file as an asset.
func Load(path string) (Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, fmt.Errorf("read %s: %w", path, err)
	}
	a, err := FromBytes(data)
	if err != nil {
		return Asset{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// FromImage encodes img as a PNG asset.
func FromImage(img image.Image) (Asset, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Asset{}, fmt.Errorf("encode png: %w", err)
	}
	b := img.Bounds()
	return Asset{DataURI: EncodeDataURI(MIMEImagePNG, buf.Bytes()), Width: b.Dx(), Height: b.Dy()}, nil
}

// EncodeDataURI returns a base64 data URI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a data URI into its media type and payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URI", ErrUnsupported)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("data URI payload: %w", err)
		}
		return mime, []byte(s), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI payload: %w", err)
	}
	return mime, data, nil
}

// DecodeDataURI decodes the image held in a data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	_, data, err := ParseDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	return img, err
}
