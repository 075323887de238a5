package ingest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestDataURIRoundTrip(t *testing.T) {
	a, err := FromImage(solid(4, 3, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if !strings.HasPrefix(a.DataURI, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix %q", a.DataURI[:30])
	}
	if a.Width != 4 || a.Height != 3 {
		t.Fatalf("size %dx%d", a.Width, a.Height)
	}
	img, err := DecodeDataURI(a.DataURI)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Fatalf("pixel %v", img.At(1, 1))
	}
}

func TestParseDataURI(t *testing.T) {
	mime, data, err := ParseDataURI("data:text/plain,hi%20there")
	if err != nil || mime != "text/plain" || string(data) != "hi there" {
		t.Fatalf("got %q %q %v", mime, data, err)
	}
	if _, _, err := ParseDataURI("https://example.com/x.png"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
	if _, _, err := ParseDataURI("data:image/png;base64"); err == nil {
		t.Fatal("missing comma should fail")
	}
}

func TestFromBytesRejectsNonImages(t *testing.T) {
	if _, err := FromBytes([]byte("plain text")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}

func TestLoadKeepsOriginalBytes(t *testing.T) {
	p := writePNG(t, t.TempDir(), "a.png", solid(10, 20, color.White))
	a, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	raw, _ := os.ReadFile(p)
	if a.DataURI != EncodeDataURI(MIMEImagePNG, raw) {
		t.Fatal("Load should not re-encode")
	}
	if diff := cmp.Diff(Asset{DataURI: a.DataURI, Width: 10, Height: 20}, a); diff != "" {
		t.Fatalf("asset mismatch (-want +got):\n%s", diff)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, mw, mh int
		ww, wh       int
	}{
		{100, 50, 1920, 1920, 100, 50},
		{3840, 2160, 1920, 1920, 1920, 1080},
		{1000, 4000, 1920, 1920, 480, 1920},
		{5000, 10, 0, 0, 5000, 10},
	}
	for _, tc := range tests {
		gw, gh := FitWithin(tc.w, tc.h, tc.mw, tc.mh)
		if gw != tc.ww || gh != tc.wh {
			t.Errorf("FitWithin(%d,%d,%d,%d) = %d,%d want %d,%d", tc.w, tc.h, tc.mw, tc.mh, gw, gh, tc.ww, tc.wh)
		}
	}
}

func TestCompressFiles(t *testing.T) {
	dir := t.TempDir()
	big := writePNG(t, dir, "big.png", solid(400, 200, color.RGBA{0, 0, 255, 255}))
	clear := writePNG(t, dir, "clear.png", image.NewRGBA(image.Rect(0, 0, 8, 8)))

	cfg := CompressConfig{MaxWidth: 100, MaxHeight: 100, Quality: 70}
	uris, err := CompressFiles(context.Background(), []string{big, clear}, cfg)
	if err != nil {
		t.Fatalf("CompressFiles: %v", err)
	}
	if len(uris) != 2 {
		t.Fatalf("got %d uris", len(uris))
	}
	img, err := DecodeDataURI(uris[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("compressed size %v", b)
	}
	if !strings.HasPrefix(uris[1], "data:image/jpeg;base64,") {
		t.Fatal("output should be jpeg")
	}
	flat, _ := DecodeDataURI(uris[1])
	if r, g, b, _ := flat.At(4, 4).RGBA(); r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Fatalf("transparent pixels should flatten to white, got %v", flat.At(4, 4))
	}
}

func TestCompressFilesAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "good.png", solid(4, 4, color.White))
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	uris, err := CompressFiles(context.Background(), []string{good, bad}, DefaultCompressConfig())
	if err == nil || uris != nil {
		t.Fatalf("expected failure with no results, got %d uris, err %v", len(uris), err)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}

func TestCaptureFallsBackToX11(t *testing.T) {
	prevPortal, prevX11 := portalScreenshot, x11Screenshot
	t.Cleanup(func() { portalScreenshot, x11Screenshot = prevPortal, prevX11 })
	t.Setenv("DISPLAY", ":0")

	portalScreenshot = func(context.Context, bool) (*image.RGBA, error) { return nil, errors.New("no portal") }
	x11Screenshot = func() (*image.RGBA, error) { return solid(2, 2, color.Black), nil }

	img, err := Capture(context.Background(), SourceScreen)
	if err != nil || img.Bounds().Dx() != 2 {
		t.Fatalf("fallback failed: %v", err)
	}

	t.Setenv("DISPLAY", "")
	if _, err := Capture(context.Background(), SourceScreen); err == nil || err.Error() != "no portal" {
		t.Fatalf("without DISPLAY the portal error is returned, got %v", err)
	}

	var gotInteractive bool
	portalScreenshot = func(_ context.Context, interactive bool) (*image.RGBA, error) {
		gotInteractive = interactive
		return solid(1, 1, color.White), nil
	}
	if _, err := Capture(context.Background(), SourceRegion); err != nil || !gotInteractive {
		t.Fatalf("region capture should be interactive, err %v", err)
	}
}

func TestParseSource(t *testing.T) {
	for in, want := range map[string]Source{"": SourceScreen, "screen": SourceScreen, "region": SourceRegion, "x11": SourceX11} {
		got, err := ParseSource(in)
		if err != nil || got != want {
			t.Errorf("ParseSource(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSource("window"); err == nil {
		t.Error("unknown source should fail")
	}
}
