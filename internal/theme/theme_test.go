package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesKnownKeys(t *testing.T) {
	in := "Name: Test\n; comment\nToolbar: #102030\nCanvas: white\nUnknown: #ffffff\nnot a pair\n"
	th, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "Test" {
		t.Fatalf("name = %q", th.Name)
	}
	if th.Toolbar != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Fatalf("toolbar = %v", th.Toolbar)
	}
	if th.Canvas != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("canvas = %v", th.Canvas)
	}
	if th.ToolActive != Default().ToolActive {
		t.Fatalf("unset keys should keep defaults, got %v", th.ToolActive)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Toolbar: #12\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}

	th, err := l.Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("empty name gave %v %v", th, err)
	}
	if th, err = l.Load("dark"); err != nil || th.Name != "Dark" {
		t.Fatalf("built-in gave %v %v", th, err)
	}
	if th, err = l.Load("mine"); err != nil || th.Name != "Mine" {
		t.Fatalf("config dir gave %v %v", th, err)
	}
	if th, err = l.Load(filepath.Join(dir, "mine.theme")); err != nil || th.Name != "Mine" {
		t.Fatalf("path gave %v %v", th, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected not found")
	}
}
