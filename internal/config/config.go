package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Point holds the defaults for new pins.
type Point struct {
	Size  float64
	Color string
}

// Image controls how attached images are compressed.
type Image struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Export holds export settings.
type Export struct {
	Shadow  bool
	TileURL string
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Import bool
	Asset  bool
}

// Config holds the application configuration.
type Config struct {
	Storage  string
	Autosave bool
	// Theme names the editor window palette: a file path or a theme name.
	Theme    string
	Point    Point
	Image    Image
	Export   Export
	Notify   Notify
}

// DefaultStoragePath is where snapshots live unless configured otherwise.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pinmark.db"
	}
	return filepath.Join(home, ".local", "share", "pinmark", "pinmark.db")
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Storage:  DefaultStoragePath(),
		Autosave: true,
		Point: Point{
			Size:  32,
			Color: "#3b82f6",
		},
		Image: Image{
			MaxWidth:  1920,
			MaxHeight: 1920,
			Quality:   70,
		},
		Export: Export{
			Shadow: true,
		},
		Notify: Notify{
			Export: false,
			Import: false,
			Asset:  true,
		},
	}
}

// Normalize clamps values into their accepted ranges.
func (c *Config) Normalize() {
	c.Point.Size = min(max(c.Point.Size, 16), 64)
	if c.Image.MaxWidth < 0 {
		c.Image.MaxWidth = 0
	}
	if c.Image.MaxHeight < 0 {
		c.Image.MaxHeight = 0
	}
	c.Image.Quality = min(max(c.Image.Quality, 1), 100)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "storage = %s\n", c.Storage)
	fmt.Fprintf(&sb, "autosave = %v\n", c.Autosave)
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[point]\n")
	fmt.Fprintf(&sb, "size = %v\n", c.Point.Size)
	fmt.Fprintf(&sb, "color = %s\n", c.Point.Color)
	sb.WriteString("\n")

	sb.WriteString("[image]\n")
	fmt.Fprintf(&sb, "max_width = %d\n", c.Image.MaxWidth)
	fmt.Fprintf(&sb, "max_height = %d\n", c.Image.MaxHeight)
	fmt.Fprintf(&sb, "quality = %d\n", c.Image.Quality)
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "shadow = %v\n", c.Export.Shadow)
	if c.Export.TileURL != "" {
		fmt.Fprintf(&sb, "tile_url = %s\n", c.Export.TileURL)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "import = %v\n", c.Notify.Import)
	fmt.Fprintf(&sb, "asset = %v\n", c.Notify.Asset)

	return sb.String()
}
