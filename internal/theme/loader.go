package theme

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

//go:embed themes/*.theme
var embedded embed.FS

// Loader finds themes by name or path.
type Loader struct {
	ConfigDir string
}

// NewLoader returns a loader that also searches ~/.config/pinmark/themes.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{ConfigDir: filepath.Join(home, ".config", "pinmark", "themes")}
}

// Load resolves name in order: an existing file path, a built-in theme,
// then ConfigDir. An empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	if f, err := embedded.Open("themes/" + filename); err == nil {
		defer f.Close()
		return parseNamed(filename, f)
	}
	if l.ConfigDir != "" {
		p := filepath.Join(l.ConfigDir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseNamed(path, f)
}

func parseNamed(name string, r io.Reader) (*Theme, error) {
	t, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
