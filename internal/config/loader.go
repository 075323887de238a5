package config

import (
	"os"
	"path/filepath"
	"strings"
)

// StorageEnv overrides the configured storage path.
const StorageEnv = "PINMARK_STORAGE"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set from the -config flag
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file if one exists and applies environment
// overrides.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	if v := os.Getenv(StorageEnv); v != "" {
		cfg.Storage = v
	}
	return cfg, nil
}

func (l *Loader) load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		return ParseYAML(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".pinmarkrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	home, _ := os.UserHomeDir()
	for _, name := range []string{"config.rc", "config.yaml", "config.yml"} {
		p := filepath.Join(home, ".config", "pinmark", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// DefaultPath is where `config save` writes when no override is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pinmark", "config.rc")
}
