package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ParseYAML reads a YAML configuration file. It uses the same keys as the
// RC format, with sections as nested maps.
func ParseYAML(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	cfg := New()
	for _, key := range k.Keys() {
		section, name := "", key
		for i := len(key) - 1; i >= 0; i-- {
			if key[i] == '.' {
				section, name = key[:i], key[i+1:]
				break
			}
		}
		if err := cfg.set(section, name, k.String(key)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.Normalize()
	return cfg, nil
}
