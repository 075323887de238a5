package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration in RC format from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		if err := cfg.set(section, key, value); err != nil {
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// set assigns one key. Unknown keys and sections are ignored.
func (c *Config) set(section, key, value string) error {
	switch section {
	case "":
		switch key {
		case "storage":
			c.Storage = value
		case "autosave":
			return parseBool(key, value, &c.Autosave)
		case "theme":
			c.Theme = value
		}
	case "point":
		switch key {
		case "size":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid number for key %s: %w", key, err)
			}
			c.Point.Size = v
		case "color":
			c.Point.Color = value
		}
	case "image":
		switch key {
		case "max_width":
			return parseInt(key, value, &c.Image.MaxWidth)
		case "max_height":
			return parseInt(key, value, &c.Image.MaxHeight)
		case "quality":
			return parseInt(key, value, &c.Image.Quality)
		}
	case "export":
		switch key {
		case "shadow":
			return parseBool(key, value, &c.Export.Shadow)
		case "tile_url":
			c.Export.TileURL = value
		}
	case "notify":
		switch key {
		case "export":
			return parseBool(key, value, &c.Notify.Export)
		case "import":
			return parseBool(key, value, &c.Notify.Import)
		case "asset":
			return parseBool(key, value, &c.Notify.Asset)
		}
	}
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parseInt(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	*dst = n
	return nil
}
