package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	"github.com/example/pinmark/internal/render"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition. Each line is "Key: colour" where the key
// is a Theme field name and the colour is anything render.ParseColor
// accepts. Missing keys keep their default.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	val := reflect.ValueOf(t).Elem()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "Name" {
			t.Name = value
			continue
		}
		field := val.FieldByName(key)
		if !field.IsValid() || field.Type() != rgbaType {
			continue // unknown keys are ignored
		}
		col, err := render.ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
	}
	return t, scanner.Err()
}
