package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Load reads a binding file. The format is chosen by extension
// (.yaml/.yml, .toml, anything else is JSON). The file is a flat map of
// input name to action name.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings: %w", err)
	}
	return Parse(data, formatOf(path))
}

// Parse decodes binding data in the given format ("json", "yaml" or "toml").
func Parse(data []byte, format string) (*Table, error) {
	var raw map[string]any
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidBinding, err)
		}
	case "toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: decode toml: %v", ErrInvalidBinding, err)
		}
		raw = tree.ToMap()
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidBinding, err)
		}
	default:
		return nil, fmt.Errorf("unsupported bindings format: %s", format)
	}

	m := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: input %q: action must be a string, got %T", ErrInvalidBinding, k, v)
		}
		m[k] = s
	}
	return NewTable(m)
}

// Marshal encodes t in the given format ("json", "yaml" or "toml").
func Marshal(t *Table, format string) ([]byte, error) {
	m := t.Map()
	switch format {
	case "yaml":
		return yaml.Marshal(m)
	case "toml":
		tree, err := toml.TreeFromMap(toMapAny(m))
		if err != nil {
			return nil, err
		}
		return []byte(tree.String()), nil
	case "json":
		return json.MarshalIndent(m, "", "  ")
	}
	return nil, fmt.Errorf("unsupported bindings format: %s", format)
}

func toMapAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
