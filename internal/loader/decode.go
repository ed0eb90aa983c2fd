package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/atlas/internal/model"
)

// decodeJSON decodes a top-level JSON array.
func decodeJSON[T any](_ string, data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeTours accepts tours authored as a JSON array, a TOML document with
// [[tours]] tables, or a YAML document holding either a list or a "tours" key.
// TOML and YAML are normalised through JSON so coordinate forms and field
// defaults behave the same in every format.
func decodeTours(name string, data []byte) ([]model.Tour, error) {
	switch filepath.Ext(name) {
	case ".json":
		return decodeJSON[model.Tour](name, data)
	case ".toml":
		var doc struct {
			Tours []map[string]any `toml:"tours"`
		}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return viaJSON(doc.Tours)
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if m, ok := doc.(map[string]any); ok {
			doc = m["tours"]
		}
		if doc == nil {
			return nil, nil
		}
		return viaJSON(doc)
	}
	return nil, fmt.Errorf("unsupported tour document %q", name)
}

func viaJSON(v any) ([]model.Tour, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tours []model.Tour
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&tours); err != nil {
		return nil, err
	}
	return tours, nil
}
