package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Params is the configuration mapping driving dataset construction.
// Keys are hyperparameter names, values are arbitrary scalars or
// literal-parsed composites. The rebuild tool mutates it in place.
type Params map[string]interface{}

// Default returns the built-in parameter set used when no config file or
// snapshot is supplied.
func Default() Params {
	return Params{
		"DATASET_NAME":           "EuTrans",
		"SRC_LAN":                "es",
		"TRG_LAN":                "en",
		"DATA_ROOT_PATH":         "data",
		"DATASETS_PATH":          "datasets",
		"TEXT_FILES":             map[string]interface{}{"train": "training", "val": "dev", "test": "test"},
		"TOKENIZATION_METHOD":    "tokenize_basic",
		"INPUT_VOCABULARY_SIZE":  0,
		"OUTPUT_VOCABULARY_SIZE": 0,
		"MAX_INPUT_TEXT_LEN":     50,
		"MAX_OUTPUT_TEXT_LEN":    50,
		"FILL":                   "end",
		"PAD_ON_BATCH":           true,
		"REBUILD_DATASET":        false,
		"VERBOSE":                1,
	}
}

// LoadFile reads default parameters from a YAML file and overlays them on
// the built-in defaults, so partial files are valid.
func LoadFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	loaded := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	p := Default()
	for k, v := range loaded {
		p[k] = v
	}
	return p, nil
}

// LoadSnapshot reads a serialized parameter snapshot written by a previous
// run (the counterpart of SaveSnapshot).
func LoadSnapshot(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config snapshot: %w", err)
	}
	p := Params{}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode config snapshot %s: %w", path, err)
	}
	return p, nil
}

// SaveSnapshot serializes the parameter set so a later run can reload it.
func (p Params) SaveSnapshot(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config snapshot: %w", err)
	}
	return nil
}

// ForceRebuild flags the parameter set so dataset artifacts are rebuilt
// rather than reused from a previously saved object.
func (p Params) ForceRebuild() {
	p["REBUILD_DATASET"] = true
}

// String returns the string value for key, or def when absent or not a string.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Int returns the integer value for key, tolerating the numeric types that
// YAML, JSON and the literal parser produce.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean value for key, or def when absent or not a bool.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// StringMap returns the map value for key with string values, or nil when
// the key is absent or of the wrong shape.
func (p Params) StringMap(key string) map[string]string {
	raw, ok := p[key].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out[k] = s
	}
	return out
}
