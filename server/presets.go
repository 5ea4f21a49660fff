package server

import (
	"os"

	"gopkg.in/yaml.v3"
)

// presetName is the minimal shape read from a preset file purely to
// surface its display name in GET /api/presets; GET
// /api/presets/{filename} returns the whole document via loadPresetRaw.
type presetName struct {
	Name string `yaml:"name"`
}

func loadPresetNameOnly(path string) (presetName, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return presetName{}, err
	}
	var p presetName
	if err := yaml.Unmarshal(data, &p); err != nil {
		return presetName{}, err
	}
	return p, nil
}

// loadPresetRaw parses a preset file into a generic map for GET
// /api/presets/{filename}, matching the original source's behavior of
// returning the parsed YAML document as JSON rather than the raw bytes.
func loadPresetRaw(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v map[string]interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
