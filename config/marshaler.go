package config

import (
	"encoding/json"

	"gopkg.in/yaml.v2"
)

func MarshalJSON(config Config) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

func UnmarshalJSON(bz []byte, config *Config) error {
	return json.Unmarshal(bz, config)
}

// MarshalYAML renders the config as YAML. Chain and prover sections are
// arbitrary JSON, so the config goes through a generic JSON tree first.
func MarshalYAML(config Config) ([]byte, error) {
	bz, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	return JSONToYAML(bz)
}

// JSONToYAML converts a JSON document to YAML.
func JSONToYAML(bz []byte) ([]byte, error) {
	var tree yaml.MapSlice
	if err := yaml.Unmarshal(bz, &tree); err == nil {
		return yaml.Marshal(tree)
	}
	var v interface{}
	if err := yaml.Unmarshal(bz, &v); err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}
