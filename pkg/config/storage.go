package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveToFile writes any YAML-serialisable value to path, creating the
// parent directory
func SaveToFile(v interface{}, path string) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadFromFile reads a DeviceConfig. Fields missing from the file keep
// their DefaultConfig values.
func LoadFromFile(path string) (*DeviceConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	configuration := DefaultConfig()
	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return configuration, nil
}

// GetConfigPath returns the conventional location of a named board
// configuration
func GetConfigPath(name string) string {
	return filepath.Join("etc", "isdbfe", fmt.Sprintf("%s.yaml", name))
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
