package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML configuration file. Unset fields fall back to
// the next source.
type File struct {
	ID         string `yaml:"id"`
	URL        string `yaml:"url"`
	Tee        *bool  `yaml:"tee"`
	IgnoreCode *bool  `yaml:"ignore_code"`
}

// LoadFile reads and decodes a configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}
