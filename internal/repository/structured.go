package repository

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type structuredFile struct {
	Namespaces []namespaceDump `yaml:"namespaces" toml:"namespaces"`
}

func decodeYAML(path string) ([]namespaceDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read namespace dump: %w", err)
	}
	var root structuredFile
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	return root.Namespaces, nil
}

func decodeTOML(path string) ([]namespaceDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read namespace dump: %w", err)
	}
	var root structuredFile
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML file %s: %w", path, err)
	}
	return root.Namespaces, nil
}
