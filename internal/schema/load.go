package schema

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"go.yaml.in/yaml/v4"
)

//go:embed defaultMetrics.json
var defaultMetrics []byte

// Load reads the dimension map at path, or the built-in default when path is empty.
func Load(path string) (Schema, error) {
	if path == "" {
		slog.Info("using default metric dimensions and types")
		return Parse(defaultMetrics)
	}

	slog.Info("using metric dimensions and types", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dimension map: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dimension map %q: %w", path, err)
	}
	return s, nil
}

// Parse decodes a JSON (or YAML) dimension map document.
func Parse(data []byte) (Schema, error) {
	var raw map[string]rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode dimension map: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("dimension map is empty")
	}
	return resolve(raw)
}
