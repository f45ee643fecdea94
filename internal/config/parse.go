package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

// Parse reads and parses a YAML configuration file
func Parse(path string) (*RawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw RawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &raw, nil
}

// Load reads and resolves a YAML configuration file. An empty path
// yields the defaults. Overrides are applied before resolution.
func Load(path string, o Overrides) (*Config, error) {
	raw := &RawConfig{}
	if path != "" {
		var err error
		raw, err = Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	o.apply(raw)

	cfg, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config: %w", err)
	}

	return cfg, nil
}

// Overrides are command line values that take precedence over the file.
type Overrides struct {
	Namespace        string
	DimensionMapPath string
	PrometheusPort   int
	Debug            bool
}

func (o Overrides) apply(raw *RawConfig) {
	if o.Namespace != "" {
		raw.Namespace = o.Namespace
	}
	if o.DimensionMapPath != "" {
		raw.DimensionMapPath = o.DimensionMapPath
	}
	if o.PrometheusPort != 0 {
		if raw.Export.Prometheus == nil {
			raw.Export.Prometheus = &RawPrometheusExportConfig{}
		}
		raw.Export.Prometheus.Port = o.PrometheusPort
	}
	if o.Debug {
		raw.Settings.Log.Level = "debug"
	}
}
