package config

import (
	"fmt"
	"regexp"
)

const (
	DefaultNamespace = "druid"
)

var namespaceRegex = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// Config holds the complete application configuration.
type Config struct {
	Namespace         string
	DimensionMapPath  string
	AddHostAsLabel    bool
	AddServiceAsLabel bool
	Export            ExportConfig
	Ingest            IngestConfig
	Settings          SettingsConfig
}

// Validate applies defaults and validates the top-level settings.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if !namespaceRegex.MatchString(c.Namespace) {
		return fmt.Errorf("invalid namespace %q (must match %s)", c.Namespace, namespaceRegex)
	}

	if err := c.Export.Validate(c.Namespace); err != nil {
		return err
	}
	if err := c.Ingest.Validate(); err != nil {
		return err
	}
	return c.Settings.Validate()
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg, err := Resolve(&RawConfig{})
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}
