package config

import "time"

// RawConfig represents unparsed YAML structure
type RawConfig struct {
	Namespace         string            `yaml:"namespace"`
	DimensionMapPath  string            `yaml:"dimension_map_path"`
	AddHostAsLabel    bool              `yaml:"add_host_as_label"`
	AddServiceAsLabel bool              `yaml:"add_service_as_label"`
	Export            RawExportConfig   `yaml:"export"`
	Ingest            *RawIngestConfig  `yaml:"ingest,omitempty"`
	Settings          RawSettingsConfig `yaml:"settings"`
}

// RawExportConfig defines how metrics are exposed
type RawExportConfig struct {
	Prometheus  *RawPrometheusExportConfig  `yaml:"prometheus,omitempty"`
	Pushgateway *RawPushgatewayExportConfig `yaml:"pushgateway,omitempty"`
	OTEL        *RawOTELExportConfig        `yaml:"otel,omitempty"`
}

// RawPrometheusExportConfig defines Prometheus pull endpoint settings
type RawPrometheusExportConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// RawPushgatewayExportConfig defines Pushgateway push settings
type RawPushgatewayExportConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Address          string        `yaml:"address"`
	Job              string        `yaml:"job"`
	Interval         time.Duration `yaml:"interval"`
	DeleteOnShutdown bool          `yaml:"delete_on_shutdown"`
}

// RawOTELExportConfig defines OTEL push settings
type RawOTELExportConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Transport string            `yaml:"transport"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	Interval  time.Duration     `yaml:"interval"`
	Resource  map[string]string `yaml:"resource,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

// RawIngestConfig defines the HTTP event ingest endpoint
type RawIngestConfig struct {
	Enabled      *bool  `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Path         string `yaml:"path"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// RawSettingsConfig holds general application settings
type RawSettingsConfig struct {
	InternalMetrics RawToggleConfig  `yaml:"internal_metrics"`
	RuntimeMetrics  RawToggleConfig  `yaml:"runtime_metrics"`
	Log             RawLogConfig     `yaml:"log"`
	Monitor         RawMonitorConfig `yaml:"monitor"`
}

// RawToggleConfig is a section with a single enabled flag
type RawToggleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RawLogConfig controls log output
type RawLogConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	File   *RawLogFileConfig `yaml:"file,omitempty"`
}

// RawLogFileConfig enables rotating file output
type RawLogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// RawMonitorConfig controls the resource monitor
type RawMonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}
