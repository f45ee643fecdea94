package config

import (
	"fmt"
	"maps"
)

// Resolve converts a raw configuration into a validated Config with defaults applied.
func Resolve(raw *RawConfig) (*Config, error) {
	cfg := &Config{
		Namespace:         raw.Namespace,
		DimensionMapPath:  raw.DimensionMapPath,
		AddHostAsLabel:    raw.AddHostAsLabel,
		AddServiceAsLabel: raw.AddServiceAsLabel,
		Export:            resolveExport(&raw.Export),
		Ingest:            resolveIngest(raw.Ingest),
		Settings:          resolveSettings(&raw.Settings),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolveExport(raw *RawExportConfig) ExportConfig {
	var export ExportConfig

	if p := raw.Prometheus; p != nil {
		export.Prometheus = &PrometheusExportConfig{
			Enabled: enabledOrDefault(p.Enabled),
			Host:    p.Host,
			Port:    p.Port,
			Path:    p.Path,
		}
	}

	if p := raw.Pushgateway; p != nil {
		export.Pushgateway = &PushgatewayExportConfig{
			Enabled:          p.Enabled,
			Address:          p.Address,
			Job:              p.Job,
			Interval:         p.Interval,
			DeleteOnShutdown: p.DeleteOnShutdown,
		}
	}

	if o := raw.OTEL; o != nil {
		export.OTEL = &OTELExportConfig{
			Enabled:   o.Enabled,
			Transport: o.Transport,
			Host:      o.Host,
			Port:      o.Port,
			Interval:  o.Interval,
			Resource:  maps.Clone(o.Resource),
			Headers:   maps.Clone(o.Headers),
		}
	}

	return export
}

func resolveIngest(raw *RawIngestConfig) IngestConfig {
	if raw == nil {
		return IngestConfig{Enabled: true}
	}
	return IngestConfig{
		Enabled:      enabledOrDefault(raw.Enabled),
		Host:         raw.Host,
		Port:         raw.Port,
		Path:         raw.Path,
		MaxBodyBytes: raw.MaxBodyBytes,
	}
}

func resolveSettings(raw *RawSettingsConfig) SettingsConfig {
	s := SettingsConfig{
		InternalMetrics: raw.InternalMetrics.Enabled,
		RuntimeMetrics:  raw.RuntimeMetrics.Enabled,
		Log: LogConfig{
			Level:  raw.Log.Level,
			Format: raw.Log.Format,
		},
		Monitor: MonitorConfig{
			Enabled:  raw.Monitor.Enabled,
			Interval: raw.Monitor.Interval,
		},
	}

	if f := raw.Log.File; f != nil {
		s.Log.File = &LogFileConfig{
			Path:       f.Path,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		}
	}

	return s
}

// enabledOrDefault treats an omitted enabled flag as true.
func enabledOrDefault(b *bool) bool {
	return b == nil || *b
}
