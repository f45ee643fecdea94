package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, DefaultNamespace, cfg.Namespace)
	require.Empty(t, cfg.DimensionMapPath)

	require.NotNil(t, cfg.Export.Prometheus)
	require.True(t, cfg.Export.Prometheus.Enabled)
	require.Equal(t, DefaultPrometheusPort, cfg.Export.Prometheus.Port)
	require.Equal(t, DefaultPrometheusPath, cfg.Export.Prometheus.Path)
	require.Equal(t, ":9090", cfg.Export.Prometheus.Addr())
	require.Nil(t, cfg.Export.OTEL)
	require.Nil(t, cfg.Export.Pushgateway)

	require.True(t, cfg.Ingest.Enabled)
	require.Equal(t, DefaultIngestPort, cfg.Ingest.Port)
	require.Equal(t, DefaultIngestPath, cfg.Ingest.Path)
	require.Equal(t, int64(DefaultIngestMaxBodyBytes), cfg.Ingest.MaxBodyBytes)

	require.Equal(t, "info", cfg.Settings.Log.Level)
	require.Equal(t, "text", cfg.Settings.Log.Format)
	require.Equal(t, DefaultMonitorInterval, cfg.Settings.Monitor.Interval)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
namespace: analytics
dimension_map_path: /etc/emitbox/metrics.json
add_host_as_label: true
export:
  prometheus:
    host: 127.0.0.1
    port: 19090
  pushgateway:
    enabled: true
    address: pushgateway:9091
    interval: 30s
  otel:
    enabled: true
    transport: http
    interval: 5s
    headers:
      x-token: abc
ingest:
  enabled: false
settings:
  internal_metrics:
    enabled: true
  log:
    level: warn
    format: json
    file:
      path: /var/log/emitbox.log
  monitor:
    enabled: true
    interval: 1m
`)

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)

	require.Equal(t, "analytics", cfg.Namespace)
	require.Equal(t, "/etc/emitbox/metrics.json", cfg.DimensionMapPath)
	require.True(t, cfg.AddHostAsLabel)
	require.False(t, cfg.AddServiceAsLabel)

	require.True(t, cfg.Export.Prometheus.Enabled)
	require.Equal(t, "127.0.0.1:19090", cfg.Export.Prometheus.Addr())
	require.Equal(t, DefaultPrometheusPath, cfg.Export.Prometheus.Path)

	pg := cfg.Export.Pushgateway
	require.Equal(t, "http://pushgateway:9091", pg.Address)
	require.Equal(t, "analytics", pg.Job)
	require.Equal(t, 30*time.Second, pg.Interval)

	otel := cfg.Export.OTEL
	require.Equal(t, "http", otel.Transport)
	require.Equal(t, "localhost:4318", otel.GetEndpoint())
	require.Equal(t, 5*time.Second, otel.Interval)
	require.Equal(t, "abc", otel.Headers["x-token"])
	require.Equal(t, DefaultServiceName, otel.Resource["service.name"])

	require.False(t, cfg.Ingest.Enabled)

	require.True(t, cfg.Settings.InternalMetrics)
	require.Equal(t, "warn", cfg.Settings.Log.Level)
	require.Equal(t, "json", cfg.Settings.Log.Format)
	require.Equal(t, "/var/log/emitbox.log", cfg.Settings.Log.File.Path)
	require.Equal(t, DefaultLogMaxSizeMB, cfg.Settings.Log.File.MaxSizeMB)
	require.True(t, cfg.Settings.Monitor.Enabled)
	require.Equal(t, time.Minute, cfg.Settings.Monitor.Interval)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, "namespace: fromfile\n")

	cfg, err := Load(path, Overrides{
		Namespace:        "fromflag",
		DimensionMapPath: "/tmp/m.json",
		PrometheusPort:   9191,
		Debug:            true,
	})
	require.NoError(t, err)
	require.Equal(t, "fromflag", cfg.Namespace)
	require.Equal(t, "/tmp/m.json", cfg.DimensionMapPath)
	require.Equal(t, 9191, cfg.Export.Prometheus.Port)
	require.Equal(t, "debug", cfg.Settings.Log.Level)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	require.Equal(t, DefaultNamespace, cfg.Namespace)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "namespace: [unclosed"},
		{name: "invalid namespace", content: "namespace: 1bad-name"},
		{name: "invalid prometheus port", content: "export:\n  prometheus:\n    port: 70000"},
		{name: "pushgateway without address", content: "export:\n  pushgateway:\n    enabled: true"},
		{name: "invalid otel transport", content: "export:\n  otel:\n    enabled: true\n    transport: udp"},
		{name: "invalid log level", content: "settings:\n  log:\n    level: loud"},
		{name: "invalid log format", content: "settings:\n  log:\n    format: xml"},
		{name: "log file without path", content: "settings:\n  log:\n    file:\n      max_backups: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), Overrides{})
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Overrides{})
	require.Error(t, err)
}

func TestPrometheusDisabled(t *testing.T) {
	cfg, err := Load(writeConfig(t, "export:\n  prometheus:\n    enabled: false\n"), Overrides{})
	require.NoError(t, err)
	require.False(t, cfg.Export.Prometheus.Enabled)
}
