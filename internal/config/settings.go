package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// Ingest defaults
	DefaultIngestPort         = 8080
	DefaultIngestPath         = "/events"
	DefaultIngestMaxBodyBytes = 10 << 20

	// Settings defaults
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMonitorInterval = 30 * time.Second
	DefaultLogMaxSizeMB    = 100
)

// IngestConfig defines the HTTP endpoint accepting metric events.
type IngestConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Path         string
	MaxBodyBytes int64
}

// Validate applies defaults and validates ingest configuration.
func (c *IngestConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Port == 0 {
		c.Port = DefaultIngestPort
	}
	if c.Path == "" {
		c.Path = DefaultIngestPath
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultIngestMaxBodyBytes
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid ingest port: %d", c.Port)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("invalid ingest max_body_bytes: %d", c.MaxBodyBytes)
	}
	return nil
}

// Addr returns the listen address.
func (c *IngestConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SettingsConfig holds general application settings.
type SettingsConfig struct {
	InternalMetrics bool
	RuntimeMetrics  bool
	Log             LogConfig
	Monitor         MonitorConfig
}

// LogConfig controls log level, format and destination.
type LogConfig struct {
	Level  string
	Format string
	File   *LogFileConfig
}

// LogFileConfig enables rotating file output.
type LogFileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// MonitorConfig controls the resource monitor.
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Validate applies defaults and validates settings configuration.
func (s *SettingsConfig) Validate() error {
	if s.Log.Level == "" {
		s.Log.Level = DefaultLogLevel
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s.Log.Level)
	}

	if s.Log.Format == "" {
		s.Log.Format = DefaultLogFormat
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", s.Log.Format)
	}

	if f := s.Log.File; f != nil {
		if f.Path == "" {
			return fmt.Errorf("log file path cannot be empty")
		}
		if f.MaxSizeMB == 0 {
			f.MaxSizeMB = DefaultLogMaxSizeMB
		}
	}

	if s.Monitor.Interval == 0 {
		s.Monitor.Interval = DefaultMonitorInterval
	}
	if s.Monitor.Interval < 0 {
		return fmt.Errorf("invalid monitor interval: %s", s.Monitor.Interval)
	}

	return nil
}
