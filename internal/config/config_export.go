package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	// Prometheus defaults
	DefaultPrometheusPort = 9090
	DefaultPrometheusPath = "/metrics"

	// Pushgateway defaults
	DefaultPushInterval = 15 * time.Second

	// OTEL defaults
	DefaultOTELPushInterval = 10 * time.Second
	DefaultOTELTransport    = "grpc"
	DefaultOTELHost         = "localhost"
	DefaultOTELPortGRPC     = 4317
	DefaultOTELPortHTTP     = 4318
	DefaultServiceName      = "emitbox"
	DefaultServiceVersion   = "dev"
)

// ExportConfig defines how metrics are exposed.
type ExportConfig struct {
	Prometheus  *PrometheusExportConfig
	Pushgateway *PushgatewayExportConfig
	OTEL        *OTELExportConfig
}

// Validate applies defaults and validates export configuration.
func (e *ExportConfig) Validate(namespace string) error {
	// The scrape endpoint is on unless explicitly disabled
	if e.Prometheus == nil {
		e.Prometheus = &PrometheusExportConfig{Enabled: true}
	}
	if err := e.Prometheus.Validate(); err != nil {
		return err
	}

	if e.Pushgateway != nil {
		if err := e.Pushgateway.Validate(namespace); err != nil {
			return err
		}
	}

	if e.OTEL != nil {
		if err := e.OTEL.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// PrometheusExportConfig defines Prometheus pull endpoint settings.
type PrometheusExportConfig struct {
	Enabled bool
	Host    string
	Port    int
	Path    string
}

// Validate applies defaults and validates Prometheus configuration.
func (c *PrometheusExportConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	// Apply defaults
	if c.Port == 0 {
		c.Port = DefaultPrometheusPort
	}
	if c.Path == "" {
		c.Path = DefaultPrometheusPath
	}

	// Validate port range
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid prometheus port: %d", c.Port)
	}

	return nil
}

// Addr returns the listen address.
func (c *PrometheusExportConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PushgatewayExportConfig defines Pushgateway push settings.
type PushgatewayExportConfig struct {
	Enabled          bool
	Address          string
	Job              string
	Interval         time.Duration
	DeleteOnShutdown bool
}

// Validate applies defaults and validates Pushgateway configuration.
func (c *PushgatewayExportConfig) Validate(namespace string) error {
	if !c.Enabled {
		return nil
	}

	if c.Address == "" {
		return fmt.Errorf("pushgateway address cannot be empty")
	}

	// Accept bare host:port addresses
	u, err := url.Parse(c.Address)
	if err != nil || u.Scheme == "" || u.Host == "" {
		c.Address = "http://" + c.Address
		if _, err := url.Parse(c.Address); err != nil {
			return fmt.Errorf("invalid pushgateway address %q: %w", c.Address, err)
		}
	}

	if c.Job == "" {
		c.Job = namespace
	}
	if c.Interval == 0 {
		c.Interval = DefaultPushInterval
	}
	if c.Interval < 0 {
		return fmt.Errorf("invalid pushgateway interval: %s", c.Interval)
	}

	return nil
}

// OTELExportConfig defines OTEL push settings.
type OTELExportConfig struct {
	Enabled   bool
	Transport string
	Host      string
	Port      int
	Interval  time.Duration
	Resource  map[string]string
	Headers   map[string]string
}

// Validate applies defaults and validates OTEL configuration.
func (c *OTELExportConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	// Apply transport default
	if c.Transport == "" {
		c.Transport = DefaultOTELTransport
	}

	// Validate transport
	if c.Transport != "grpc" && c.Transport != "http" {
		return fmt.Errorf("invalid transport: %s (must be grpc or http)", c.Transport)
	}

	// Apply host default
	if c.Host == "" {
		c.Host = DefaultOTELHost
	}

	// Apply port default based on transport
	if c.Port == 0 {
		if c.Transport == "grpc" {
			c.Port = DefaultOTELPortGRPC
		} else {
			c.Port = DefaultOTELPortHTTP
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid otel port: %d", c.Port)
	}

	if c.Interval == 0 {
		c.Interval = DefaultOTELPushInterval
	}

	// Apply resource defaults
	if c.Resource == nil {
		c.Resource = make(map[string]string)
	}
	if _, exists := c.Resource["service.name"]; !exists {
		c.Resource["service.name"] = DefaultServiceName
	}
	if _, exists := c.Resource["service.version"]; !exists {
		c.Resource["service.version"] = DefaultServiceVersion
	}

	return nil
}

// GetEndpoint returns the full endpoint address.
func (c *OTELExportConfig) GetEndpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
