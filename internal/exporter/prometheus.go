package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/neox5/emitbox/internal/config"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter provides HTTP server for Prometheus metrics.
type PrometheusExporter struct {
	addr   string
	path   string
	server *http.Server
}

// NewPrometheusExporter creates a scrape endpoint serving gatherer.
// Handler instrumentation, when enabled, is registered with registerer.
func NewPrometheusExporter(
	cfg *config.PrometheusExportConfig,
	gatherer prometheus.Gatherer,
	registerer prometheus.Registerer,
	internalMetricsEnabled bool,
) *PrometheusExporter {
	addr := cfg.Addr()
	return &PrometheusExporter{
		addr:   addr,
		path:   cfg.Path,
		server: createHTTPServer(addr, cfg.Path, gatherer, registerer, internalMetricsEnabled),
	}
}

// Handler returns the HTTP handler serving the scrape endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return e.server.Handler
}

// Start listens on the configured address and serves until ctx is
// cancelled. A listen failure is returned immediately.
func (e *PrometheusExporter) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", e.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", e.addr, err)
	}

	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting prometheus exporter", "addr", e.addr, "path", e.path)
		if err := e.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return e.Stop()
	}
}

// Stop gracefully stops the exporter.
func (e *PrometheusExporter) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down prometheus exporter")
	return e.server.Shutdown(ctx)
}
