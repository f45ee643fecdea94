package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neox5/emitbox/internal/config"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/neox5/emitbox"

// OTELExporter pushes every collector update to an OTEL collector.
// It mirrors the Prometheus collectors through synchronous instruments.
type OTELExporter struct {
	config        *config.OTELExportConfig
	meterProvider *sdkmetric.MeterProvider
	meter         otelmetric.Meter

	stopOnce sync.Once
	stopErr  error
}

// NewOTELExporter creates a new OTEL exporter.
func NewOTELExporter(cfg *config.OTELExportConfig) (*OTELExporter, error) {
	res, err := createOTELResource(cfg.Resource)
	if err != nil {
		return nil, err
	}

	meterProvider, err := createMeterProvider(cfg, res)
	if err != nil {
		return nil, err
	}

	return newOTELExporter(cfg, meterProvider), nil
}

// NewOTELExporterWithReader creates an OTEL exporter whose data is
// collected by reader instead of the configured OTLP endpoint.
func NewOTELExporterWithReader(cfg *config.OTELExportConfig, reader sdkmetric.Reader) (*OTELExporter, error) {
	res, err := createOTELResource(cfg.Resource)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	return newOTELExporter(cfg, mp), nil
}

func newOTELExporter(cfg *config.OTELExportConfig, mp *sdkmetric.MeterProvider) *OTELExporter {
	return &OTELExporter{
		config:        cfg,
		meterProvider: mp,
		meter:         mp.Meter(meterName),
	}
}

// Start waits for ctx to be cancelled; the periodic reader pushes on its own.
func (e *OTELExporter) Start(ctx context.Context) error {
	slog.Info("starting otel exporter",
		"endpoint", e.config.GetEndpoint(),
		"transport", e.config.Transport,
		"push_interval", e.config.Interval,
	)

	<-ctx.Done()
	return e.Stop()
}

// Stop flushes pending data and shuts the meter provider down.
// Calls after the first return the first result.
func (e *OTELExporter) Stop() error {
	e.stopOnce.Do(func() {
		slog.Info("shutting down otel exporter")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := e.meterProvider.Shutdown(ctx); err != nil {
			e.stopErr = fmt.Errorf("failed to shut down meter provider: %w", err)
		}
	})
	return e.stopErr
}
