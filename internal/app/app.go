package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neox5/emitbox/internal/config"
	"github.com/neox5/emitbox/internal/emitter"
	"github.com/neox5/emitbox/internal/exporter"
	"github.com/neox5/emitbox/internal/metric"
	"github.com/neox5/emitbox/internal/schema"
	"github.com/neox5/emitbox/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var newOTELExporter = exporter.NewOTELExporter

// App holds initialized application components.
type App struct {
	Config              *config.Config
	Registry            *prometheus.Registry
	Metrics             *metric.Registry
	Dispatcher          *emitter.Dispatcher
	PrometheusExporter  *exporter.PrometheusExporter
	PushgatewayExporter *exporter.PushgatewayExporter
	OTELExporter        *exporter.OTELExporter
	Server              *server.Server

	logger *slog.Logger
}

// New initializes the application from a resolved configuration.
// Schema and registry failures are fatal; an OTEL exporter that cannot
// be created is logged and skipped.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := schema.Load(cfg.DimensionMapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric schema: %w", err)
	}

	reg := prometheus.NewRegistry()
	if cfg.Settings.RuntimeMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	a := &App{
		Config:   cfg,
		Registry: reg,
		logger:   logger,
	}

	opts := metric.Options{
		Namespace:  cfg.Namespace,
		Registerer: reg,
	}

	if o := cfg.Export.OTEL; o != nil && o.Enabled {
		a.OTELExporter, err = newOTELExporter(o)
		if err != nil {
			logger.Error("otel exporter disabled", "error", err)
		} else {
			opts.Mirror = a.OTELExporter.Mirror
		}
	}

	dispatchOpts := emitter.Options{
		AddHostLabel:    cfg.AddHostAsLabel,
		AddServiceLabel: cfg.AddServiceAsLabel,
	}
	opts.ExtraLabels = dispatchOpts.ExtraLabels()

	a.Metrics, err = metric.Build(s, opts)
	if err != nil {
		if a.OTELExporter != nil {
			_ = a.OTELExporter.Stop()
		}
		return nil, fmt.Errorf("failed to build metric registry: %w", err)
	}

	a.Dispatcher = emitter.New(a.Metrics, dispatchOpts, logger)

	if cfg.Settings.InternalMetrics {
		reg.MustRegister(a.Dispatcher.Stats().Collectors()...)
	}

	if p := cfg.Export.Prometheus; p != nil && p.Enabled {
		a.PrometheusExporter = exporter.NewPrometheusExporter(p, reg, reg, cfg.Settings.InternalMetrics)
	}

	if p := cfg.Export.Pushgateway; p != nil && p.Enabled {
		a.PushgatewayExporter = exporter.NewPushgatewayExporter(p, reg)
	}

	if in := cfg.Ingest; in.Enabled {
		a.Server = server.New(in.Host, in.Port, in.Path, in.MaxBodyBytes, a.Dispatcher)
	}

	return a, nil
}

// Emit hands one event to the dispatcher.
func (a *App) Emit(ev emitter.Event) {
	a.Dispatcher.Emit(ev)
}

// Run starts every enabled exporter and the ingest server, then blocks
// until ctx is cancelled and all of them have stopped. A component that
// fails to start is logged; the others keep running.
func (a *App) Run(ctx context.Context) {
	var wg sync.WaitGroup

	start := func(name string, fn func(context.Context) error) {
		wg.Go(func() {
			if err := fn(ctx); err != nil {
				a.logger.Error("component failed", "component", name, "error", err)
			}
		})
	}

	if a.PrometheusExporter != nil {
		start("prometheus", a.PrometheusExporter.Start)
	}
	if a.PushgatewayExporter != nil {
		start("pushgateway", a.PushgatewayExporter.Start)
	}
	if a.OTELExporter != nil {
		start("otel", a.OTELExporter.Start)
	}
	if a.Server != nil {
		start("ingest", a.Server.Start)
	}

	a.logger.Info("emitbox running",
		"namespace", a.Config.Namespace,
		"metrics", a.Metrics.Len())

	<-ctx.Done()
	wg.Wait()
}

// Close flushes exporters that are not stopped by Run.
func (a *App) Close() error {
	if a.OTELExporter != nil {
		return a.OTELExporter.Stop()
	}
	return nil
}
