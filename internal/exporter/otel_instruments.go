package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neox5/emitbox/internal/metric"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// instrument mirrors one collector into a synchronous OTEL instrument.
type instrument struct {
	kind       metric.Kind
	dimensions []string
	counter    otelmetric.Float64Counter
	gauge      otelmetric.Float64Gauge
	histogram  otelmetric.Float64Histogram
}

// Mirror creates the OTEL instrument matching c. It satisfies metric.MirrorFactory.
func (e *OTELExporter) Mirror(c *metric.Collector) (metric.Mirror, error) {
	inst := &instrument{
		kind:       c.Kind(),
		dimensions: c.Dimensions(),
	}

	// OTEL instrument names do not allow colons.
	name := strings.ReplaceAll(c.FQName(), ":", "_")
	var err error

	switch c.Kind() {
	case metric.KindCount:
		inst.counter, err = e.meter.Float64Counter(name,
			otelmetric.WithDescription(c.Help()))
	case metric.KindGauge:
		inst.gauge, err = e.meter.Float64Gauge(name,
			otelmetric.WithDescription(c.Help()))
	case metric.KindTimer:
		inst.histogram, err = e.meter.Float64Histogram(name,
			otelmetric.WithDescription(c.Help()),
			otelmetric.WithUnit("s"),
			otelmetric.WithExplicitBucketBoundaries(metric.TimerBuckets()...))
	default:
		err = fmt.Errorf("unsupported kind %s", c.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create otel instrument %q: %w", name, err)
	}

	slog.Debug("registered otel metric",
		"name", name,
		"type", c.Kind(),
		"attributes", inst.dimensions)

	return inst, nil
}

// Record forwards one applied update.
func (i *instrument) Record(values []string, v float64) {
	attrs := make([]attribute.KeyValue, len(values))
	for n, val := range values {
		attrs[n] = attribute.String(i.dimensions[n], val)
	}
	opt := otelmetric.WithAttributes(attrs...)
	ctx := context.Background()

	switch i.kind {
	case metric.KindCount:
		i.counter.Add(ctx, v, opt)
	case metric.KindGauge:
		i.gauge.Record(ctx, v, opt)
	case metric.KindTimer:
		i.histogram.Record(ctx, v, opt)
	}
}
