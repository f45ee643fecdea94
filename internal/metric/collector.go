package metric

import (
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrLabelCount is returned when the number of label values does not
	// match the collector's declared dimensions.
	ErrLabelCount = errors.New("label value count does not match dimensions")

	// ErrNegativeCount is returned when a counter would be decremented.
	ErrNegativeCount = errors.New("counter increment must be a non-negative number")

	// ErrNaNValue is returned when a gauge or timer receives NaN.
	ErrNaNValue = errors.New("value is NaN")
)

// Mirror receives every update successfully applied to a collector.
type Mirror interface {
	Record(values []string, v float64)
}

// MirrorFactory creates the mirror for a newly built collector.
type MirrorFactory func(c *Collector) (Mirror, error)

// Collector pairs one Prometheus vector with its declared dimension order.
// Dimensions are fixed at construction; Apply is safe for concurrent use.
type Collector struct {
	name       string
	fqName     string
	help       string
	kind       Kind
	dimensions []string
	factor     float64

	counter   *prometheus.CounterVec
	gauge     *prometheus.GaugeVec
	histogram *prometheus.HistogramVec

	mirror Mirror
}

// newCollector creates the vector matching kind. It is not registered.
func newCollector(name, namespace, help string, kind Kind, dimensions []string, factor float64) (*Collector, error) {
	c := &Collector{
		name:       name,
		fqName:     prometheus.BuildFQName(namespace, "", Normalize(name)),
		help:       help,
		kind:       kind,
		dimensions: dimensions,
		factor:     factor,
	}
	if c.help == "" {
		c.help = name
	}
	if c.factor == 0 {
		c.factor = 1
	}

	switch kind {
	case KindCount:
		c.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      Normalize(name),
			Help:      c.help,
		}, dimensions)
	case KindGauge:
		c.gauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      Normalize(name),
			Help:      c.help,
		}, dimensions)
	case KindTimer:
		c.histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      Normalize(name),
			Help:      c.help,
			Buckets:   TimerBuckets(),
		}, dimensions)
	default:
		return nil, fmt.Errorf("unsupported collector kind %s", kind)
	}

	return c, nil
}

// Name returns the schema name of the metric.
func (c *Collector) Name() string { return c.name }

// FQName returns the exported, namespaced metric name.
func (c *Collector) FQName() string { return c.fqName }

// Help returns the metric help text.
func (c *Collector) Help() string { return c.help }

// Kind returns the collector kind.
func (c *Collector) Kind() Kind { return c.kind }

// Dimensions returns a copy of the declared label names in order.
func (c *Collector) Dimensions() []string {
	return append([]string(nil), c.dimensions...)
}

// prometheusCollector returns the underlying vector for registration.
func (c *Collector) prometheusCollector() prometheus.Collector {
	switch c.kind {
	case KindCount:
		return c.counter
	case KindGauge:
		return c.gauge
	default:
		return c.histogram
	}
}

// Apply updates the collector for one set of label values, given in
// declared dimension order. Counters are incremented, gauges set and
// timers observed (after division by the conversion factor).
func (c *Collector) Apply(values []string, v float64) error {
	if len(values) != len(c.dimensions) {
		return fmt.Errorf("%w: metric %q expects %d, got %d",
			ErrLabelCount, c.name, len(c.dimensions), len(values))
	}
	if c.kind != KindCount && math.IsNaN(v) {
		return fmt.Errorf("%w: metric %q", ErrNaNValue, c.name)
	}

	switch c.kind {
	case KindCount:
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: metric %q got %v", ErrNegativeCount, c.name, v)
		}
		m, err := c.counter.GetMetricWithLabelValues(values...)
		if err != nil {
			return err
		}
		m.Add(v)
	case KindGauge:
		m, err := c.gauge.GetMetricWithLabelValues(values...)
		if err != nil {
			return err
		}
		m.Set(v)
	case KindTimer:
		v = v / c.factor
		m, err := c.histogram.GetMetricWithLabelValues(values...)
		if err != nil {
			return err
		}
		m.Observe(v)
	}

	if c.mirror != nil {
		c.mirror.Record(values, v)
	}
	return nil
}
