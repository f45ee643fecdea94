package emitter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/neox5/emitbox/internal/metric"
)

// ErrMissingDimension is returned when an event lacks a declared dimension.
var ErrMissingDimension = errors.New("missing declared dimension")

// Lookup resolves metric names to collectors.
type Lookup interface {
	Lookup(name string) (*metric.Collector, bool)
}

// Options configures a Dispatcher.
type Options struct {
	// AddHostLabel fills HostLabel from Event.Host.
	AddHostLabel bool

	// AddServiceLabel fills ServiceLabel from Event.Service.
	AddServiceLabel bool
}

// ExtraLabels returns the label names the options append to every metric.
func (o Options) ExtraLabels() []string {
	var labels []string
	if o.AddServiceLabel {
		labels = append(labels, ServiceLabel)
	}
	if o.AddHostLabel {
		labels = append(labels, HostLabel)
	}
	return labels
}

// Dispatcher applies events to the collectors of a registry.
// Emit is safe for concurrent use.
type Dispatcher struct {
	metrics Lookup
	opts    Options
	stats   *Stats
	logger  *slog.Logger
}

// New creates a dispatcher over the given registry.
func New(metrics Lookup, opts Options, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		metrics: metrics,
		opts:    opts,
		stats:   &Stats{},
		logger:  logger,
	}
}

// Stats returns the dispatcher counters.
func (d *Dispatcher) Stats() *Stats {
	return d.stats
}

// Emit applies one event. Failures are logged and the event is dropped;
// Emit never returns an error or panics.
func (d *Dispatcher) Emit(ev Event) {
	d.stats.received.Add(1)

	reason, err := d.dispatch(&ev)
	if reason == "" {
		d.stats.dispatched.Add(1)
		return
	}

	d.stats.drop(reason)
	if err != nil {
		d.logger.Warn("dropping metric event",
			"metric", ev.Metric,
			"reason", reason,
			"error", err)
	}
}

// dispatch returns the drop reason, if any. Unknown metrics and
// non-metric feeds are dropped without an error.
func (d *Dispatcher) dispatch(ev *Event) (reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reason = ReasonInvalidValue
			err = fmt.Errorf("panic applying metric: %v", r)
		}
	}()

	if !ev.IsMetric() {
		return ReasonFiltered, nil
	}

	c, ok := d.metrics.Lookup(ev.Metric)
	if !ok {
		return ReasonUnknownMetric, nil
	}

	values, err := d.labelValues(c.Dimensions(), ev)
	if err != nil {
		return ReasonMissingDimension, err
	}

	if err := c.Apply(values, ev.Value); err != nil {
		return ReasonInvalidValue, err
	}
	return "", nil
}

// labelValues extracts one value per dimension, in declared order.
func (d *Dispatcher) labelValues(dims []string, ev *Event) ([]string, error) {
	values := make([]string, len(dims))
	for i, dim := range dims {
		switch {
		case d.opts.AddHostLabel && dim == HostLabel:
			values[i] = ev.Host
			continue
		case d.opts.AddServiceLabel && dim == ServiceLabel:
			values[i] = ev.Service
			continue
		}

		v, ok := labelValue(ev.Dimensions[dim])
		if !ok {
			v, ok = envelopeValue(dim, ev)
		}
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingDimension, dim)
		}
		values[i] = v
	}
	return values, nil
}

// envelopeValue resolves a declared host or service dimension from the
// event envelope.
func envelopeValue(dim string, ev *Event) (string, bool) {
	switch dim {
	case HostDimension:
		return ev.Host, ev.Host != ""
	case ServiceDimension:
		return ev.Service, ev.Service != ""
	}
	return "", false
}
