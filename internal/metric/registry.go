package metric

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/neox5/emitbox/internal/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// Options controls how a Registry is built.
type Options struct {
	// Namespace prefixes every exported metric name.
	Namespace string

	// Registerer receives every collector. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// ExtraLabels are appended to every metric's declared dimensions.
	ExtraLabels []string

	// Mirror, if set, attaches a secondary sink to every collector.
	Mirror MirrorFactory
}

// Registry maps metric names to their collectors.
// It is immutable once Build returns.
type Registry struct {
	collectors map[string]*Collector
}

// Build creates and registers one collector per schema entry.
// Entries with an unsupported type are logged and skipped; registration
// failures (duplicate or invalid names) abort the build.
func Build(s schema.Schema, opts Options) (*Registry, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	collectors := make(map[string]*Collector, len(s))

	for _, name := range s.Names() {
		entry := s[name]

		kind, err := ParseKind(entry.Type)
		if err != nil {
			slog.Error("skipping metric", "metric", name, "error", err)
			continue
		}

		dims := make([]string, 0, len(entry.Dimensions)+len(opts.ExtraLabels))
		dims = append(dims, entry.Dimensions...)
		dims = append(dims, opts.ExtraLabels...)

		c, err := newCollector(name, opts.Namespace, entry.Help, kind, dims, entry.ConversionFactor)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric %q: %w", name, err)
		}

		if err := reg.Register(c.prometheusCollector()); err != nil {
			return nil, fmt.Errorf("failed to register metric %q as %q: %w", name, c.FQName(), err)
		}

		if opts.Mirror != nil {
			m, err := opts.Mirror(c)
			if err != nil {
				return nil, fmt.Errorf("failed to mirror metric %q: %w", name, err)
			}
			c.mirror = m
		}

		collectors[name] = c

		slog.Debug("registered metric",
			"metric", name,
			"name", c.FQName(),
			"type", kind,
			"labels", dims)
	}

	slog.Info("built metric registry", "declared", len(s), "registered", len(collectors))

	return &Registry{collectors: collectors}, nil
}

// Lookup returns the collector registered for a metric name.
func (r *Registry) Lookup(name string) (*Collector, bool) {
	c, ok := r.collectors[name]
	return c, ok
}

// Len returns the number of registered collectors.
func (r *Registry) Len() int {
	return len(r.collectors)
}

// Collectors returns all collectors ordered by metric name.
func (r *Registry) Collectors() []*Collector {
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Collector, len(names))
	for i, name := range names {
		out[i] = r.collectors[name]
	}
	return out
}
