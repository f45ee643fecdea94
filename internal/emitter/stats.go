package emitter

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons.
const (
	ReasonFiltered         = "filtered"
	ReasonUnknownMetric    = "unknown_metric"
	ReasonMissingDimension = "missing_dimension"
	ReasonInvalidValue     = "invalid_value"
)

const internalNamespace = "emitbox"

// Stats counts dispatcher outcomes.
type Stats struct {
	received         atomic.Uint64
	dispatched       atomic.Uint64
	filtered         atomic.Uint64
	unknownMetric    atomic.Uint64
	missingDimension atomic.Uint64
	invalidValue     atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Received   uint64
	Dispatched uint64
	Dropped    map[string]uint64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Received:   s.received.Load(),
		Dispatched: s.dispatched.Load(),
		Dropped: map[string]uint64{
			ReasonFiltered:         s.filtered.Load(),
			ReasonUnknownMetric:    s.unknownMetric.Load(),
			ReasonMissingDimension: s.missingDimension.Load(),
			ReasonInvalidValue:     s.invalidValue.Load(),
		},
	}
}

// TotalDropped sums drops across all reasons.
func (s Snapshot) TotalDropped() uint64 {
	var n uint64
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

func (s *Stats) drop(reason string) {
	switch reason {
	case ReasonFiltered:
		s.filtered.Add(1)
	case ReasonUnknownMetric:
		s.unknownMetric.Add(1)
	case ReasonMissingDimension:
		s.missingDimension.Add(1)
	default:
		s.invalidValue.Add(1)
	}
}

// Collectors exposes the counters as Prometheus metrics.
func (s *Stats) Collectors() []prometheus.Collector {
	load := func(c *atomic.Uint64) func() float64 {
		return func() float64 { return float64(c.Load()) }
	}
	dropped := func(reason string, c *atomic.Uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   internalNamespace,
			Name:        "events_dropped_total",
			Help:        "Total number of metric events dropped by the dispatcher.",
			ConstLabels: prometheus.Labels{"reason": reason},
		}, load(c))
	}

	return []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: internalNamespace,
			Name:      "events_received_total",
			Help:      "Total number of events received by the dispatcher.",
		}, load(&s.received)),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: internalNamespace,
			Name:      "events_dispatched_total",
			Help:      "Total number of events applied to a collector.",
		}, load(&s.dispatched)),
		dropped(ReasonFiltered, &s.filtered),
		dropped(ReasonUnknownMetric, &s.unknownMetric),
		dropped(ReasonMissingDimension, &s.missingDimension),
		dropped(ReasonInvalidValue, &s.invalidValue),
	}
}
