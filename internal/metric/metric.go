package metric

import (
	"fmt"
	"slices"
	"strings"

	"github.com/neox5/emitbox/internal/schema"
)

// Kind is the exported collector kind of a metric.
type Kind int

const (
	KindCount Kind = iota + 1
	KindGauge
	KindTimer
)

var timerBuckets = []float64{0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10, 30, 60, 120, 300}

// TimerBuckets returns a copy of the histogram bucket boundaries (seconds)
// shared by every timer.
func TimerBuckets() []float64 {
	return slices.Clone(timerBuckets)
}

// ParseKind maps a declared schema type to a Kind.
func ParseKind(t string) (Kind, error) {
	switch t {
	case schema.TypeCount:
		return KindCount, nil
	case schema.TypeGauge:
		return KindGauge, nil
	case schema.TypeTimer:
		return KindTimer, nil
	default:
		return 0, fmt.Errorf("unrecognized metric type %q", t)
	}
}

func (k Kind) String() string {
	switch k {
	case KindCount:
		return schema.TypeCount
	case KindGauge:
		return schema.TypeGauge
	case KindTimer:
		return schema.TypeTimer
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Normalize converts a metric name into the Prometheus name charset:
// lowercased, with every character outside [a-z0-9_:] replaced by '_'.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
}
