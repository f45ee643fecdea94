package emitter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FeedMetrics is the feed carried by metric events.
const FeedMetrics = "metrics"

// Labels filled from event fields rather than from Dimensions.
const (
	HostLabel    = "host_name"
	ServiceLabel = "service_name"
)

// Dimensions that fall back to the event envelope when absent from Dimensions.
const (
	HostDimension    = "host"
	ServiceDimension = "service"
)

// Event is a single metric emission from the host application.
type Event struct {
	Feed       string
	Timestamp  time.Time
	Service    string
	Host       string
	Metric     string
	Value      float64
	Dimensions map[string]any
}

// IsMetric reports whether the event belongs to the metrics feed.
// Events without a feed are treated as metrics.
func (e *Event) IsMetric() bool {
	return e.Feed == "" || e.Feed == FeedMetrics
}

// labelValue renders a dimension value as a label value using
// locale-independent formatting.
func labelValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case json.Number:
		return x.String(), true
	case []string:
		return strings.Join(x, ","), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, el := range x {
			s, ok := labelValue(el)
			if !ok {
				continue
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}
