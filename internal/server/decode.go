package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/neox5/emitbox/internal/emitter"
)

// Keys reserved by the event envelope; every other key is a dimension.
const (
	keyFeed      = "feed"
	keyTimestamp = "timestamp"
	keyService   = "service"
	keyHost      = "host"
	keyMetric    = "metric"
	keyValue     = "value"
)

var errEmptyMetric = errors.New("event has no metric name")

// decodeBatch reads either a JSON array of events or a single event object.
func decodeBatch(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var batch []map[string]any
		if err := dec.Decode(&batch); err != nil {
			return nil, err
		}
		return batch, nil
	}

	var single map[string]any
	if err := dec.Decode(&single); err != nil {
		return nil, err
	}
	return []map[string]any{single}, nil
}

// toEvent converts one decoded object into an Event.
func toEvent(raw map[string]any) (emitter.Event, error) {
	ev := emitter.Event{
		Feed:       stringField(raw[keyFeed]),
		Service:    stringField(raw[keyService]),
		Host:       stringField(raw[keyHost]),
		Metric:     stringField(raw[keyMetric]),
		Dimensions: make(map[string]any, len(raw)),
	}

	if ev.IsMetric() && ev.Metric == "" {
		return ev, errEmptyMetric
	}

	if ts, ok := raw[keyTimestamp].(string); ok && ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return ev, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		ev.Timestamp = t
	}

	if ev.IsMetric() {
		f, err := numberField(raw[keyValue])
		if err != nil {
			return ev, fmt.Errorf("metric %q: %w", ev.Metric, err)
		}
		ev.Value = f
	}

	for k, v := range raw {
		switch k {
		case keyFeed, keyTimestamp, keyService, keyHost, keyMetric, keyValue:
			continue
		}
		ev.Dimensions[k] = v
	}

	return ev, nil
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

func numberField(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("value %v is not a number", v)
	}
}
