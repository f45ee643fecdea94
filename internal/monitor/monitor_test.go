package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/neox5/emitbox/internal/emitter"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	snap emitter.Snapshot
}

func (f *fakeStats) Snapshot() emitter.Snapshot { return f.snap }

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestMonitor_CollectLogsDeltas(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	stats := &fakeStats{snap: emitter.Snapshot{
		Received:   10,
		Dispatched: 7,
		Dropped:    map[string]uint64{emitter.ReasonUnknownMetric: 3},
	}}

	m, err := New(time.Second, stats, logger)
	require.NoError(t, err)

	m.collect()
	entry := lastLine(t, &buf)
	require.Equal(t, "resource", entry["msg"])
	require.EqualValues(t, 10, entry["received"])
	require.EqualValues(t, 7, entry["dispatched"])
	require.EqualValues(t, 3, entry["dropped"])
	require.Equal(t, "0.0/s", entry["rate"], "no rate before the second tick")
	require.Contains(t, entry, "cpu")
	require.Contains(t, entry, "gor")

	stats.snap = emitter.Snapshot{
		Received:   15,
		Dispatched: 11,
		Dropped:    map[string]uint64{emitter.ReasonUnknownMetric: 4},
	}
	m.collect()
	entry = lastLine(t, &buf)
	require.EqualValues(t, 5, entry["received"])
	require.EqualValues(t, 4, entry["dispatched"])
	require.EqualValues(t, 1, entry["dropped"])
}

func TestMonitor_NoStats(t *testing.T) {
	var buf bytes.Buffer
	m, err := New(time.Second, nil, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)

	m.collect()
	entry := lastLine(t, &buf)
	require.NotContains(t, entry, "received")
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	m, err := New(10*time.Millisecond, nil, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	m.Run(ctx)
	cancel()
	m.Wait()

	require.Contains(t, buf.String(), "monitor shutdown complete")
}

func TestSaturation(t *testing.T) {
	tests := []struct {
		util float64
		want string
	}{
		{util: 0, want: "normal"},
		{util: 0.80, want: "normal"},
		{util: 0.81, want: "high"},
		{util: 0.95, want: "high"},
		{util: 0.99, want: "saturated"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, saturation(tt.util), "utilization %v", tt.util)
	}
}
