package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/neox5/emitbox/internal/emitter"
	"github.com/shirou/gopsutil/v4/process"
)

// StatsSource provides dispatcher counters for the periodic log line.
type StatsSource interface {
	Snapshot() emitter.Snapshot
}

// Monitor periodically logs event throughput alongside process resource usage.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	stats    StatsSource
	wg       sync.WaitGroup
	proc     *process.Process

	last   emitter.Snapshot
	lastAt time.Time
}

// New creates a new monitor with specified collection interval.
// stats may be nil.
func New(interval time.Duration, stats StatsSource, logger *slog.Logger) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	return &Monitor{
		interval: interval,
		logger:   logger,
		stats:    stats,
		proc:     proc,
	}, nil
}

// Run starts the monitoring loop in a background goroutine.
// The loop exits when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.collect()

		for {
			select {
			case <-ctx.Done():
				m.logger.Info("monitor shutdown complete")
				return
			case <-ticker.C:
				m.collect()
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// saturation classifies process CPU utilization (0..1 of all cores).
func saturation(utilization float64) string {
	switch {
	case utilization > 0.95:
		return "saturated"
	case utilization > 0.80:
		return "high"
	default:
		return "normal"
	}
}

// collect logs one line of process usage and event throughput since the
// previous tick.
func (m *Monitor) collect() {
	now := time.Now()

	processCPU, err := m.proc.CPUPercent()
	if err != nil {
		m.logger.Warn("failed to get CPU percent", "error", err)
	}
	cores := runtime.GOMAXPROCS(-1)
	utilization := processCPU / float64(cores*100)
	sat := saturation(utilization)

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	attrs := []slog.Attr{
		slog.String("cpu", fmt.Sprintf("%.2f%%", processCPU)),
		slog.String("sat", sat),
		slog.Int("gor", runtime.NumGoroutine()),
		slog.String("heap", fmt.Sprintf("%.2fMB", float64(ms.HeapAlloc)/(1<<20))),
		slog.Uint64("gc", uint64(ms.NumGC)),
	}

	var rate float64
	if m.stats != nil {
		snap := m.stats.Snapshot()
		received := snap.Received - m.last.Received
		if !m.lastAt.IsZero() {
			if elapsed := now.Sub(m.lastAt).Seconds(); elapsed > 0 {
				rate = float64(received) / elapsed
			}
		}
		attrs = append(attrs,
			slog.Uint64("received", received),
			slog.Uint64("dispatched", snap.Dispatched-m.last.Dispatched),
			slog.Uint64("dropped", snap.TotalDropped()-m.last.TotalDropped()),
			slog.String("rate", fmt.Sprintf("%.1f/s", rate)),
		)
		m.last = snap
	}
	m.lastAt = now

	m.logger.LogAttrs(context.Background(), slog.LevelInfo, "resource", attrs...)

	if sat == "saturated" {
		m.logger.Warn("event processing is cpu bound",
			"cpu", processCPU,
			"events_per_sec", rate,
			"action", "spread emitters across more emitbox instances or raise GOMAXPROCS",
		)
	}
}
