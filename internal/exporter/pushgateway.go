package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neox5/emitbox/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushTimeout = 5 * time.Second

// PushgatewayExporter periodically pushes collector state to a Pushgateway.
type PushgatewayExporter struct {
	config *config.PushgatewayExportConfig
	pusher *push.Pusher
}

// NewPushgatewayExporter creates a pusher for gatherer.
func NewPushgatewayExporter(cfg *config.PushgatewayExportConfig, gatherer prometheus.Gatherer) *PushgatewayExporter {
	return &PushgatewayExporter{
		config: cfg,
		pusher: push.New(cfg.Address, cfg.Job).Gatherer(gatherer),
	}
}

// Push sends the current state once, replacing the job's metrics.
func (e *PushgatewayExporter) Push(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if err := e.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push to %s: %w", e.config.Address, err)
	}
	return nil
}

// Start pushes on every interval until ctx is cancelled, then performs a
// final push (or delete, if configured).
func (e *PushgatewayExporter) Start(ctx context.Context) error {
	slog.Info("starting pushgateway exporter",
		"address", e.config.Address,
		"job", e.config.Job,
		"interval", e.config.Interval)

	t := time.NewTicker(e.config.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.Stop()
		case <-t.C:
			if err := e.Push(ctx); err != nil {
				slog.Error("pushgateway push failed", "error", err)
			}
		}
	}
}

// Stop flushes the final state to the Pushgateway.
func (e *PushgatewayExporter) Stop() error {
	if e.config.DeleteOnShutdown {
		slog.Info("deleting pushgateway metrics", "job", e.config.Job)
		return e.pusher.Delete()
	}

	slog.Info("flushing pushgateway exporter")
	return e.Push(context.Background())
}
