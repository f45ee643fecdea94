package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/neox5/emitbox/internal/app"
	"github.com/neox5/emitbox/internal/config"
	"github.com/neox5/emitbox/internal/logging"
	"github.com/neox5/emitbox/internal/monitor"
	"github.com/neox5/emitbox/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "emitbox",
		Usage:   "Bridge metric events into Prometheus collectors",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file (defaults apply when empty)",
				Sources: cli.EnvVars("EMITBOX_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("EMITBOX_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "namespace",
				Usage:   "prefix for every exported metric name",
				Sources: cli.EnvVars("EMITBOX_NAMESPACE"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "prometheus scrape port",
				Sources: cli.EnvVars("EMITBOX_PORT"),
			},
			&cli.StringFlag{
				Name:    "dimension-map-path",
				Usage:   "path to the metric dimension map (built-in map when empty)",
				Sources: cli.EnvVars("EMITBOX_DIMENSION_MAP_PATH"),
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg, err := config.Load(configPath, config.Overrides{
		Namespace:        cmd.String("namespace"),
		DimensionMapPath: cmd.String("dimension-map-path"),
		PrometheusPort:   cmd.Int("port"),
		Debug:            cmd.Bool("debug"),
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer := logging.New(cfg.Settings.Log)
	defer closer.Close()
	slog.SetDefault(logger)

	slog.Info("starting emitbox", "version", version.String(), "config", configPath)

	slog.Debug("--- Registry Creation ---")
	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	// Setup graceful shutdown
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Settings.Monitor.Enabled {
		mon, err := monitor.New(cfg.Settings.Monitor.Interval, application.Dispatcher.Stats(), logger)
		if err != nil {
			slog.Error("resource monitor disabled", "error", err)
		} else {
			mon.Run(shutdownCtx)
			defer mon.Wait()
		}
	}

	slog.Debug("--- Application Running ---")
	application.Run(shutdownCtx)

	slog.Info("shutdown complete")
	return nil
}
