package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/laderr/derivation"
	"github.com/c360studio/laderr/specification"
)

func watchCmd(app *cli) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch <spec>",
		Short: "Re-derive a specification whenever it changes",
		Long: `Watch monitors the specification file and re-runs the derivation on
every change, writing the enriched output next to the input. Derivation
metrics are exposed on the Prometheus endpoint when --metrics-addr is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), app, args[0], metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address for the Prometheus /metrics endpoint (empty = disabled)")

	return cmd
}

func watch(ctx context.Context, app *cli, path, metricsAddr string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := derivation.NewMetrics()
	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		if err := metrics.Register(registry); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		srv := startMetricsServer(app, metricsAddr, registry)
		defer shutdownMetricsServer(app, srv)
	}

	watcher, err := specification.NewWatcher(path, app.cfg.Watch.Debounce, app.logger)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	// Initial derivation before waiting for changes.
	deriveOnce(app, path, metrics)

	app.logger.Info("Watching specification", "path", path, "debounce", app.cfg.Watch.Debounce)
	for {
		select {
		case <-ctx.Done():
			app.logger.Info("Watch stopped")
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if ev.Err != nil {
				app.logger.Warn("Watch error", "error", ev.Err)
				continue
			}
			deriveOnce(app, path, metrics)
		}
	}
}

// deriveOnce runs one derivation and logs failures instead of exiting, so a
// transient parse error does not stop the watch loop.
func deriveOnce(app *cli, path string, metrics *derivation.Metrics) {
	reader := specification.NewReader(app.logger)
	fg, meta, err := reader.ReadFile(path)
	if err != nil {
		app.logger.Error("Read failed", "spec", path, "error", err)
		return
	}

	res, err := derivation.Run(fg, derivation.Options{
		MaxPasses: app.cfg.Engine.MaxPasses,
		Logger:    app.logger,
		Metrics:   metrics,
	})
	if err != nil {
		app.logger.Error("Derivation failed", "spec", path, "error", err)
		return
	}
	printDiagnostics(path, res)

	outPath := enrichedPath(path)
	if err := specification.WriteFile(res.Graph, meta, outPath); err != nil {
		app.logger.Error("Write failed", "out", outPath, "error", err)
		return
	}

	app.logger.Info("Re-derived specification",
		"spec", path,
		"out", outPath,
		"run_id", res.RunID,
		"passes", res.Passes,
		"new_facts", res.NewFacts,
		"converged", res.Converged)
}

func startMetricsServer(app *cli, addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		app.logger.Info("Metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdownMetricsServer(app *cli, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Warn("Metrics server shutdown", "error", err)
	}
}
