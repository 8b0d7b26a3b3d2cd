package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"loom-hq/loom/pkg/template/cache"
	"loom-hq/loom/pkg/template/watcher"
)

var watchFlags struct {
	paths []string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch template directories and keep the cache fresh",
	Long: `Watch monitors template directories for changes. When a file is
saved or deleted, its cache entry and every template that transitively
includes it are invalidated. Scheduled cache cleanup runs alongside.

When metrics are enabled in the configuration, a Prometheus /metrics
endpoint is served for the lifetime of the watch.

Examples:
  # Watch the paths from the configuration file
  loom watch --config loom.yaml

  # Watch explicit paths
  loom watch templates/ shared/`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchFlags.paths, "path", nil, "additional paths to watch (repeatable)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	cfg.Watch.Paths = append(cfg.Watch.Paths, watchFlags.paths...)
	cfg.Watch.Paths = append(cfg.Watch.Paths, args...)
	if len(cfg.Watch.Paths) == 0 {
		return fmt.Errorf("no paths to watch: set watch.paths in the config or pass paths as arguments")
	}

	eng, collector := setupEngine(cfg, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cache.NewScheduler(eng.Cache(), cfg.Cache.CleanupSchedule)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	if collector != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		server := &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics endpoint listening", "address", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	w, err := watcher.New(cfg.Watch, eng.Cache(), logger)
	if err != nil {
		return err
	}

	return w.Watch(ctx)
}
