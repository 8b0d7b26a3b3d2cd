package main

import (
	"fmt"
	"log/slog"
	"os"

	"loom-hq/loom/pkg/config"
	"loom-hq/loom/pkg/telemetry/logging"
	"loom-hq/loom/pkg/telemetry/metrics"
	"loom-hq/loom/pkg/template/cache"
	"loom-hq/loom/pkg/template/engine"
)

// loadConfig loads the configuration file named by --config, or defaults
// when no file is given. Environment variables always override.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadWithEnvOverrides(cfgFile)
	}
	return config.Default(), nil
}

// setupLogger builds the process logger and installs it as slog's default.
func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)
	return logger, nil
}

// setupEngine wires the cache, metrics, and expansion engine together.
// The collector is nil when metrics are disabled; both the cache and the
// engine accept nil metric groups.
func setupEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, *metrics.Collector) {
	var collector *metrics.Collector
	var cacheMetrics *metrics.CacheMetrics
	var expansionMetrics *metrics.ExpansionMetrics
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		cacheMetrics = collector.Cache()
		expansionMetrics = collector.Expansion()
	}

	c := cache.New(cfg.Cache, cache.Options{
		Logger:  logger,
		Metrics: cacheMetrics,
	})
	eng := engine.New(c, engine.Options{
		Logger:  logger,
		Metrics: expansionMetrics,
	})
	return eng, collector
}
