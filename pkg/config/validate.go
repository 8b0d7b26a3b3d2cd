package config

import (
	"fmt"
	"strings"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

// Validate checks a configuration for inconsistent or out-of-range values.
// It returns the first problem found.
func Validate(cfg *Config) error {
	if cfg.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.MaxSizeBytes < 0 {
		return fmt.Errorf("cache.max_size_bytes must not be negative, got %d", cfg.Cache.MaxSizeBytes)
	}
	if cfg.Cache.MaxAge < 0 {
		return fmt.Errorf("cache.max_age must not be negative, got %s", cfg.Cache.MaxAge)
	}
	if cfg.Cache.MemoryPressureRetain < 0 {
		return fmt.Errorf("cache.memory_pressure_retain must not be negative, got %d", cfg.Cache.MemoryPressureRetain)
	}
	if cfg.Cache.MaxEntries > 0 && cfg.Cache.MemoryPressureRetain > cfg.Cache.MaxEntries {
		return fmt.Errorf("cache.memory_pressure_retain (%d) must not exceed cache.max_entries (%d)",
			cfg.Cache.MemoryPressureRetain, cfg.Cache.MaxEntries)
	}

	if cfg.Watch.DebounceInterval < 0 {
		return fmt.Errorf("watch.debounce_interval must not be negative, got %s", cfg.Watch.DebounceInterval)
	}
	for _, ext := range cfg.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("watch.extensions entries must start with '.', got %q", ext)
		}
	}

	if !contains(validLogLevels, strings.ToLower(cfg.Telemetry.Logging.Level)) {
		return fmt.Errorf("telemetry.logging.level must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), cfg.Telemetry.Logging.Level)
	}
	if !contains(validLogFormats, strings.ToLower(cfg.Telemetry.Logging.Format)) {
		return fmt.Errorf("telemetry.logging.format must be one of %s, got %q",
			strings.Join(validLogFormats, ", "), cfg.Telemetry.Logging.Format)
	}

	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress == "" {
		return fmt.Errorf("telemetry.metrics.listen_address is required when metrics are enabled")
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
