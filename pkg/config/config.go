package config

import "time"

// Config is the root configuration structure for Loom. It contains all
// configuration sections for the template cache, the filesystem watcher,
// and telemetry.
type Config struct {
	// Cache contains configuration for the template cache including entry,
	// size, and age bounds, plus the cleanup schedule.
	Cache CacheConfig `yaml:"cache"`

	// Watch contains configuration for the filesystem watcher that
	// proactively invalidates cached templates on save/delete events.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CacheConfig contains configuration for the template cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached templates. On overflow the
	// least-recently-used entries are evicted first. Zero means unlimited.
	// Default: 512
	MaxEntries int `yaml:"max_entries"`

	// MaxSizeBytes is the maximum aggregate size of cached template
	// content in bytes. Zero means unlimited.
	// Default: 33554432 (32MB)
	MaxSizeBytes int64 `yaml:"max_size_bytes"`

	// MaxAge is the maximum age of a cache entry since it was loaded.
	// Entries older than this are removed by the cleanup pass.
	// Zero means entries never age out.
	// Default: 30m
	MaxAge time.Duration `yaml:"max_age"`

	// CleanupSchedule is a cron expression controlling the periodic
	// cleanup pass (age, size, and count enforcement). An empty schedule
	// disables scheduled cleanup; bounds are still enforced on store.
	// Default: "@every 5m"
	CleanupSchedule string `yaml:"cleanup_schedule"`

	// MemoryPressureBytes is the aggregate size beyond which an aggressive
	// cleanup pass runs, retaining only MemoryPressureRetain entries.
	// Zero disables the memory-pressure path.
	// Default: 67108864 (64MB)
	MemoryPressureBytes int64 `yaml:"memory_pressure_bytes"`

	// MemoryPressureRetain is the number of most-recently-used entries the
	// aggressive cleanup pass keeps.
	// Default: 64
	MemoryPressureRetain int `yaml:"memory_pressure_retain"`
}

// WatchConfig contains configuration for the filesystem watcher.
type WatchConfig struct {
	// Enabled controls whether the watcher runs.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Paths is the list of files or directories to watch. Directories are
	// watched recursively.
	Paths []string `yaml:"paths"`

	// Extensions is the list of file extensions that trigger invalidation.
	// Default: [".yaml", ".yml"]
	Extensions []string `yaml:"extensions"`

	// DebounceInterval is the quiet period per path before invalidation
	// fires, preventing invalidation storms while a file is being saved.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// SkipHidden controls whether hidden files and directories are ignored.
	// Default: true
	SkipHidden bool `yaml:"skip_hidden"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "loom"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem label component.
	// Default: "template"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is the address the /metrics endpoint binds to when the
	// watch command serves metrics.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`
}
