package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultCacheMaxEntries           = 512
	DefaultCacheMaxSizeBytes         = 32 * 1024 * 1024
	DefaultCacheMaxAge               = 30 * time.Minute
	DefaultCacheCleanupSchedule      = "@every 5m"
	DefaultCacheMemoryPressureBytes  = 64 * 1024 * 1024
	DefaultCacheMemoryPressureRetain = 64

	DefaultWatchDebounceInterval = 100 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsNamespace     = "loom"
	DefaultMetricsSubsystem     = "template"
	DefaultMetricsListenAddress = "127.0.0.1:9464"
)

// Default returns a configuration populated entirely with defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any field left at its zero
// value. It is called by Load before validation, so a partial configuration
// file only needs to name the fields it changes.
func ApplyDefaults(cfg *Config) {
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Cache.MaxSizeBytes == 0 {
		cfg.Cache.MaxSizeBytes = DefaultCacheMaxSizeBytes
	}
	if cfg.Cache.MaxAge == 0 {
		cfg.Cache.MaxAge = DefaultCacheMaxAge
	}
	if cfg.Cache.CleanupSchedule == "" {
		cfg.Cache.CleanupSchedule = DefaultCacheCleanupSchedule
	}
	if cfg.Cache.MemoryPressureBytes == 0 {
		cfg.Cache.MemoryPressureBytes = DefaultCacheMemoryPressureBytes
	}
	if cfg.Cache.MemoryPressureRetain == 0 {
		cfg.Cache.MemoryPressureRetain = DefaultCacheMemoryPressureRetain
	}

	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".yaml", ".yml"}
	}
	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounceInterval
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
}
