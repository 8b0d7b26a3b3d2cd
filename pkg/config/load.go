package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path. It
// applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use LoadWithEnvOverrides
// for that functionality.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention LOOM_SECTION_FIELD (e.g. LOOM_CACHE_MAX_ENTRIES) and always
// take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after env overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides overwrites configuration fields from LOOM_* environment
// variables. Unset variables leave the loaded values untouched.
func applyEnvOverrides(cfg *Config) {
	setInt("LOOM_CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries)
	setInt64("LOOM_CACHE_MAX_SIZE_BYTES", &cfg.Cache.MaxSizeBytes)
	setDuration("LOOM_CACHE_MAX_AGE", &cfg.Cache.MaxAge)
	setString("LOOM_CACHE_CLEANUP_SCHEDULE", &cfg.Cache.CleanupSchedule)
	setInt64("LOOM_CACHE_MEMORY_PRESSURE_BYTES", &cfg.Cache.MemoryPressureBytes)
	setInt("LOOM_CACHE_MEMORY_PRESSURE_RETAIN", &cfg.Cache.MemoryPressureRetain)

	setBool("LOOM_WATCH_ENABLED", &cfg.Watch.Enabled)
	setStringSlice("LOOM_WATCH_PATHS", &cfg.Watch.Paths)
	setStringSlice("LOOM_WATCH_EXTENSIONS", &cfg.Watch.Extensions)
	setDuration("LOOM_WATCH_DEBOUNCE_INTERVAL", &cfg.Watch.DebounceInterval)

	setString("LOOM_LOG_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("LOOM_LOG_FORMAT", &cfg.Telemetry.Logging.Format)
	setBool("LOOM_LOG_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)

	setBool("LOOM_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	setString("LOOM_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	setString("LOOM_METRICS_SUBSYSTEM", &cfg.Telemetry.Metrics.Subsystem)
	setString("LOOM_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
}

func setString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func setStringSlice(name string, dst *[]string) {
	if v, ok := os.LookupEnv(name); ok {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

func setBool(name string, dst *bool) {
	if v, ok := os.LookupEnv(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(name string, dst *int) {
	if v, ok := os.LookupEnv(name); ok {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setInt64(name string, dst *int64) {
	if v, ok := os.LookupEnv(name); ok {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = i
		}
	}
}

func setDuration(name string, dst *time.Duration) {
	if v, ok := os.LookupEnv(name); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
