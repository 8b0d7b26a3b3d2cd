// Package config defines Loom's configuration structure and loading.
//
// Configuration is a YAML file mirroring the Config struct tree. Loading
// applies defaults for every unset field, optionally overlays LOOM_*
// environment variables, and validates the result, so callers always
// receive a complete, consistent configuration.
package config
