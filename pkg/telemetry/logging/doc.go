// Package logging provides structured logging for Loom components.
//
// It is a thin layer over log/slog: New builds a logger from configuration
// (level, format, source annotation), and the context helpers thread an
// expansion ID and document path through a top-level expansion call so log
// lines from nested cache loads and directive evaluations correlate.
package logging
