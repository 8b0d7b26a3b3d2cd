package cache

import (
	"time"

	"loom-hq/loom/pkg/document/ast"
)

// Entry is one cached, parsed template file.
//
// An entry is immutable once stored except for its access statistics,
// which the cache updates under its own lock. Refreshing a stale file
// replaces the entry wholesale; the dependents recorded for its path in
// the dependency graph survive the replacement.
type Entry struct {
	// FilePath is the absolute path of the template file (identity key).
	FilePath string

	// Content is the raw text as last read.
	Content string

	// Parsed is the parsed tree, or nil if parsing failed. Failed parses
	// are cached negatively so repeated misses are avoided; consumers must
	// handle nil and raise ParseErr when expansion reaches the file.
	Parsed ast.Node

	// ParseErr is the structural parse failure for negative entries.
	ParseErr error

	// Dependencies is the set of absolute paths this template's $include
	// directives reference, computed from the unexpanded tree so it is
	// independent of runtime parameter values.
	Dependencies []string

	// Size is the content size in bytes, used for memory accounting.
	Size int64

	// ContentHash is the xxhash digest of Content, used to skip re-parsing
	// when a file's mtime changed but its content did not.
	ContentHash uint64

	// Access statistics.
	AccessCount  int64
	CreatedAt    time.Time
	LastAccessed time.Time

	// LastModified is the filesystem mtime snapshot at load time.
	LastModified time.Time
}

// TemplateInfo is a read-only snapshot of a cache entry plus its position
// in the dependency graph, for introspection.
type TemplateInfo struct {
	FilePath     string    `json:"file_path"`
	Size         int64     `json:"size"`
	Parsed       bool      `json:"parsed"`
	AccessCount  int64     `json:"access_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	LastModified time.Time `json:"last_modified"`
	Dependencies []string  `json:"dependencies"`
	Dependents   []string  `json:"dependents"`
}
