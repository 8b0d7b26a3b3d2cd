package logging

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for common log fields.
type contextKey string

const (
	// ExpansionIDKey is the context key for expansion IDs. Every top-level
	// expansion call carries one so nested cache loads and directive
	// evaluations can be correlated in logs.
	ExpansionIDKey contextKey = "expansion_id"

	// DocumentKey is the context key for the document path being expanded.
	DocumentKey contextKey = "document"
)

// NewExpansionID returns a fresh unique ID for one top-level expansion.
func NewExpansionID() string {
	return uuid.NewString()
}

// WithExpansionID adds an expansion ID to the context.
func WithExpansionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ExpansionIDKey, id)
}

// ExpansionID retrieves the expansion ID from the context.
func ExpansionID(ctx context.Context) string {
	if id, ok := ctx.Value(ExpansionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithDocument adds the document path to the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, DocumentKey, path)
}

// Document retrieves the document path from the context.
func Document(ctx context.Context) string {
	if path, ok := ctx.Value(DocumentKey).(string); ok {
		return path
	}
	return ""
}

// ContextAttrs extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func ContextAttrs(ctx context.Context) []any {
	var fields []any

	if id := ExpansionID(ctx); id != "" {
		fields = append(fields, "expansion_id", id)
	}
	if path := Document(ctx); path != "" {
		fields = append(fields, "document", path)
	}

	return fields
}
