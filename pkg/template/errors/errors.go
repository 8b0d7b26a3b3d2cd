package errors

import (
	"errors"
	"fmt"
	"strings"

	"loom-hq/loom/pkg/document/ast"
)

// Kind discriminates the failure modes surfaced by the template engine.
type Kind string

const (
	// KindFileNotFound indicates an $include target (or the initial
	// document's base path) does not resolve to a readable file.
	KindFileNotFound Kind = "file_not_found"

	// KindCircularReference indicates the expansion revisited a path
	// already on the current call's in-progress stack.
	KindCircularReference Kind = "circular_reference"

	// KindSyntax indicates a directive is missing a required field or an
	// expression cannot be parsed into a supported form.
	KindSyntax Kind = "syntax"

	// KindParse indicates the underlying document failed structural
	// parsing. The cache stores such files with a nil tree so repeated
	// misses are avoided; expansion reaching one raises this kind.
	KindParse Kind = "parse"
)

// Error is the single error type raised by template parsing, expansion,
// and cache loading. Callers discriminate on Kind and can catch all
// template failures uniformly with errors.As.
type Error struct {
	Kind    Kind
	Message string

	// Path is the offending template file, when known.
	Path string

	// Chain is the inclusion chain for circular-reference errors,
	// from the outermost template to the revisited one.
	Chain []string

	// Location is the source position the error points at.
	Location ast.Location

	// Context holds surrounding source lines, filled in by WithContext.
	Context string

	// Suggestion is an optional hint for fixing the error.
	Suggestion string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface. It returns a formatted message
// with kind, location, context, and suggestion.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	if len(e.Chain) > 0 {
		sb.WriteString("\n  cycle: " + strings.Join(e.Chain, " -> "))
	}
	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location))
	}
	if e.Context != "" {
		sb.WriteString("\n  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |")
	}
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause, enabling errors.Is/errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// NewFileNotFound creates a file-not-found error for the given path.
func NewFileNotFound(path string, cause error) *Error {
	return &Error{
		Kind:    KindFileNotFound,
		Message: fmt.Sprintf("template file not found: %s", path),
		Path:    path,
		Cause:   cause,
	}
}

// NewCircularReference creates a circular-reference error carrying the full
// inclusion chain. The last element of chain is the revisited path.
func NewCircularReference(chain []string) *Error {
	revisited := ""
	if len(chain) > 0 {
		revisited = chain[len(chain)-1]
	}
	return &Error{
		Kind:    KindCircularReference,
		Message: fmt.Sprintf("circular template reference detected at %s", revisited),
		Path:    revisited,
		Chain:   chain,
	}
}

// NewSyntax creates a syntax error at the given location.
func NewSyntax(message string, loc ast.Location) *Error {
	return &Error{
		Kind:     KindSyntax,
		Message:  message,
		Location: loc,
	}
}

// NewParse creates a parse error for a file whose content is not a
// structurally valid document.
func NewParse(path string, cause error) *Error {
	msg := fmt.Sprintf("failed to parse template %s", path)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{
		Kind:    KindParse,
		Message: msg,
		Path:    path,
		Cause:   cause,
	}
}

// IsKind reports whether err is (or wraps) a template Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

// AsError extracts the template Error from err, if present.
func AsError(err error) (*Error, bool) {
	var te *Error
	ok := errors.As(err, &te)
	return te, ok
}
