package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"loom-hq/loom/pkg/document/ast"
)

func TestError_Formatting(t *testing.T) {
	err := NewSyntax("$foreach directive is missing required field 'items'", ast.Location{
		File:   "doc.yml",
		Line:   4,
		Column: 3,
	})
	err.Suggestion = "Add 'items: \"$params.items\"' to the directive"

	msg := err.Error()
	if !strings.Contains(msg, "[syntax]") {
		t.Errorf("message %q missing kind tag", msg)
	}
	if !strings.Contains(msg, "doc.yml:4:3") {
		t.Errorf("message %q missing location", msg)
	}
	if !strings.Contains(msg, "suggestion:") {
		t.Errorf("message %q missing suggestion", msg)
	}
}

func TestNewCircularReference(t *testing.T) {
	chain := []string{"/a.yml", "/b.yml", "/a.yml"}
	err := NewCircularReference(chain)

	if err.Kind != KindCircularReference {
		t.Errorf("Kind = %q, want %q", err.Kind, KindCircularReference)
	}
	if err.Path != "/a.yml" {
		t.Errorf("Path = %q, want the revisited path /a.yml", err.Path)
	}
	if !strings.Contains(err.Error(), "/a.yml -> /b.yml -> /a.yml") {
		t.Errorf("message %q missing cycle chain", err.Error())
	}
}

func TestNewFileNotFound(t *testing.T) {
	cause := errors.New("no such file")
	err := NewFileNotFound("/missing.yml", cause)

	if err.Kind != KindFileNotFound {
		t.Errorf("Kind = %q, want %q", err.Kind, KindFileNotFound)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want unwrap to cause")
	}
}

func TestIsKind(t *testing.T) {
	err := NewParse("/doc.yml", errors.New("bad yaml"))

	if !IsKind(err, KindParse) {
		t.Error("IsKind(KindParse) = false, want true")
	}
	if IsKind(err, KindSyntax) {
		t.Error("IsKind(KindSyntax) = true, want false")
	}
	if IsKind(errors.New("plain"), KindParse) {
		t.Error("IsKind(plain error) = true, want false")
	}

	// Wrapped template errors are still recognized.
	wrapped := fmt.Errorf("expansion failed: %w", err)
	if !IsKind(wrapped, KindParse) {
		t.Error("IsKind(wrapped) = false, want true")
	}
}

func TestAsError(t *testing.T) {
	orig := NewFileNotFound("/x.yml", nil)
	wrapped := fmt.Errorf("outer: %w", orig)

	te, ok := AsError(wrapped)
	if !ok {
		t.Fatal("AsError(wrapped) = false, want true")
	}
	if te != orig {
		t.Error("AsError did not return the original error value")
	}

	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("AsError(plain) = true, want false")
	}
}
