package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectCircularReferences_Acyclic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "leaf.yml", `- Text:
    value: leaf
`)
	src := `- $include:
    template: "leaf.yml"
`
	e := newTestEngine()
	if got := e.DetectCircularReferences(context.Background(), src, filepath.Join(dir, "main.yml")); got != nil {
		t.Errorf("DetectCircularReferences() = %v, want nil", got)
	}
}

func TestDetectCircularReferences_ReportsCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yml", `- $include:
    template: "b.yml"
`)
	writeFile(t, dir, "b.yml", `- $include:
    template: "a.yml"
`)
	data, err := os.ReadFile(a)
	if err != nil {
		t.Fatal(err)
	}

	e := newTestEngine()
	got := e.DetectCircularReferences(context.Background(), string(data), a)
	if len(got) != 1 {
		t.Fatalf("DetectCircularReferences() = %v, want one cycle", got)
	}
	if !strings.Contains(got[0], "a.yml") || !strings.Contains(got[0], "b.yml") {
		t.Errorf("cycle chain %q missing participants", got[0])
	}
	if !strings.Contains(got[0], " -> ") {
		t.Errorf("cycle chain %q not formatted as a chain", got[0])
	}
}

func TestDetectCircularReferences_MissingTargetIsNotError(t *testing.T) {
	src := `- $include:
    template: "nowhere.yml"
`
	e := newTestEngine()
	if got := e.DetectCircularReferences(context.Background(), src, filepath.Join(t.TempDir(), "main.yml")); got != nil {
		t.Errorf("DetectCircularReferences() = %v, want nil for missing target", got)
	}
}

func TestValidateTemplatePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "present.yml", "v: 1\n")
	base := filepath.Join(dir, "main.yml")

	e := newTestEngine()
	ctx := context.Background()

	if !e.ValidateTemplatePath(ctx, "present.yml", base) {
		t.Error("ValidateTemplatePath(present) = false, want true")
	}
	if e.ValidateTemplatePath(ctx, "absent.yml", base) {
		t.Error("ValidateTemplatePath(absent) = true, want false")
	}
}
