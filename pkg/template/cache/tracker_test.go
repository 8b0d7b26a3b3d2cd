package cache

import (
	"path/filepath"
	"reflect"
	"testing"

	"loom-hq/loom/pkg/document/parser"
)

func TestExtractDependencies(t *testing.T) {
	src := `
- $include:
    template: "partials/header.yml"
- $include:
    template: "partials/footer.yml"
    params:
      year: 2026
- Text:
    value: plain
`
	root, err := parser.Parse([]byte(src), "/docs/page.yml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got := ExtractDependencies(root, "/docs")
	want := []string{
		filepath.Join("/docs", "partials", "footer.yml"),
		filepath.Join("/docs", "partials", "header.yml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDependencies() = %v, want %v", got, want)
	}
}

func TestExtractDependencies_NestedInDirectives(t *testing.T) {
	src := `
$if:
  condition: "$params.enabled"
  template:
    $foreach:
      items: "$params.list"
      as: item
      template:
        $include:
          template: "row.yml"
`
	root, err := parser.Parse([]byte(src), "/docs/page.yml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got := ExtractDependencies(root, "/docs")
	want := []string{filepath.Join("/docs", "row.yml")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDependencies() = %v, want %v", got, want)
	}
}

func TestExtractDependencies_SkipsDynamicPaths(t *testing.T) {
	src := `
- $include:
    template: "{{ $params.which }}.yml"
- $include:
    template: "static.yml"
`
	root, err := parser.Parse([]byte(src), "/docs/page.yml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got := ExtractDependencies(root, "/docs")
	want := []string{filepath.Join("/docs", "static.yml")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDependencies() = %v, want %v (dynamic path skipped)", got, want)
	}
}

func TestExtractDependencies_Deduplicates(t *testing.T) {
	src := `
- $include:
    template: "same.yml"
- $include:
    template: "same.yml"
`
	root, err := parser.Parse([]byte(src), "/docs/page.yml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got := ExtractDependencies(root, "/docs")
	if len(got) != 1 {
		t.Errorf("ExtractDependencies() = %v, want one deduplicated entry", got)
	}
}

func TestExtractDependencies_NilRoot(t *testing.T) {
	if got := ExtractDependencies(nil, "/docs"); got != nil {
		t.Errorf("ExtractDependencies(nil) = %v, want nil", got)
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		baseDir string
		want    string
	}{
		{"relative", "partial.yml", "/docs", "/docs/partial.yml"},
		{"relative subdir", "sub/partial.yml", "/docs", "/docs/sub/partial.yml"},
		{"parent traversal", "../shared.yml", "/docs/pages", "/docs/shared.yml"},
		{"absolute unchanged", "/abs/partial.yml", "/docs", "/abs/partial.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePath(tt.path, tt.baseDir); got != filepath.FromSlash(tt.want) {
				t.Errorf("resolvePath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}
