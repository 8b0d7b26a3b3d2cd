package cache

import (
	"path/filepath"
	"sort"
	"strings"

	"loom-hq/loom/pkg/document/ast"
)

// ExtractDependencies statically scans an unexpanded template tree for
// $include targets and resolves them relative to baseDir (the template's
// own directory). Targets containing unresolved {{ }} interpolation depend
// on runtime parameter values and are skipped; everything else is recorded.
// The result is deduplicated and sorted.
func ExtractDependencies(root ast.Node, baseDir string) []string {
	if root == nil {
		return nil
	}

	seen := make(map[string]struct{})

	// Walk never returns an error here: the visitor always returns nil.
	_ = ast.Walk(root, ast.VisitorFunc(func(n ast.Node) error {
		inc, ok := n.(*ast.IncludeDirective)
		if !ok {
			return nil
		}
		if strings.Contains(inc.Template, "{{") {
			// Dynamic path, resolvable only during expansion.
			return nil
		}
		seen[resolvePath(inc.Template, baseDir)] = struct{}{}
		return nil
	}))

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// resolvePath resolves a template reference against the including file's
// directory, yielding a cleaned absolute path.
func resolvePath(path, baseDir string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
