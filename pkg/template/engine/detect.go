package engine

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"loom-hq/loom/pkg/document/ast"
	"loom-hq/loom/pkg/document/parser"
)

// DetectCircularReferences is a non-throwing pre-check over the static
// include graph reachable from rawText. It returns a human-readable chain
// for every cycle found ("a -> b -> a"), or nil when the graph is acyclic.
// Unreadable and unparseable targets are skipped: the check reports cycles
// only, leaving other failures to a real Expand call.
func (e *Engine) DetectCircularReferences(ctx context.Context, rawText string, basePath string) []string {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		abs = filepath.Clean(basePath)
	}

	root, err := parser.Parse([]byte(rawText), abs)
	if err != nil {
		return nil
	}

	d := &cycleDetector{
		engine:   e,
		ctx:      ctx,
		visiting: map[string]bool{abs: true},
		stack:    []string{abs},
		found:    make(map[string]bool),
	}
	d.walk(root, filepath.Dir(abs))

	if len(d.found) == 0 {
		return nil
	}
	out := make([]string, 0, len(d.found))
	for chain := range d.found {
		out = append(out, chain)
	}
	sort.Strings(out)
	return out
}

// ValidateTemplatePath reports whether an include target resolves to a
// readable file, for authoring-time feedback.
func (e *Engine) ValidateTemplatePath(ctx context.Context, path string, basePath string) bool {
	baseDir := basePath
	if baseDir != "" {
		baseDir = filepath.Dir(basePath)
	}
	return e.cache.Exists(ctx, resolveTemplatePath(path, baseDir))
}

// cycleDetector walks the static include closure depth-first, recording
// every chain that revisits a path on the current stack. Unlike expansion,
// a cycle does not abort the walk, so multiple independent cycles are all
// reported.
type cycleDetector struct {
	engine   *Engine
	ctx      context.Context
	visiting map[string]bool
	stack    []string
	found    map[string]bool
}

func (d *cycleDetector) walk(n ast.Node, baseDir string) {
	_ = ast.Walk(n, ast.VisitorFunc(func(node ast.Node) error {
		inc, ok := node.(*ast.IncludeDirective)
		if !ok {
			return nil
		}
		if strings.Contains(inc.Template, "{{") {
			// Dynamic path, resolvable only with runtime parameters.
			return nil
		}
		d.follow(resolveTemplatePath(inc.Template, baseDir))
		return nil
	}))
}

// follow descends into one include target.
func (d *cycleDetector) follow(abs string) {
	if d.visiting[abs] {
		d.found[strings.Join(append(append([]string{}, d.stack...), abs), " -> ")] = true
		return
	}

	entry, err := d.engine.cache.GetTemplate(d.ctx, abs)
	if err != nil || entry.Parsed == nil {
		return
	}

	d.visiting[abs] = true
	d.stack = append(d.stack, abs)
	d.walk(entry.Parsed, filepath.Dir(abs))
	d.stack = d.stack[:len(d.stack)-1]
	delete(d.visiting, abs)
}
