package engine

import (
	"path/filepath"
	"strings"

	"loom-hq/loom/pkg/document/ast"
	terrors "loom-hq/loom/pkg/template/errors"
	"loom-hq/loom/pkg/template/expr"
	"loom-hq/loom/pkg/template/scope"
	"loom-hq/loom/pkg/telemetry/logging"
)

// evalInclude resolves an $include directive: substitutes the target path
// against the current scope, checks the cycle stack, loads the target
// through the cache, and recurses with a scope extended by the directive's
// params. The expansion result replaces the directive node.
func (x *expansion) evalInclude(d *ast.IncludeDirective, sc *scope.Scope, baseDir string) ([]ast.Node, error) {
	target := expr.Substitute(d.Template, sc)
	if strings.TrimSpace(target) == "" {
		return nil, terrors.AddContextToError(terrors.NewSyntax(
			"$include template path resolved to an empty string", d.TemplateLocation))
	}

	abs := resolveTemplatePath(target, baseDir)

	if x.visiting[abs] {
		err := terrors.NewCircularReference(append(append([]string{}, x.stack...), abs))
		err.Location = d.TemplateLocation
		return nil, terrors.AddContextToError(err)
	}

	entry, err := x.engine.cache.GetTemplate(x.ctx, abs)
	if err != nil {
		if te, ok := terrors.AsError(err); ok && !te.Location.IsValid() {
			te.Location = d.TemplateLocation
			return nil, terrors.AddContextToError(te)
		}
		return nil, err
	}
	if entry.Parsed == nil {
		return nil, entry.ParseErr
	}

	included := sc
	if d.Params != nil {
		values := make(map[string]any, len(d.Params.Entries))
		for _, p := range d.Params.Entries {
			// Param values are evaluated against the including scope, not
			// the scope being constructed.
			values[p.Key] = evalParam(p.Value, sc)
		}
		included = sc.With(values)
	}

	x.visiting[abs] = true
	x.stack = append(x.stack, abs)
	defer func() {
		delete(x.visiting, abs)
		x.stack = x.stack[:len(x.stack)-1]
	}()

	x.engine.logger.Debug("expanding include",
		append(logging.ContextAttrs(x.ctx), "template", abs, "depth", len(x.stack))...)

	return x.expandTemplate(entry.Parsed, included, filepath.Dir(abs))
}

// evalIf expands the template payload only when the condition is truthy;
// a falsy condition contributes an empty splice.
func (x *expansion) evalIf(d *ast.IfDirective, sc *scope.Scope, baseDir string) ([]ast.Node, error) {
	value := expr.Evaluate(expr.Parse(d.Condition), sc)
	if !expr.Truthy(value) {
		return nil, nil
	}
	return x.expandTemplate(d.Template, sc, baseDir)
}

// evalForEach expands the template payload once per element of the items
// sequence, binding the element to the "as" name. Non-sequence items
// values coerce to an empty iteration rather than erroring.
func (x *expansion) evalForEach(d *ast.ForEachDirective, sc *scope.Scope, baseDir string) ([]ast.Node, error) {
	value := expr.Evaluate(expr.ParseItems(d.Items), sc)
	items, ok := value.([]any)
	if !ok {
		return nil, nil
	}

	var out []ast.Node
	for _, item := range items {
		iterScope := sc.Bind(d.As, item)
		nodes, err := x.expandTemplate(d.Template, iterScope, baseDir)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// expandScalar applies variable substitution to string leaves. Non-string
// scalars and strings without interpolation pass through unchanged.
func expandScalar(s *ast.Scalar, sc *scope.Scope) ast.Node {
	if !s.IsString() || !strings.Contains(s.StringValue(), "{{") {
		return s
	}
	return &ast.Scalar{
		Type:     ast.ScalarString,
		Value:    expr.Substitute(s.StringValue(), sc),
		Location: s.Location,
	}
}

// evalParam converts an $include param value to a plain value, resolving
// interpolation against the including scope. A string that is exactly one
// {{ }} span resolves structurally, so params can pass sequences and
// mappings through to the included template intact.
func evalParam(n ast.Node, sc *scope.Scope) any {
	switch t := n.(type) {
	case *ast.Scalar:
		if t.IsString() && strings.Contains(t.StringValue(), "{{") {
			return expr.Evaluate(&expr.Interpolated{Raw: t.StringValue()}, sc)
		}
		return t.Value
	case *ast.Sequence:
		items := make([]any, 0, len(t.Items))
		for _, item := range t.Items {
			items = append(items, evalParam(item, sc))
		}
		return items
	case *ast.Mapping:
		m := make(map[string]any, len(t.Entries))
		for _, e := range t.Entries {
			m[e.Key] = evalParam(e.Value, sc)
		}
		return m
	default:
		return ast.Plain(n)
	}
}

// resolveTemplatePath resolves an include target against the including
// file's directory, yielding a cleaned absolute path.
func resolveTemplatePath(target, baseDir string) string {
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, target)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return filepath.Clean(target)
	}
	return abs
}
