package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"loom-hq/loom/pkg/document/ast"
	"loom-hq/loom/pkg/document/parser"
	"loom-hq/loom/pkg/template/cache"
	terrors "loom-hq/loom/pkg/template/errors"
	"loom-hq/loom/pkg/template/scope"
	"loom-hq/loom/pkg/telemetry/logging"
	"loom-hq/loom/pkg/telemetry/metrics"
)

// Options carries the engine's optional collaborators.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.ExpansionMetrics
}

// Engine is the template expansion engine. It walks a parsed document tree
// depth-first, resolves $include, $if, and $foreach directives through the
// template cache, substitutes {{ }} spans in string leaves, and returns the
// fully expanded structure.
//
// One Engine serves any number of concurrent Expand calls. Each call
// carries its own cycle-detection stack and parameter scope chain; the
// shared cache is the only cross-call state.
type Engine struct {
	cache   *cache.Cache
	logger  *slog.Logger
	metrics *metrics.ExpansionMetrics
}

// New creates an expansion engine backed by the given cache.
func New(c *cache.Cache, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cache:   c,
		logger:  logger.With("component", "template.engine"),
		metrics: opts.Metrics,
	}
}

// Cache returns the engine's template cache.
func (e *Engine) Cache() *cache.Cache { return e.cache }

// InvalidateTemplate removes path and its transitive dependents from the
// cache. Exposed for collaborators that watch the filesystem and must
// invalidate proactively on save or delete.
func (e *Engine) InvalidateTemplate(path string) int {
	return e.cache.Invalidate(path)
}

// ClearCache drops every cached template.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Expand parses rawText and expands every directive, returning the result
// as plain Go values (map[string]any, []any, scalars). basePath is the file
// the text originated from; relative $include targets resolve against its
// directory. Any template error aborts the whole call, and no partial
// result is returned.
func (e *Engine) Expand(ctx context.Context, rawText string, basePath string) (any, error) {
	root, err := e.expandTree(ctx, rawText, basePath, nil)
	if err != nil {
		return nil, err
	}
	return ast.Plain(root), nil
}

// ExpandWithParams is Expand with initial parameter bindings seeded into
// the root scope, for callers that supply document parameters externally.
func (e *Engine) ExpandWithParams(ctx context.Context, rawText string, basePath string, params map[string]any) (any, error) {
	root, err := e.expandTree(ctx, rawText, basePath, params)
	if err != nil {
		return nil, err
	}
	return ast.Plain(root), nil
}

// ExpandTree is Expand for callers that want the typed node tree instead of
// plain values.
func (e *Engine) ExpandTree(ctx context.Context, rawText string, basePath string) (ast.Node, error) {
	return e.expandTree(ctx, rawText, basePath, nil)
}

func (e *Engine) expandTree(ctx context.Context, rawText string, basePath string, params map[string]any) (ast.Node, error) {
	start := time.Now()

	abs, err := filepath.Abs(basePath)
	if err != nil {
		abs = filepath.Clean(basePath)
	}
	if logging.ExpansionID(ctx) == "" {
		ctx = logging.WithExpansionID(ctx, logging.NewExpansionID())
	}
	ctx = logging.WithDocument(ctx, abs)

	root, err := parser.Parse([]byte(rawText), abs)
	if err != nil {
		e.recordError(err)
		return nil, err
	}

	exp := &expansion{
		engine:   e,
		ctx:      ctx,
		visiting: map[string]bool{abs: true},
		stack:    []string{abs},
	}

	nodes, err := exp.expandNode(root, scope.New(params), filepath.Dir(abs))
	if err != nil {
		e.recordError(err)
		e.logger.Warn("expansion failed",
			append(logging.ContextAttrs(ctx), "error", err)...)
		return nil, err
	}

	e.metrics.RecordExpansion(time.Since(start))
	e.logger.Debug("expansion completed",
		append(logging.ContextAttrs(ctx), "duration", time.Since(start))...)

	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	default:
		return &ast.Sequence{Items: nodes, Location: root.Pos()}, nil
	}
}

// recordError reports an expansion failure by error kind.
func (e *Engine) recordError(err error) {
	if te, ok := terrors.AsError(err); ok {
		e.metrics.RecordError(string(te.Kind))
		return
	}
	e.metrics.RecordError("internal")
}

// expansion is the per-call state of one top-level ExpandTree invocation:
// the set of paths currently on the inclusion stack (for cycle detection)
// and the ordered chain itself (for error reporting). The state is fresh
// for every call and never shared, so concurrent expansions cannot falsely
// trigger each other's cycle errors.
type expansion struct {
	engine   *Engine
	ctx      context.Context
	visiting map[string]bool
	stack    []string
}

// expandNode expands one node into its splice result: zero or more nodes
// that take the original node's place in the parent.
func (x *expansion) expandNode(n ast.Node, sc *scope.Scope, baseDir string) ([]ast.Node, error) {
	switch t := n.(type) {
	case nil:
		return nil, nil

	case *ast.Scalar:
		return []ast.Node{expandScalar(t, sc)}, nil

	case *ast.Sequence:
		items := make([]ast.Node, 0, len(t.Items))
		for _, item := range t.Items {
			expanded, err := x.expandNode(item, sc, baseDir)
			if err != nil {
				return nil, err
			}
			items = append(items, expanded...)
		}
		return []ast.Node{&ast.Sequence{Items: items, Location: t.Location}}, nil

	case *ast.Mapping:
		entries := make([]*ast.MapEntry, 0, len(t.Entries))
		for _, entry := range t.Entries {
			expanded, err := x.expandNode(entry.Value, sc, baseDir)
			if err != nil {
				return nil, err
			}
			value := spliceValue(expanded, entry.Value)
			if value == nil {
				// An empty splice in value position drops the entry.
				continue
			}
			entries = append(entries, &ast.MapEntry{
				Key:      entry.Key,
				Value:    value,
				Location: entry.Location,
			})
		}
		return []ast.Node{&ast.Mapping{Entries: entries, Location: t.Location}}, nil

	case *ast.IncludeDirective:
		return x.evalInclude(t, sc, baseDir)

	case *ast.IfDirective:
		return x.evalIf(t, sc, baseDir)

	case *ast.ForEachDirective:
		return x.evalForEach(t, sc, baseDir)

	default:
		return []ast.Node{n}, nil
	}
}

// expandTemplate expands a directive's template payload with splice
// semantics: a sequence payload contributes its elements, not the sequence
// itself, so directive results flatten into the surrounding structure.
func (x *expansion) expandTemplate(n ast.Node, sc *scope.Scope, baseDir string) ([]ast.Node, error) {
	nodes, err := x.expandNode(n, sc, baseDir)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		if seq, ok := nodes[0].(*ast.Sequence); ok {
			return seq.Items, nil
		}
	}
	return nodes, nil
}

// spliceValue collapses a splice result back into a single mapping value:
// nothing, the node itself, or a sequence wrapping multiple results.
func spliceValue(nodes []ast.Node, orig ast.Node) ast.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return &ast.Sequence{Items: nodes, Location: orig.Pos()}
	}
}
