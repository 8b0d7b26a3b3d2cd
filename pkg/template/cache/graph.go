package cache

import (
	"sort"
	"sync"
)

// DependencyGraph tracks which template files include which others as an
// explicit bidirectional graph: forward edges (file -> files it includes)
// and reverse edges (file -> files that include it). The two edge sets are
// each other's transpose, maintained incrementally on every add and remove.
//
// Only the graph's own operations mutate it; the expansion engine never
// touches edges directly, which keeps invalidation logic independent of
// expansion logic. A reverse-edge set may exist for a path that has never
// been loaded itself: that placeholder lets dependents register before
// their dependency is cached, so the graph stays eventually consistent.
type DependencyGraph struct {
	mu      sync.RWMutex
	forward map[string]map[string]struct{}
	reverse map[string]map[string]struct{}
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		forward: make(map[string]map[string]struct{}),
		reverse: make(map[string]map[string]struct{}),
	}
}

// SetDependencies replaces the dependency set of file with deps,
// maintaining the reverse edges for both removed and added dependencies.
// Called on each cache load or refresh of file.
func (g *DependencyGraph) SetDependencies(file string, deps []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		next[d] = struct{}{}
	}

	// Drop reverse edges for dependencies no longer referenced.
	for old := range g.forward[file] {
		if _, still := next[old]; !still {
			g.removeReverse(old, file)
		}
	}

	// Add reverse edges for new dependencies, creating placeholder
	// reverse sets for paths not yet loaded.
	for d := range next {
		if g.reverse[d] == nil {
			g.reverse[d] = make(map[string]struct{})
		}
		g.reverse[d][file] = struct{}{}
	}

	if len(next) == 0 {
		delete(g.forward, file)
		return
	}
	g.forward[file] = next
}

// Dependencies returns the sorted set of files that file includes.
func (g *DependencyGraph) Dependencies(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.forward[file])
}

// Dependents returns the sorted set of files that include file.
func (g *DependencyGraph) Dependents(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.reverse[file])
}

// Remove clears the removed node's own bookkeeping: its forward edges and
// its membership in the reverse sets of its dependencies. Reverse edges
// pointing at file are left in place; invalidation cascades along them and
// removes each dependent in turn.
func (g *DependencyGraph) Remove(file string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for d := range g.forward[file] {
		g.removeReverse(d, file)
	}
	delete(g.forward, file)
}

// Clear drops all edges.
func (g *DependencyGraph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forward = make(map[string]map[string]struct{})
	g.reverse = make(map[string]map[string]struct{})
}

// removeReverse deletes one reverse edge, dropping empty placeholder sets.
// Caller must hold g.mu.
func (g *DependencyGraph) removeReverse(file, dependent string) {
	set := g.reverse[file]
	if set == nil {
		return
	}
	delete(set, dependent)
	if len(set) == 0 {
		delete(g.reverse, file)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
