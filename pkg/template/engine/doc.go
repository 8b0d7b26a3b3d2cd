// Package engine implements the template expansion engine: a
// recursive-descent walk over a parsed document tree that resolves
// $include, $if, and $foreach directives, substitutes {{ }} spans in
// string leaves, and detects circular inclusion with a per-call visiting
// set. Template files are loaded through the dependency-aware cache.
package engine
