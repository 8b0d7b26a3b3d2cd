// Package scope implements the layered parameter environment used during
// template expansion.
//
// A scope is built by merging, innermost-last: the enclosing scope, the
// bindings introduced by $foreach (as-name to current element), and the
// params supplied to an $include. Lookups take dotted paths ("item.name")
// that descend into nested structures. Scopes are never mutated in place;
// extending a scope creates a new layer over the old one.
package scope
