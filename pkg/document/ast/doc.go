// Package ast defines the document tree produced by the parser and consumed
// by the template engine.
//
// The tree is a closed set of tagged variants: Mapping, Sequence, Scalar,
// and the three directive nodes (IncludeDirective, IfDirective,
// ForEachDirective). Directives are recognized at parse time from mappings
// whose single key is $include, $if, or $foreach; everything else passes
// through as plain structure. Every node carries a Location for error
// reporting.
package ast
