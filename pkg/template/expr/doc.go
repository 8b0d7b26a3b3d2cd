// Package expr implements the closed expression grammar used by $if
// conditions and $foreach item sources, plus {{ }} variable substitution.
//
// Expressions parse into a typed form (ParamRef, Literal, ArrayLiteral,
// Interpolated) and evaluate against a parameter scope. The grammar is
// deliberately tiny: this is not a general templating language, only the
// forms the directive set actually uses. Parsing is total; unrecognized
// input degrades to a string literal so conditions keep best-effort
// truthiness semantics.
package expr
