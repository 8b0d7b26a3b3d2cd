// Package parser performs the structural parse of document text into the
// AST consumed by the template engine.
//
// Parsing is built on gopkg.in/yaml.v3's node API so that line and column
// information survives into every AST node. Directive mappings (a mapping
// whose single key is $include, $if, or $foreach) are recognized here and
// validated for shape: missing required fields and unknown fields are
// KindSyntax errors carrying the offending location and, for typos, a
// field-name suggestion. Invalid YAML is a KindParse error.
package parser
