// Loom is a template expansion engine for tree-structured documents.
//
// It resolves $include, $if, and $foreach directives inside YAML documents,
// substitutes {{ }} variable expressions, detects circular inclusion, and
// caches parsed templates with dependency-aware invalidation.
//
// Usage:
//
//	# Expand a document to stdout
//	loom expand document.yml
//
//	# Expand with parameters
//	loom expand document.yml --param title=Hello
//
//	# Validate templates without producing output
//	loom lint --dir templates/
//
//	# Watch a template directory and keep the cache fresh
//	loom watch --config loom.yaml
//
//	# Show version information
//	loom version
package main

func main() {
	Execute()
}
