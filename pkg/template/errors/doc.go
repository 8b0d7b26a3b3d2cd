// Package errors provides the error taxonomy for template parsing and
// expansion.
//
// All failures surface as a single *Error with a discriminating Kind so
// callers can catch template failures uniformly:
//
//	KindFileNotFound: an $include target does not resolve to a readable file
//
//	KindCircularReference: the expansion revisited a path already being
//	expanded; the error carries the full inclusion chain
//
//	KindSyntax: a directive is missing a required field or has an unknown one
//
//	KindParse: the document failed structural parsing (cache-local; stored
//	as a negative entry and raised only when expansion reaches the file)
//
// # Basic Usage
//
// Discriminate on kind:
//
//	if terrors.IsKind(err, terrors.KindCircularReference) {
//	    te, _ := terrors.AsError(err)
//	    fmt.Println(strings.Join(te.Chain, " -> "))
//	}
//
// Enrich an error with source context before presenting it:
//
//	te = terrors.AddContextToError(te)
//	fmt.Println(te.Error())
//
// # Error Format
//
// Errors are formatted with location, context, and suggestions:
//
//	[syntax] $foreach directive is missing required field 'items'
//	  --> templates/list.yml:4:3
//	  |
//	  ->  4 |   $foreach:
//	      5 |     as: item
//	  |
//	  = suggestion: Add 'items' field to the directive
//
// # Suggestions
//
// The suggestion generator uses Levenshtein distance to propose close field
// names when a directive carries a typo ("tempalte" -> "template").
package errors
