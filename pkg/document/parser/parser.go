package parser

import (
	"os"

	"loom-hq/loom/pkg/document/ast"
	terrors "loom-hq/loom/pkg/template/errors"
)

// Parse parses document text into a node tree. Structural failures (invalid
// YAML) return a KindParse error; malformed directives (missing or unknown
// fields) return a KindSyntax error with location and suggestion.
//
// sourcePath is recorded in node locations for error reporting; it does not
// have to exist on disk.
func Parse(data []byte, sourcePath string) (ast.Node, error) {
	return parseBytes(data, sourcePath)
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, terrors.NewFileNotFound(path, err)
		}
		return nil, terrors.NewParse(path, err)
	}
	return parseBytes(data, path)
}
