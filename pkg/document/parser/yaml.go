package parser

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"loom-hq/loom/pkg/document/ast"
	terrors "loom-hq/loom/pkg/template/errors"
)

// Valid field sets per directive, used both for validation and for
// suggesting corrections on typos.
var (
	includeFields = []string{"template", "params"}
	ifFields      = []string{"condition", "template"}
	forEachFields = []string{"items", "as", "template"}
)

// parseBytes parses YAML bytes into a node tree. It preserves line and
// column information from the YAML parser for error reporting.
func parseBytes(data []byte, sourcePath string) (ast.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, terrors.NewParse(sourcePath, err)
	}

	// An empty document parses to a zero node.
	if root.Kind == 0 {
		return &ast.Scalar{Type: ast.ScalarNull, Location: location(&root, sourcePath)}, nil
	}

	node := &root
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &ast.Scalar{Type: ast.ScalarNull, Location: location(&root, sourcePath)}, nil
		}
		node = root.Content[0]
	}

	return convert(node, sourcePath)
}

// location extracts the source location from a YAML node.
func location(n *yaml.Node, sourcePath string) ast.Location {
	if n == nil {
		return ast.Location{File: sourcePath}
	}
	return ast.Location{File: sourcePath, Line: n.Line, Column: n.Column}
}

// convert transforms a yaml.Node into the corresponding AST node,
// recognizing directive mappings along the way.
func convert(n *yaml.Node, sourcePath string) (ast.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convert(n.Alias, sourcePath)

	case yaml.ScalarNode:
		return convertScalar(n, sourcePath), nil

	case yaml.SequenceNode:
		seq := &ast.Sequence{Location: location(n, sourcePath)}
		for _, item := range n.Content {
			child, err := convert(item, sourcePath)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, child)
		}
		return seq, nil

	case yaml.MappingNode:
		return convertMapping(n, sourcePath)

	default:
		return nil, terrors.NewSyntax(
			fmt.Sprintf("unsupported node kind %d", n.Kind),
			location(n, sourcePath),
		)
	}
}

// convertScalar maps a YAML scalar onto a typed AST scalar using its
// resolved tag. Unrecognized tags fall back to string.
func convertScalar(n *yaml.Node, sourcePath string) *ast.Scalar {
	loc := location(n, sourcePath)

	switch n.Tag {
	case "!!null":
		return &ast.Scalar{Type: ast.ScalarNull, Location: loc}
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err == nil {
			return &ast.Scalar{Type: ast.ScalarBool, Value: b, Location: loc}
		}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err == nil {
			return &ast.Scalar{Type: ast.ScalarNumber, Value: i, Location: loc}
		}
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err == nil {
			return &ast.Scalar{Type: ast.ScalarNumber, Value: f, Location: loc}
		}
	}
	return &ast.Scalar{Type: ast.ScalarString, Value: n.Value, Location: loc}
}

// convertMapping builds either a directive node (single $-key mapping) or a
// plain mapping. Keys must be unique strings.
func convertMapping(n *yaml.Node, sourcePath string) (ast.Node, error) {
	// A directive is a mapping with exactly one key matching a directive
	// name. Mappings carrying a directive key among other keys pass
	// through verbatim.
	if len(n.Content) == 2 {
		keyNode := n.Content[0]
		if keyNode.Kind == yaml.ScalarNode && ast.IsDirectiveKey(keyNode.Value) {
			return convertDirective(keyNode.Value, n.Content[1], location(n, sourcePath), sourcePath)
		}
	}

	m := &ast.Mapping{Location: location(n, sourcePath)}
	seen := make(map[string]bool, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := n.Content[i]
		valNode := n.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return nil, terrors.NewSyntax("mapping keys must be strings", location(keyNode, sourcePath))
		}
		key := keyNode.Value
		if seen[key] {
			return nil, terrors.NewSyntax(
				fmt.Sprintf("duplicate mapping key %q", key),
				location(keyNode, sourcePath),
			)
		}
		seen[key] = true

		val, err := convert(valNode, sourcePath)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, &ast.MapEntry{
			Key:      key,
			Value:    val,
			Location: location(keyNode, sourcePath),
		})
	}
	return m, nil
}

// convertDirective validates a directive body and builds the typed
// directive node.
func convertDirective(key string, body *yaml.Node, loc ast.Location, sourcePath string) (ast.Node, error) {
	if body.Kind == yaml.AliasNode {
		body = body.Alias
	}
	if body.Kind != yaml.MappingNode {
		return nil, terrors.NewSyntax(
			fmt.Sprintf("%s directive body must be a mapping", key),
			location(body, sourcePath),
		)
	}

	switch key {
	case ast.KeyInclude:
		return convertInclude(body, loc, sourcePath)
	case ast.KeyIf:
		return convertIf(body, loc, sourcePath)
	case ast.KeyForEach:
		return convertForEach(body, loc, sourcePath)
	}
	// Unreachable: callers check IsDirectiveKey first.
	return nil, terrors.NewSyntax(fmt.Sprintf("unknown directive %q", key), loc)
}

func convertInclude(body *yaml.Node, loc ast.Location, sourcePath string) (ast.Node, error) {
	d := &ast.IncludeDirective{Location: loc}

	for i := 0; i+1 < len(body.Content); i += 2 {
		keyNode, valNode := body.Content[i], body.Content[i+1]
		switch keyNode.Value {
		case "template":
			s, err := requireStringField(ast.KeyInclude, "template", valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			d.Template = s
			d.TemplateLocation = location(valNode, sourcePath)
		case "params":
			params, err := convert(valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			m, ok := params.(*ast.Mapping)
			if !ok {
				return nil, terrors.NewSyntax(
					"$include 'params' must be a mapping",
					location(valNode, sourcePath),
				)
			}
			d.Params = m
		default:
			return nil, unknownFieldError(ast.KeyInclude, keyNode, includeFields, sourcePath)
		}
	}

	if d.Template == "" {
		return nil, missingFieldError(ast.KeyInclude, "template", `"partial.template.yml"`, loc)
	}
	return d, nil
}

func convertIf(body *yaml.Node, loc ast.Location, sourcePath string) (ast.Node, error) {
	d := &ast.IfDirective{Location: loc}
	seenCondition := false

	for i := 0; i+1 < len(body.Content); i += 2 {
		keyNode, valNode := body.Content[i], body.Content[i+1]
		switch keyNode.Value {
		case "condition":
			s, err := requireStringField(ast.KeyIf, "condition", valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			d.Condition = s
			seenCondition = true
		case "template":
			tpl, err := convert(valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			d.Template = tpl
		default:
			return nil, unknownFieldError(ast.KeyIf, keyNode, ifFields, sourcePath)
		}
	}

	if !seenCondition {
		return nil, missingFieldError(ast.KeyIf, "condition", `"$params.enabled"`, loc)
	}
	if d.Template == nil {
		return nil, missingFieldError(ast.KeyIf, "template", "", loc)
	}
	return d, nil
}

func convertForEach(body *yaml.Node, loc ast.Location, sourcePath string) (ast.Node, error) {
	d := &ast.ForEachDirective{Location: loc}

	for i := 0; i+1 < len(body.Content); i += 2 {
		keyNode, valNode := body.Content[i], body.Content[i+1]
		switch keyNode.Value {
		case "items":
			items, err := convert(valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			d.Items = items
		case "as":
			s, err := requireStringField(ast.KeyForEach, "as", valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			d.As = s
		case "template":
			tpl, err := convert(valNode, sourcePath)
			if err != nil {
				return nil, err
			}
			d.Template = tpl
		default:
			return nil, unknownFieldError(ast.KeyForEach, keyNode, forEachFields, sourcePath)
		}
	}

	if d.Items == nil {
		return nil, missingFieldError(ast.KeyForEach, "items", `"$params.items"`, loc)
	}
	if d.As == "" {
		return nil, missingFieldError(ast.KeyForEach, "as", `"item"`, loc)
	}
	if d.Template == nil {
		return nil, missingFieldError(ast.KeyForEach, "template", "", loc)
	}
	return d, nil
}

// requireStringField validates that a directive field holds a scalar string.
func requireStringField(directive, field string, valNode *yaml.Node, sourcePath string) (string, error) {
	if valNode.Kind == yaml.AliasNode {
		valNode = valNode.Alias
	}
	if valNode.Kind != yaml.ScalarNode || valNode.Tag == "!!null" {
		return "", terrors.NewSyntax(
			fmt.Sprintf("%s '%s' must be a string", directive, field),
			location(valNode, sourcePath),
		)
	}
	return valNode.Value, nil
}

func unknownFieldError(directive string, keyNode *yaml.Node, validFields []string, sourcePath string) error {
	err := terrors.NewSyntax(
		fmt.Sprintf("unknown field %q on %s directive", keyNode.Value, directive),
		location(keyNode, sourcePath),
	)
	err.Suggestion = terrors.SuggestFieldName(keyNode.Value, validFields)
	return err
}

func missingFieldError(directive, field, exampleValue string, loc ast.Location) error {
	err := terrors.NewSyntax(
		fmt.Sprintf("%s directive is missing required field '%s'", directive, field),
		loc,
	)
	err.Suggestion = terrors.SuggestMissingField(field, exampleValue)
	return err
}
