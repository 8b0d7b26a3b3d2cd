package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"loom-hq/loom/pkg/document/ast"
	"loom-hq/loom/pkg/document/parser"
	terrors "loom-hq/loom/pkg/template/errors"
)

// lintEngine is the slice of the expansion engine lint needs, kept narrow
// so tests can substitute a stub.
type lintEngine interface {
	DetectCircularReferences(ctx context.Context, rawText string, basePath string) []string
	ValidateTemplatePath(ctx context.Context, path string, basePath string) bool
}

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate template files",
	Long: `Validate template files without producing expanded output.

The lint command parses each file and checks:
  - YAML syntax
  - Directive structure ($include/$if/$foreach field shapes)
  - Circular references across the static include graph
  - Existence of statically resolvable $include targets

Examples:
  # Lint a single file
  loom lint --file document.yml

  # Lint a directory of templates
  loom lint --dir templates/

  # JSON output for CI
  loom lint --dir templates/ --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "template file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of template files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation outcome for a single file.
type LintResult struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Errors   []LintIssue `json:"errors,omitempty"`
	Warnings []LintIssue `json:"warnings,omitempty"`
}

// LintIssue is one reported error or warning.
type LintIssue struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list template files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no template files found")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	eng, _ := setupEngine(cfg, logger)

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(cmd, eng, file))
	}

	if lintFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printLintText(results)
	}

	for _, r := range results {
		if !r.Valid {
			return fmt.Errorf("validation failed")
		}
	}
	return nil
}

func lintFile(cmd *cobra.Command, eng lintEngine, path string) LintResult {
	result := LintResult{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, LintIssue{
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
		return result
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	root, err := parser.Parse(data, abs)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, issueFromError(err))
		return result
	}

	_ = ast.Walk(root, ast.VisitorFunc(func(node ast.Node) error {
		inc, ok := node.(*ast.IncludeDirective)
		if !ok {
			return nil
		}
		if strings.Contains(inc.Template, "{{") {
			// Dynamic path, resolvable only with runtime parameters.
			return nil
		}
		if !eng.ValidateTemplatePath(cmd.Context(), inc.Template, abs) {
			result.Valid = false
			result.Errors = append(result.Errors, LintIssue{
				Line:    inc.TemplateLocation.Line,
				Column:  inc.TemplateLocation.Column,
				Kind:    string(terrors.KindFileNotFound),
				Message: fmt.Sprintf("include target %q does not exist", inc.Template),
			})
		}
		return nil
	}))

	for _, cycle := range eng.DetectCircularReferences(cmd.Context(), string(data), abs) {
		result.Valid = false
		result.Errors = append(result.Errors, LintIssue{
			Kind:    string(terrors.KindCircularReference),
			Message: fmt.Sprintf("circular reference: %s", cycle),
		})
	}
	return result
}

func issueFromError(err error) LintIssue {
	if te, ok := terrors.AsError(err); ok {
		return LintIssue{
			Line:       te.Location.Line,
			Column:     te.Location.Column,
			Kind:       string(te.Kind),
			Message:    te.Message,
			Suggestion: te.Suggestion,
		}
	}
	return LintIssue{Message: err.Error()}
}

func printLintText(results []LintResult) {
	totalErrors := 0
	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if len(result.Errors) == 0 {
			fmt.Println("✓ Syntax valid")
			fmt.Println("✓ All include targets exist")
			fmt.Println("✓ No circular references")
		}

		for _, e := range result.Errors {
			fmt.Printf("✗ Error: %s", e.Message)
			if e.Line > 0 {
				fmt.Printf(" (line %d", e.Line)
				if e.Column > 0 {
					fmt.Printf(", col %d", e.Column)
				}
				fmt.Print(")")
			}
			if e.Kind != "" {
				fmt.Printf(" [%s]", e.Kind)
			}
			fmt.Println()
			if e.Suggestion != "" {
				fmt.Printf("  suggestion: %s\n", e.Suggestion)
			}
			totalErrors++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s), %d error(s)\n", len(results), totalErrors)
}
