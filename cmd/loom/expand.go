package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	terrors "loom-hq/loom/pkg/template/errors"
)

var expandFlags struct {
	format string
	output string
	params []string
	stats  bool
}

var expandCmd = &cobra.Command{
	Use:   "expand FILE",
	Short: "Expand a document's template directives",
	Long: `Expand resolves every $include, $if, and $foreach directive in the
document, substitutes {{ }} variable expressions, and writes the fully
expanded structure.

Examples:
  # Expand to stdout as YAML
  loom expand document.yml

  # Expand to a file as JSON
  loom expand document.yml --format json --output out.json

  # Supply parameters for the root scope
  loom expand document.yml --param title=Hello --param items.count=3`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().StringVar(&expandFlags.format, "format", "yaml", "output format: yaml, json")
	expandCmd.Flags().StringVarP(&expandFlags.output, "output", "o", "", "output file (default stdout)")
	expandCmd.Flags().StringArrayVarP(&expandFlags.params, "param", "p", nil, "root parameter binding, name=value (repeatable)")
	expandCmd.Flags().BoolVar(&expandFlags.stats, "stats", false, "print cache statistics to stderr after expansion")
}

func runExpand(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	eng, _ := setupEngine(cfg, logger)

	params, err := parseParams(expandFlags.params)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document %q: %w", path, err)
	}

	result, err := eng.ExpandWithParams(cmd.Context(), string(data), path, params)
	if err != nil {
		if te, ok := terrors.AsError(err); ok {
			return fmt.Errorf("expansion failed:\n%s", te.Error())
		}
		return err
	}

	if expandFlags.stats {
		stats := eng.Cache().Stats()
		fmt.Fprintf(os.Stderr, "cache: %d hits, %d misses (%.0f%% hit rate), %d entries, %d bytes\n",
			stats.Hits, stats.Misses, stats.HitRate()*100, stats.TotalEntries, stats.TotalSize)
	}

	out := os.Stdout
	if expandFlags.output != "" {
		f, err := os.Create(expandFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch expandFlags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	default:
		return fmt.Errorf("unknown output format %q (expected yaml or json)", expandFlags.format)
	}
}

// parseParams converts repeated name=value flags into root scope bindings.
// Values are parsed as YAML scalars so numbers and booleans come through
// typed.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (expected name=value)", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		params[name] = value
	}
	return params, nil
}
