package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom - template expansion engine for structured documents",
	Long: `Loom expands declarative YAML documents that use template directives.

It provides:
  - $include: splice another template file in place, with parameters
  - $if: conditional expansion on a parameter expression
  - $foreach: expansion once per element of a sequence
  - {{ }} variable substitution with dotted parameter paths
  - Circular-reference detection across the include graph
  - A dependency-aware template cache with cascading invalidation`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
