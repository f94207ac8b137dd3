// Package main provides the entry point for the typescore CLI.
package main

import (
	"fmt"
	"os"

	"github.com/nao1215/typescore/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for typescore.
// The root command itself runs the scoring; compare, init, and version
// are subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typescore <packages-file>",
		Short: "Measure typing completeness of Python packages",
		Long: `typescore measures how completely Python packages are typed.

It reads a list of package names (one per line, extra CSV columns are
carried through to the output), resolves each package to its importable
top-level modules, runs an external type checker against every module,
and writes one CSV row per module with a completeness score between
0.00 and 1.00. Packages that cannot be resolved or checked still get a
row with a zero score, so the output always covers the full input list.

Examples:
  # Score the packages listed in packages.csv, write scores.csv
  typescore packages.csv

  # Extended columns (version and description) and debug logging
  typescore packages.csv --verbose

  # Install each package with pip before scoring it
  typescore packages.csv --install

  # Use a different checker binary and a shorter timeout
  typescore packages.csv --tool ./node_modules/.bin/pyright --timeout 2m`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runScoreCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output (extra report columns and debug logging)")

	// Output flags
	cmd.Flags().StringP("scores", "o", config.DefaultScoresFile,
		"Output file path for the CSV report")
	cmd.Flags().StringP("sep", "s", string(config.DefaultSeparator),
		"Column separator for both the package list and the report")
	cmd.Flags().StringP("markdown", "m", "",
		"Additionally write a Markdown summary report to this path")

	// Scoring behavior flags
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs,
		"Number of packages scored concurrently (forced to 1 with --install)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultCheckTimeout,
		"Timeout for each type checker invocation")
	cmd.Flags().String("tool", config.DefaultTool,
		"Type checker executable")
	cmd.Flags().BoolP("install", "i", false,
		"pip install each package before scoring and uninstall it afterwards")
	cmd.Flags().String("python", config.DefaultPython,
		"Python interpreter for environment operations")
	cmd.Flags().String("site-packages", "",
		"site-packages directory (default: discovered via the interpreter)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .typescore in current or home directory)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	// Add subcommands
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
