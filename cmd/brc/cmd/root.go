// Package cmd implements the brc command-line driver: cobra subcommands
// wiring internal/lexer through internal/backend into the build, check,
// tokens, and ast entry points described by the compiler's CLI surface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "brc",
	Short: "BRC multi-module compiler",
	Long: `brc is the reference compiler for BRC, a small statically-typed
systems language.

The pipeline runs in five phases, each collecting its own diagnostics and
aborting only at its own boundary: lexer, parser, module assembly,
semantic analyzer, and module builder (IR emission). A completed module
is handed to an external backend for object code, assembly, or textual
IR.`,
	Version: Version,
}

// verbosity counts how many times -v was repeated, selecting one of the
// four logger.Level verbosity tiers.
var verbosity int

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (repeatable: -v, -vv, -vvv)")
}
