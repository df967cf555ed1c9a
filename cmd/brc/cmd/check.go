package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <files...>",
	Short: "Run the lexer through the semantic analyzer without emitting IR",
	Long: `check runs lexer, parser, module assembly, and semantic analysis,
printing diagnostics exactly as build would, but stops before the module
builder. Useful for editor integration where IR emission is unnecessary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	log := loggerForVerbosity()

	files := parseFiles(args, log)
	if files == nil {
		return fmt.Errorf("check failed: lexer/parser errors")
	}

	if assembleAndAnalyze(files, log) == nil {
		return fmt.Errorf("check failed: module assembly/analysis errors")
	}

	fmt.Println("ok")
	return nil
}
