package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/logger"
	"github.com/brc-lang/brc/internal/parser"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Dump the parsed AST for a BRC source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func runAST(_ *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	log := logger.New(os.Stdout, logger.LevelDumping)
	lx := lexer.New(string(content), path)
	toks := lx.ScanTokens()
	if lexErrs := lx.Errors(); len(lexErrs) > 0 {
		return fmt.Errorf("lexer reported %d error(s)", len(lexErrs))
	}

	p := parser.New(toks, path)
	f := p.ParseFile()
	if p.Errors().HasErrors() {
		log.Diagnostics(p.Errors())
		return fmt.Errorf("parser reported %d error(s)", len(p.Errors().Errors()))
	}

	log.AST(f)
	return nil
}
