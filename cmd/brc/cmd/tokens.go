package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/logger"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream for a BRC source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(_ *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	log := logger.New(os.Stdout, logger.LevelDumping)
	lx := lexer.New(string(content), path)
	toks := lx.ScanTokens()
	log.Tokens(toks)

	if lexErrs := lx.Errors(); len(lexErrs) > 0 {
		var list errors.List
		for _, e := range lexErrs {
			list.Add(errors.Lexer(e.Loc, string(e.Ch)))
		}
		log.Diagnostics(&list)
		return fmt.Errorf("lexer reported %d error(s)", len(lexErrs))
	}

	return nil
}
