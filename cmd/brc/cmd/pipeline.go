package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/logger"
	"github.com/brc-lang/brc/internal/module"
	"github.com/brc-lang/brc/internal/parser"
	"github.com/brc-lang/brc/internal/semantic"
)

// loggerForVerbosity maps the repeated -v count to a logger.Level and
// builds a Logger writing to stderr.
func loggerForVerbosity() *logger.Logger {
	level := logger.Level(verbosity)
	if level > logger.LevelDumping {
		level = logger.LevelDumping
	}
	return logger.New(os.Stderr, level)
}

// readFile reads path and lexes+parses it into a *ast.File, reporting
// lexer and parser diagnostics through log. It returns nil once either
// phase has accumulated any error, since the AST is not safe to hand to
// module assembly at that point.
func readFile(path string, log *logger.Logger) *ast.File {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s: %v\n", path, err)
		return nil
	}
	source := string(content)

	log.Status("lexing %s", path)
	start := time.Now()
	lx := lexer.New(source, path)
	toks := lx.ScanTokens()
	log.Timing("lex "+path, time.Since(start))
	log.Tokens(toks)
	if lexErrs := lx.Errors(); len(lexErrs) > 0 {
		var list errors.List
		for _, e := range lexErrs {
			list.Add(errors.Lexer(e.Loc, string(e.Ch)))
		}
		log.Diagnostics(&list)
		return nil
	}

	log.Status("parsing %s", path)
	start = time.Now()
	p := parser.New(toks, path)
	f := p.ParseFile()
	log.Timing("parse "+path, time.Since(start))
	log.AST(f)
	if p.Errors().HasErrors() {
		log.Diagnostics(p.Errors())
		return nil
	}

	return f
}

// parseFiles lexes and parses every path, returning nil if any file
// failed to read or produced lexer/parser errors.
func parseFiles(paths []string, log *logger.Logger) []*ast.File {
	files := make([]*ast.File, 0, len(paths))
	ok := true
	for _, path := range paths {
		f := readFile(path, log)
		if f == nil {
			ok = false
			continue
		}
		files = append(files, f)
	}
	if !ok {
		return nil
	}
	return files
}

// assembleAndAnalyze runs module assembly and semantic analysis over
// files, printing diagnostics through log. It returns nil if either
// phase accumulated an error.
func assembleAndAnalyze(files []*ast.File, log *logger.Logger) *module.Store {
	log.Status("assembling %d module file(s)", len(files))
	var assemblyErrs errors.List
	store := module.NewStore(files, &assemblyErrs)
	if assemblyErrs.HasErrors() {
		log.Diagnostics(&assemblyErrs)
		return nil
	}

	log.Status("analyzing")
	start := time.Now()
	if errs := semantic.AnalyzeStore(store); errs.HasErrors() {
		log.Diagnostics(errs)
		return nil
	}
	log.Timing("analyze", time.Since(start))

	return store
}
