// Package logger renders tokens, AST nodes, and diagnostics
// for the CLI's -v/-vv/-vvv verbosity levels, in the emoji-prefixed,
// one-line-per-event shape the rest of the compiler uses for diagnostics.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
)

// Level is a verbosity level selected by repeating -v on the command line.
type Level int

const (
	LevelErrors  Level = iota // errors only
	LevelStatus               // + per-phase status lines (🔍)
	LevelTiming               // + per-phase timings (⏱️)
	LevelDumping              // + token/AST dumps
)

// Logger writes leveled compiler output to w.
type Logger struct {
	w     io.Writer
	level Level
}

// New creates a Logger writing to w at the given verbosity level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{w: w, level: level}
}

// Status prints a phase-transition line ("🔍 parsing geo.brc") when the
// logger's level is at least LevelStatus.
func (l *Logger) Status(format string, args ...any) {
	if l.level < LevelStatus {
		return
	}
	fmt.Fprintf(l.w, "🔍 %s\n", fmt.Sprintf(format, args...))
}

// Timing prints a phase's elapsed duration when the logger's level is at
// least LevelTiming.
func (l *Logger) Timing(phase string, d time.Duration) {
	if l.level < LevelTiming {
		return
	}
	fmt.Fprintf(l.w, "⏱️  %s: %s\n", phase, d)
}

// Diagnostics prints every accumulated error in list, one per line, via
// each Error's own String() formatting — always printed regardless of
// level, since errors are the level-0 floor.
func (l *Logger) Diagnostics(list *errors.List) {
	for _, e := range list.Errors() {
		fmt.Fprintln(l.w, e.String())
	}
}

// Tokens dumps a token stream, one line per token, when the logger's
// level is at least LevelDumping.
func (l *Logger) Tokens(toks []lexer.Token) {
	if l.level < LevelDumping {
		return
	}
	for _, tok := range toks {
		fmt.Fprintf(l.w, "%s  %-16s %q\n", tok.Loc.String(), tok.Type.String(), tok.Lexeme)
	}
}

// AST dumps f's Header, Body, and Exported statement lists as an indented
// tree, one line per node, when the logger's level is at least
// LevelDumping.
func (l *Logger) AST(f *ast.File) {
	if l.level < LevelDumping {
		return
	}
	fmt.Fprintf(l.w, "module %s (%s)\n", moduleNameOr(f.ModuleName), f.Path)
	l.dumpSection("header", f.Header)
	l.dumpSection("body", f.Body)
	l.dumpSection("exported", f.Exported)
}

func moduleNameOr(name string) string {
	if name == "" {
		return "main"
	}
	return name
}

func (l *Logger) dumpSection(name string, stmts []ast.Statement) {
	if len(stmts) == 0 {
		return
	}
	fmt.Fprintf(l.w, "  %s:\n", name)
	for _, s := range stmts {
		l.dumpStatement(s, 2)
	}
}

func (l *Logger) dumpStatement(stmt ast.Statement, indent int) {
	pad := strings.Repeat("  ", indent)
	if block, ok := stmt.(*ast.Block); ok {
		fmt.Fprintf(l.w, "%sblock\n", pad)
		for _, s := range block.Statements {
			l.dumpStatement(s, indent+1)
		}
		return
	}
	fmt.Fprintf(l.w, "%s%T %s\n", pad, stmt, stmt.TokenLiteral())
}
