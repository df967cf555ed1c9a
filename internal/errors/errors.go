// Package errors is the diagnostic accumulator shared by every compiler
// phase: lexer, parser, semantic analyzer, module builder, and IR
// verification. Each phase collects into its own List and aborts only at
// the end of the phase if the list is non-empty — diagnostics are never
// recovered across a phase boundary.
package errors

import (
	"fmt"
	"strings"

	"github.com/brc-lang/brc/internal/lexer"
)

// Kind identifies which phase raised the Error and which of that phase's
// diagnostic shapes it carries.
type Kind int

const (
	LexerError Kind = iota
	ParserError
	SemanticError
	BuilderError
	VerificationError
)

func (k Kind) String() string {
	switch k {
	case LexerError:
		return "lexer"
	case ParserError:
		return "parser"
	case SemanticError:
		return "semantic"
	case BuilderError:
		return "builder"
	case VerificationError:
		return "verification"
	default:
		return "unknown"
	}
}

// Error is a single diagnostic. Not every field is meaningful for every
// Kind — ExpectedTokenKind and ExpectedParsee are parser-only, ModuleName
// is builder/verification-only.
type Error struct {
	Kind              Kind
	Loc               lexer.Location
	HasLoc            bool
	Message           string
	ExpectedTokenKind string // parser: the token kind that was expected
	ExpectedParsee    string // parser: the sub-grammar matcher that was expected
	ModuleName        string // builder / verification
	Lexeme            string // the offending lexeme, when relevant
}

// Lexer creates a lexer-phase diagnostic for a single unmatched character.
func Lexer(loc lexer.Location, lexeme string) *Error {
	return &Error{Kind: LexerError, Loc: loc, HasLoc: true, Lexeme: lexeme,
		Message: fmt.Sprintf("unexpected character %q", lexeme)}
}

// Parser creates a parser-phase diagnostic describing an unexpected token.
func Parser(tok lexer.Token, expectedKind, expectedParsee, message string) *Error {
	msg := message
	if msg == "" {
		msg = fmt.Sprintf("unexpected token %s", tok.Type)
	}
	return &Error{
		Kind: ParserError, Loc: tok.Loc, HasLoc: true,
		Message: msg, ExpectedTokenKind: expectedKind, ExpectedParsee: expectedParsee,
		Lexeme: tok.Lexeme,
	}
}

// Semantic creates a semantic-analysis diagnostic at loc.
func Semantic(loc lexer.Location, format string, args ...any) *Error {
	return &Error{Kind: SemanticError, Loc: loc, HasLoc: true, Message: fmt.Sprintf(format, args...)}
}

// Builder creates a module-builder diagnostic at loc.
func Builder(loc lexer.Location, format string, args ...any) *Error {
	return &Error{Kind: BuilderError, Loc: loc, HasLoc: true, Message: fmt.Sprintf(format, args...)}
}

// Verification creates a module/function IR-verifier diagnostic, scoped to
// a module (and, when non-empty, a function within it) rather than a
// source location.
func Verification(moduleName, format string, args ...any) *Error {
	return &Error{Kind: VerificationError, ModuleName: moduleName, Message: fmt.Sprintf(format, args...)}
}

// emoji returns the one-line diagnostic prefix for e's Kind.
func (e *Error) emoji() string {
	switch e.Kind {
	case LexerError, ParserError:
		return "❌"
	case SemanticError:
		return "🔴"
	case BuilderError, VerificationError:
		return "💥"
	default:
		return "❌"
	}
}

// String formats the diagnostic as the one-line-per-diagnostic shape the
// driver prints: an emoji prefix, file:line:column when available, and a
// human-readable message built from the error's fields.
func (e *Error) String() string {
	var sb strings.Builder
	sb.WriteString(e.emoji())
	sb.WriteByte(' ')
	sb.WriteString(strings.ToUpper(e.Kind.String()[:1]) + e.Kind.String()[1:])
	sb.WriteString(": ")

	if e.HasLoc {
		sb.WriteString(e.Loc.String())
		sb.WriteString(": ")
	} else if e.ModuleName != "" {
		sb.WriteString(e.ModuleName)
		sb.WriteString(": ")
	}

	sb.WriteString(e.Message)

	if e.ExpectedParsee != "" {
		sb.WriteString(fmt.Sprintf(" (expected %s)", e.ExpectedParsee))
	} else if e.ExpectedTokenKind != "" {
		sb.WriteString(fmt.Sprintf(" (expected %s)", e.ExpectedTokenKind))
	}

	return sb.String()
}

func (e *Error) Error() string { return e.String() }

// List is the per-phase error accumulator. The zero value is ready to use.
type List struct {
	errors []*Error
}

// Add appends an error to the list.
func (l *List) Add(err *Error) {
	l.errors = append(l.errors, err)
}

// HasErrors reports whether any error has been accumulated.
func (l *List) HasErrors() bool {
	return len(l.errors) > 0
}

// Errors returns the accumulated errors in the order they were added.
func (l *List) Errors() []*Error {
	return l.errors
}

// String renders one diagnostic per line.
func (l *List) String() string {
	lines := make([]string, len(l.errors))
	for i, e := range l.errors {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
