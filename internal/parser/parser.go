// Package parser implements a recursive-descent / Pratt parser that turns
// a token stream into the per-file header/body/exported-header statement
// lists the module-assembly stage consumes.
package parser

import (
	"fmt"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
)

// Parser consumes a pre-scanned token stream for a single source file.
// Parsing stops at the first error: BRC's diagnostic model collects
// within a phase but does not attempt statement-level recovery inside a
// single file, since a malformed statement usually invalidates everything
// that follows it lexically.
type Parser struct {
	file   string
	tokens []lexer.Token
	pos    int
	errs   errors.List
}

// New creates a Parser over an already-scanned token stream.
func New(tokens []lexer.Token, file string) *Parser {
	return &Parser{file: file, tokens: tokens}
}

// Errors returns the diagnostics accumulated while parsing.
func (p *Parser) Errors() *errors.List { return &p.errs }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // END
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t lexer.TokenType) bool { return p.cur().Type == t }

// checkAny reports whether the current token's type is any of types.
func (p *Parser) checkAny(types ...lexer.TokenType) bool {
	cur := p.cur().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// skipNewlines consumes zero or more NEW_LINE tokens; statements are
// newline-terminated but many grammar positions (inside parens, after
// binary operators at end of line) tolerate blank lines.
func (p *Parser) skipNewlines() {
	for p.check(lexer.NEW_LINE) {
		p.advance()
	}
}

// expect consumes the current token if it matches t, otherwise records a
// parser diagnostic naming what was expected.
func (p *Parser) expect(t lexer.TokenType, parsee string) (lexer.Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	p.errs.Add(errors.Parser(p.cur(), t.String(), parsee, ""))
	return lexer.Token{}, false
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) {
	p.errs.Add(errors.Parser(tok, "", "", fmt.Sprintf(format, args...)))
}

// ParseFile parses the token stream into an *ast.File. Header, Body, and
// Exported are populated directly from top-level statement shapes;
// module-assembly (internal/module) later regroups these across files
// sharing an @module name and synthesizes forward declarations.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{Path: p.file, ModuleName: "main"}

	p.skipNewlines()
	for !p.check(lexer.END) {
		exported := p.match(lexer.M_EXPORT)
		if exported {
			p.skipNewlines()
		}

		stmt := p.parseTopLevel(exported)
		if stmt == nil {
			// parseTopLevel already recorded a diagnostic; stop here,
			// matching the one-error-abort-per-file recovery policy.
			break
		}

		switch s := stmt.(type) {
		case *ast.ModuleDecl:
			f.ModuleName = s.Name
		case *ast.ImportDecl, *ast.ExternFunctionDecl, *ast.ExternVariableDecl:
			f.Header = append(f.Header, stmt)
		default:
			if exported {
				f.Exported = append(f.Exported, stmt)
			} else {
				f.Body = append(f.Body, stmt)
			}
		}

		p.skipNewlines()
	}

	return f
}

// parseTopLevel dispatches on the current token to the matching
// declaration-shape parser. exported is true when the statement was
// preceded by @export (only BLOB, VARIABLE, and FUNCTION may be).
func (p *Parser) parseTopLevel(exported bool) ast.Statement {
	switch p.cur().Type {
	case lexer.M_MODULE:
		return p.parseModuleDecl()
	case lexer.M_IMPORT:
		return p.parseImportDecl()
	case lexer.M_EXTERN:
		return p.parseExternDecl()
	case lexer.IDENTIFIER:
		return p.parseIdentifierLedTopLevel(exported)
	default:
		p.errorf(p.cur(), "unexpected token %s at top level", p.cur().Type)
		return nil
	}
}

// parseIdentifierLedTopLevel handles the name-first shapes: every top-level
// declaration (VARIABLE, FUNCTION, RAW_FUNCTION, BLOB) opens with its name,
// so the second token is what distinguishes them.
func (p *Parser) parseIdentifierLedTopLevel(exported bool) ast.Statement {
	switch p.peek(1).Type {
	case lexer.FUNCTION:
		return p.parseFunctionDef(exported)
	case lexer.RAW_FUNCTION:
		return p.parseRawFunctionDef(exported)
	case lexer.BLOB:
		return p.parseBlobDef(exported)
	default:
		return p.parseVariableDef(exported, true)
	}
}
