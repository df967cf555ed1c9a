package parser

import (
	"strings"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

func (p *Parser) parseModuleDecl() ast.Statement {
	tok := p.advance() // @module
	name, ok := p.expect(lexer.IDENTIFIER, "module name")
	if !ok {
		return nil
	}
	return &ast.ModuleDecl{Token: tok, Name: name.Lexeme}
}

func (p *Parser) parseImportDecl() ast.Statement {
	tok := p.advance() // @import
	name, ok := p.expect(lexer.IDENTIFIER, "module name")
	if !ok {
		return nil
	}
	return &ast.ImportDecl{Token: tok, Name: name.Lexeme}
}

// parseExternDecl parses `@extern name fun [: args] [-> retType]` or
// `@extern name type`, the forward declarations for a definition provided
// by another translation unit.
func (p *Parser) parseExternDecl() ast.Statement {
	tok := p.advance() // @extern
	name, ok := p.expect(lexer.IDENTIFIER, "name")
	if !ok {
		return nil
	}
	if p.check(lexer.FUNCTION) {
		p.advance()
		params, ret, ok := p.parseSignature()
		if !ok {
			return nil
		}
		return &ast.ExternFunctionDecl{Token: tok, Name: name.Lexeme, Parameters: params, ReturnType: ret}
	}
	t := p.parseTypeRef()
	if t == nil {
		return nil
	}
	return &ast.ExternVariableDecl{Token: tok, Name: name.Lexeme, Type: t}
}

// parseSignature parses the `[: args] [→ retType]` portion shared by
// FUNCTION, RAW_FUNCTION, and their @extern forward declarations. The
// argument-list colon is only consumed when it is actually followed by a
// `name type` pair — otherwise it belongs to whatever comes after (a
// function's body-opening colon, or nothing at all).
func (p *Parser) parseSignature() ([]ast.Param, *types.ValueType, bool) {
	var params []ast.Param
	if p.check(lexer.COLON) && p.peekStartsParam(1) {
		p.advance() // ':'
		for {
			nameTok, ok := p.expect(lexer.IDENTIFIER, "parameter name")
			if !ok {
				return nil, nil, false
			}
			t := p.parseTypeRef()
			if t == nil {
				return nil, nil, false
			}
			params = append(params, ast.Param{Name: nameTok.Lexeme, Type: t})
			if p.match(lexer.COMMA) {
				continue
			}
			break
		}
	}

	ret := types.None
	if p.match(lexer.RIGHT_ARROW) {
		ret = p.parseTypeRef()
		if ret == nil {
			return nil, nil, false
		}
	}
	return params, ret, true
}

// parseBlobDef parses `name blob : field1 type1, field2 type2, …`. A blob
// is a top-level-only statement, implicitly terminated by the next
// NEW_LINE like VARIABLE — it carries no trailing ';'.
func (p *Parser) parseBlobDef(exported bool) ast.Statement {
	name, ok := p.expect(lexer.IDENTIFIER, "blob name")
	if !ok {
		return nil
	}
	tok := p.advance() // blob
	if _, ok := p.expect(lexer.COLON, "':' before blob members"); !ok {
		return nil
	}
	var members []ast.BlobMember
	for {
		memberTok, ok := p.expect(lexer.IDENTIFIER, "member name")
		if !ok {
			return nil
		}
		t := p.parseTypeRef()
		if t == nil {
			return nil
		}
		members = append(members, ast.BlobMember{Name: memberTok.Lexeme, Type: t})
		if p.match(lexer.COMMA) {
			continue
		}
		break
	}
	return &ast.BlobDef{Token: tok, Name: name.Lexeme, Members: members, Exported: exported}
}

// parseFunctionDef parses `name fun [: args] [→ retType] : body ;`.
func (p *Parser) parseFunctionDef(exported bool) ast.Statement {
	name, ok := p.expect(lexer.IDENTIFIER, "function name")
	if !ok {
		return nil
	}
	tok := p.advance() // fun
	params, ret, ok := p.parseSignature()
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.COLON, "':' before function body"); !ok {
		return nil
	}
	body := p.parseColonBody()
	if body == nil {
		return nil
	}
	if _, ok := p.expect(lexer.SEMICOLON, "';' terminating function body"); !ok {
		return nil
	}
	return &ast.FunctionDef{Token: tok, Name: name.Lexeme, Parameters: params, ReturnType: ret, Body: body, Exported: exported}
}

// parseRawFunctionDef parses `name raw "constraints" [: args] [→ retType]
// : rawAssemblyLines ;`. The body is not parsed as BRC statements: it is
// one or more opaque string-literal assembly lines, joined with newlines
// and passed straight through to the builder together with the leading
// constraint string naming register/memory clobbers.
func (p *Parser) parseRawFunctionDef(exported bool) ast.Statement {
	name, ok := p.expect(lexer.IDENTIFIER, "function name")
	if !ok {
		return nil
	}
	tok := p.advance() // raw
	constraints, ok := p.expect(lexer.STRING, "raw function constraint string")
	if !ok {
		return nil
	}
	params, ret, ok := p.parseSignature()
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.COLON, "':' before raw function body"); !ok {
		return nil
	}
	p.skipNewlines()

	var lines []string
	for !p.checkAny(lexer.SEMICOLON, lexer.END) {
		lineTok, ok := p.expect(lexer.STRING, "raw assembly line")
		if !ok {
			return nil
		}
		lines = append(lines, lineTok.Lexeme)
		p.skipNewlines()
	}
	if _, ok := p.expect(lexer.SEMICOLON, "';' terminating raw function body"); !ok {
		return nil
	}

	return &ast.RawFunctionDef{
		Token: tok, Name: name.Lexeme, Parameters: params, ReturnType: ret,
		Assembly: strings.Join(lines, "\n"), Constraints: constraints.Lexeme, Exported: exported,
	}
}

// parseVariableDef parses `name type [← expr]`. isGlobal distinguishes a
// module-level definition (parsed from parseIdentifierLedTopLevel) from a
// local one inside a function body or a repeat clause.
func (p *Parser) parseVariableDef(exported, isGlobal bool) ast.Statement {
	name := p.advance() // identifier
	t := p.parseTypeRef()
	if t == nil {
		return nil
	}
	var init ast.Expression
	if p.match(lexer.LEFT_ARROW) {
		init = p.parseExpression(LOWEST)
		if init == nil {
			return nil
		}
	}
	return &ast.VariableDef{Token: name, Name: name.Lexeme, Type: t, Init: init, Exported: exported, IsGlobal: isGlobal}
}
