package parser

import (
	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/lexer"
)

// parseStatement parses a single statement inside a function or block
// body: a local variable definition, assignment, return, repeat loop, or
// an expression used for its side effects.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.REPEAT:
		return p.parseRepeat()
	case lexer.IDENTIFIER:
		return p.parseIdentifierLedStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.advance() // ret
	if p.checkAny(lexer.NEW_LINE, lexer.SEMICOLON, lexer.COLON, lexer.END) {
		return &ast.Return{Token: tok}
	}
	val := p.parseExpression(LOWEST)
	if val == nil {
		return nil
	}
	return &ast.Return{Token: tok, Value: val}
}

// parseRepeat parses `rep [initStmt] [, preCond] [, postStmt] [, postCond]
// : body ;`. Each clause past the first is gated by a leading comma; the
// loop stops reading clauses the moment a comma is not found, so a
// populated clause can never follow a skipped one.
func (p *Parser) parseRepeat() ast.Statement {
	tok := p.advance() // rep
	r := &ast.Repeat{Token: tok}

	if !p.check(lexer.COLON) {
		r.Init = p.parseRepeatClauseStatement()
		if r.Init == nil {
			return nil
		}
	}

	if p.match(lexer.COMMA) {
		p.skipNewlines()
		r.PreCond = p.parseExpression(LOWEST)
		if r.PreCond == nil {
			return nil
		}
		if p.match(lexer.COMMA) {
			p.skipNewlines()
			r.Post = p.parseRepeatClauseStatement()
			if r.Post == nil {
				return nil
			}
			if p.match(lexer.COMMA) {
				p.skipNewlines()
				r.PostCond = p.parseExpression(LOWEST)
				if r.PostCond == nil {
					return nil
				}
			}
		}
	}

	if _, ok := p.expect(lexer.COLON, "':' before repeat body"); !ok {
		return nil
	}
	body := p.parseColonBody()
	if body == nil {
		return nil
	}
	if _, ok := p.expect(lexer.SEMICOLON, "';' terminating repeat body"); !ok {
		return nil
	}
	r.Body = body
	return r
}

// parseRepeatClauseStatement parses the init/post slot of a repeat
// header: either a fresh `name type [← expr]` local definition or an
// assignment `chained ← expr` to an existing binding.
func (p *Parser) parseRepeatClauseStatement() ast.Statement {
	if p.peekStartsType(1) {
		return p.parseVariableDef(false, false)
	}
	target := p.parseExpression(LOWEST)
	if target == nil {
		return nil
	}
	arrow, ok := p.expect(lexer.LEFT_ARROW, "'<-' in repeat clause")
	if !ok {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Assignment{Token: arrow, Target: target, Value: value}
}

// parseColonBody parses the statement sequence opened by a FUNCTION,
// RAW_FUNCTION, or REPEAT header's body colon, stopping (without
// consuming) at the terminating ';'.
func (p *Parser) parseColonBody() *ast.Block {
	tok := p.cur()
	b := &ast.Block{Token: tok}
	p.skipNewlines()
	for !p.checkAny(lexer.SEMICOLON, lexer.END) {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		b.Statements = append(b.Statements, stmt)
		p.skipNewlines()
	}
	return b
}

// parseIdentifierLedStatement disambiguates a local variable definition
// (`name type [← expr]`) from an assignment (`name ← value`, `chained ←
// value`) or a plain expression statement (a bare call). The second
// token unambiguously decides: a type-starting token can only open a
// fresh VariableDef, since an assignment's or expression's own name is
// always followed directly by '<-' or '.'.
func (p *Parser) parseIdentifierLedStatement() ast.Statement {
	if p.peekStartsType(1) {
		return p.parseVariableDef(false, false)
	}
	return p.parseAssignmentOrExprStatement()
}

func (p *Parser) parseAssignmentOrExprStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.check(lexer.LEFT_ARROW) {
		arrow := p.advance()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		return &ast.Assignment{Token: arrow, Target: expr, Value: value}
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}
