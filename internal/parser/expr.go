package parser

import (
	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/lexer"
)

// Precedence levels, lowest to highest. NOT is a prefix operator and is
// handled in parseUnary rather than in this table; its operand is parsed
// with LOGIC_AND as the floor, so NOT binds tighter than AND but looser
// than equality: "not a = b" reads as "not (a = b)".
const (
	_ int = iota
	LOWEST
	LOGIC_OR     // or xor
	LOGIC_AND    // and
	EQUALITY     // = !=
	COMPARISON   // < <= > >=
	BIT_OR       // | ^
	BIT_AND      // &
	SHIFT        // << >>
	TERM         // + -
	FACTOR       // * / %
	UNARY        // -x ~x (prefix)
	CHAIN        // .member .member(args)
)

var binaryPrecedence = map[lexer.TokenType]int{
	lexer.OR:            LOGIC_OR,
	lexer.XOR:           LOGIC_OR,
	lexer.AND:           LOGIC_AND,
	lexer.EQUAL:         EQUALITY,
	lexer.NOT_EQUAL:     EQUALITY,
	lexer.LESS:          COMPARISON,
	lexer.LESS_EQUAL:    COMPARISON,
	lexer.GREATER:       COMPARISON,
	lexer.GREATER_EQUAL: COMPARISON,
	lexer.BIT_OR:        BIT_OR,
	lexer.BIT_XOR:       BIT_OR,
	lexer.BIT_AND:       BIT_AND,
	lexer.SHIFT_LEFT:    SHIFT,
	lexer.SHIFT_RIGHT:   SHIFT,
	lexer.PLUS:          TERM,
	lexer.MINUS:         TERM,
	lexer.STAR:          FACTOR,
	lexer.SLASH:         FACTOR,
	lexer.PERCENT:       FACTOR,
}

func precedenceOf(t lexer.TokenType) int {
	if prec, ok := binaryPrecedence[t]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression is the Pratt driver: parse a prefix/primary term, then
// repeatedly fold in infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		prec := precedenceOf(p.cur().Type)
		if prec <= minPrec {
			break
		}
		op := p.advance()
		p.skipNewlines()
		right := p.parseExpression(prec)
		if right == nil {
			return nil
		}
		left = &ast.Binary{Token: op, Left: left, Operator: op.Type.String(), Right: right}
	}

	return left
}

// parseUnary handles the prefix operators (-, not, ~) then falls through
// to the chain/primary layer.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case lexer.MINUS, lexer.NOT, lexer.BIT_NOT:
		op := p.advance()
		var operand ast.Expression
		if op.Type == lexer.NOT {
			operand = p.parseExpression(LOGIC_AND)
		} else {
			operand = p.parseUnary()
		}
		if operand == nil {
			return nil
		}
		return &ast.Unary{Token: op, Operator: op.Type.String(), Operand: operand}
	default:
		return p.parseChain()
	}
}

// parseChain parses a primary followed by zero or more `.member` /
// `.member(args)` links, and a direct call `primary(args)` when the
// primary itself denotes a function value.
func (p *Parser) parseChain() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	if p.check(lexer.LEFT_PAREN) {
		expr = p.parseCallArgs(expr)
		if expr == nil {
			return nil
		}
	}

	var links []*ast.ChainLink
	dotTok := p.cur()
	for p.check(lexer.DOT) {
		p.advance()
		memberTok, ok := p.expect(lexer.IDENTIFIER, "member name")
		if !ok {
			return nil
		}
		link := &ast.ChainLink{Token: memberTok, Member: memberTok.Lexeme}
		if p.check(lexer.LEFT_PAREN) {
			p.advance()
			args, ok := p.parseArgList()
			if !ok {
				return nil
			}
			link.IsCall = true
			link.Arguments = args
		}
		links = append(links, link)
	}

	if len(links) == 0 {
		return expr
	}
	return &ast.Chained{Token: dotTok, Receiver: expr, Links: links}
}

// parseCallArgs wraps callee in a Call node using the argument list
// starting at the current '(' token.
func (p *Parser) parseCallArgs(callee ast.Expression) ast.Expression {
	paren := p.advance() // '('
	args, ok := p.parseArgList()
	if !ok {
		return nil
	}
	return &ast.Call{Token: paren, Callee: callee, Arguments: args}
}

// parseArgList parses a comma-separated expression list up to and
// including the closing ')'. The opening '(' must already be consumed.
func (p *Parser) parseArgList() ([]ast.Expression, bool) {
	var args []ast.Expression
	p.skipNewlines()
	if p.check(lexer.RIGHT_PAREN) {
		p.advance()
		return args, true
	}
	for {
		p.skipNewlines()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		p.skipNewlines()
		if p.match(lexer.COMMA) {
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RIGHT_PAREN, "closing )"); !ok {
		return nil, false
	}
	return args, true
}

// parsePrimary parses literals, grouping, composite literals, block/
// if-else expressions, and bare value references.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.BOOL:
		p.advance()
		return &ast.Literal{Token: tok, Raw: tok.Lexeme}
	case lexer.INTEGER_DEC, lexer.INTEGER_HEX, lexer.INTEGER_BIN, lexer.INTEGER_CHAR:
		p.advance()
		v, ok := parseIntLiteral(tok)
		lit := &ast.Literal{Token: tok, Raw: tok.Lexeme}
		if ok {
			lit.IntValue = &v
		}
		return lit
	case lexer.FLOAT:
		p.advance()
		return &ast.Literal{Token: tok, Raw: tok.Lexeme}
	case lexer.LEFT_PAREN:
		p.advance()
		p.skipNewlines()
		inner := p.parseExpression(LOWEST)
		if inner == nil {
			return nil
		}
		p.skipNewlines()
		if p.checkTypeStart() {
			target := p.parseTypeRef()
			if target == nil {
				return nil
			}
			p.skipNewlines()
			if _, ok := p.expect(lexer.RIGHT_PAREN, "closing )"); !ok {
				return nil
			}
			return &ast.Cast{Token: tok, Value: inner, Target: target}
		}
		if _, ok := p.expect(lexer.RIGHT_PAREN, "closing )"); !ok {
			return nil
		}
		return &ast.Grouping{Token: tok, Inner: inner}
	case lexer.LEFT_BRACE:
		return p.parseCompositeLiteral()
	case lexer.QUESTION:
		return p.parseIfElse()
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.Value{Token: tok, Name: tok.Lexeme}
	default:
		p.errorf(tok, "expected an expression, found %s", tok.Type)
		return nil
	}
}

func (p *Parser) parseCompositeLiteral() ast.Expression {
	tok := p.advance() // '{'
	var elements []ast.Expression
	p.skipNewlines()
	if !p.check(lexer.RIGHT_BRACE) {
		for {
			p.skipNewlines()
			el := p.parseExpression(LOWEST)
			if el == nil {
				return nil
			}
			elements = append(elements, el)
			p.skipNewlines()
			if p.match(lexer.COMMA) {
				continue
			}
			break
		}
	}
	p.skipNewlines()
	if _, ok := p.expect(lexer.RIGHT_BRACE, "closing }"); !ok {
		return nil
	}
	return &ast.CompositeLiteral{Token: tok, Elements: elements}
}

// parseIfElse parses `? cond : then [: else]`. Each branch is a single
// statement wrapped in a Block so lowering shares the ordinary
// multi-statement block machinery; a second ':' after the then-branch
// introduces the else-branch, otherwise the conditional has none.
func (p *Parser) parseIfElse() ast.Expression {
	tok := p.advance() // '?'
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.COLON, "':' before if-else then-branch"); !ok {
		return nil
	}
	p.skipNewlines()
	then := p.parseBranchBlock()
	if then == nil {
		return nil
	}
	ie := &ast.IfElse{Token: tok, Condition: cond, Then: then}
	if p.match(lexer.COLON) {
		p.skipNewlines()
		els := p.parseBranchBlock()
		if els == nil {
			return nil
		}
		ie.Else = els
	}
	return ie
}

// parseBranchBlock parses a single statement as an if-else branch body.
func (p *Parser) parseBranchBlock() *ast.Block {
	tok := p.cur()
	stmt := p.parseStatement()
	if stmt == nil {
		return nil
	}
	return &ast.Block{Token: tok, Statements: []ast.Statement{stmt}}
}
