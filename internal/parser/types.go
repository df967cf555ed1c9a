package parser

import (
	"strconv"
	"strings"

	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

// isTypeStartToken reports whether t can open a type reference: a
// primitive TYPE keyword, a blob name (IDENTIFIER), `ptr`, or `data`.
func isTypeStartToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TYPE, lexer.PTR, lexer.DATA, lexer.IDENTIFIER:
		return true
	default:
		return false
	}
}

// checkTypeStart reports whether the current token can open a type
// reference, used to tell a cast target `(expr type)` apart from a plain
// grouping `(expr)` once the inner expression has been parsed.
func (p *Parser) checkTypeStart() bool { return isTypeStartToken(p.cur().Type) }

// peekStartsType reports whether the token n ahead can open a type
// reference.
func (p *Parser) peekStartsType(n int) bool { return isTypeStartToken(p.peek(n).Type) }

// peekStartsParam reports whether the token n ahead begins a `name type`
// parameter pair: an identifier immediately followed by a type reference.
// Used to tell a function's argument-list colon apart from its
// body-opening colon when no arguments are given.
func (p *Parser) peekStartsParam(n int) bool {
	return p.peek(n).Type == lexer.IDENTIFIER && isTypeStartToken(p.peek(n+1).Type)
}

// parseTypeRef parses a single type reference: a primitive TYPE keyword, a
// blob name (IDENTIFIER, optionally module-qualified as `module.name`),
// `data[count]type`, or `ptr type`. FUN and COMPOSITE types never appear
// in source-level type annotations — FUN only arises from a function
// name's own signature, and COMPOSITE only from a brace literal before
// the analyzer promotes it.
func (p *Parser) parseTypeRef() *types.ValueType {
	tok := p.cur()
	switch tok.Type {
	case lexer.TYPE:
		p.advance()
		vt, ok := types.PrimitiveByName(tok.Lexeme)
		if !ok {
			p.errorf(tok, "unknown primitive type %q", tok.Lexeme)
			return nil
		}
		return vt
	case lexer.IDENTIFIER:
		p.advance()
		name := tok.Lexeme
		for p.check(lexer.DOT) && p.peek(1).Type == lexer.IDENTIFIER {
			p.advance() // '.'
			name += "." + p.advance().Lexeme
		}
		return types.Blob(name)
	case lexer.PTR:
		p.advance()
		sub := p.parseTypeRef()
		if sub == nil {
			return nil
		}
		return types.Ptr(sub)
	case lexer.DATA:
		p.advance()
		if _, ok := p.expect(lexer.LEFT_BRACKET, "array count"); !ok {
			return nil
		}
		count := p.parseExpression(LOWEST)
		if count == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RIGHT_BRACKET, "closing ]"); !ok {
			return nil
		}
		sub := p.parseTypeRef()
		if sub == nil {
			return nil
		}
		countable, ok := count.(types.CountExpr)
		if !ok {
			p.errorf(tok, "array count must be an integer-literal expression")
			return nil
		}
		return types.Data(sub, countable)
	default:
		p.errorf(tok, "expected a type, found %s", tok.Type)
		return nil
	}
}

// parseIntLiteral parses an INTEGER_DEC/HEX/BIN/CHAR token's lexeme into
// its constant value, stripping the underscore digit-group separators the
// lexer preserves verbatim.
func parseIntLiteral(tok lexer.Token) (int64, bool) {
	clean := strings.ReplaceAll(tok.Lexeme, "_", "")
	switch tok.Type {
	case lexer.INTEGER_DEC:
		v, err := strconv.ParseUint(clean, 10, 64)
		if err != nil {
			return 0, false
		}
		return int64(v), true
	case lexer.INTEGER_HEX:
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X"), 16, 64)
		if err != nil {
			return 0, false
		}
		return int64(v), true
	case lexer.INTEGER_BIN:
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(clean, "0b"), "0B"), 2, 64)
		if err != nil {
			return 0, false
		}
		return int64(v), true
	case lexer.INTEGER_CHAR:
		if len(clean) == 0 {
			return 0, false
		}
		if clean[0] == '\\' && len(clean) >= 2 {
			return int64(escapeByte(clean[1])), true
		}
		return int64(clean[0]), true
	default:
		return 0, false
	}
}

func escapeByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}
