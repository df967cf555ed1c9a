// Package ast defines the Abstract Syntax Tree node types produced by the
// parser and annotated in place by the semantic analyzer.
package ast

import (
	"bytes"
	"strings"

	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// TokenLiteral returns the literal value of the token this node is
	// associated with.
	TokenLiteral() string

	// String returns a string representation of the node for debugging.
	String() string

	// Pos returns the node's source location for error reporting.
	Pos() lexer.Location
}

// Expression is any node that produces a value. Every expression carries a
// mutable ValueType slot the analyzer fills in; it is nil until analysis
// runs.
type Expression interface {
	Node
	expressionNode()
	GetType() *types.ValueType
	SetType(*types.ValueType)
}

// Statement is any node that performs an action rather than producing a
// value.
type Statement interface {
	Node
	statementNode()
}

// File is the root node produced by parsing a single source file: the
// three statement lists the module-assembly stage consumes (see
// internal/module), plus the module name this file declared via @module
// ("main" if it declared none).
type File struct {
	Path       string
	ModuleName string
	Header     []Statement // @import / @extern declarations
	Body       []Statement // definitions private to the module
	Exported   []Statement // definitions marked @export
}

func (f *File) TokenLiteral() string { return f.Path }
func (f *File) Pos() lexer.Location  { return lexer.Location{File: f.Path} }
func (f *File) String() string {
	var out bytes.Buffer
	for _, s := range f.Header {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	for _, s := range f.Body {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	for _, s := range f.Exported {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	return out.String()
}

// typedBase factors the mutable ValueType slot shared by every expression
// node so each concrete type only has to embed it.
type typedBase struct {
	Type *types.ValueType
}

func (b *typedBase) GetType() *types.ValueType { return b.Type }
func (b *typedBase) SetType(t *types.ValueType) { b.Type = t }

// ---- Expressions ------------------------------------------------------

// Literal is a scalar literal: bool, integer (any radix), float, or char.
type Literal struct {
	typedBase
	Token    lexer.Token
	Raw      string // lexeme, unparsed
	IntValue *int64 // set by the parser for integer/char literals
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) Pos() lexer.Location  { return l.Token.Loc }
func (l *Literal) String() string       { return l.Raw }

// LiteralInt implements types.CountExpr: it reports the literal's constant
// integer value so DATA count expressions can be compared for type
// equality once the analyzer has reduced them.
func (l *Literal) LiteralInt() (int64, bool) {
	if l.IntValue == nil {
		return 0, false
	}
	return *l.IntValue, true
}

// CompositeLiteral is a brace-delimited element list: `{ e0, e1, ... }`.
type CompositeLiteral struct {
	typedBase
	Token    lexer.Token // the '{' token
	Elements []Expression
}

func (c *CompositeLiteral) expressionNode()      {}
func (c *CompositeLiteral) TokenLiteral() string { return c.Token.Lexeme }
func (c *CompositeLiteral) Pos() lexer.Location  { return c.Token.Loc }
func (c *CompositeLiteral) String() string {
	parts := make([]string, len(c.Elements))
	for i, e := range c.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Grouping is a parenthesized expression: `(e)`.
type Grouping struct {
	typedBase
	Token lexer.Token // the '(' token
	Inner Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) Pos() lexer.Location  { return g.Token.Loc }
func (g *Grouping) String() string       { return "(" + g.Inner.String() + ")" }

// Unary is a prefix operator expression: -e, not e, ~e.
type Unary struct {
	typedBase
	Token    lexer.Token // the operator token
	Operator string
	Operand  Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Token.Lexeme }
func (u *Unary) Pos() lexer.Location  { return u.Token.Loc }
func (u *Unary) String() string {
	sep := ""
	if len(u.Operator) > 0 && isAlphaByte(u.Operator[0]) {
		sep = " "
	}
	return "(" + u.Operator + sep + u.Operand.String() + ")"
}

func isAlphaByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Binary is an infix operator expression.
type Binary struct {
	typedBase
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Token.Lexeme }
func (b *Binary) Pos() lexer.Location  { return b.Token.Loc }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// ChainLink is a single `.member` or `.member(args...)` step in a Chained
// expression.
type ChainLink struct {
	Token     lexer.Token // the member identifier token
	Member    string
	Arguments []Expression // nil unless this link is a call
	IsCall    bool
	Type      *types.ValueType // this link's own resolved type
}

// Chained is a dot-chain: receiver.member.member(args)...
type Chained struct {
	typedBase
	Token    lexer.Token // the first '.' token
	Receiver Expression
	Links    []*ChainLink
}

func (c *Chained) expressionNode()      {}
func (c *Chained) TokenLiteral() string { return c.Token.Lexeme }
func (c *Chained) Pos() lexer.Location  { return c.Token.Loc }
func (c *Chained) String() string {
	var out bytes.Buffer
	out.WriteString(c.Receiver.String())
	for _, l := range c.Links {
		out.WriteByte('.')
		out.WriteString(l.Member)
		if l.IsCall {
			args := make([]string, len(l.Arguments))
			for i, a := range l.Arguments {
				args[i] = a.String()
			}
			out.WriteByte('(')
			out.WriteString(strings.Join(args, ", "))
			out.WriteByte(')')
		}
	}
	return out.String()
}

// Cast is an explicit `(expr type)` conversion.
type Cast struct {
	typedBase
	Token  lexer.Token // the '(' token
	Value  Expression
	Target *types.ValueType
}

func (c *Cast) expressionNode()      {}
func (c *Cast) TokenLiteral() string { return c.Token.Lexeme }
func (c *Cast) Pos() lexer.Location  { return c.Token.Loc }
func (c *Cast) String() string       { return "(" + c.Value.String() + " " + c.Target.String() + ")" }

// Call is a direct function-value call: callee(args...).
type Call struct {
	typedBase
	Token     lexer.Token // the '(' token
	Callee    Expression
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Lexeme }
func (c *Call) Pos() lexer.Location  { return c.Token.Loc }
func (c *Call) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// Value is a bare identifier reference to a variable, function, or
// imported-module-qualified name.
type Value struct {
	typedBase
	Token lexer.Token
	Name  string
}

func (v *Value) expressionNode()      {}
func (v *Value) TokenLiteral() string { return v.Token.Lexeme }
func (v *Value) Pos() lexer.Location  { return v.Token.Loc }
func (v *Value) String() string       { return v.Name }

// IfElse is an expression-position conditional: `? cond : then [: else]`.
type IfElse struct {
	typedBase
	Token     lexer.Token // the '?' token
	Condition Expression
	Then      *Block
	Else      *Block // nil if there is no else branch
}

func (i *IfElse) expressionNode()      {}
func (i *IfElse) TokenLiteral() string { return i.Token.Lexeme }
func (i *IfElse) Pos() lexer.Location  { return i.Token.Loc }
func (i *IfElse) String() string {
	s := "? " + i.Condition.String() + " : " + i.Then.String()
	if i.Else != nil {
		s += " : " + i.Else.String()
	}
	return s
}

// Block is a statement sequence (a ':'-opened, ';'-closed function or
// repeat body, or a single-statement if/else branch) used both as a
// statement and, via IfElse/Function bodies, in expression position (its
// value is that of its trailing EXPRESSION statement, if any).
type Block struct {
	typedBase
	Token      lexer.Token // the token the block starts at
	Statements []Statement
}

func (b *Block) expressionNode()      {}
func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }
func (b *Block) Pos() lexer.Location  { return b.Token.Loc }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// None is the typed absence of a value, produced where the grammar allows
// an empty expression position (e.g. a bare `ret`).
type None struct {
	typedBase
	Token lexer.Token
}

func (n *None) expressionNode()      {}
func (n *None) TokenLiteral() string { return n.Token.Lexeme }
func (n *None) Pos() lexer.Location  { return n.Token.Loc }
func (n *None) String() string       { return "" }
