package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

// ModuleDecl records a file's `@module name` meta declaration.
type ModuleDecl struct {
	Token lexer.Token
	Name  string
}

func (m *ModuleDecl) statementNode()       {}
func (m *ModuleDecl) TokenLiteral() string { return m.Token.Lexeme }
func (m *ModuleDecl) Pos() lexer.Location  { return m.Token.Loc }
func (m *ModuleDecl) String() string       { return "@module " + m.Name }

// ImportDecl records a file's `@import name` meta declaration.
type ImportDecl struct {
	Token lexer.Token
	Name  string
}

func (i *ImportDecl) statementNode()       {}
func (i *ImportDecl) TokenLiteral() string { return i.Token.Lexeme }
func (i *ImportDecl) Pos() lexer.Location  { return i.Token.Loc }
func (i *ImportDecl) String() string       { return "@import " + i.Name }

// Param is a single name:type entry in a function signature.
type Param struct {
	Name string
	Type *types.ValueType
}

// ExternFunctionDecl declares an externally-defined function signature via
// `@extern name fun [: params] [-> ret]`.
type ExternFunctionDecl struct {
	Token      lexer.Token
	Name       string
	Parameters []Param
	ReturnType *types.ValueType
}

func (e *ExternFunctionDecl) statementNode()       {}
func (e *ExternFunctionDecl) TokenLiteral() string { return e.Token.Lexeme }
func (e *ExternFunctionDecl) Pos() lexer.Location  { return e.Token.Loc }
func (e *ExternFunctionDecl) String() string {
	parts := make([]string, len(e.Parameters))
	for i, p := range e.Parameters {
		parts[i] = p.Name + " " + p.Type.String()
	}
	s := "@extern " + e.Name + " fun"
	if len(parts) > 0 {
		s += ": " + strings.Join(parts, ", ")
	}
	return s + " -> " + e.ReturnType.String()
}

// ExternVariableDecl declares an externally-defined global via
// `@extern name type`.
type ExternVariableDecl struct {
	Token lexer.Token
	Name  string
	Type  *types.ValueType
}

func (e *ExternVariableDecl) statementNode()       {}
func (e *ExternVariableDecl) TokenLiteral() string { return e.Token.Lexeme }
func (e *ExternVariableDecl) Pos() lexer.Location  { return e.Token.Loc }
func (e *ExternVariableDecl) String() string {
	return "@extern " + e.Name + " " + e.Type.String()
}

// BlobMember is a single named field within a blob (record) definition.
type BlobMember struct {
	Name string
	Type *types.ValueType
}

// BlobDef is a full `name blob : member1 type1, ...` record definition.
type BlobDef struct {
	Token    lexer.Token
	Name     string
	Members  []BlobMember
	Exported bool
}

func (b *BlobDef) statementNode()       {}
func (b *BlobDef) TokenLiteral() string { return b.Token.Lexeme }
func (b *BlobDef) Pos() lexer.Location  { return b.Token.Loc }
func (b *BlobDef) String() string {
	parts := make([]string, len(b.Members))
	for i, m := range b.Members {
		parts[i] = m.Name + " " + m.Type.String()
	}
	return b.Name + " blob: " + strings.Join(parts, ", ")
}

// BlobDeclaration is the header-position forward declaration of a blob
// name, synthesized by module assembly for each exported blob.
type BlobDeclaration struct {
	Token lexer.Token
	Name  string
}

func (b *BlobDeclaration) statementNode()       {}
func (b *BlobDeclaration) TokenLiteral() string { return b.Token.Lexeme }
func (b *BlobDeclaration) Pos() lexer.Location  { return b.Token.Loc }
func (b *BlobDeclaration) String() string       { return b.Name + " blob" }

// VariableDef is a full `name type [← init]` global or local variable
// definition. The type is always explicit; only the initializer is
// optional.
type VariableDef struct {
	Token    lexer.Token
	Name     string
	Type     *types.ValueType
	Init     Expression
	Exported bool
	IsGlobal bool
}

func (v *VariableDef) statementNode()       {}
func (v *VariableDef) TokenLiteral() string { return v.Token.Lexeme }
func (v *VariableDef) Pos() lexer.Location  { return v.Token.Loc }
func (v *VariableDef) String() string {
	var out bytes.Buffer
	out.WriteString(v.Name)
	out.WriteByte(' ')
	out.WriteString(v.Type.String())
	if v.Init != nil {
		out.WriteString(" <- ")
		out.WriteString(v.Init.String())
	}
	return out.String()
}

// VariableDeclaration is the header-position forward declaration of a
// variable's name and type, synthesized by module assembly for exported
// globals.
type VariableDeclaration struct {
	Token lexer.Token
	Name  string
	Type  *types.ValueType
}

func (v *VariableDeclaration) statementNode()       {}
func (v *VariableDeclaration) TokenLiteral() string { return v.Token.Lexeme }
func (v *VariableDeclaration) Pos() lexer.Location  { return v.Token.Loc }
func (v *VariableDeclaration) String() string {
	return v.Name + " " + v.Type.String()
}

// FunctionDef is a full `name fun [: args] [→ retType] : body ;` function
// definition.
type FunctionDef struct {
	Token      lexer.Token
	Name       string
	Parameters []Param
	ReturnType *types.ValueType
	Body       *Block
	Exported   bool
}

func (f *FunctionDef) statementNode()       {}
func (f *FunctionDef) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionDef) Pos() lexer.Location  { return f.Token.Loc }
func (f *FunctionDef) String() string {
	return f.Name + " fun" + signatureSuffix(f.Parameters, f.ReturnType) + ": " + f.Body.String() + " ;"
}

// FunctionDeclaration is the header-position forward declaration of a
// function's signature, synthesized by module assembly for exported
// functions and raw functions.
type FunctionDeclaration struct {
	Token      lexer.Token
	Name       string
	Parameters []Param
	ReturnType *types.ValueType
}

func (f *FunctionDeclaration) statementNode()       {}
func (f *FunctionDeclaration) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionDeclaration) Pos() lexer.Location  { return f.Token.Loc }
func (f *FunctionDeclaration) String() string {
	return f.Name + " fun" + signatureSuffix(f.Parameters, f.ReturnType)
}

// RawFunctionDef is a `name raw "constraints" [: args] [→ retType] :
// rawAssemblyLines ;` definition: its body is opaque target assembly text
// passed straight through to the builder rather than a parsed Block.
type RawFunctionDef struct {
	Token       lexer.Token
	Name        string
	Parameters  []Param
	ReturnType  *types.ValueType
	Assembly    string
	Constraints string
	Exported    bool
}

func (r *RawFunctionDef) statementNode()       {}
func (r *RawFunctionDef) TokenLiteral() string { return r.Token.Lexeme }
func (r *RawFunctionDef) Pos() lexer.Location  { return r.Token.Loc }
func (r *RawFunctionDef) String() string {
	return r.Name + " raw " + strconv.Quote(r.Constraints) + signatureSuffix(r.Parameters, r.ReturnType) +
		": " + r.Assembly + " ;"
}

// signatureSuffix renders the shared `[: args] [-> retType]` tail used by
// FUNCTION, RAW_FUNCTION, and their @extern forward declarations.
func signatureSuffix(params []Param, ret *types.ValueType) string {
	var out bytes.Buffer
	if len(params) > 0 {
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = p.Name + " " + p.Type.String()
		}
		out.WriteString(": ")
		out.WriteString(strings.Join(parts, ", "))
	}
	if ret != nil && ret.Kind != types.NONE {
		out.WriteString(" -> ")
		out.WriteString(ret.String())
	}
	return out.String()
}

// Assignment is `target <- value`, where target is a Value or Chained
// expression naming an assignable location.
type Assignment struct {
	Token  lexer.Token // the '<-' token
	Target Expression
	Value  Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Lexeme }
func (a *Assignment) Pos() lexer.Location  { return a.Token.Loc }
func (a *Assignment) String() string {
	return a.Target.String() + " <- " + a.Value.String()
}

// Return is `ret` or `ret expr`.
type Return struct {
	Token lexer.Token
	Value Expression // nil for a bare `ret`
}

func (r *Return) statementNode()       {}
func (r *Return) TokenLiteral() string { return r.Token.Lexeme }
func (r *Return) Pos() lexer.Location  { return r.Token.Loc }
func (r *Return) String() string {
	if r.Value == nil {
		return "ret"
	}
	return "ret " + r.Value.String()
}

// Repeat is BRC's single loop form: `rep [initStmt] [, preCond] [, postStmt]
// [, postCond] : body ;`. Init runs once before the first iteration; each
// iteration checks PreCond (if present) before running Body, then runs Post
// (if present), then checks PostCond (if present) before looping back to
// the PreCond check. Any of the four clauses may be nil.
type Repeat struct {
	Token    lexer.Token
	Init     Statement
	PreCond  Expression
	Post     Statement
	PostCond Expression
	Body     *Block
}

func (r *Repeat) statementNode()       {}
func (r *Repeat) TokenLiteral() string { return r.Token.Lexeme }
func (r *Repeat) Pos() lexer.Location  { return r.Token.Loc }
func (r *Repeat) String() string {
	var out bytes.Buffer
	out.WriteString("rep ")
	wrote := false
	if r.Init != nil {
		out.WriteString(r.Init.String())
		wrote = true
	}
	if r.PreCond != nil {
		if wrote {
			out.WriteString(", ")
		}
		out.WriteString(r.PreCond.String())
		wrote = true
	}
	if r.Post != nil {
		if wrote {
			out.WriteString(", ")
		}
		out.WriteString(r.Post.String())
		wrote = true
	}
	if r.PostCond != nil {
		if wrote {
			out.WriteString(", ")
		}
		out.WriteString(r.PostCond.String())
	}
	out.WriteString(": ")
	out.WriteString(r.Body.String())
	out.WriteString(" ;")
	return out.String()
}

// ExpressionStatement wraps an expression used for its side effects (e.g.
// a bare call, or an if-else whose branch value is discarded).
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Lexeme }
func (e *ExpressionStatement) Pos() lexer.Location  { return e.Token.Loc }
func (e *ExpressionStatement) String() string {
	if e.Expression == nil {
		return ""
	}
	return e.Expression.String()
}
