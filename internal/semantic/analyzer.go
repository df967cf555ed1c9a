// Package semantic performs type inference, implicit-cast insertion, and
// name resolution over an assembled module, annotating each expression's
// ValueType field in place.
package semantic

import (
	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/module"
	"github.com/brc-lang/brc/internal/types"
)

// Analyzer walks one module's statement lists, resolving names against a
// Scope stack and propagating ValueTypes bottom-up through expressions.
type Analyzer struct {
	store   *module.Store
	mod     *module.Module
	scope   *Scope
	errs    errors.List
	imports []string // this module's own imports, for cross-module blob qualification
}

// AnalyzeStore analyzes every module in store, returning the combined
// diagnostics from all of them. Modules are analyzed independently; BRC
// has no whole-program type inference that spans module boundaries beyond
// the declarations each module's Header already carries.
func AnalyzeStore(store *module.Store) *errors.List {
	var all errors.List
	for _, mod := range store.Modules() {
		a := newAnalyzer(store, mod)
		a.Run()
		for _, e := range a.errs.Errors() {
			all.Add(e)
		}
	}
	return &all
}

func newAnalyzer(store *module.Store, mod *module.Module) *Analyzer {
	return &Analyzer{store: store, mod: mod, scope: NewScope(), imports: mod.Imports}
}

// Run analyzes the module's Header, Body, and Exported lists in that
// order: each imported module's exported blobs (under their qualified
// names) and the Header's extern/forward-declared names populate scope
// before Body and Exported definitions are type-checked. Imported
// functions and variables are not registered.
func (a *Analyzer) Run() {
	for _, imp := range a.imports {
		if m := a.store.Lookup(imp); m != nil {
			a.collectBlobs(m.Exported)
		}
	}
	a.collectBlobs(a.mod.Header)
	a.collectBlobs(a.mod.Body)
	a.collectBlobs(a.mod.Exported)

	a.collectSignatures(a.mod.Header)
	a.collectSignatures(a.mod.Body)
	a.collectSignatures(a.mod.Exported)

	for _, stmt := range a.mod.Header {
		a.analyzeHeaderStatement(stmt)
	}
	for _, stmt := range a.mod.Body {
		a.analyzeTopLevelStatement(stmt)
	}
	for _, stmt := range a.mod.Exported {
		a.analyzeTopLevelStatement(stmt)
	}
}

// collectBlobs performs a first pass registering every blob's member list
// so that forward references (a blob field naming another blob defined
// later in the same module) resolve correctly.
func (a *Analyzer) collectBlobs(stmts []ast.Statement) {
	for _, stmt := range stmts {
		if b, ok := stmt.(*ast.BlobDef); ok {
			members := make([]BlobMember, len(b.Members))
			for i, m := range b.Members {
				members[i] = BlobMember{Name: m.Name, Type: a.resolveImportedBlob(m.Type)}
			}
			a.scope.DefineBlob(b.Name, members)
		}
	}
}

// collectSignatures registers every function's FUN-kind type and every
// module-level variable's declared type, so calls and references
// anywhere in the module resolve regardless of definition order.
func (a *Analyzer) collectSignatures(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			a.scope.DefineFunction(s.Name, funType(s.Parameters, s.ReturnType))
		case *ast.FunctionDeclaration:
			a.scope.DefineFunction(s.Name, funType(s.Parameters, s.ReturnType))
		case *ast.RawFunctionDef:
			a.scope.DefineFunction(s.Name, funType(s.Parameters, s.ReturnType))
		case *ast.ExternFunctionDecl:
			a.scope.DefineFunction(s.Name, funType(s.Parameters, s.ReturnType))
		case *ast.VariableDeclaration:
			a.scope.DefineVariable(s.Name, s.Type)
		case *ast.VariableDef:
			a.scope.DefineVariable(s.Name, s.Type)
		case *ast.ExternVariableDecl:
			a.scope.DefineVariable(s.Name, s.Type)
		}
	}
}

func funType(params []ast.Param, ret *types.ValueType) *types.ValueType {
	args := make([]*types.ValueType, len(params))
	for i, p := range params {
		args[i] = p.Type
	}
	return types.Fun(args, ret)
}

// resolveImportedBlob rewrites a bare BLOB reference to the qualified
// name of a blob exported by one of this module's imports, leaving
// locally-defined blobs untouched.
func (a *Analyzer) resolveImportedBlob(vt *types.ValueType) *types.ValueType {
	return module.ResolveBlobType(vt, a.imports, a.store)
}

func (a *Analyzer) analyzeHeaderStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExternFunctionDecl:
		for i, p := range s.Parameters {
			s.Parameters[i].Type = a.resolveImportedBlob(p.Type)
		}
		s.ReturnType = a.resolveImportedBlob(s.ReturnType)
	case *ast.ExternVariableDecl:
		s.Type = a.resolveImportedBlob(s.Type)
	}
}

// analyzeTopLevelStatement type-checks one of a module's own Body or
// Exported statements: a blob definition, function definition, raw
// function definition, or global variable definition.
func (a *Analyzer) analyzeTopLevelStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlobDef:
		// Member types were already validated in collectBlobs.
	case *ast.FunctionDef:
		a.analyzeFunction(s)
	case *ast.RawFunctionDef:
		// Raw function bodies are opaque assembly text: nothing to
		// type-check beyond the signature, which collectSignatures
		// already registered.
	case *ast.VariableDef:
		a.analyzeGlobalVariableDef(s)
	}
}

func (a *Analyzer) analyzeGlobalVariableDef(v *ast.VariableDef) {
	if v.Init == nil {
		return
	}
	initType := a.analyzeExpression(v.Init)
	if initType == nil {
		return
	}
	a.checkAndTryCasting(&v.Init, initType, v.Type)
}

func (a *Analyzer) analyzeFunction(f *ast.FunctionDef) {
	a.scope.Push()
	defer a.scope.Pop()

	for _, p := range f.Parameters {
		a.scope.DefineVariable(p.Name, p.Type)
	}

	a.analyzeBlock(f.Body, f.ReturnType)
}

// analyzeBlock type-checks each statement in block in turn. expectedReturn
// is the enclosing function's declared return type, used to cast a
// trailing EXPRESSION statement or a ret's value to that type.
func (a *Analyzer) analyzeBlock(block *ast.Block, expectedReturn *types.ValueType) *types.ValueType {
	a.scope.Push()
	defer a.scope.Pop()

	var last *types.ValueType
	for i, stmt := range block.Statements {
		last = a.analyzeStatement(stmt, expectedReturn)
		if i == len(block.Statements)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok && expectedReturn != nil {
				a.checkAndTryCasting(&es.Expression, last, expectedReturn)
			}
		}
	}
	block.SetType(last)
	return last
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, expectedReturn *types.ValueType) *types.ValueType {
	switch s := stmt.(type) {
	case *ast.VariableDef:
		a.analyzeLocalVariableDef(s)
		return nil
	case *ast.Assignment:
		a.analyzeAssignment(s)
		return nil
	case *ast.Return:
		a.analyzeReturn(s, expectedReturn)
		return nil
	case *ast.Repeat:
		a.analyzeRepeat(s)
		return nil
	case *ast.Block:
		return a.analyzeBlock(s, expectedReturn)
	case *ast.ExpressionStatement:
		if s.Expression == nil {
			return nil
		}
		return a.analyzeExpression(s.Expression)
	default:
		a.errs.Add(errors.Semantic(stmt.Pos(), "unsupported statement shape %T", stmt))
		return nil
	}
}

// analyzeLocalVariableDef type-checks a local `name type [<- init]`
// definition: the initializer, if any, is cast to the declared type, and
// name is bound in the innermost scope frame. A bare `name <- value` is
// parsed as an Assignment, whose target must already resolve.
func (a *Analyzer) analyzeLocalVariableDef(v *ast.VariableDef) {
	if v.Init != nil {
		initType := a.analyzeExpression(v.Init)
		if initType != nil {
			a.checkAndTryCasting(&v.Init, initType, v.Type)
		}
	}
	a.scope.DefineVariable(v.Name, v.Type)
}

func (a *Analyzer) analyzeAssignment(asn *ast.Assignment) {
	targetType := a.analyzeExpression(asn.Target)
	valueType := a.analyzeExpression(asn.Value)
	if targetType == nil || valueType == nil {
		return
	}
	a.checkAndTryCasting(&asn.Value, valueType, targetType)
}

func (a *Analyzer) analyzeReturn(r *ast.Return, expectedReturn *types.ValueType) {
	if r.Value == nil {
		if expectedReturn != nil && expectedReturn.Kind != types.NONE {
			a.errs.Add(errors.Semantic(r.Pos(), "bare 'ret' in a function declared to return %s", expectedReturn))
		}
		return
	}
	valueType := a.analyzeExpression(r.Value)
	if valueType == nil || expectedReturn == nil {
		return
	}
	a.checkAndTryCasting(&r.Value, valueType, expectedReturn)
}

// analyzeRepeat type-checks a repeat loop's four optional clauses. Init's
// binding (if any) must be visible to PreCond, Post, PostCond, and Body, so
// all of them share one pushed scope — matching a C-style for-loop.
func (a *Analyzer) analyzeRepeat(r *ast.Repeat) {
	a.scope.Push()
	defer a.scope.Pop()

	if r.Init != nil {
		a.analyzeStatement(r.Init, nil)
	}
	if r.PreCond != nil {
		condType := a.analyzeExpression(r.PreCond)
		if condType != nil && !condType.IsBool() {
			a.errs.Add(errors.Semantic(r.PreCond.Pos(), "repeat pre-condition must be bool, found %s", condType))
		}
	}
	for _, stmt := range r.Body.Statements {
		a.analyzeStatement(stmt, nil)
	}
	if r.Post != nil {
		a.analyzeStatement(r.Post, nil)
	}
	if r.PostCond != nil {
		condType := a.analyzeExpression(r.PostCond)
		if condType != nil && !condType.IsBool() {
			a.errs.Add(errors.Semantic(r.PostCond.Pos(), "repeat post-condition must be bool, found %s", condType))
		}
	}
}

// checkAndTryCasting ensures *expr's type can cast to target, inserting a
// Cast node around *expr when the types differ but casting is legal, and
// recording a diagnostic when it is not. A composite literal is not
// wrapped: it takes target as its own type, and each element is cast to
// the corresponding blob member or data element type.
func (a *Analyzer) checkAndTryCasting(expr *ast.Expression, from, target *types.ValueType) {
	if from == nil || target == nil || from.Equal(target) {
		return
	}
	if !canCast(from, target, a.scope) {
		a.errs.Add(errors.Semantic((*expr).Pos(), "cannot cast %s to %s", from, target))
		return
	}
	if lit, ok := (*expr).(*ast.CompositeLiteral); ok {
		members, _ := a.scope.Blob(target.BlobName)
		for i := range lit.Elements {
			switch target.Kind {
			case types.BLOB:
				a.checkAndTryCasting(&lit.Elements[i], lit.Elements[i].GetType(), members[i].Type)
			case types.DATA:
				a.checkAndTryCasting(&lit.Elements[i], lit.Elements[i].GetType(), target.SubType)
			}
		}
		lit.SetType(target)
		return
	}
	*expr = &ast.Cast{Token: tokenAt(*expr), Value: *expr, Target: target}
	(*expr).SetType(target)
}

func tokenAt(expr ast.Expression) lexer.Token {
	return lexer.Token{Lexeme: expr.TokenLiteral(), Loc: expr.Pos()}
}
