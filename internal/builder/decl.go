package builder

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/types"
)

// registerBlobTypes pre-registers every blob's struct type and member
// order before any declaration or definition is lowered, so a field's
// type may itself reference a blob defined later in the same module.
func (b *ModuleBuilder) registerBlobTypes(stmts []ast.Statement) {
	for _, stmt := range stmts {
		blob, ok := stmt.(*ast.BlobDef)
		if !ok {
			continue
		}
		fields := make([]lltypes.Type, len(blob.Members))
		names := make([]string, len(blob.Members))
		for i, m := range blob.Members {
			fields[i] = b.lowerType(m.Type)
			names[i] = m.Name
		}
		info, exists := b.structs[blob.Name]
		if !exists {
			info = &structInfo{irType: lltypes.NewStruct()}
			b.structs[blob.Name] = info
		}
		info.irType.Fields = fields
		info.irType.TypeName = blob.Name
		info.members = names
	}
}

func (b *ModuleBuilder) lowerHeaderStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDeclaration:
		b.declareFunction(s.Name, s.Parameters, s.ReturnType, false)
	case *ast.ExternFunctionDecl:
		b.declareFunction(s.Name, s.Parameters, s.ReturnType, true)
	case *ast.VariableDeclaration:
		b.declareGlobal(s.Name, s.Type, false)
	case *ast.ExternVariableDecl:
		b.declareGlobal(s.Name, s.Type, true)
	case *ast.BlobDeclaration:
		// Struct type already registered by registerBlobTypes.
	}
}

// declareFunction emits a function declaration: external linkage and no
// body for an @extern signature, internal linkage otherwise (including
// the Header declarations assembly synthesizes for exported functions) — the body, if any, is filled in later when
// lowerTopLevelStatement reaches the matching FunctionDef.
func (b *ModuleBuilder) declareFunction(name string, params []ast.Param, ret *types.ValueType, extern bool) {
	if _, ok := b.scope.ResolveFunction(name); ok {
		return
	}
	irParams := make([]*ir.Param, len(params))
	for i, p := range params {
		irParams[i] = ir.NewParam(p.Name, b.lowerType(p.Type))
	}
	symbol := name
	if !extern {
		symbol = b.qualifiedName(name)
	}
	fn := b.irMod.NewFunc(symbol, b.lowerType(ret), irParams...)
	if extern {
		fn.Linkage = enum.LinkageExternal
	} else {
		fn.Linkage = enum.LinkageInternal
	}
	b.scope.DefineFunction(name, &binding{
		vt:     types.Fun(paramTypes(params), ret),
		irType: fn.Sig,
		value:  fn,
	})
}

func paramTypes(params []ast.Param) []*types.ValueType {
	out := make([]*types.ValueType, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// declareGlobal emits a global variable with a null/zero initializer:
// external linkage for @extern, internal otherwise. The definition pass
// (analyzeGlobalVariableDef's IR counterpart) later overwrites Init with
// the compile-time constant form of the initializer, if present.
func (b *ModuleBuilder) declareGlobal(name string, vt *types.ValueType, extern bool) {
	if _, ok := b.scope.ResolveVariable(name); ok {
		return
	}
	irType := b.lowerType(vt)
	symbol := name
	if !extern {
		symbol = b.qualifiedName(name)
	}
	g := b.irMod.NewGlobalDef(symbol, constant.NewZeroInitializer(irType))
	if extern {
		g.Linkage = enum.LinkageExternal
	} else {
		g.Linkage = enum.LinkageInternal
	}
	b.scope.DefineVariable(name, &binding{vt: vt, irType: irType, ptr: g})
}

// lowerTopLevelStatement lowers one of a module's own Body or Exported
// definitions: a blob (already handled by registerBlobTypes), a function
// body, a raw (inline-asm) function, or a global variable's initializer.
func (b *ModuleBuilder) lowerTopLevelStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlobDef:
		// No IR of its own: its struct type was registered up front.
	case *ast.FunctionDef:
		b.lowerFunctionDef(s)
	case *ast.RawFunctionDef:
		b.lowerRawFunctionDef(s)
	case *ast.VariableDef:
		b.lowerGlobalVariableDef(s)
	}
}

func (b *ModuleBuilder) lowerFunctionDef(f *ast.FunctionDef) {
	fnBinding, ok := b.scope.ResolveFunction(f.Name)
	if !ok {
		// No Header declaration: assembly forward-declares only exported
		// functions, so every non-exported one is declared here, giving
		// the body somewhere to land.
		b.declareFunction(f.Name, f.Parameters, f.ReturnType, false)
		fnBinding, _ = b.scope.ResolveFunction(f.Name)
	}
	fn := fnBinding.value.(*ir.Func)
	entry := fn.NewBlock("entry")

	b.scope.Push()
	defer b.scope.Pop()

	for i, p := range f.Parameters {
		param := fn.Params[i]
		alloca := entry.NewAlloca(param.Typ)
		alloca.LocalName = p.Name + ".addr"
		entry.NewStore(param, alloca)
		b.scope.DefineVariable(p.Name, &binding{vt: p.Type, irType: param.Typ, ptr: alloca})
	}

	cur := entry
	final := b.lowerBlock(fn, cur, f.Body, f.ReturnType)
	if final.Term == nil {
		if f.ReturnType.Kind == types.NONE {
			final.NewRet(nil)
		} else {
			final.NewRet(constant.NewZeroInitializer(b.lowerType(f.ReturnType)))
		}
	}

	if errs := verifyFunction(fn); len(errs) > 0 {
		for _, msg := range errs {
			b.errs.Add(errors.Verification(b.mod.Name, "%s: %s", f.Name, msg))
		}
	}
}

// lowerRawFunctionDef emits an inline-assembly value under the function's
// name: a FunctionType built from the declared signature, dialect Intel,
// with side-effect and non-alignstack set, matching raw functions'
// role as opaque machine-code bodies the builder never type-checks.
func (b *ModuleBuilder) lowerRawFunctionDef(f *ast.RawFunctionDef) {
	irParams := make([]lltypes.Type, len(f.Parameters))
	for i, p := range f.Parameters {
		irParams[i] = b.lowerType(p.Type)
	}
	fnType := lltypes.NewFunc(b.lowerType(f.ReturnType), irParams...)
	asm := &ir.InlineAsm{
		Typ:        lltypes.NewPointer(fnType),
		Asm:        f.Assembly,
		Constraint: f.Constraints,
		SideEffect: true,
		AlignStack: false,
		Dialect:    enum.DialectIntel,
	}
	b.scope.DefineFunction(f.Name, &binding{
		vt:     types.Fun(paramTypes(f.Parameters), f.ReturnType),
		irType: fnType,
		value:  asm,
	})
}

// lowerGlobalVariableDef finds the global (declaring it here when it has
// no Header declaration, as every non-exported global does) and attaches
// its initializer: a compile-time Constant when one was given (refusing a
// non-constant initializer is a builder error; it means the analyzer let
// through an expression the global-initializer rule does not), or a zero
// value otherwise. A second definition of the same name is not detected:
// its initializer replaces the first one's.
func (b *ModuleBuilder) lowerGlobalVariableDef(v *ast.VariableDef) {
	bound, ok := b.scope.ResolveVariable(v.Name)
	if !ok {
		b.declareGlobal(v.Name, v.Type, false)
		bound, _ = b.scope.ResolveVariable(v.Name)
	}
	g := bound.ptr.(*ir.Global)
	if v.Init == nil {
		return
	}
	c, ok := b.constantOf(v.Init)
	if !ok {
		b.errs.Add(errors.Builder(v.Init.Pos(), "initializer for global %q is not a compile-time constant", v.Name))
		return
	}
	g.Init = c
}
