package builder

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/types"
)

// lowerBlock lowers each statement of block in sequence, returning the
// block execution should continue in afterward (a statement that opens
// new blocks, such as return/repeat/if-else, advances cur to the block
// that follows it).
func (b *ModuleBuilder) lowerBlock(fn *ir.Func, cur *ir.Block, block *ast.Block, expectedReturn *types.ValueType) *ir.Block {
	b.scope.Push()
	defer b.scope.Pop()

	for _, stmt := range block.Statements {
		cur = b.lowerStatement(fn, cur, stmt, expectedReturn)
	}
	return cur
}

func (b *ModuleBuilder) lowerStatement(fn *ir.Func, cur *ir.Block, stmt ast.Statement, expectedReturn *types.ValueType) *ir.Block {
	switch s := stmt.(type) {
	case *ast.VariableDef:
		return b.lowerLocalVariableDef(fn, cur, s)
	case *ast.Assignment:
		return b.lowerAssignment(fn, cur, s)
	case *ast.Return:
		return b.lowerReturn(fn, cur, s, expectedReturn)
	case *ast.Repeat:
		return b.lowerRepeat(fn, cur, s)
	case *ast.Block:
		return b.lowerBlock(fn, cur, s, expectedReturn)
	case *ast.ExpressionStatement:
		if s.Expression == nil {
			return cur
		}
		_, next := b.lowerExpr(fn, cur, s.Expression)
		return next
	default:
		b.errs.Add(errors.Builder(stmt.Pos(), "unsupported statement shape %T", stmt))
		return cur
	}
}

// lowerLocalVariableDef allocates storage for a fresh local on the
// function's entry block, then falls through to the same assignment
// machinery every store uses.
func (b *ModuleBuilder) lowerLocalVariableDef(fn *ir.Func, cur *ir.Block, v *ast.VariableDef) *ir.Block {
	vt := v.Type
	irType := b.lowerType(vt)
	alloca := entryAlloca(fn, irType, v.Name)
	b.scope.DefineVariable(v.Name, &binding{vt: vt, irType: irType, ptr: alloca})

	if v.Init == nil {
		return cur
	}
	return b.storeInto(fn, cur, alloca, vt, v.Init)
}

func (b *ModuleBuilder) lowerAssignment(fn *ir.Func, cur *ir.Block, asn *ast.Assignment) *ir.Block {
	ptr, vt, next := b.addressOf(fn, cur, asn.Target)
	if ptr == nil {
		return next
	}
	return b.storeInto(fn, next, ptr, vt, asn.Value)
}

// lowerReturn builds the return expression and emits ret (or ret void for
// NONE), then opens a fresh block so any statement lowered after an
// unreachable return still has somewhere to attach its IR without the
// builder itself failing.
func (b *ModuleBuilder) lowerReturn(fn *ir.Func, cur *ir.Block, r *ast.Return, expectedReturn *types.ValueType) *ir.Block {
	if r.Value == nil {
		cur.NewRet(nil)
	} else {
		v, next := b.lowerExpr(fn, cur, r.Value)
		cur = next
		cur.NewRet(v)
	}
	return fn.NewBlock(fmt.Sprintf("after.ret.%d", len(fn.Blocks)))
}

// lowerRepeat lowers the four-clause loop header `[initStmt] [, preCond]
// [, postStmt] [, postCond] : body`. Init runs once, in cur, before the
// loop's own blocks open. Each iteration then: checks PreCond (if absent,
// falls straight through to body); runs body; runs Post; checks PostCond
// (if absent, loops back to the PreCond check unconditionally). The stack
// pointer is saved once at loop entry and restored at the top of every
// body iteration, so allocations inside the body do not accumulate across
// iterations.
func (b *ModuleBuilder) lowerRepeat(fn *ir.Func, cur *ir.Block, r *ast.Repeat) *ir.Block {
	b.scope.Push()
	defer b.scope.Pop()

	if r.Init != nil {
		cur = b.lowerStatement(fn, cur, r.Init, nil)
	}

	pre := fn.NewBlock(fmt.Sprintf("repeat.pre.%d", len(fn.Blocks)))
	body := fn.NewBlock(fmt.Sprintf("repeat.body.%d", len(fn.Blocks)))
	after := fn.NewBlock(fmt.Sprintf("repeat.after.%d", len(fn.Blocks)))

	stackPtr := cur.NewCall(b.stacksave())
	cur.NewBr(pre)

	if r.PreCond != nil {
		cond, preEnd := b.lowerExpr(fn, pre, r.PreCond)
		preEnd.NewCondBr(cond, body, after)
	} else {
		pre.NewBr(body)
	}

	body.NewCall(b.stackrestore(), stackPtr)
	bodyEnd := b.lowerBlock(fn, body, r.Body, nil)

	if r.Post != nil {
		bodyEnd = b.lowerStatement(fn, bodyEnd, r.Post, nil)
	}

	if r.PostCond != nil {
		cond, postEnd := b.lowerExpr(fn, bodyEnd, r.PostCond)
		postEnd.NewCondBr(cond, pre, after)
	} else {
		bodyEnd.NewBr(pre)
	}

	return after
}

// stacksave/stackrestore are declared lazily as external intrinsics the
// first time a repeat loop needs them.
func (b *ModuleBuilder) stacksave() *ir.Func {
	if bound, ok := b.scope.ResolveFunction("llvm.stacksave"); ok {
		return bound.value.(*ir.Func)
	}
	fn := b.irMod.NewFunc("llvm.stacksave", lltypes.NewPointer(lltypes.I8))
	b.scope.DefineFunction("llvm.stacksave", &binding{value: fn})
	return fn
}

func (b *ModuleBuilder) stackrestore() *ir.Func {
	if bound, ok := b.scope.ResolveFunction("llvm.stackrestore"); ok {
		return bound.value.(*ir.Func)
	}
	fn := b.irMod.NewFunc("llvm.stackrestore", lltypes.Void, ir.NewParam("ptr", lltypes.NewPointer(lltypes.I8)))
	b.scope.DefineFunction("llvm.stackrestore", &binding{value: fn})
	return fn
}

// storeInto lowers the assignment machinery, split by the target type:
// scalar is a simple store; array copies a composite literal
// element-by-element bounded by min(source, target) length and stores
// any other source as one whole value; struct stores element-by-element for a
// composite literal or as a whole-value store otherwise; pointer coerces
// a single-element composite literal's int to a pointer, otherwise stores
// directly.
func (b *ModuleBuilder) storeInto(fn *ir.Func, cur *ir.Block, ptr value.Value, vt *types.ValueType, src ast.Expression) *ir.Block {
	switch vt.Kind {
	case types.DATA:
		return b.storeArray(fn, cur, ptr, vt, src)
	case types.BLOB:
		return b.storeBlob(fn, cur, ptr, vt, src)
	case types.PTR:
		return b.storePointer(fn, cur, ptr, vt, src)
	default:
		v, next := b.lowerExpr(fn, cur, src)
		next.NewStore(v, ptr)
		return next
	}
}

// storeArray copies a composite-literal source element-by-element,
// bounded by min(source element count, target element count). A VALUE,
// CALL, or CHAINED source is lowered and stored as one whole array
// value; it is not copied element by element and no min bound applies.
func (b *ModuleBuilder) storeArray(fn *ir.Func, cur *ir.Block, ptr value.Value, vt *types.ValueType, src ast.Expression) *ir.Block {
	targetN := dataCount(vt)
	elemType := b.lowerType(vt.SubType)

	if lit, ok := src.(*ast.CompositeLiteral); ok {
		n := int64(len(lit.Elements))
		if n > targetN {
			n = targetN
		}
		for i := int64(0); i < n; i++ {
			v, next := b.lowerExpr(fn, cur, lit.Elements[i])
			cur = next
			elemPtr := cur.NewGetElementPtr(b.lowerType(vt), ptr, constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, i))
			cur.NewStore(v, elemPtr)
		}
		return cur
	}

	srcVal, next := b.lowerExpr(fn, cur, src)
	cur = next
	cur.NewStore(srcVal, ptr)
	_ = elemType
	return cur
}

func (b *ModuleBuilder) storeBlob(fn *ir.Func, cur *ir.Block, ptr value.Value, vt *types.ValueType, src ast.Expression) *ir.Block {
	if lit, ok := src.(*ast.CompositeLiteral); ok {
		info, ok := b.structs[vt.BlobName]
		if !ok {
			b.errs.Add(errors.Builder(src.Pos(), "unknown blob %q", vt.BlobName))
			return cur
		}
		for i, el := range lit.Elements {
			v, next := b.lowerExpr(fn, cur, el)
			cur = next
			fieldPtr := cur.NewGetElementPtr(info.irType, ptr, constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(i)))
			cur.NewStore(v, fieldPtr)
		}
		return cur
	}
	v, next := b.lowerExpr(fn, cur, src)
	cur = next
	cur.NewStore(v, ptr)
	return cur
}

// storePointer coerces a single-element composite literal's unsigned
// integer to a pointer via inttoptr; any other source stores directly.
func (b *ModuleBuilder) storePointer(fn *ir.Func, cur *ir.Block, ptr value.Value, vt *types.ValueType, src ast.Expression) *ir.Block {
	if lit, ok := src.(*ast.CompositeLiteral); ok && len(lit.Elements) == 1 {
		v, next := b.lowerExpr(fn, cur, lit.Elements[0])
		cur = next
		asPtr := cur.NewIntToPtr(v, b.lowerType(vt))
		cur.NewStore(asPtr, ptr)
		return cur
	}
	v, next := b.lowerExpr(fn, cur, src)
	cur = next
	cur.NewStore(v, ptr)
	return cur
}
