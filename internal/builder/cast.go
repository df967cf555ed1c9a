package builder

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

func (b *ModuleBuilder) lowerCast(fn *ir.Func, cur *ir.Block, c *ast.Cast) (value.Value, *ir.Block) {
	from := c.Value.GetType()
	if from.Kind == types.DATA && c.Target.Kind == types.DATA {
		return b.castArray(fn, cur, c.Value, from, c.Target)
	}
	v, next := b.lowerExpr(fn, cur, c.Value)
	cur = next
	return b.castValue(cur, v, from, c.Target), cur
}

// castArray lowers DATA(A,nA) -> DATA(B,nB): allocate the target array and
// copy min(nA, nB) elements, recasting each element when the sub-types
// differ (an identical sub-type is a plain load/store).
func (b *ModuleBuilder) castArray(fn *ir.Func, cur *ir.Block, src ast.Expression, from, to *types.ValueType) (value.Value, *ir.Block) {
	srcVal, next := b.lowerExpr(fn, cur, src)
	cur = next

	srcType := b.lowerType(from)
	dstType := b.lowerType(to)

	srcAlloca := entryAlloca(fn, srcType, "cast.src")
	cur.NewStore(srcVal, srcAlloca)
	dstAlloca := entryAlloca(fn, dstType, "cast.dst")

	n := dataCount(from)
	if m := dataCount(to); m < n {
		n = m
	}
	for i := int64(0); i < n; i++ {
		idx := constant.NewInt(lltypes.I32, i)
		srcElemPtr := cur.NewGetElementPtr(srcType, srcAlloca, constant.NewInt(lltypes.I32, 0), idx)
		dstElemPtr := cur.NewGetElementPtr(dstType, dstAlloca, constant.NewInt(lltypes.I32, 0), idx)
		elem := cur.NewLoad(b.lowerType(from.SubType), srcElemPtr)
		var casted value.Value = elem
		if !from.SubType.Equal(to.SubType) {
			casted = b.castValue(cur, elem, from.SubType, to.SubType)
		}
		cur.NewStore(casted, dstElemPtr)
	}
	return cur.NewLoad(dstType, dstAlloca), cur
}

// castValue selects a lowering by (source, target) category per the width
// classes {8, 32, 64, pointerWidth}. DATA-to-DATA casts are handled
// separately by castArray since they need a destination allocation.
func (b *ModuleBuilder) castValue(cur *ir.Block, v value.Value, from, to *types.ValueType) value.Value {
	targetType := b.lowerType(to)

	switch {
	case from.Equal(to):
		return v

	case from.IsUnsignedInteger() && to.IsUnsignedInteger(), from.IsBool() && to.IsUnsignedInteger():
		return widthCast(cur, v, targetType, from.Width(), to.Width(), false)

	case from.IsSignedInteger() && to.IsSignedInteger():
		return widthCast(cur, v, targetType, from.Width(), to.Width(), true)

	case from.IsSignedInteger() && to.IsUnsignedInteger():
		zero := constant.NewInt(v.Type().(*lltypes.IntType), 0)
		isNeg := cur.NewICmp(enum.IPredSLT, v, zero)
		clamped := cur.NewSelect(isNeg, constant.NewInt(v.Type().(*lltypes.IntType), 0), v)
		return widthCast(cur, clamped, targetType, from.Width(), to.Width(), false)

	case from.IsUnsignedInteger() && to.IsSignedInteger():
		return widthCast(cur, v, targetType, from.Width(), to.Width(), false)

	case (from.IsUnsignedInteger() || from.IsBool()) && to.IsFloat():
		return cur.NewUIToFP(v, targetType)

	case from.IsSignedInteger() && to.IsFloat():
		return cur.NewSIToFP(v, targetType)

	case from.IsFloat() && to.IsFloat():
		if to.Width() > from.Width() {
			return cur.NewFPExt(v, targetType)
		}
		if to.Width() < from.Width() {
			return cur.NewFPTrunc(v, targetType)
		}
		return v

	case from.IsFloat() && to.IsUnsignedInteger():
		return cur.NewFPToUI(v, targetType)

	case from.IsFloat() && to.IsSignedInteger():
		return cur.NewFPToSI(v, targetType)

	case from.IsBool() && to.IsSignedInteger():
		return cur.NewZExt(v, targetType)

	case from.IsPointer() && to.IsPointer():
		return v

	case from.IsPointer() && to.IsInteger():
		return cur.NewPtrToInt(v, targetType)

	case from.IsInteger() && to.IsPointer():
		return cur.NewIntToPtr(v, targetType)

	default:
		b.errs.Add(errors.Builder(lexer.Location{}, "unsupported cast from %s to %s", from, to))
		return v
	}
}

// widthCast picks zext/trunc (or sext/trunc when signed) by comparing bit
// widths; equal widths need no instruction at all.
func widthCast(cur *ir.Block, v value.Value, target lltypes.Type, fromWidth, toWidth int, signed bool) value.Value {
	switch {
	case toWidth > fromWidth:
		if signed {
			return cur.NewSExt(v, target)
		}
		return cur.NewZExt(v, target)
	case toWidth < fromWidth:
		return cur.NewTrunc(v, target)
	default:
		return v
	}
}

// constantCast folds a cast applied to an already-constant operand, used
// by constantOf for global initializers and constant composite literals.
func (b *ModuleBuilder) constantCast(v constant.Constant, from, to *types.ValueType) (constant.Constant, bool) {
	targetType := b.lowerType(to)

	switch {
	case from.Equal(to):
		return v, true
	case from.IsUnsignedInteger() && to.IsUnsignedInteger(), from.IsBool() && to.IsUnsignedInteger():
		i := v.(*constant.Int)
		it := targetType.(*lltypes.IntType)
		if to.Width() > from.Width() {
			return constant.NewZExt(i, it), true
		}
		if to.Width() < from.Width() {
			return constant.NewTrunc(i, it), true
		}
		return i, true
	case from.IsSignedInteger() && to.IsSignedInteger():
		i := v.(*constant.Int)
		it := targetType.(*lltypes.IntType)
		if to.Width() > from.Width() {
			return constant.NewSExt(i, it), true
		}
		if to.Width() < from.Width() {
			return constant.NewTrunc(i, it), true
		}
		return i, true
	case (from.IsUnsignedInteger() || from.IsBool()) && to.IsFloat():
		return constant.NewUIToFP(v.(*constant.Int), targetType.(*lltypes.FloatType)), true
	case from.IsSignedInteger() && to.IsFloat():
		return constant.NewSIToFP(v.(*constant.Int), targetType.(*lltypes.FloatType)), true
	case from.IsFloat() && to.IsFloat():
		f := v.(*constant.Float)
		ft := targetType.(*lltypes.FloatType)
		if to.Width() > from.Width() {
			return constant.NewFPExt(f, ft), true
		}
		return constant.NewFPTrunc(f, ft), true
	case from.IsInteger() && to.IsPointer():
		return constant.NewIntToPtr(v.(*constant.Int), targetType.(*lltypes.PointerType)), true
	default:
		return nil, false
	}
}
