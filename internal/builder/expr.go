package builder

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/types"
)

// lowerExpr lowers expr to an IR value, returning the block subsequent
// instructions should attach to (if/else and block expressions can open
// new blocks; everything else continues in the block its operands ended
// in).
func (b *ModuleBuilder) lowerExpr(fn *ir.Func, cur *ir.Block, expr ast.Expression) (value.Value, *ir.Block) {
	switch e := expr.(type) {
	case *ast.Literal:
		return b.lowerLiteral(e), cur
	case *ast.CompositeLiteral:
		return b.lowerCompositeLiteral(fn, cur, e)
	case *ast.Grouping:
		return b.lowerExpr(fn, cur, e.Inner)
	case *ast.Unary:
		return b.lowerUnary(fn, cur, e)
	case *ast.Binary:
		return b.lowerBinary(fn, cur, e)
	case *ast.Chained:
		return b.lowerChained(fn, cur, e)
	case *ast.Cast:
		return b.lowerCast(fn, cur, e)
	case *ast.Call:
		return b.lowerCall(fn, cur, e)
	case *ast.Value:
		return b.lowerValue(cur, e)
	case *ast.IfElse:
		return b.lowerIfElse(fn, cur, e)
	case *ast.Block:
		return b.lowerBlockExpr(fn, cur, e)
	case *ast.None:
		return nil, cur
	default:
		b.errs.Add(errors.Builder(expr.Pos(), "unsupported expression shape %T", expr))
		return nil, cur
	}
}

func (b *ModuleBuilder) lowerLiteral(l *ast.Literal) value.Value {
	vt := l.GetType()
	switch {
	case vt.IsBool():
		if l.Raw == "true" {
			return constant.NewInt(lltypes.I1, 1)
		}
		return constant.NewInt(lltypes.I1, 0)
	case vt.IsFloat():
		f, _ := strconv.ParseFloat(l.Raw, 64)
		return constant.NewFloat(b.lowerType(vt).(*lltypes.FloatType), f)
	default:
		n := int64(0)
		if l.IntValue != nil {
			n = *l.IntValue
		}
		return constant.NewInt(b.lowerType(vt).(*lltypes.IntType), n)
	}
}

// lowerCompositeLiteral attempts a constant form first (every element
// constant): ConstantArray/ConstantStruct, or an inttoptr constant of the
// single integer element for a pointer. Otherwise it allocas the
// composite's promoted type and assigns each element per storeInto.
func (b *ModuleBuilder) lowerCompositeLiteral(fn *ir.Func, cur *ir.Block, c *ast.CompositeLiteral) (value.Value, *ir.Block) {
	vt := c.GetType()
	if cst, ok := b.constantOf(c); ok {
		return cst, cur
	}

	irType := b.lowerType(vt)
	alloca := entryAlloca(fn, irType, "composite")
	cur = b.storeInto(fn, cur, alloca, vt, c)
	v := cur.NewLoad(irType, alloca)
	return v, cur
}

// constantOf attempts to reduce expr to a compile-time Constant, used for
// global initializers and constant-folded composite literals. Literals,
// all-constant composite literals, and casts or groupings of a constant
// qualify; anything else (a CALL, a VALUE reference, a CHAINED
// expression) is never a constant.
func (b *ModuleBuilder) constantOf(expr ast.Expression) (constant.Constant, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		return b.lowerLiteral(e).(constant.Constant), true
	case *ast.CompositeLiteral:
		return b.constantComposite(e)
	case *ast.Cast:
		inner, ok := b.constantOf(e.Value)
		if !ok {
			return nil, false
		}
		return b.constantCast(inner, e.Value.GetType(), e.Target)
	case *ast.Grouping:
		return b.constantOf(e.Inner)
	default:
		return nil, false
	}
}

func (b *ModuleBuilder) constantComposite(c *ast.CompositeLiteral) (constant.Constant, bool) {
	vt := c.GetType()
	elems := make([]constant.Constant, len(c.Elements))
	for i, el := range c.Elements {
		cst, ok := b.constantOf(el)
		if !ok {
			return nil, false
		}
		elems[i] = cst
	}
	switch vt.Kind {
	case types.DATA:
		return constant.NewArray(b.lowerType(vt).(*lltypes.ArrayType), elems...), true
	case types.BLOB:
		info, ok := b.structs[vt.BlobName]
		if !ok {
			return nil, false
		}
		return constant.NewStruct(info.irType, elems...), true
	case types.PTR:
		if len(elems) != 1 {
			return nil, false
		}
		intC, ok := elems[0].(*constant.Int)
		if !ok {
			return nil, false
		}
		return constant.NewIntToPtr(intC, b.lowerType(vt).(*lltypes.PointerType)), true
	default:
		return nil, false
	}
}

func (b *ModuleBuilder) lowerUnary(fn *ir.Func, cur *ir.Block, u *ast.Unary) (value.Value, *ir.Block) {
	operand, next := b.lowerExpr(fn, cur, u.Operand)
	cur = next
	vt := u.Operand.GetType()
	switch u.Operator {
	case "not":
		return cur.NewXor(operand, constant.NewInt(lltypes.I1, 1)), cur
	case "~":
		return cur.NewXor(operand, constant.NewInt(operand.Type().(*lltypes.IntType), -1)), cur
	case "-":
		if vt.IsFloat() {
			return cur.NewFNeg(operand), cur
		}
		zero := constant.NewInt(operand.Type().(*lltypes.IntType), 0)
		return cur.NewSub(zero, operand), cur
	default:
		b.errs.Add(errors.Builder(u.Pos(), "unsupported unary operator %q", u.Operator))
		return operand, cur
	}
}

func (b *ModuleBuilder) lowerBinary(fn *ir.Func, cur *ir.Block, bin *ast.Binary) (value.Value, *ir.Block) {
	left, next := b.lowerExpr(fn, cur, bin.Left)
	cur = next
	right, next := b.lowerExpr(fn, cur, bin.Right)
	cur = next

	vt := bin.Left.GetType()
	isFloat := vt.IsFloat()
	isSigned := vt.IsSignedInteger()
	isBool := vt.IsBool()

	switch bin.Operator {
	case "or":
		return cur.NewOr(left, right), cur
	case "and":
		return cur.NewAnd(left, right), cur
	case "xor":
		return cur.NewXor(left, right), cur
	case "+":
		if isFloat {
			return cur.NewFAdd(left, right), cur
		}
		return cur.NewAdd(left, right), cur
	case "-":
		if isFloat {
			return cur.NewFSub(left, right), cur
		}
		return cur.NewSub(left, right), cur
	case "*":
		if isFloat {
			return cur.NewFMul(left, right), cur
		}
		return cur.NewMul(left, right), cur
	case "/":
		switch {
		case isFloat:
			return cur.NewFDiv(left, right), cur
		case isSigned:
			return cur.NewSDiv(left, right), cur
		default:
			return cur.NewUDiv(left, right), cur
		}
	case "%":
		switch {
		case isFloat:
			return cur.NewFRem(left, right), cur
		case isSigned:
			return cur.NewSRem(left, right), cur
		default:
			return cur.NewURem(left, right), cur
		}
	case "|":
		return cur.NewOr(left, right), cur
	case "&":
		return cur.NewAnd(left, right), cur
	case "^":
		return cur.NewXor(left, right), cur
	case "<<":
		return cur.NewShl(left, right), cur
	case ">>":
		if isSigned {
			return cur.NewAShr(left, right), cur
		}
		return cur.NewLShr(left, right), cur
	case "=", "!=", "<", "<=", ">", ">=":
		return b.lowerComparison(cur, bin.Operator, left, right, isFloat, isSigned, isBool), cur
	default:
		b.errs.Add(errors.Builder(bin.Pos(), "unsupported binary operator %q", bin.Operator))
		return left, cur
	}
}

func (b *ModuleBuilder) lowerComparison(cur *ir.Block, op string, left, right value.Value, isFloat, isSigned, isBool bool) value.Value {
	if isFloat {
		return cur.NewFCmp(floatPred(op), left, right)
	}
	return cur.NewICmp(intPred(op, isSigned || isBool), left, right)
}

func floatPred(op string) enum.FPred {
	switch op {
	case "=":
		return enum.FPredOEQ
	case "!=":
		return enum.FPredONE
	case "<":
		return enum.FPredOLT
	case "<=":
		return enum.FPredOLE
	case ">":
		return enum.FPredOGT
	default:
		return enum.FPredOGE
	}
}

func intPred(op string, signed bool) enum.IPred {
	switch op {
	case "=":
		return enum.IPredEQ
	case "!=":
		return enum.IPredNE
	case "<":
		if signed {
			return enum.IPredSLT
		}
		return enum.IPredULT
	case "<=":
		if signed {
			return enum.IPredSLE
		}
		return enum.IPredULE
	case ">":
		if signed {
			return enum.IPredSGT
		}
		return enum.IPredUGT
	default:
		if signed {
			return enum.IPredSGE
		}
		return enum.IPredUGE
	}
}

func (b *ModuleBuilder) lowerValue(cur *ir.Block, v *ast.Value) (value.Value, *ir.Block) {
	if bound, ok := b.scope.ResolveVariable(v.Name); ok {
		return cur.NewLoad(bound.irType, bound.ptr), cur
	}
	if bound, ok := b.scope.ResolveFunction(v.Name); ok {
		return bound.value, cur
	}
	b.errs.Add(errors.Builder(v.Pos(), "%q not declared", v.Name))
	return nil, cur
}

func (b *ModuleBuilder) lowerCall(fn *ir.Func, cur *ir.Block, c *ast.Call) (value.Value, *ir.Block) {
	callee, next := b.lowerExpr(fn, cur, c.Callee)
	cur = next
	args := make([]value.Value, len(c.Arguments))
	for i, a := range c.Arguments {
		v, next := b.lowerExpr(fn, cur, a)
		cur = next
		args[i] = v
	}
	return cur.NewCall(callee, args...), cur
}

// lowerIfElse creates then/else/merge blocks. An else-less if-as-statement
// has its then-block exit jump directly to merge and produces no value;
// an if-else expression Phis both arms together in merge when their IR
// types coincide and are non-void.
func (b *ModuleBuilder) lowerIfElse(fn *ir.Func, cur *ir.Block, ie *ast.IfElse) (value.Value, *ir.Block) {
	cond, condEnd := b.lowerExpr(fn, cur, ie.Condition)

	thenBlock := fn.NewBlock(blockName(fn, "if.then"))
	merge := fn.NewBlock(blockName(fn, "if.merge"))

	if ie.Else == nil {
		condEnd.NewCondBr(cond, thenBlock, merge)
		thenEnd := b.lowerBlockValue(fn, thenBlock, ie.Then)
		thenEnd.NewBr(merge)
		return nil, merge
	}

	elseBlock := fn.NewBlock(blockName(fn, "if.else"))
	condEnd.NewCondBr(cond, thenBlock, elseBlock)

	thenVal, thenEnd := b.lowerExprBlock(fn, thenBlock, ie.Then)
	thenEnd.NewBr(merge)

	elseVal, elseEnd := b.lowerExprBlock(fn, elseBlock, ie.Else)
	elseEnd.NewBr(merge)

	if thenVal == nil || elseVal == nil || thenVal.Type().Equal(lltypes.Void) {
		return nil, merge
	}
	if !thenVal.Type().Equal(elseVal.Type()) {
		return nil, merge
	}
	phi := merge.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd))
	return phi, merge
}

// lowerBlockValue lowers a statement-only block (no trailing expression
// value expected), returning the block execution continues in.
func (b *ModuleBuilder) lowerBlockValue(fn *ir.Func, entry *ir.Block, block *ast.Block) *ir.Block {
	return b.lowerBlock(fn, entry, block, nil)
}

// lowerExprBlock lowers a block used in expression position: every
// statement but the last runs for effect, and the last — if it is an
// EXPRESSION statement — supplies the block's value.
func (b *ModuleBuilder) lowerExprBlock(fn *ir.Func, entry *ir.Block, block *ast.Block) (value.Value, *ir.Block) {
	b.scope.Push()
	defer b.scope.Pop()

	cur := entry
	var last value.Value
	for i, stmt := range block.Statements {
		if i == len(block.Statements)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok {
				last, cur = b.lowerExpr(fn, cur, es.Expression)
				continue
			}
		}
		cur = b.lowerStatement(fn, cur, stmt, nil)
	}
	return last, cur
}

func (b *ModuleBuilder) lowerBlockExpr(fn *ir.Func, cur *ir.Block, block *ast.Block) (value.Value, *ir.Block) {
	return b.lowerExprBlock(fn, cur, block)
}

func blockName(fn *ir.Func, prefix string) string {
	return prefix + "." + strconv.Itoa(len(fn.Blocks))
}

// addressOf lowers an assignment target to its storage location: a bare
// Value resolves to its existing binding's pointer; a Chained target
// resolves through advanceChainPtr (blob-member GEPs and PTR .val links
// only; an array element is not addressable here).
func (b *ModuleBuilder) addressOf(fn *ir.Func, cur *ir.Block, target ast.Expression) (value.Value, *types.ValueType, *ir.Block) {
	switch t := target.(type) {
	case *ast.Value:
		bound, ok := b.scope.ResolveVariable(t.Name)
		if !ok {
			b.errs.Add(errors.Builder(t.Pos(), "%q not declared", t.Name))
			return nil, nil, cur
		}
		return bound.ptr, bound.vt, cur
	case *ast.Chained:
		return b.addressOfChain(fn, cur, t)
	default:
		b.errs.Add(errors.Builder(target.Pos(), "invalid assignment target %T", target))
		return nil, nil, cur
	}
}

// addressOfChain resolves every link but the last as a normal chained
// read, then computes the final link's own storage address: a blob field
// GEP, or the loaded pointer of a PTR .val link. Any other link is
// reported as a builder error.
func (b *ModuleBuilder) addressOfChain(fn *ir.Func, cur *ir.Block, c *ast.Chained) (value.Value, *types.ValueType, *ir.Block) {
	if len(c.Links) == 0 {
		return b.addressOf(fn, cur, c.Receiver)
	}
	recvPtr, recvType, next := b.addressOf(fn, cur, c.Receiver)
	cur = next
	for i, link := range c.Links[:len(c.Links)-1] {
		recvPtr, recvType, cur = b.advanceChainPtr(fn, cur, recvPtr, recvType, link)
		_ = i
	}
	last := c.Links[len(c.Links)-1]
	fieldPtr, fieldType, cur := b.advanceChainPtr(fn, cur, recvPtr, recvType, last)
	return fieldPtr, fieldType, cur
}

// advanceChainPtr returns the storage address (not the loaded value) one
// link further than recvPtr/recvType, for both read-through chains and
// assignment-target resolution.
func (b *ModuleBuilder) advanceChainPtr(fn *ir.Func, cur *ir.Block, recvPtr value.Value, recvType *types.ValueType, link *ast.ChainLink) (value.Value, *types.ValueType, *ir.Block) {
	switch {
	case recvType.Kind == types.BLOB:
		info := b.structs[recvType.BlobName]
		idx := memberIndex(info.members, link.Member)
		fieldPtr := cur.NewGetElementPtr(info.irType, recvPtr, constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(idx)))
		return fieldPtr, link.Type, cur
	case recvType.Kind == types.PTR && link.Member == "val":
		loaded := cur.NewLoad(b.lowerType(recvType), recvPtr)
		return loaded, recvType.SubType, cur
	default:
		b.errs.Add(errors.Builder(link.Token.Loc, "cannot take the address of .%s on %s", link.Member, recvType))
		return recvPtr, recvType, cur
	}
}

func memberIndex(members []string, name string) int {
	for i, m := range members {
		if m == name {
			return i
		}
	}
	return 0
}

// chainStep is the running receiver while lowering a dot-chain: its value,
// its storage address when known (nil for a value with no identifiable
// storage, such as a call result), and its BRC type.
type chainStep struct {
	val  value.Value
	addr value.Value
	vt   *types.ValueType
}

// lowerChained walks a dot-chain left to right, lowering each link's
// member access or built-in against the running receiver.
func (b *ModuleBuilder) lowerChained(fn *ir.Func, cur *ir.Block, c *ast.Chained) (value.Value, *ir.Block) {
	step, cur := b.lowerChainReceiver(fn, cur, c.Receiver)
	for _, link := range c.Links {
		step, cur = b.lowerChainLink(fn, cur, step, link)
	}
	return step.val, cur
}

// lowerChainReceiver lowers the chain's leading sub-expression, keeping its
// storage address around when it has one (a bare variable) so the first
// link can GEP into it without an extra spill.
func (b *ModuleBuilder) lowerChainReceiver(fn *ir.Func, cur *ir.Block, recv ast.Expression) (chainStep, *ir.Block) {
	if v, ok := recv.(*ast.Value); ok {
		if bound, ok := b.scope.ResolveVariable(v.Name); ok {
			loaded := cur.NewLoad(bound.irType, bound.ptr)
			return chainStep{val: loaded, addr: bound.ptr, vt: bound.vt}, cur
		}
	}
	val, next := b.lowerExpr(fn, cur, recv)
	return chainStep{val: val, vt: recv.GetType()}, next
}

// spillAddr materializes step's value into a fresh local so a link that
// needs an address (a struct-field GEP, `.adr`) still has one even when
// the running receiver came from a computed expression.
func (b *ModuleBuilder) spillAddr(fn *ir.Func, cur *ir.Block, step chainStep) value.Value {
	if step.addr != nil {
		return step.addr
	}
	irType := b.lowerType(step.vt)
	alloca := entryAlloca(fn, irType, "chain.spill")
	cur.NewStore(step.val, alloca)
	return alloca
}

// lowerChainLink lowers one `.member`/`.member(args)` step against step,
// mirroring internal/semantic's analyzeChainLink dispatch but producing IR
// instead of a type.
func (b *ModuleBuilder) lowerChainLink(fn *ir.Func, cur *ir.Block, step chainStep, link *ast.ChainLink) (chainStep, *ir.Block) {
	switch link.Member {
	case "count":
		return chainStep{val: constant.NewInt(lltypes.NewInt(wordWidth), dataCount(step.vt)), vt: link.Type}, cur

	case "size":
		n := byteWidth(b.lowerType(step.vt))
		return chainStep{val: constant.NewInt(lltypes.NewInt(wordWidth), n), vt: link.Type}, cur

	case "adr":
		addr := b.spillAddr(fn, cur, step)
		v := cur.NewPtrToInt(addr, b.lowerType(link.Type))
		return chainStep{val: v, vt: link.Type}, cur

	case "vadr":
		addr := b.spillAddr(fn, cur, step)
		loaded := cur.NewLoad(b.lowerType(step.vt.SubType), addr)
		v := cur.NewPtrToInt(loaded, b.lowerType(types.Addr))
		return chainStep{val: v, vt: link.Type}, cur

	case "val":
		sub := step.vt.SubType
		if link.IsCall && sub.Kind == types.FUN {
			args := make([]value.Value, len(link.Arguments))
			for i, a := range link.Arguments {
				v, next := b.lowerExpr(fn, cur, a)
				cur = next
				args[i] = v
			}
			result := cur.NewCall(step.val, args...)
			return chainStep{val: result, vt: link.Type}, cur
		}
		loaded := cur.NewLoad(b.lowerType(sub), step.val)
		return chainStep{val: loaded, addr: step.val, vt: link.Type}, cur

	default:
		return b.lowerBlobMember(fn, cur, step, link)
	}
}

// lowerBlobMember GEPs to the member's field and loads it, keeping the
// field's own address around so a following link can chain further into
// it without a spill.
func (b *ModuleBuilder) lowerBlobMember(fn *ir.Func, cur *ir.Block, step chainStep, link *ast.ChainLink) (chainStep, *ir.Block) {
	info, ok := b.structs[step.vt.BlobName]
	if !ok {
		b.errs.Add(errors.Builder(link.Token.Loc, "unknown blob %q", step.vt.BlobName))
		return step, cur
	}
	addr := b.spillAddr(fn, cur, step)
	idx := memberIndex(info.members, link.Member)
	fieldPtr := cur.NewGetElementPtr(info.irType, addr, constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(idx)))
	loaded := cur.NewLoad(b.lowerType(link.Type), fieldPtr)
	return chainStep{val: loaded, addr: fieldPtr, vt: link.Type}, cur
}
