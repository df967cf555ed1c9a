package builder

import (
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/brc-lang/brc/internal/types"
)

// structInfo is a registered BLOB's lowered struct type plus its member
// order, so field access can be lowered to a GEP by index.
type structInfo struct {
	irType  *lltypes.StructType
	members []string
}

// lowerType maps a ValueType to its IR type by direct correspondence: NONE
// -> void; BOOL -> i1; unsigned/signed integers -> ik of the matching
// width (signedness is purely operational, never type-level); floats ->
// float/double; A -> an integer of wordWidth; PTR(_) -> an opaque pointer
// (represented as i8*, the generic address-space pointer every pointer
// value in this implementation shares); DATA(sub,n) -> an array of n
// lowered sub; BLOB(name) -> the registered named struct type; FUN(args,
// ret) -> a function type.
func (b *ModuleBuilder) lowerType(vt *types.ValueType) lltypes.Type {
	switch vt.Kind {
	case types.NONE:
		return lltypes.Void
	case types.BOOL:
		return lltypes.I1
	case types.U8, types.S8:
		return lltypes.I8
	case types.U32, types.S32, types.F32:
		if vt.Kind == types.F32 {
			return lltypes.Float
		}
		return lltypes.I32
	case types.U64, types.S64:
		return lltypes.I64
	case types.INT, types.A:
		return lltypes.NewInt(wordWidth)
	case types.FLOAT, types.F64:
		return lltypes.Double
	case types.PTR:
		return lltypes.NewPointer(lltypes.I8)
	case types.DATA:
		n := dataCount(vt)
		return lltypes.NewArray(uint64(n), b.lowerType(vt.SubType))
	case types.BLOB:
		if info, ok := b.structs[vt.BlobName]; ok {
			return info.irType
		}
		// Forward reference to a blob defined later in the same module,
		// or one imported from another module not yet built in this
		// process; register an empty placeholder now and fill it once
		// its BlobDef is reached.
		info := &structInfo{irType: lltypes.NewStruct()}
		b.structs[vt.BlobName] = info
		return info.irType
	case types.FUN:
		params := make([]lltypes.Type, len(vt.ArgumentTypes))
		for i, a := range vt.ArgumentTypes {
			params[i] = b.lowerType(a)
		}
		return lltypes.NewFunc(b.lowerType(vt.ReturnType), params...)
	default:
		return lltypes.Void
	}
}

// dataCount reduces a DATA type's count expression to its literal value,
// used once the analyzer has already validated it resolves to one.
func dataCount(vt *types.ValueType) int64 {
	if vt.Count == nil {
		return 0
	}
	n, _ := vt.Count.LiteralInt()
	return n
}

// byteWidth returns the IR type's size in bytes for the `.size` built-in:
// integer widths are clamped to an 8-bit floor, float is 4, double is 8,
// pointers are wordWidth/8, arrays are element count times element size,
// and structs are the sum of their members.
func byteWidth(t lltypes.Type) int64 {
	switch tt := t.(type) {
	case *lltypes.IntType:
		bits := tt.BitSize
		if bits < 8 {
			bits = 8
		}
		return int64((bits + 7) / 8)
	case *lltypes.FloatType:
		switch tt.Kind {
		case lltypes.FloatKindFloat:
			return 4
		case lltypes.FloatKindDouble:
			return 8
		default:
			return 8
		}
	case *lltypes.PointerType:
		return wordWidth / 8
	case *lltypes.ArrayType:
		return int64(tt.Len) * byteWidth(tt.ElemType)
	case *lltypes.StructType:
		var total int64
		for _, f := range tt.Fields {
			total += byteWidth(f)
		}
		return total
	case *lltypes.VoidType:
		return 0
	default:
		return 0
	}
}
