package builder

import (
	"testing"

	lltypes "github.com/llir/llvm/ir/types"

	"github.com/brc-lang/brc/internal/types"
)

func TestByteWidthPrimitives(t *testing.T) {
	cases := []struct {
		name string
		t    lltypes.Type
		want int64
	}{
		{"i1 clamps to 1 byte", lltypes.I1, 1},
		{"i8", lltypes.I8, 1},
		{"i32", lltypes.I32, 4},
		{"i64", lltypes.I64, 8},
		{"float", lltypes.Float, 4},
		{"double", lltypes.Double, 8},
		{"void", lltypes.Void, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := byteWidth(c.t); got != c.want {
				t.Errorf("byteWidth(%v) = %d, want %d", c.t, got, c.want)
			}
		})
	}
}

func TestByteWidthArrayIsElementCountTimesElementSize(t *testing.T) {
	arr := lltypes.NewArray(4, lltypes.I32)
	if got := byteWidth(arr); got != 16 {
		t.Errorf("byteWidth(data[4]i32) = %d, want 16", got)
	}
}

func TestByteWidthStructIsSumOfMembers(t *testing.T) {
	st := lltypes.NewStruct(lltypes.I32, lltypes.I64, lltypes.I8)
	if got := byteWidth(st); got != 13 {
		t.Errorf("byteWidth(struct{i32,i64,i8}) = %d, want 13", got)
	}
}

func TestLowerTypePrimitiveCorrespondence(t *testing.T) {
	b := &ModuleBuilder{structs: make(map[string]*structInfo)}

	cases := []struct {
		name string
		vt   *types.ValueType
		want lltypes.Type
	}{
		{"none", types.None, lltypes.Void},
		{"bool", types.Bool, lltypes.I1},
		{"u8", types.U8T, lltypes.I8},
		{"s8", types.S8T, lltypes.I8},
		{"u32", types.U32T, lltypes.I32},
		{"s32", types.S32T, lltypes.I32},
		{"f32", types.F32T, lltypes.Float},
		{"u64", types.U64T, lltypes.I64},
		{"s64", types.S64T, lltypes.I64},
		{"float", types.Float, lltypes.Double},
		{"f64", types.F64T, lltypes.Double},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := b.lowerType(c.vt); !got.Equal(c.want) {
				t.Errorf("lowerType(%s) = %v, want %v", c.vt, got, c.want)
			}
		})
	}
}

func TestLowerTypeDataIsArrayOfCount(t *testing.T) {
	b := &ModuleBuilder{structs: make(map[string]*structInfo)}
	vt := types.Data(types.U32T, literalCount{4})
	got := b.lowerType(vt)
	arr, ok := got.(*lltypes.ArrayType)
	if !ok {
		t.Fatalf("lowerType(data[4]u32) = %T, want *types.ArrayType", got)
	}
	if arr.Len != 4 {
		t.Errorf("array length = %d, want 4", arr.Len)
	}
	if !arr.ElemType.Equal(lltypes.I32) {
		t.Errorf("array element type = %v, want i32", arr.ElemType)
	}
}

func TestLowerTypePointerIsOpaqueByteAddress(t *testing.T) {
	b := &ModuleBuilder{structs: make(map[string]*structInfo)}
	got := b.lowerType(types.Ptr(types.S32T))
	ptr, ok := got.(*lltypes.PointerType)
	if !ok {
		t.Fatalf("lowerType(ptr s32) = %T, want *types.PointerType", got)
	}
	if !ptr.ElemType.Equal(lltypes.I8) {
		t.Errorf("pointer elem type = %v, want i8 (shared opaque representation)", ptr.ElemType)
	}
}

// literalCount is a fixed types.CountExpr for tests that need a DATA count
// without running the parser.
type literalCount struct{ n int64 }

func (l literalCount) LiteralInt() (int64, bool) { return l.n, true }
