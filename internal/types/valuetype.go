// Package types implements BRC's ValueType variant: the primitive, array,
// record, pointer, function, and pre-promotion composite types that the
// parser stamps onto literals and the analyzer propagates through every
// expression.
package types

import (
	"fmt"
	"strings"
)

// Kind tags the ValueType variant.
type Kind int

const (
	NONE Kind = iota
	BOOL
	INT // platform-width unsigned integer
	U8
	U32
	U64
	S8
	S32
	S64
	FLOAT // platform default float width
	F32
	F64
	A // address-width integer
	DATA
	BLOB
	PTR
	FUN
	COMPOSITE
)

var kindNames = map[Kind]string{
	NONE: "none", BOOL: "bool", INT: "int",
	U8: "u8", U32: "u32", U64: "u64",
	S8: "s8", S32: "s32", S64: "s64",
	FLOAT: "float", F32: "f32", F64: "f64", A: "a",
	DATA: "data", BLOB: "blob", PTR: "ptr", FUN: "fun", COMPOSITE: "composite",
}

func (k Kind) String() string { return kindNames[k] }

// CountExpr is the minimal surface the types package needs from an AST
// count expression: a literal integer value once the analyzer has reduced
// it. Expression lives in internal/ast, which itself imports types, so the
// dependency is expressed as an interface to avoid an import cycle.
type CountExpr interface {
	// LiteralInt returns the expression's value once it has been reduced
	// to a constant integer, and whether that reduction has happened yet.
	LiteralInt() (int64, bool)
}

// ValueType is a tagged variant. Only the fields relevant to Kind are
// meaningful; see the per-kind constructors below.
type ValueType struct {
	Kind Kind

	SubType   *ValueType // DATA element type, PTR pointee type
	Count     CountExpr  // DATA count expression

	BlobName string // BLOB

	ArgumentTypes []*ValueType // FUN
	ReturnType    *ValueType   // FUN

	CompositeElements []*ValueType // COMPOSITE
}

// Simple primitive singletons — safe to share since ValueType carries no
// mutable per-use state for these kinds.
var (
	None  = &ValueType{Kind: NONE}
	Bool  = &ValueType{Kind: BOOL}
	Int   = &ValueType{Kind: INT}
	U8T   = &ValueType{Kind: U8}
	U32T  = &ValueType{Kind: U32}
	U64T  = &ValueType{Kind: U64}
	S8T   = &ValueType{Kind: S8}
	S32T  = &ValueType{Kind: S32}
	S64T  = &ValueType{Kind: S64}
	Float = &ValueType{Kind: FLOAT}
	F32T  = &ValueType{Kind: F32}
	F64T  = &ValueType{Kind: F64}
	Addr  = &ValueType{Kind: A}
)

var primitiveByName = map[string]*ValueType{
	"bool": Bool, "int": Int,
	"u8": U8T, "u32": U32T, "u64": U64T,
	"s8": S8T, "s32": S32T, "s64": S64T,
	"float": Float, "f32": F32T, "f64": F64T,
	"a": Addr,
}

// PrimitiveByName resolves a TYPE-token lexeme ("bool", "u32", ...) to its
// singleton ValueType. ok is false for anything else.
func PrimitiveByName(name string) (*ValueType, bool) {
	vt, ok := primitiveByName[name]
	return vt, ok
}

// Data builds a DATA(subType, count) array type.
func Data(sub *ValueType, count CountExpr) *ValueType {
	return &ValueType{Kind: DATA, SubType: sub, Count: count}
}

// Blob builds a BLOB(name) reference type.
func Blob(name string) *ValueType {
	return &ValueType{Kind: BLOB, BlobName: name}
}

// Ptr builds a PTR(subType) opaque pointer type.
func Ptr(sub *ValueType) *ValueType {
	return &ValueType{Kind: PTR, SubType: sub}
}

// Fun builds a FUN(args, ret) function type.
func Fun(args []*ValueType, ret *ValueType) *ValueType {
	return &ValueType{Kind: FUN, ArgumentTypes: args, ReturnType: ret}
}

// Composite builds the pre-promotion COMPOSITE(elements) type of a brace
// literal.
func Composite(elements []*ValueType) *ValueType {
	return &ValueType{Kind: COMPOSITE, CompositeElements: elements}
}

// String renders the type the way BRC source would spell it, for
// diagnostics and logging.
func (vt *ValueType) String() string {
	if vt == nil {
		return "<nil>"
	}
	switch vt.Kind {
	case DATA:
		n := "?"
		if vt.Count != nil {
			if v, ok := vt.Count.LiteralInt(); ok {
				n = fmt.Sprintf("%d", v)
			}
		}
		return fmt.Sprintf("data[%s]%s", n, vt.SubType.String())
	case BLOB:
		return vt.BlobName
	case PTR:
		return "ptr " + vt.SubType.String()
	case FUN:
		args := make([]string, len(vt.ArgumentTypes))
		for i, a := range vt.ArgumentTypes {
			args[i] = a.String()
		}
		return fmt.Sprintf("fun(%s) -> %s", strings.Join(args, ", "), vt.ReturnType.String())
	case COMPOSITE:
		parts := make([]string, len(vt.CompositeElements))
		for i, e := range vt.CompositeElements {
			parts[i] = e.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return vt.Kind.String()
	}
}

// Equal implements the Data Model's equality rule: same tag and
// recursively equal components. DATA additionally compares the count
// expression's reduced literal value.
func (vt *ValueType) Equal(other *ValueType) bool {
	if vt == nil || other == nil {
		return vt == other
	}
	if vt.Kind != other.Kind {
		return false
	}
	switch vt.Kind {
	case DATA:
		if !vt.SubType.Equal(other.SubType) {
			return false
		}
		av, aok := countLiteral(vt.Count)
		bv, bok := countLiteral(other.Count)
		if aok != bok {
			return false
		}
		return !aok || av == bv
	case BLOB:
		return vt.BlobName == other.BlobName
	case PTR:
		return vt.SubType.Equal(other.SubType)
	case FUN:
		if len(vt.ArgumentTypes) != len(other.ArgumentTypes) {
			return false
		}
		for i := range vt.ArgumentTypes {
			if !vt.ArgumentTypes[i].Equal(other.ArgumentTypes[i]) {
				return false
			}
		}
		return vt.ReturnType.Equal(other.ReturnType)
	case COMPOSITE:
		if len(vt.CompositeElements) != len(other.CompositeElements) {
			return false
		}
		for i := range vt.CompositeElements {
			if !vt.CompositeElements[i].Equal(other.CompositeElements[i]) {
				return false
			}
		}
		return true
	default:
		return true // primitive kinds compare equal on Kind alone
	}
}

func countLiteral(c CountExpr) (int64, bool) {
	if c == nil {
		return 0, false
	}
	return c.LiteralInt()
}

func (vt *ValueType) IsUnsignedInteger() bool {
	switch vt.Kind {
	case INT, U8, U32, U64:
		return true
	}
	return false
}

func (vt *ValueType) IsSignedInteger() bool {
	switch vt.Kind {
	case S8, S32, S64:
		return true
	}
	return false
}

func (vt *ValueType) IsInteger() bool { return vt.IsUnsignedInteger() || vt.IsSignedInteger() }

func (vt *ValueType) IsFloat() bool {
	switch vt.Kind {
	case FLOAT, F32, F64:
		return true
	}
	return false
}

func (vt *ValueType) IsNumeric() bool { return vt.IsInteger() || vt.IsFloat() }

func (vt *ValueType) IsBool() bool      { return vt.Kind == BOOL }
func (vt *ValueType) IsData() bool      { return vt.Kind == DATA }
func (vt *ValueType) IsPointer() bool   { return vt.Kind == PTR }
func (vt *ValueType) IsFunction() bool  { return vt.Kind == FUN }
func (vt *ValueType) IsBlob() bool      { return vt.Kind == BLOB }
func (vt *ValueType) IsComposite() bool { return vt.Kind == COMPOSITE }

// SignedCounterpart returns the same-width signed variant of an unsigned
// integer type (U8->S8, U32->S32, U64->S64, INT->INT, since INT already
// denotes the platform-width type and this implementation's Open Question
// decision keeps it unsigned — see SPEC_FULL.md §9.2). Returns vt unchanged
// for anything that is not an unsigned integer.
func (vt *ValueType) SignedCounterpart() *ValueType {
	switch vt.Kind {
	case U8:
		return S8T
	case U32:
		return S32T
	case U64:
		return S64T
	case INT:
		return Int
	default:
		return vt
	}
}

// Width returns the bit width used by cast-lowering category selection:
// {8, 32, 64, platform address width}. Platform width is reported as 64
// (the module builder's target lowering clamps further per real target).
func (vt *ValueType) Width() int {
	switch vt.Kind {
	case U8, S8:
		return 8
	case U32, S32, F32:
		return 32
	case U64, S64, F64, INT, FLOAT, A:
		return 64
	default:
		return 0
	}
}
