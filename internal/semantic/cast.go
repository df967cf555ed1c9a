package semantic

import "github.com/brc-lang/brc/internal/types"

// canCast implements the Data Model's implicit/explicit casting rule
// table (see SPEC_FULL.md §4.4):
//
//   - any unsigned integer casts to any integer or float type
//   - any signed integer casts to any signed integer or float type
//   - any float casts to any float type
//   - DATA(a) casts to DATA(b) iff a casts to b
//   - BLOB(a) casts to BLOB(b) iff a == b (no blob subtyping)
//   - COMPOSITE casts to BLOB(name) iff member counts match and each
//     element casts to the corresponding member's type
//   - COMPOSITE casts to DATA(sub) iff every element casts to sub
//   - COMPOSITE casts to PTR(sub) iff it has exactly one element and
//     that element is an unsigned integer or INT
//   - nothing else casts
func canCast(from, to *types.ValueType, scope *Scope) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Equal(to) {
		return true
	}

	switch {
	case from.IsUnsignedInteger():
		return to.IsInteger() || to.IsFloat()
	case from.IsSignedInteger():
		return to.IsSignedInteger() || to.IsFloat()
	case from.IsFloat():
		return to.IsFloat()
	case from.Kind == types.DATA && to.Kind == types.DATA:
		return canCast(from.SubType, to.SubType, scope)
	case from.Kind == types.BLOB && to.Kind == types.BLOB:
		return from.BlobName == to.BlobName
	case from.Kind == types.COMPOSITE:
		return canCastComposite(from, to, scope)
	default:
		return false
	}
}

func canCastComposite(from, to *types.ValueType, scope *Scope) bool {
	switch to.Kind {
	case types.BLOB:
		members, ok := scope.Blob(to.BlobName)
		if !ok || len(members) != len(from.CompositeElements) {
			return false
		}
		for i, el := range from.CompositeElements {
			if !canCast(el, members[i].Type, scope) {
				return false
			}
		}
		return true
	case types.DATA:
		for _, el := range from.CompositeElements {
			if !canCast(el, to.SubType, scope) {
				return false
			}
		}
		return true
	case types.PTR:
		if len(from.CompositeElements) != 1 {
			return false
		}
		el := from.CompositeElements[0]
		return el.IsUnsignedInteger()
	default:
		return false
	}
}

// widen picks the common type two numeric operands must be cast to
// before a binary operator applies: the wider of the two by bit width,
// preferring float over integer and signed over unsigned at equal width,
// matching original_source's arithmetic-promotion behavior. When the
// narrower operand cannot cast to the wider one but the reverse is legal
// (an s32 against an INT literal), the narrower type is picked instead.
func widen(a, b *types.ValueType) *types.ValueType {
	if a.Equal(b) {
		return a
	}
	if a.IsFloat() != b.IsFloat() {
		if a.IsFloat() {
			return a
		}
		return b
	}
	if a.Width() != b.Width() {
		wide, narrow := a, b
		if b.Width() > a.Width() {
			wide, narrow = b, a
		}
		if !canCast(narrow, wide, nil) && canCast(wide, narrow, nil) {
			return narrow
		}
		return wide
	}
	if a.IsSignedInteger() != b.IsSignedInteger() {
		if a.IsSignedInteger() {
			return a
		}
		return b
	}
	return a
}
