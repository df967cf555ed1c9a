package semantic

import (
	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

// analyzeChained resolves a dot-chain link by link, threading the
// running receiver type through each step.
func (a *Analyzer) analyzeChained(c *ast.Chained) *types.ValueType {
	cur := a.analyzeExpression(c.Receiver)
	if cur == nil {
		return nil
	}
	for _, link := range c.Links {
		cur = a.analyzeChainLink(c.Pos(), cur, link)
		if cur == nil {
			return nil
		}
	}
	c.SetType(cur)
	return cur
}

// analyzeChainLink resolves one `.member` or `.member(args)` step. The
// five built-in members (count, size, adr, vadr, val) are available on
// every receiver shape they apply to; anything else is looked up as a
// blob field.
func (a *Analyzer) analyzeChainLink(pos lexer.Location, recv *types.ValueType, link *ast.ChainLink) *types.ValueType {
	switch link.Member {
	case "count":
		if recv.Kind != types.DATA {
			a.errs.Add(errors.Semantic(pos, ".count is only valid on a data array, found %s", recv))
			return nil
		}
		link.Type = types.Int
		return types.Int

	case "size":
		// Byte size of recv's own type, a compile-time constant the
		// builder lowers directly; valid on any type.
		link.Type = types.Int
		return types.Int

	case "adr":
		link.Type = types.Ptr(recv)
		return link.Type

	case "vadr":
		switch recv.Kind {
		case types.DATA:
			link.Type = types.Ptr(recv.SubType)
		case types.PTR:
			link.Type = types.Ptr(recv)
		default:
			a.errs.Add(errors.Semantic(pos, ".vadr is only valid on a data array or a pointer, found %s", recv))
			return nil
		}
		return link.Type

	case "val":
		if recv.Kind != types.PTR {
			a.errs.Add(errors.Semantic(pos, ".val is only valid on a pointer, found %s", recv))
			return nil
		}
		sub := recv.SubType
		if link.IsCall {
			// sub is first confirmed to be a FUN type, and only then are
			// the arguments checked against its parameters (see
			// SPEC_FULL.md §9.2): a call on a non-function pointer reports
			// only the kind mismatch, never an argument-count diagnostic.
			if sub.Kind == types.FUN {
				a.checkCallArguments(pos, sub, link.Arguments)
				link.Type = sub.ReturnType
				return sub.ReturnType
			}
			a.errs.Add(errors.Semantic(pos, ".val(...) requires a pointer to a function, found pointer to %s", sub))
			return nil
		}
		link.Type = sub
		return sub

	default:
		return a.analyzeBlobMember(pos, recv, link)
	}
}

func (a *Analyzer) analyzeBlobMember(pos lexer.Location, recv *types.ValueType, link *ast.ChainLink) *types.ValueType {
	if recv.Kind != types.BLOB {
		a.errs.Add(errors.Semantic(pos, "unknown member %q on %s", link.Member, recv))
		return nil
	}
	members, ok := a.scope.Blob(recv.BlobName)
	if !ok {
		a.errs.Add(errors.Semantic(pos, "unknown blob %q", recv.BlobName))
		return nil
	}
	for _, m := range members {
		if m.Name == link.Member {
			link.Type = m.Type
			return m.Type
		}
	}
	a.errs.Add(errors.Semantic(pos, "blob %q has no member %q", recv.BlobName, link.Member))
	return nil
}

// analyzeIfElse type-checks both branches, requiring a bool condition and
// unifying the branch types by the same casting rule used elsewhere: an
// else-less if has type NONE (it is only used as a statement).
func (a *Analyzer) analyzeIfElse(ie *ast.IfElse) *types.ValueType {
	condType := a.analyzeExpression(ie.Condition)
	if condType != nil && !condType.IsBool() {
		a.errs.Add(errors.Semantic(ie.Condition.Pos(), "if condition must be bool, found %s", condType))
	}

	thenType := a.analyzeBlock(ie.Then, nil)
	if ie.Else == nil {
		ie.SetType(types.None)
		return types.None
	}
	elseType := a.analyzeBlock(ie.Else, nil)
	if thenType == nil || elseType == nil {
		return nil
	}

	common := thenType
	if !thenType.Equal(elseType) {
		switch {
		case canCast(elseType, thenType, a.scope):
			common = thenType
		case canCast(thenType, elseType, a.scope):
			common = elseType
		default:
			a.errs.Add(errors.Semantic(ie.Pos(), "if/else branches have incompatible types %s and %s", thenType, elseType))
			return nil
		}
	}
	ie.SetType(common)
	return common
}
