// Package builder lowers an analyzed module.Module to a typed
// intermediate representation via github.com/llir/llvm, the external
// code-generation library this implementation treats as the "provides
// typed SSA construction, function/global definitions, inline asm, and a
// module verifier" collaborator described by the core design.
package builder

import (
	"github.com/llir/llvm/ir"

	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/module"
)

// wordWidth is the target pointer/platform-integer width in bits. A is an
// address-width integer and INT is the platform-width unsigned integer;
// both lower to an integer of this width.
const wordWidth = 64

// ModuleBuilder owns one module's IR context: its llir/llvm module, the
// struct-type registry backing BLOB lowering, and the name scope mapping
// BRC names to IR-level bound values.
type ModuleBuilder struct {
	store *module.Store
	mod   *module.Module

	irMod   *ir.Module
	structs map[string]*structInfo // blob name -> registered LLVM struct type + member order
	scope   *Scope
	errs    errors.List
}

// BuildStore lowers every module in store to its own IR module, returning
// the combined diagnostics from all of them. A module whose own errors
// list is non-empty still returns its (possibly incomplete) IR module,
// matching the per-phase print-then-abort discipline: it is the driver's
// job to check the returned errors list before handing modules to a
// backend.
func BuildStore(store *module.Store) (map[string]*ir.Module, *errors.List) {
	out := make(map[string]*ir.Module)
	var all errors.List

	for _, mod := range store.Modules() {
		b := newModuleBuilder(store, mod)
		irMod := b.Build()
		out[mod.Name] = irMod
		for _, e := range b.errs.Errors() {
			all.Add(e)
		}
	}

	return out, &all
}

func newModuleBuilder(store *module.Store, mod *module.Module) *ModuleBuilder {
	return &ModuleBuilder{
		store:   store,
		mod:     mod,
		irMod:   ir.NewModule(),
		structs: make(map[string]*structInfo),
		scope:   NewScope(),
	}
}

// Build lowers mod's Header (declarations), Body, and Exported
// (definitions) in that order, verifying each function immediately after
// its body is emitted and the whole module once every definition has
// been lowered.
func (b *ModuleBuilder) Build() *ir.Module {
	b.registerBlobTypes(b.mod.Header)
	b.registerBlobTypes(b.mod.Body)
	b.registerBlobTypes(b.mod.Exported)

	for _, stmt := range b.mod.Header {
		b.lowerHeaderStatement(stmt)
	}
	for _, stmt := range b.mod.Body {
		b.lowerTopLevelStatement(stmt)
	}
	for _, stmt := range b.mod.Exported {
		b.lowerTopLevelStatement(stmt)
	}

	if errs := verifyModule(b.irMod); len(errs) > 0 {
		for _, msg := range errs {
			b.errs.Add(errors.Verification(b.mod.Name, "%s", msg))
		}
	}

	return b.irMod
}

// qualifiedName returns name prefixed with this module's name unless it
// is the default module, matching the exported-header qualification rule
// (moduleName.name for any module other than "main").
func (b *ModuleBuilder) qualifiedName(name string) string {
	if b.mod.Name == "main" {
		return name
	}
	return b.mod.Name + "." + name
}
