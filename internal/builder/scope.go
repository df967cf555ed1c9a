package builder

import (
	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/brc-lang/brc/internal/types"
)

// binding is a name's IR-level representation: its BRC type, its lowered
// IR type, and either a direct Value (functions, raw-function inline asm)
// or a Ptr to its storage (locals and globals, always alloca'd/defined so
// assignment has somewhere to store through).
type binding struct {
	vt     *types.ValueType
	irType lltypes.Type
	ptr    value.Value // storage location; nil for a function/inline-asm value
	value  value.Value // direct value; set instead of ptr for callables
}

type builderFrame struct {
	vars map[string]*binding
}

func newBuilderFrame() *builderFrame {
	return &builderFrame{vars: make(map[string]*binding)}
}

// Scope is the builder's name-resolution stack, mirroring
// internal/semantic.Scope's shape but carrying IR-level bindings instead
// of bare types: variables resolve innermost-first, functions (including
// raw/inline-asm ones) are always module-wide.
type Scope struct {
	frames    []*builderFrame
	functions map[string]*binding
}

func NewScope() *Scope {
	return &Scope{frames: []*builderFrame{newBuilderFrame()}, functions: make(map[string]*binding)}
}

func (s *Scope) Push() { s.frames = append(s.frames, newBuilderFrame()) }

func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *Scope) top() *builderFrame { return s.frames[len(s.frames)-1] }

func (s *Scope) DefineVariable(name string, b *binding) {
	s.top().vars[name] = b
}

func (s *Scope) ResolveVariable(name string) (*binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (s *Scope) DefineFunction(name string, b *binding) {
	s.functions[name] = b
}

func (s *Scope) ResolveFunction(name string) (*binding, bool) {
	b, ok := s.functions[name]
	return b, ok
}

// entryAlloca inserts an alloca in fn's entry block rather than the
// current block, so every local lives in one stack frame per function
// call regardless of which nested block introduced it (matching
// original_source's allocate-at-entry discipline; repeat bodies instead
// rely on stacksave/stackrestore to reclaim iteration-local allocations).
func entryAlloca(fn *ir.Func, elemType lltypes.Type, name string) *ir.InstAlloca {
	entry := fn.Blocks[0]
	alloca := ir.NewAlloca(elemType)
	alloca.LocalName = name
	alloca.Parent = entry
	entry.Insts = append([]ir.Instruction{alloca}, entry.Insts...)
	return alloca
}
