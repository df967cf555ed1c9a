package semantic

import "github.com/brc-lang/brc/internal/types"

// frame is one level of the scope stack: one per module-global scope,
// function body, and nested block.
type frame struct {
	variables map[string]*types.ValueType
	functions map[string]*types.ValueType // FUN-kind value types, by name
}

func newFrame() *frame {
	return &frame{
		variables: make(map[string]*types.ValueType),
		functions: make(map[string]*types.ValueType),
	}
}

// Scope is the analyzer's name-resolution stack. Variables and functions
// are resolved innermost-frame-first; blob member lists are module-wide
// and kept separately since BRC has no nested blob definitions.
type Scope struct {
	frames     []*frame
	blobs      map[string][]BlobMember
	booleans   map[string]bool // names known to the analyzer to be of BOOL type, for built-in member gating
}

// BlobMember mirrors ast.BlobMember without importing the ast package, so
// Scope stays usable from both the analyzer and its tests without a
// dependency on parsed syntax.
type BlobMember struct {
	Name string
	Type *types.ValueType
}

// NewScope creates a Scope with a single (module-global) frame.
func NewScope() *Scope {
	return &Scope{
		frames:   []*frame{newFrame()},
		blobs:    make(map[string][]BlobMember),
		booleans: make(map[string]bool),
	}
}

// Push opens a new nested frame (function body, block).
func (s *Scope) Push() { s.frames = append(s.frames, newFrame()) }

// Pop closes the innermost frame.
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *Scope) top() *frame { return s.frames[len(s.frames)-1] }

// DefineVariable binds name to vt in the innermost frame.
func (s *Scope) DefineVariable(name string, vt *types.ValueType) {
	s.top().variables[name] = vt
}

// DefineFunction binds name to a FUN-kind value type, visible from any
// nested frame (function definitions have module-wide visibility, unlike
// local variables).
func (s *Scope) DefineFunction(name string, vt *types.ValueType) {
	s.frames[0].functions[name] = vt
}

// ResolveVariable searches frames innermost-first.
func (s *Scope) ResolveVariable(name string) (*types.ValueType, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if vt, ok := s.frames[i].variables[name]; ok {
			return vt, true
		}
	}
	return nil, false
}

// ResolveFunction looks up a module-level function binding.
func (s *Scope) ResolveFunction(name string) (*types.ValueType, bool) {
	vt, ok := s.frames[0].functions[name]
	return vt, ok
}

// DefineBlob registers a blob's member list for `.member` resolution and
// COMPOSITE-to-BLOB promotion.
func (s *Scope) DefineBlob(name string, members []BlobMember) {
	s.blobs[name] = members
}

// Blob returns a blob's member list, if name was defined via DefineBlob.
func (s *Scope) Blob(name string) ([]BlobMember, bool) {
	m, ok := s.blobs[name]
	return m, ok
}

// InLocalFrame reports whether name is bound as a variable in the
// innermost frame only.
func (s *Scope) InLocalFrame(name string) bool {
	_, ok := s.top().variables[name]
	return ok
}

// IsKnownName reports whether name resolves to either a variable or a
// function anywhere in scope.
func (s *Scope) IsKnownName(name string) bool {
	if _, ok := s.ResolveVariable(name); ok {
		return true
	}
	_, ok := s.ResolveFunction(name)
	return ok
}
