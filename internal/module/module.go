// Package module assembles parsed files into Modules: grouping by
// @module name, synthesizing forward declarations for exported
// definitions, and qualifying exported BLOB names so other modules can
// reference them unambiguously.
package module

import (
	"fmt"
	"sort"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

// Module is the assembled unit the semantic analyzer and builder consume:
// one per distinct @module name across all parsed files.
type Module struct {
	Name string

	// Header holds @import/@extern declarations plus the forward
	// declarations assembly synthesizes for this module's own exported
	// definitions (so a definition may reference another defined later
	// in the same module, and so other modules see a declaration rather
	// than the full definition body).
	Header []ast.Statement

	// Body holds definitions private to the module (blobs, functions,
	// variables not marked @export).
	Body []ast.Statement

	// Exported holds definitions marked @export. An exported BlobDef's
	// own name carries this module's name prefix; BLOB references inside
	// the types of exported functions, variables, and blob members are
	// left unqualified.
	Exported []ast.Statement

	Imports []string
}

// Store holds every assembled Module, keyed by name.
type Store struct {
	modules map[string]*Module
	order   []string
}

// NewStore assembles files into a Store. Files that declare no @module
// default to "main". A BlobDef/FunctionDef/VariableDef/RawFunctionDef
// marked @export gets a synthesized declaration placed in its module's
// Header, and an exported BlobDef's name is qualified as "module.name" so
// importing modules can address it unambiguously.
func NewStore(files []*ast.File, errs *errors.List) *Store {
	s := &Store{modules: make(map[string]*Module)}

	for _, f := range files {
		mod := s.moduleFor(f.ModuleName)
		mod.Header = append(mod.Header, f.Header...)
		for _, stmt := range f.Header {
			if imp, ok := stmt.(*ast.ImportDecl); ok {
				mod.Imports = append(mod.Imports, imp.Name)
			}
		}
		mod.Body = append(mod.Body, f.Body...)
		mod.Exported = append(mod.Exported, f.Exported...)
	}

	for _, name := range s.order {
		mod := s.modules[name]
		qualifyExports(mod)
		synthesizeDeclarations(mod)
	}

	validateImports(s, errs)

	return s
}

func (s *Store) moduleFor(name string) *Module {
	if name == "" {
		name = "main"
	}
	if m, ok := s.modules[name]; ok {
		return m
	}
	m := &Module{Name: name}
	s.modules[name] = m
	s.order = append(s.order, name)
	return m
}

// Modules returns every assembled module in the order their @module name
// was first encountered, for deterministic build output.
func (s *Store) Modules() []*Module {
	out := make([]*Module, len(s.order))
	for i, name := range s.order {
		out[i] = s.modules[name]
	}
	return out
}

// Lookup returns the named module, or nil if it was never declared.
func (s *Store) Lookup(name string) *Module { return s.modules[name] }

// qualifyExports rewrites BLOB names defined by mod's exported
// definitions so that a type `blob point` exported from module "geo"
// is addressed elsewhere as `geo.point`. Only the declaring module's own
// exported blobs are qualified here, and types naming them elsewhere in
// the module are not rewritten. An importer registers these blobs under
// their qualified names (internal/semantic's Analyzer.Run), and its extern
// declarations and blob members are resolved to them by ResolveBlobType.
func qualifyExports(mod *Module) {
	for _, stmt := range mod.Exported {
		if b, ok := stmt.(*ast.BlobDef); ok {
			b.Name = mod.Name + "." + b.Name
		}
	}
}

// synthesizeDeclarations builds the Header-position forward declarations
// assembly contributes for each of a module's own exported definitions,
// so (a) sibling definitions in the same module can forward-reference an
// exported name declared later in file order, and (b) the semantic
// analyzer of an importing module can populate scope from declarations
// alone without pulling in full bodies.
func synthesizeDeclarations(mod *Module) {
	for _, stmt := range mod.Exported {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			mod.Header = append(mod.Header, &ast.FunctionDeclaration{
				Token: s.Token, Name: s.Name, Parameters: s.Parameters, ReturnType: s.ReturnType,
			})
		case *ast.RawFunctionDef:
			mod.Header = append(mod.Header, &ast.FunctionDeclaration{
				Token: s.Token, Name: s.Name, Parameters: s.Parameters, ReturnType: s.ReturnType,
			})
		case *ast.VariableDef:
			if s.Type != nil {
				mod.Header = append(mod.Header, &ast.VariableDeclaration{
					Token: s.Token, Name: s.Name, Type: s.Type,
				})
			}
		case *ast.BlobDef:
			mod.Header = append(mod.Header, &ast.BlobDeclaration{Token: s.Token, Name: s.Name})
		}
	}
}

// validateImports reports an import of a module name that was never
// assembled from any parsed file.
func validateImports(s *Store, errs *errors.List) {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mod := s.modules[name]
		for _, imp := range mod.Imports {
			if s.Lookup(imp) == nil {
				errs.Add(errors.Semantic(lexer.Location{}, "module %q imports unknown module %q", name, imp))
			}
		}
	}
}

// QualifiedBlobName reports the module-qualified name a blob type
// exported from module `from` should be addressed as from anywhere else.
func QualifiedBlobName(from, name string) string {
	return fmt.Sprintf("%s.%s", from, name)
}

// ResolveBlobType rewrites a bare blob reference type to use a qualified
// name when it names a blob exported by one of the importer's imports,
// leaving local and already-qualified names untouched.
func ResolveBlobType(vt *types.ValueType, imports []string, store *Store) *types.ValueType {
	if vt == nil || vt.Kind != types.BLOB {
		return vt
	}
	for _, imp := range imports {
		mod := store.Lookup(imp)
		if mod == nil {
			continue
		}
		for _, stmt := range mod.Exported {
			if b, ok := stmt.(*ast.BlobDef); ok && b.Name == QualifiedBlobName(imp, vt.BlobName) {
				return types.Blob(b.Name)
			}
		}
	}
	return vt
}
