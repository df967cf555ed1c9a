package module

import (
	"testing"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/types"
)

func TestNewStoreGroupsByModuleName(t *testing.T) {
	f1 := &ast.File{Path: "a.brc", ModuleName: "geo", Body: []ast.Statement{
		&ast.VariableDef{Name: "origin", Type: types.Int},
	}}
	f2 := &ast.File{Path: "b.brc", ModuleName: "geo", Body: []ast.Statement{
		&ast.VariableDef{Name: "scale", Type: types.Int},
	}}

	var errs errors.List
	store := NewStore([]*ast.File{f1, f2}, &errs)

	geo := store.Lookup("geo")
	if geo == nil {
		t.Fatal("expected a 'geo' module")
	}
	if len(geo.Body) != 2 {
		t.Errorf("len(Body) = %d, want 2 (merged from both files)", len(geo.Body))
	}
}

func TestNewStoreDefaultsToMain(t *testing.T) {
	f := &ast.File{Path: "x.brc", ModuleName: "", Body: nil}
	var errs errors.List
	store := NewStore([]*ast.File{f}, &errs)
	if store.Lookup("main") == nil {
		t.Fatal("expected a 'main' module for a file with no @module")
	}
}

func TestSynthesizeDeclarationsForExportedFunction(t *testing.T) {
	fn := &ast.FunctionDef{Name: "add", ReturnType: types.Int, Body: &ast.Block{}, Exported: true}
	f := &ast.File{Path: "a.brc", ModuleName: "mathx", Exported: []ast.Statement{fn}}

	var errs errors.List
	store := NewStore([]*ast.File{f}, &errs)
	mod := store.Lookup("mathx")

	found := false
	for _, stmt := range mod.Header {
		if decl, ok := stmt.(*ast.FunctionDeclaration); ok && decl.Name == "add" {
			found = true
		}
	}
	if !found {
		t.Error("expected a synthesized FunctionDeclaration for the exported function")
	}
}

func TestQualifyExportsRenamesBlob(t *testing.T) {
	b := &ast.BlobDef{Name: "point", Exported: true}
	f := &ast.File{Path: "a.brc", ModuleName: "geo", Exported: []ast.Statement{b}}

	var errs errors.List
	NewStore([]*ast.File{f}, &errs)

	if b.Name != "geo.point" {
		t.Errorf("BlobDef.Name = %q, want geo.point", b.Name)
	}
}

func TestValidateImportsReportsUnknownModule(t *testing.T) {
	f := &ast.File{
		Path: "a.brc", ModuleName: "main",
		Header: []ast.Statement{&ast.ImportDecl{Name: "nonexistent"}},
	}
	var errs errors.List
	NewStore([]*ast.File{f}, &errs)
	if !errs.HasErrors() {
		t.Error("expected an error for importing an unknown module")
	}
}
