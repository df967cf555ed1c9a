package semantic

import (
	"testing"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/module"
	"github.com/brc-lang/brc/internal/parser"
	"github.com/brc-lang/brc/internal/types"
)

func analyze(t *testing.T, src string) (*module.Module, *errors.List) {
	t.Helper()
	lx := lexer.New(src, "test.brc")
	toks := lx.ScanTokens()
	if len(lx.Errors()) > 0 {
		t.Fatalf("unexpected lexer errors: %v", lx.Errors())
	}
	p := parser.New(toks, "test.brc")
	f := p.ParseFile()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parser errors: %s", p.Errors().String())
	}

	var assemblyErrs errors.List
	store := module.NewStore([]*ast.File{f}, &assemblyErrs)
	if assemblyErrs.HasErrors() {
		t.Fatalf("unexpected assembly errors: %s", assemblyErrs.String())
	}

	errs := AnalyzeStore(store)
	return store.Lookup(f.ModuleName), errs
}

func findFunction(mod *module.Module, name string) *ast.FunctionDef {
	for _, stmt := range append(append([]ast.Statement{}, mod.Body...), mod.Exported...) {
		if fn, ok := stmt.(*ast.FunctionDef); ok && fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestAnalyzeInsertsImplicitWideningCast(t *testing.T) {
	mod, errs := analyze(t, `
add fun -> s64:
a s32 <- (1 s32)
b s64 <- (2 s64)
ret a
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	fn := findFunction(mod, "add")
	if fn == nil {
		t.Fatal("function add not found")
	}
	ret, ok := fn.Body.Statements[len(fn.Body.Statements)-1].(*ast.Return)
	if !ok {
		t.Fatalf("last statement = %T, want *ast.Return", fn.Body.Statements[len(fn.Body.Statements)-1])
	}
	if _, isCast := ret.Value.(*ast.Cast); !isCast || ret.Value.GetType().Kind != types.S64 {
		t.Errorf("ret value = %T of type %s, want an inserted s64 cast", ret.Value, ret.Value.GetType())
	}
}

func TestAnalyzeRejectsBadCast(t *testing.T) {
	_, errs := analyze(t, `
f fun -> bool:
ret (1 bool)
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected a semantic error casting an integer to bool")
	}
}

func TestAnalyzeFreshLocalBindingThenAssignment(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
a u32 <- 1
a <- 2
ret a
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestAnalyzeUndefinedNameReportsError(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
ret missing
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-name error")
	}
}

func TestAnalyzeLogicalOpsRequireBool(t *testing.T) {
	_, errs := analyze(t, `
f fun -> bool:
ret 1 and 2
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: 'and' on non-bool operands")
	}
}

func TestAnalyzeUnaryMinusPromotesUnsignedToSigned(t *testing.T) {
	mod, errs := analyze(t, `
f fun -> s32:
ret -(1 u32)
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	fn := findFunction(mod, "f")
	if fn == nil {
		t.Fatal("function f not found")
	}
	ret, ok := fn.Body.Statements[len(fn.Body.Statements)-1].(*ast.Return)
	if !ok {
		t.Fatalf("last statement = %T, want *ast.Return", fn.Body.Statements[len(fn.Body.Statements)-1])
	}
	// ret's value is the Unary("-") itself: SignedCounterpart already
	// promoted its type to s32, which matches the return type, so no Cast
	// is wrapped around it.
	if ret.Value.GetType().Kind != types.S32 {
		t.Errorf("ret value type = %s, want s32", ret.Value.GetType())
	}
}

func TestAnalyzeBlobMemberAccess(t *testing.T) {
	mod, errs := analyze(t, `
point blob: x u32, y u32
f fun -> u32:
p point <- { 1, 2 }
ret p.x
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if mod == nil {
		t.Fatal("module not found")
	}
}

func TestAnalyzeUnknownBlobMemberReportsError(t *testing.T) {
	_, errs := analyze(t, `
point blob: x u32
f fun -> u32:
p point <- { 1 }
ret p.z
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: point has no member z")
	}
}

func TestAnalyzeDataCountBuiltin(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
d data[4]u32 <- { 1, 2, 3, 4 }
ret d.count
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestAnalyzeCountOnNonDataReportsError(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
a u32 <- 1
ret a.count
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: .count on a non-data type")
	}
}

func TestAnalyzeValOnPointer(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
a u32 <- 1
p ptr u32 <- a.adr
ret p.val
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestAnalyzeIfElseBranchUnification(t *testing.T) {
	mod, errs := analyze(t, `
f fun -> s64:
ret ? 1 = 1 : (1 s32) : (2 s64)
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	fn := findFunction(mod, "f")
	if fn == nil {
		t.Fatal("function f not found")
	}
}

func TestAnalyzeIfElseRequiresBoolCondition(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
ret ? 1 : 1 : 2
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: if condition must be bool")
	}
}

func TestAnalyzeRepeatRequiresBoolCondition(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
rep i u32 <- 0, 1:
ret 1
;
ret 0
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: repeat pre-condition must be bool")
	}
}

func TestAnalyzeRepeatPostConditionRequiresBool(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
rep i u32 <- 0, i < 10, i <- i + 1, 1:
;
ret i
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: repeat post-condition must be bool")
	}
}

func TestAnalyzeRepeatInitBindingVisibleInBody(t *testing.T) {
	_, errs := analyze(t, `
f fun -> u32:
rep i u32 <- 0, i < 10, i <- i + 1:
i <- i
;
ret 0
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestAnalyzeCallArgumentCountMismatch(t *testing.T) {
	_, errs := analyze(t, `
g fun: a u32 -> u32:
ret a
;
f fun -> u32:
ret g(1, 2)
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an error: argument count mismatch")
	}
}

func TestAnalyzeCrossModuleBlobImport(t *testing.T) {
	geoSrc := `@module geo

@export point blob: x u32, y u32
`
	mainSrc := `@module main
@import geo

f fun -> u32:
p geo.point <- { 1, 2 }
ret p.x
;
`
	var lexErrs []lexer.Error
	parseOne := func(src, file string) *ast.File {
		lx := lexer.New(src, file)
		toks := lx.ScanTokens()
		lexErrs = append(lexErrs, lx.Errors()...)
		p := parser.New(toks, file)
		f := p.ParseFile()
		if p.Errors().HasErrors() {
			t.Fatalf("unexpected parser errors in %s: %s", file, p.Errors().String())
		}
		return f
	}

	geoFile := parseOne(geoSrc, "geo.brc")
	mainFile := parseOne(mainSrc, "main.brc")
	if len(lexErrs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", lexErrs)
	}

	var assemblyErrs errors.List
	store := module.NewStore([]*ast.File{geoFile, mainFile}, &assemblyErrs)
	if assemblyErrs.HasErrors() {
		t.Fatalf("unexpected assembly errors: %s", assemblyErrs.String())
	}

	errs := AnalyzeStore(store)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}
