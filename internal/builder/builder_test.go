package builder

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/llir/llvm/ir"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/module"
	"github.com/brc-lang/brc/internal/parser"
	"github.com/brc-lang/brc/internal/semantic"
)

func build(t *testing.T, src string) (map[string]*ir.Module, *errors.List) {
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

	if errs := semantic.AnalyzeStore(store); errs.HasErrors() {
		t.Fatalf("unexpected analyzer errors: %s", errs.String())
	}

	return BuildStore(store)
}

func TestBuildStoreEmitsFunctionDefinition(t *testing.T) {
	mods, errs := build(t, `
add fun: a s32, b s32 -> s32:
ret a + b
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod, ok := mods["main"]
	if !ok {
		t.Fatal("expected a \"main\" module")
	}
	fn := findIRFunc(mod, "add")
	if fn == nil {
		t.Fatal("function add not emitted")
	}
	if len(fn.Blocks) == 0 {
		t.Fatal("function add has no body")
	}
	if fn.Blocks[0].Term == nil {
		t.Fatal("entry block is not terminated")
	}
}

func TestBuildStoreGlobalGetsConstantInitializer(t *testing.T) {
	mods, errs := build(t, `
counter u32 <- 0
noop fun:
ret
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod := mods["main"]
	g := findIRGlobal(mod, "counter")
	if g == nil {
		t.Fatal("global counter not emitted")
	}
	if g.Init == nil {
		t.Fatal("global counter has no initializer")
	}
}

func TestBuildStoreGlobalWithoutInitializerGetsZeroValue(t *testing.T) {
	mods, errs := build(t, `
counter u32
noop fun:
ret
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod := mods["main"]
	g := findIRGlobal(mod, "counter")
	if g == nil {
		t.Fatal("global counter not emitted")
	}
	if g.Init == nil {
		t.Fatal("uninitialized global should still get a zero-value initializer")
	}
}

func TestBuildStoreBlobLowersToStruct(t *testing.T) {
	mods, errs := build(t, `
point blob: x s32, y s32
originX fun -> s32:
p point <- { (0 s32), (0 s32) }
ret p.x
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod := mods["main"]
	fn := findIRFunc(mod, "originX")
	if fn == nil {
		t.Fatal("function originX not emitted")
	}
}

func TestBuildStoreRepeatProducesLoopBlocks(t *testing.T) {
	mods, errs := build(t, `
countdown fun: n s32 -> s32:
i s32 <- n
rep i2 s32 <- i, i2 > 0, i2 <- i2 - 1:
i <- i2
;
ret i
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod := mods["main"]
	fn := findIRFunc(mod, "countdown")
	if fn == nil {
		t.Fatal("function countdown not emitted")
	}
	if len(fn.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (entry/pre/body/after), got %d", len(fn.Blocks))
	}
}

func TestBuildStoreRepeatWithFullHeaderProducesLoopBlocks(t *testing.T) {
	mods, errs := build(t, `
loop fun:
rep i s32 <- 0, i < 10, i <- i + 1:
;
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod := mods["main"]
	fn := findIRFunc(mod, "loop")
	if fn == nil {
		t.Fatal("function loop not emitted")
	}
	if len(fn.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (entry/pre/body/after), got %d", len(fn.Blocks))
	}
}

func TestBuildStoreEmptyFunctionSynthesizesReturn(t *testing.T) {
	mods, errs := build(t, `
f fun:
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	mod := mods["main"]
	fn := findIRFunc(mod, "f")
	if fn == nil {
		t.Fatal("function f not emitted")
	}
	last := fn.Blocks[len(fn.Blocks)-1]
	if last.Term == nil {
		t.Fatal("empty function body must still get a synthesized terminator")
	}
}

func TestBuildStoreRendersModuleText(t *testing.T) {
	mods, errs := build(t, `
square fun: n s32 -> s32:
ret n * n
;
`)
	if errs.HasErrors() {
		t.Fatalf("unexpected builder errors: %s", errs.String())
	}
	snaps.MatchSnapshot(t, "square_module", mods["main"].String())
}

func findIRFunc(mod *ir.Module, name string) *ir.Func {
	for _, fn := range mod.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

func findIRGlobal(mod *ir.Module, name string) *ir.Global {
	for _, g := range mod.Globals {
		if g.Name() == name {
			return g
		}
	}
	return nil
}
