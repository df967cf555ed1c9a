package parser

import (
	"testing"

	"github.com/brc-lang/brc/internal/ast"
	"github.com/brc-lang/brc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	lx := lexer.New(src, "test.brc")
	toks := lx.ScanTokens()
	if len(lx.Errors()) > 0 {
		t.Fatalf("unexpected lexer errors: %v", lx.Errors())
	}
	p := New(toks, "test.brc")
	f := p.ParseFile()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parser errors: %s", p.Errors().String())
	}
	return f
}

func TestParseModuleAndImport(t *testing.T) {
	f := parse(t, "@module mymod\n@import other\n")
	if f.ModuleName != "mymod" {
		t.Errorf("ModuleName = %q, want mymod", f.ModuleName)
	}
	if len(f.Header) != 1 {
		t.Fatalf("len(Header) = %d, want 1", len(f.Header))
	}
	imp, ok := f.Header[0].(*ast.ImportDecl)
	if !ok {
		t.Fatalf("Header[0] = %T, want *ast.ImportDecl", f.Header[0])
	}
	if imp.Name != "other" {
		t.Errorf("ImportDecl.Name = %q, want other", imp.Name)
	}
}

// TestParseScenario1 covers scenario 1: a global variable whose
// initializer exercises operator precedence, `a s32 <- 1 + 2 * 3`.
func TestParseScenario1(t *testing.T) {
	f := parse(t, "a s32 <- 1 + 2 * 3\n")
	if len(f.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(f.Body))
	}
	v, ok := f.Body[0].(*ast.VariableDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.VariableDef", f.Body[0])
	}
	if v.Name != "a" || v.Type == nil || v.Type.Kind.String() != "s32" {
		t.Fatalf("unexpected VariableDef: %+v", v)
	}
	if v.Init == nil {
		t.Fatalf("expected an initializer")
	}
	if got, want := v.Init.String(), "(1 + (2 * 3))"; got != want {
		t.Errorf("Init.String() = %q, want %q", got, want)
	}
}

// TestParseScenario2 covers scenario 2: a zero-argument function with an
// explicit return type, `main fun -> s32:\n  ret 42\n;`.
func TestParseScenario2(t *testing.T) {
	f := parse(t, "main fun -> s32:\nret 42\n;\n")
	if len(f.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(f.Body))
	}
	fn, ok := f.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.FunctionDef", f.Body[0])
	}
	if fn.Name != "main" || len(fn.Parameters) != 0 {
		t.Fatalf("unexpected FunctionDef: %+v", fn)
	}
	if fn.ReturnType == nil || fn.ReturnType.Kind.String() != "s32" {
		t.Fatalf("ReturnType = %v, want s32", fn.ReturnType)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("len(Body.Statements) = %d, want 1", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("Statements[0] = %T, want *ast.Return", fn.Body.Statements[0])
	}
	if ret.Value == nil || ret.Value.String() != "42" {
		t.Errorf("Return.Value = %v, want 42", ret.Value)
	}
}

// TestParseScenario3 covers scenario 3: a blob definition followed by a
// separate top-level variable initialized from a composite literal.
func TestParseScenario3(t *testing.T) {
	f := parse(t, "point blob: x s32, y s32\np point <- { 1, 2 }\n")
	if len(f.Body) != 2 {
		t.Fatalf("len(Body) = %d, want 2", len(f.Body))
	}
	blob, ok := f.Body[0].(*ast.BlobDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.BlobDef", f.Body[0])
	}
	if blob.Name != "point" || len(blob.Members) != 2 {
		t.Fatalf("unexpected BlobDef: %+v", blob)
	}
	if blob.Members[0].Name != "x" || blob.Members[1].Name != "y" {
		t.Errorf("unexpected blob members: %+v", blob.Members)
	}

	v, ok := f.Body[1].(*ast.VariableDef)
	if !ok {
		t.Fatalf("Body[1] = %T, want *ast.VariableDef", f.Body[1])
	}
	if v.Name != "p" || v.Type == nil || v.Type.Kind.String() != "blob" || v.Type.BlobName != "point" {
		t.Fatalf("unexpected VariableDef: %+v", v)
	}
	lit, ok := v.Init.(*ast.CompositeLiteral)
	if !ok {
		t.Fatalf("Init = %T, want *ast.CompositeLiteral", v.Init)
	}
	if len(lit.Elements) != 2 {
		t.Errorf("len(Elements) = %d, want 2", len(lit.Elements))
	}
}

// TestParseScenario4 covers scenario 4: a repeat loop populating the
// init/preCond/postStmt clauses but leaving postCond absent,
// `rep i s32 <- 0, i < 10, i <- i + 1: ;`.
func TestParseScenario4(t *testing.T) {
	f := parse(t, "loop fun:\nrep i s32 <- 0, i < 10, i <- i + 1:\n;\n;\n")
	fn, ok := f.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.FunctionDef", f.Body[0])
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("len(Body.Statements) = %d, want 1", len(fn.Body.Statements))
	}
	rep, ok := fn.Body.Statements[0].(*ast.Repeat)
	if !ok {
		t.Fatalf("Statements[0] = %T, want *ast.Repeat", fn.Body.Statements[0])
	}

	initDef, ok := rep.Init.(*ast.VariableDef)
	if !ok {
		t.Fatalf("Init = %T, want *ast.VariableDef", rep.Init)
	}
	if initDef.Name != "i" || initDef.Type.Kind.String() != "s32" || initDef.Init.String() != "0" {
		t.Errorf("unexpected init: %+v", initDef)
	}

	if rep.PreCond == nil {
		t.Fatalf("expected a pre-condition")
	}
	if got, want := rep.PreCond.String(), "(i < 10)"; got != want {
		t.Errorf("PreCond.String() = %q, want %q", got, want)
	}

	post, ok := rep.Post.(*ast.Assignment)
	if !ok {
		t.Fatalf("Post = %T, want *ast.Assignment", rep.Post)
	}
	if got, want := post.String(), "i <- (i + 1)"; got != want {
		t.Errorf("Post.String() = %q, want %q", got, want)
	}

	if rep.PostCond != nil {
		t.Errorf("PostCond = %v, want nil (scenario 4 leaves it absent)", rep.PostCond)
	}

	if len(rep.Body.Statements) != 0 {
		t.Fatalf("len(Repeat.Body.Statements) = %d, want 0 (empty body)", len(rep.Body.Statements))
	}
}

// TestParseScenario5 covers scenario 5: a function whose single-colon body
// opens directly with a statement, with no argument list at all,
// `main fun: ret zzz ;`.
func TestParseScenario5(t *testing.T) {
	f := parse(t, "main fun: ret zzz ;\n")
	fn, ok := f.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.FunctionDef", f.Body[0])
	}
	if len(fn.Parameters) != 0 {
		t.Fatalf("len(Parameters) = %d, want 0", len(fn.Parameters))
	}
	if fn.ReturnType == nil || fn.ReturnType.Kind.String() != "none" {
		t.Fatalf("ReturnType = %v, want none", fn.ReturnType)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("len(Body.Statements) = %d, want 1", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("Statements[0] = %T, want *ast.Return", fn.Body.Statements[0])
	}
	val, ok := ret.Value.(*ast.Value)
	if !ok || val.Name != "zzz" {
		t.Errorf("Return.Value = %+v, want bare reference to zzz", ret.Value)
	}
}

// TestParseScenario6 covers scenario 6: a cast expression written
// `(expr type)`, `b bool <- (1 f32)`.
func TestParseScenario6(t *testing.T) {
	f := parse(t, "b bool <- (1 f32)\n")
	v, ok := f.Body[0].(*ast.VariableDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.VariableDef", f.Body[0])
	}
	if v.Name != "b" || v.Type.Kind.String() != "bool" {
		t.Fatalf("unexpected VariableDef: %+v", v)
	}
	cast, ok := v.Init.(*ast.Cast)
	if !ok {
		t.Fatalf("Init = %T, want *ast.Cast", v.Init)
	}
	if cast.Target.Kind.String() != "f32" {
		t.Errorf("cast target = %v, want f32", cast.Target)
	}
	if cast.Value.String() != "1" {
		t.Errorf("cast value = %v, want 1", cast.Value)
	}
}

// TestParseEmptyFunctionBody covers the boundary case: an empty function
// `f fun: ;` parses as a function with an empty body.
func TestParseEmptyFunctionBody(t *testing.T) {
	f := parse(t, "f fun: ;\n")
	fn, ok := f.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.FunctionDef", f.Body[0])
	}
	if len(fn.Body.Statements) != 0 {
		t.Errorf("len(Body.Statements) = %d, want 0", len(fn.Body.Statements))
	}
}

func TestParseVariableDefWithoutInitializer(t *testing.T) {
	f := parse(t, "count u32\n")
	v, ok := f.Body[0].(*ast.VariableDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.VariableDef", f.Body[0])
	}
	if v.Name != "count" || v.Type.Kind.String() != "u32" {
		t.Fatalf("unexpected VariableDef: %+v", v)
	}
	if v.Init != nil {
		t.Errorf("Init = %v, want nil", v.Init)
	}
}

func TestParseFunctionWithArgs(t *testing.T) {
	f := parse(t, "add fun: a s32, b s32 -> s32:\nret a + b\n;\n")
	fn, ok := f.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.FunctionDef", f.Body[0])
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("len(Parameters) = %d, want 2", len(fn.Parameters))
	}
	if fn.Parameters[0].Name != "a" || fn.Parameters[1].Name != "b" {
		t.Errorf("unexpected parameters: %+v", fn.Parameters)
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("Statements[0] = %T, want *ast.Return", fn.Body.Statements[0])
	}
	bin, ok := ret.Value.(*ast.Binary)
	if !ok || bin.Operator != "+" {
		t.Errorf("Return.Value = %+v, want a + binary", ret.Value)
	}
}

func TestParseRawFunctionDef(t *testing.T) {
	f := parse(t, `syscall raw "={ax},{di},{si},{dx}": a u64, b u64, c u64 -> u64:
  "syscall"
;
`)
	raw, ok := f.Body[0].(*ast.RawFunctionDef)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.RawFunctionDef", f.Body[0])
	}
	if raw.Name != "syscall" || raw.Constraints != "={ax},{di},{si},{dx}" {
		t.Fatalf("unexpected RawFunctionDef: %+v", raw)
	}
	if len(raw.Parameters) != 3 {
		t.Fatalf("len(Parameters) = %d, want 3", len(raw.Parameters))
	}
	if raw.Assembly != "syscall" {
		t.Errorf("Assembly = %q, want %q", raw.Assembly, "syscall")
	}
}

func TestParseExportedBlob(t *testing.T) {
	f := parse(t, "@export point blob: x s32, y s32\n")
	if len(f.Exported) != 1 {
		t.Fatalf("len(Exported) = %d, want 1", len(f.Exported))
	}
	b, ok := f.Exported[0].(*ast.BlobDef)
	if !ok {
		t.Fatalf("Exported[0] = %T, want *ast.BlobDef", f.Exported[0])
	}
	if b.Name != "point" || len(b.Members) != 2 || !b.Exported {
		t.Errorf("unexpected BlobDef: %+v", b)
	}
}

func TestParseExternFunction(t *testing.T) {
	f := parse(t, "@extern write fun: fd u32, buf ptr u8, n u64 -> s64\n")
	if len(f.Header) != 1 {
		t.Fatalf("len(Header) = %d, want 1", len(f.Header))
	}
	ext, ok := f.Header[0].(*ast.ExternFunctionDecl)
	if !ok {
		t.Fatalf("Header[0] = %T, want *ast.ExternFunctionDecl", f.Header[0])
	}
	if ext.Name != "write" || len(ext.Parameters) != 3 {
		t.Errorf("unexpected ExternFunctionDecl: %+v", ext)
	}
}

func TestParseChainedCall(t *testing.T) {
	f := parse(t, "f fun -> u32:\nret buf.count\n;\n")
	fn := f.Body[0].(*ast.FunctionDef)
	ret := fn.Body.Statements[0].(*ast.Return)
	chained, ok := ret.Value.(*ast.Chained)
	if !ok {
		t.Fatalf("Return.Value = %T, want *ast.Chained", ret.Value)
	}
	if len(chained.Links) != 1 || chained.Links[0].Member != "count" {
		t.Errorf("unexpected Chained: %+v", chained)
	}
}

func TestParseIfElseExpression(t *testing.T) {
	f := parse(t, "f fun: a bool -> s32:\nret ? a : 1 : 0\n;\n")
	fn := f.Body[0].(*ast.FunctionDef)
	ret := fn.Body.Statements[0].(*ast.Return)
	ifElse, ok := ret.Value.(*ast.IfElse)
	if !ok {
		t.Fatalf("Return.Value = %T, want *ast.IfElse", ret.Value)
	}
	if ifElse.Else == nil {
		t.Errorf("expected an else branch")
	}
	if len(ifElse.Then.Statements) != 1 || len(ifElse.Else.Statements) != 1 {
		t.Errorf("expected single-statement branches, got then=%d else=%d",
			len(ifElse.Then.Statements), len(ifElse.Else.Statements))
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 or 2 and 3", "(1 or (2 and 3))"},
		{"a = b and c = d", "((a = b) and (c = d))"},
		{"1 | 2 & 3", "(1 | (2 & 3))"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
	}
	for _, tt := range tests {
		f := parse(t, "f fun:\ncount <- "+tt.src+"\n;\n")
		fn := f.Body[0].(*ast.FunctionDef)
		a, ok := fn.Body.Statements[0].(*ast.Assignment)
		if !ok {
			t.Fatalf("parse(%q): Statements[0] = %T, want *ast.Assignment", tt.src, fn.Body.Statements[0])
		}
		if got := a.Value.String(); got != tt.want {
			t.Errorf("parse(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseUnexpectedTokenRecordsError(t *testing.T) {
	lx := lexer.New("@extern fun write fun\n", "bad.brc")
	toks := lx.ScanTokens()
	p := New(toks, "bad.brc")
	p.ParseFile()
	if !p.Errors().HasErrors() {
		t.Fatalf("expected a parser error for an extern fun missing its name")
	}
}
