package ast

import (
	"testing"

	"github.com/brc-lang/brc/internal/lexer"
	"github.com/brc-lang/brc/internal/types"
)

func TestBinaryString(t *testing.T) {
	left := &Value{Token: lexer.Token{Lexeme: "a"}, Name: "a"}
	right := &Literal{Token: lexer.Token{Lexeme: "1"}, Raw: "1"}
	b := &Binary{Token: lexer.Token{Lexeme: "+"}, Left: left, Operator: "+", Right: right}

	want := "(a + 1)"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUnarySpacing(t *testing.T) {
	tests := []struct {
		operator string
		want     string
	}{
		{"-", "(-x)"},
		{"not", "(not x)"},
		{"~", "(~x)"},
	}

	for _, tt := range tests {
		u := &Unary{Operator: tt.operator, Operand: &Value{Name: "x"}}
		if got := u.String(); got != tt.want {
			t.Errorf("Unary(%q).String() = %q, want %q", tt.operator, got, tt.want)
		}
	}
}

func TestChainedString(t *testing.T) {
	c := &Chained{
		Receiver: &Value{Name: "p"},
		Links: []*ChainLink{
			{Member: "count"},
			{Member: "at", IsCall: true, Arguments: []Expression{&Value{Name: "i"}}},
		},
	}

	want := "p.count.at(i)"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLiteralLiteralInt(t *testing.T) {
	var n int64 = 42
	lit := &Literal{Raw: "42", IntValue: &n}
	v, ok := lit.LiteralInt()
	if !ok || v != 42 {
		t.Errorf("LiteralInt() = (%d, %v), want (42, true)", v, ok)
	}

	boolLit := &Literal{Raw: "true"}
	if _, ok := boolLit.LiteralInt(); ok {
		t.Errorf("LiteralInt() on a non-integer literal should report ok=false")
	}
}

func TestTypedBaseGetSetType(t *testing.T) {
	v := &Value{Name: "x"}
	if v.GetType() != nil {
		t.Errorf("GetType() = %v before analysis, want nil", v.GetType())
	}
	v.SetType(types.Int)
	if !v.GetType().Equal(types.Int) {
		t.Errorf("GetType() after SetType(Int) = %v, want Int", v.GetType())
	}
}

func TestBlockString(t *testing.T) {
	block := &Block{
		Statements: []Statement{
			&Return{Value: &Literal{Raw: "0"}},
		},
	}
	want := "{\n  ret 0\n}"
	if got := block.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFunctionDeclarationString(t *testing.T) {
	f := &FunctionDeclaration{
		Name: "add",
		Parameters: []Param{
			{Name: "a", Type: types.Int},
			{Name: "b", Type: types.Int},
		},
		ReturnType: types.Int,
	}
	want := "add fun: a int, b int -> int"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
