package semantic

import (
	"strings"
	"testing"
)

// TestValCallOnFunctionPointerChecksArityAfterKind pins the decided
// ordering for a `.val(...)` call through a PTR-to-FUN chain link: the
// pointee's kind is confirmed to be FUN first, and only then is the call
// checked against its argument count. A mismatched arity on a genuine
// function pointer is reported as an argument-count error, not folded
// into a type error.
func TestValCallOnFunctionPointerChecksArityAfterKind(t *testing.T) {
	_, errs := analyze(t, `
add fun: a s32, b s32 -> s32:
ret a + b
;
caller fun -> s32:
ret add.adr.val(1)
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected an argument-count error, got none")
	}
	found := false
	for _, e := range errs.Errors() {
		if strings.Contains(e.String(), "expected") && strings.Contains(e.String(), "arguments") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an argument-count diagnostic, got: %s", errs.String())
	}
}

// TestValCallOnNonFunctionPointerReportsKindMismatch confirms a `.val(...)`
// call through a pointer whose pointee is not FUN is rejected by kind,
// regardless of how many arguments were supplied.
func TestValCallOnNonFunctionPointerReportsKindMismatch(t *testing.T) {
	_, errs := analyze(t, `
caller fun -> s32:
n s32 <- 1
p ptr s32 <- n.adr
ret p.val(1, 2, 3)
;
`)
	if !errs.HasErrors() {
		t.Fatal("expected a kind-mismatch error, got none")
	}
	found := false
	for _, e := range errs.Errors() {
		if strings.Contains(e.String(), "requires a pointer to a function") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a pointer-to-function kind-mismatch diagnostic, got: %s", errs.String())
	}
}
