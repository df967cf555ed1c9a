package builder

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// verifyModule performs a structural pass over irMod: every block of every
// function with a body is non-empty and terminated. A function with zero
// blocks is treated as a declaration and is not checked.
// github.com/llir/llvm has no verifier of its own, so this replaces the
// usual "IR module verifier" step with hand-rolled structural checks
// tailored to what this builder can itself get wrong.
func verifyModule(irMod *ir.Module) []string {
	var msgs []string
	for _, fn := range irMod.Funcs {
		if len(fn.Blocks) == 0 {
			continue // declaration only, no body to check
		}
		msgs = append(msgs, verifyFunction(fn)...)
	}
	return msgs
}

// verifyFunction checks that every block in fn ends with exactly one
// terminator and that no block is empty.
func verifyFunction(fn *ir.Func) []string {
	var msgs []string
	for _, block := range fn.Blocks {
		if len(block.Insts) == 0 && block.Term == nil {
			msgs = append(msgs, fmt.Sprintf("block %q is empty", block.Name()))
			continue
		}
		if block.Term == nil {
			msgs = append(msgs, fmt.Sprintf("block %q has no terminator", block.Name()))
		}
	}
	return msgs
}
