// Package backend defines the boundary between the compiler core and an
// external code generator: the core hands over a completed IR module and
// a target configuration, and a Backend turns that into object code,
// assembly, or textual IR on disk. No target-machine codegen lives here;
// NullBackend only honors the one output kind the core can produce
// unaided.
package backend

import (
	"fmt"
	"os"

	"github.com/llir/llvm/ir"
)

// EmitKind selects the output artifact a Backend produces.
type EmitKind int

const (
	EmitObject EmitKind = iota
	EmitAssembly
	EmitIR
)

func (k EmitKind) String() string {
	switch k {
	case EmitObject:
		return "obj"
	case EmitAssembly:
		return "asm"
	case EmitIR:
		return "ir"
	default:
		return "unknown"
	}
}

// RelocModel selects position-independence for the emitted artifact.
type RelocModel int

const (
	RelocPIC RelocModel = iota
	RelocStatic
)

// CodeModel selects the target's code model.
type CodeModel int

const (
	CodeModelSmall CodeModel = iota
	CodeModelTiny
	CodeModelKernel
	CodeModelMedium
	CodeModelLarge
)

// CallingConvention selects the ABI used at function boundaries.
type CallingConvention int

const (
	CCCdecl CallingConvention = iota
	CCStdcall
	CCFastcall
	CCTail
)

// Config carries every target/codegen knob spec.md's CLI surface exposes,
// independent of how a concrete Backend chooses to honor them.
type Config struct {
	OutputPath string
	Emit       EmitKind

	Target string // target triple; empty means host
	CPU    string // CPU/architecture name; empty means host

	Reloc     RelocModel
	CodeModel CodeModel
	OptLevel  int // 0-3

	CallingConvention CallingConvention

	FunctionSections bool // place each function in its own section
	NoZeroInitBSS    bool // disable BSS zero-init
	StackSizes       bool // emit a stack-sizes section
}

// Backend is the out-of-scope collaborator: given a completed IR module
// and a Config, it produces the requested artifact and returns the path
// it wrote.
type Backend interface {
	Emit(mod *ir.Module, cfg Config) (path string, err error)
}

// NullBackend honors EmitIR by writing the module's own textual form (the
// one output kind the core can produce unaided via (*ir.Module).String());
// it refuses EmitObject and EmitAssembly with a clear error naming the gap
// this implementation deliberately leaves to an external target-machine
// codegen library.
type NullBackend struct{}

func (NullBackend) Emit(mod *ir.Module, cfg Config) (string, error) {
	if cfg.Emit != EmitIR {
		return "", fmt.Errorf("%s emission requires an external backend; this build only honors --emit ir", cfg.Emit)
	}
	path := cfg.OutputPath
	if path == "" {
		path = "out.ir"
	}
	if err := os.WriteFile(path, []byte(mod.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing IR output: %w", err)
	}
	return path, nil
}
