package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brc-lang/brc/internal/backend"
	"github.com/brc-lang/brc/internal/builder"
)

var (
	emitKind         string
	buildTarget      string
	buildCPU         string
	buildReloc       string
	buildCodeModel   string
	buildOptLevel    int
	buildCC          string
	functionSections bool
	noZeroInitBSS    bool
	stackSizes       bool
)

var buildCmd = &cobra.Command{
	Use:   "build <files...>",
	Short: "Compile BRC sources through the full pipeline",
	Long: `build runs every phase (lexer, parser, module assembly, semantic
analyzer, module builder) and hands each completed module to the backend
for object code, assembly, or textual IR.

One output artifact is produced per module: moduleName.o, moduleName.asm,
or moduleName.ir, depending on --emit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&emitKind, "emit", "obj", "output kind: obj, asm, ir")
	buildCmd.Flags().StringVar(&buildTarget, "target", "", "target triple (default: host)")
	buildCmd.Flags().StringVar(&buildCPU, "cpu", "", "CPU/architecture name (default: host)")
	buildCmd.Flags().StringVar(&buildReloc, "reloc", "pic", "relocation model: static, pic")
	buildCmd.Flags().StringVar(&buildCodeModel, "code-model", "small", "code model: tiny, small, kernel, medium, large")
	buildCmd.Flags().IntVarP(&buildOptLevel, "opt", "O", 2, "optimization level: 0, 1, 2, 3")
	buildCmd.Flags().StringVar(&buildCC, "cc", "cdecl", "calling convention: cdecl, stdcall, fastcall, tail")
	buildCmd.Flags().BoolVar(&functionSections, "function-sections", false, "place each function in its own section")
	buildCmd.Flags().BoolVar(&noZeroInitBSS, "no-zero-init-bss", false, "disable BSS zero-init")
	buildCmd.Flags().BoolVar(&stackSizes, "stack-sizes", false, "emit a stack-sizes section")
}

func runBuild(_ *cobra.Command, args []string) error {
	log := loggerForVerbosity()

	files := parseFiles(args, log)
	if files == nil {
		return fmt.Errorf("build aborted: lexer/parser errors")
	}

	store := assembleAndAnalyze(files, log)
	if store == nil {
		return fmt.Errorf("build aborted: module assembly/analysis errors")
	}

	log.Status("building IR")
	mods, buildErrs := builder.BuildStore(store)
	if buildErrs.HasErrors() {
		log.Diagnostics(buildErrs)
		return fmt.Errorf("build aborted: module builder errors")
	}

	cfg, err := backendConfig()
	if err != nil {
		return err
	}

	var be backend.Backend = backend.NullBackend{}
	for name, mod := range mods {
		modCfg := cfg
		modCfg.OutputPath = name + "." + cfg.Emit.String()
		log.Status("emitting %s", modCfg.OutputPath)
		path, err := be.Emit(mod, modCfg)
		if err != nil {
			return fmt.Errorf("emitting module %s: %w", name, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", path)
	}

	return nil
}

func backendConfig() (backend.Config, error) {
	cfg := backend.Config{
		Target:           buildTarget,
		CPU:              buildCPU,
		OptLevel:         buildOptLevel,
		FunctionSections: functionSections,
		NoZeroInitBSS:    noZeroInitBSS,
		StackSizes:       stackSizes,
	}

	switch emitKind {
	case "obj":
		cfg.Emit = backend.EmitObject
	case "asm":
		cfg.Emit = backend.EmitAssembly
	case "ir":
		cfg.Emit = backend.EmitIR
	default:
		return cfg, fmt.Errorf("invalid --emit %q: want obj, asm, or ir", emitKind)
	}

	switch buildReloc {
	case "static":
		cfg.Reloc = backend.RelocStatic
	case "pic":
		cfg.Reloc = backend.RelocPIC
	default:
		return cfg, fmt.Errorf("invalid --reloc %q: want static or pic", buildReloc)
	}

	switch buildCodeModel {
	case "tiny":
		cfg.CodeModel = backend.CodeModelTiny
	case "small":
		cfg.CodeModel = backend.CodeModelSmall
	case "kernel":
		cfg.CodeModel = backend.CodeModelKernel
	case "medium":
		cfg.CodeModel = backend.CodeModelMedium
	case "large":
		cfg.CodeModel = backend.CodeModelLarge
	default:
		return cfg, fmt.Errorf("invalid --code-model %q: want tiny, small, kernel, medium, or large", buildCodeModel)
	}

	switch buildCC {
	case "cdecl":
		cfg.CallingConvention = backend.CCCdecl
	case "stdcall":
		cfg.CallingConvention = backend.CCStdcall
	case "fastcall":
		cfg.CallingConvention = backend.CCFastcall
	case "tail":
		cfg.CallingConvention = backend.CCTail
	default:
		return cfg, fmt.Errorf("invalid --cc %q: want cdecl, stdcall, fastcall, or tail", buildCC)
	}

	if buildOptLevel < 0 || buildOptLevel > 3 {
		return cfg, fmt.Errorf("invalid -O %d: want 0, 1, 2, or 3", buildOptLevel)
	}

	return cfg, nil
}
