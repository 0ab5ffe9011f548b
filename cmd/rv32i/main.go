// Command rv32i is the toolchain's single entry point: assemble, run,
// format, lint, cross-reference, lower, and interactively debug RV32I
// programs, one subcommand per verb.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/rv32i-toolchain/config"
	"github.com/lookbusy1344/rv32i-toolchain/debugger"
	"github.com/lookbusy1344/rv32i-toolchain/encoder"
	"github.com/lookbusy1344/rv32i-toolchain/loader"
	"github.com/lookbusy1344/rv32i-toolchain/lowering"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
	"github.com/lookbusy1344/rv32i-toolchain/tools"
	"github.com/lookbusy1344/rv32i-toolchain/vm"
)

// Version information, overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "rv32i",
		Short:   "Assemble, simulate, and debug RV32I programs",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
	}
	root.AddCommand(
		newAsmCmd(),
		newISSCmd(),
		newRunCmd(),
		newLowerCmd(),
		newFmtCmd(),
		newLintCmd(),
		newXRefCmd(),
		newDebugCmd(),
	)
	return root
}

// assembleFile runs the full parse+encode pipeline and returns the
// resulting machine words, one per instruction-sized address slot.
func assembleFile(path string) ([]uint32, *parser.Program, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- user-supplied source file
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	prog, err := parser.Parse(string(src), path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse error: %w", err)
	}
	words, err := wordsForProgram(prog)
	if err != nil {
		return nil, nil, err
	}
	return words, prog, nil
}

// wordsForProgram lays out a program's hex-object word stream: each
// instruction item's word lands at item.Address/4, and any directive
// reserves a zero word across its address span, exactly as loader.Load
// reserves directive bytes alongside instruction words. This keeps
// address = line number * 4 true for a program mixing data directives
// with control flow even though directives carry no instruction word
// of their own.
func wordsForProgram(prog *parser.Program) ([]uint32, error) {
	var highWater uint32
	for _, item := range prog.Items {
		if end := item.Address + uint32(item.Size); end > highWater {
			highWater = end
		}
	}
	words := make([]uint32, (highWater+3)/4)
	for _, item := range prog.Items {
		if item.Kind != parser.ItemInstruction {
			continue
		}
		w, err := encoder.Encode(item, prog.Symbols)
		if err != nil {
			return nil, fmt.Errorf("encode error: %w", err)
		}
		words[item.Address/4] = w
	}
	return words, nil
}

func newAsmCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "asm <input.s>",
		Short: "Assemble a source file to the hex object format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, _, err := assembleFile(args[0])
			if err != nil {
				return err
			}
			if outPath != "" {
				f, err := os.Create(outPath) // #nosec G304 -- user-supplied output path
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				return loader.WriteHexObject(f, words)
			}
			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()
			return loader.WriteHexObject(w, words)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the hex object to this file instead of stdout")
	return cmd
}

func loadProgramFile(path string) (*loader.Image, *parser.Program, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- user-supplied source file
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	prog, err := parser.Parse(string(src), path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse error: %w", err)
	}
	img, err := loader.Load(prog)
	if err != nil {
		return nil, nil, fmt.Errorf("load error: %w", err)
	}
	return img, prog, nil
}

func newISSCmd() *cobra.Command {
	cfg := loadedConfig()
	var maxCycles uint64
	var dataMemorySize uint
	var trace, stats, coverage bool
	cmd := &cobra.Command{
		Use:   "iss <input.hex>",
		Short: "Run a hex object file to completion on the instruction-set simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) // #nosec G304 -- user-supplied hex object file
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			defer f.Close()
			words, err := loader.ReadHexObject(f)
			if err != nil {
				return fmt.Errorf("reading hex object: %w", err)
			}

			machine := vm.New(words, int(dataMemorySize))
			attachInstrumentation(machine, trace, stats, coverage)

			cycles, err := machine.Run(int(maxCycles))
			if err != nil {
				return err
			}
			mem0, err := machine.Memory.ReadWord(0)
			if err != nil {
				return err
			}
			// Always exits 0, including when the cycle cap is hit: a
			// cycle cap is a reportable outcome, not a tool failure.
			fmt.Printf("cycles=%d halted=%t pc=0x%08x a0=%d mem[0]=0x%08x\n",
				cycles, machine.Halted, machine.PC, int32(machine.Regs.Get(10)), mem0)
			printInstrumentation(machine)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", cfg.Execution.MaxCycles, "maximum cycles before giving up")
	cmd.Flags().UintVar(&dataMemorySize, "data-memory-size", cfg.Execution.DataMemorySize, "data memory size in bytes")
	cmd.Flags().BoolVar(&trace, "trace", cfg.Execution.EnableTrace, "record a per-instruction execution trace")
	cmd.Flags().BoolVar(&stats, "stats", cfg.Execution.EnableStats, "collect per-opcode execution statistics")
	cmd.Flags().BoolVar(&coverage, "coverage", cfg.Execution.EnableCoverage, "record which addresses were executed")
	return cmd
}

// attachInstrumentation opts a freshly built VM into trace/stats/coverage
// recording, mirroring the VM's nil-unless-enabled convention: each field
// stays nil, and therefore free, unless its flag (or config default) asks
// for it.
func attachInstrumentation(machine *vm.VM, trace, stats, coverage bool) {
	if trace {
		machine.ExecutionTrace = &vm.ExecutionTrace{}
	}
	if stats {
		machine.PerformanceStatistics = vm.NewPerformanceStatistics()
	}
	if coverage {
		machine.CodeCoverage = vm.NewCodeCoverage()
	}
}

func printInstrumentation(machine *vm.VM) {
	if machine.ExecutionTrace != nil {
		fmt.Printf("trace: %d entries recorded\n", len(machine.ExecutionTrace.Entries))
	}
	if machine.PerformanceStatistics != nil {
		fmt.Printf("stats: %d cycles, instruction counts %v\n",
			machine.PerformanceStatistics.TotalCycles, machine.PerformanceStatistics.InstructionCounts)
	}
	if machine.CodeCoverage != nil {
		fmt.Printf("coverage: %d unique addresses executed\n", len(machine.CodeCoverage.Hit))
	}
}

func newRunCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Lower a scripting-subset source file and write program.s and program.hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source file
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			asmText, err := lowering.Compile(string(src))
			if err != nil {
				return fmt.Errorf("lowering error: %w", err)
			}

			prog, err := parser.Parse(asmText, args[0])
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			words, err := wordsForProgram(prog)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0750); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}
			asmPath := filepath.Join(outDir, "program.s")
			if err := os.WriteFile(asmPath, []byte(asmText), 0644); err != nil { // #nosec G306 -- plain-text assembly output
				return fmt.Errorf("writing %s: %w", asmPath, err)
			}
			hexPath := filepath.Join(outDir, "program.hex")
			hexFile, err := os.Create(hexPath) // #nosec G304 -- fixed filename under user-chosen output directory
			if err != nil {
				return fmt.Errorf("creating %s: %w", hexPath, err)
			}
			defer hexFile.Close()
			if err := loader.WriteHexObject(hexFile, words); err != nil {
				return fmt.Errorf("writing %s: %w", hexPath, err)
			}
			fmt.Printf("wrote %s and %s\n", asmPath, hexPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "outdir", ".", "directory to write program.s and program.hex into")
	return cmd
}

func newLowerCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "lower <file.rvs>",
		Short: "Lower a source file in the scripting subset to RV32I assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source file
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			asm, err := lowering.Compile(string(src))
			if err != nil {
				return fmt.Errorf("lowering error: %w", err)
			}
			if outPath != "" {
				return os.WriteFile(outPath, []byte(asm), 0644) // #nosec G306 -- plain-text assembly output
			}
			fmt.Print(asm)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write lowered assembly to this file instead of stdout")
	return cmd
}

func newFmtCmd() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "fmt <file.s>",
		Short: "Print a column-aligned reformatting of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source file
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			opts := tools.DefaultFormatOptions()
			if compact {
				opts = tools.CompactFormatOptions()
			}
			out, err := tools.Format(string(src), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "pack mnemonics and operands onto a single space-separated line")
	return cmd
}

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <file.s>",
		Short: "Check a source file for undefined labels and unreachable code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source file
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			prog, err := parser.Parse(string(src), args[0])
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			issues := tools.Lint(prog)
			hasError := false
			for _, issue := range issues {
				fmt.Println(issue.String())
				if issue.Level == tools.LintError {
					hasError = true
				}
			}
			if hasError {
				return fmt.Errorf("lint found errors")
			}
			return nil
		},
	}
	return cmd
}

func newXRefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xref <file.s>",
		Short: "Print a label cross-reference report for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source file
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			prog, err := parser.Parse(string(src), args[0])
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			fmt.Print(tools.XRefReport(tools.CrossReference(prog)))
			return nil
		},
	}
	return cmd
}

func newDebugCmd() *cobra.Command {
	cfg := loadedConfig()
	var maxCycles uint64
	var dataMemorySize uint
	var tui bool
	var trace, stats, coverage bool
	cmd := &cobra.Command{
		Use:   "debug <file.s>",
		Short: "Interactively debug a source file (REPL by default, --tui for full-screen)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, prog, err := loadProgramFile(args[0])
			if err != nil {
				return err
			}
			machine := loader.NewVM(img, int(dataMemorySize))
			attachInstrumentation(machine, trace, stats, coverage)
			d := debugger.New(machine, int(maxCycles), prog.Symbols)

			if tui {
				return debugger.NewTUI(d).Run()
			}
			return debugger.NewREPL(d, os.Stdin, os.Stdout).Run()
		},
	}
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", cfg.Execution.MaxCycles, "maximum cycles before giving up")
	cmd.Flags().UintVar(&dataMemorySize, "data-memory-size", cfg.Execution.DataMemorySize, "data memory size in bytes")
	cmd.Flags().BoolVar(&trace, "trace", cfg.Execution.EnableTrace, "record a per-instruction execution trace")
	cmd.Flags().BoolVar(&stats, "stats", cfg.Execution.EnableStats, "collect per-opcode execution statistics")
	cmd.Flags().BoolVar(&coverage, "coverage", cfg.Execution.EnableCoverage, "record which addresses were executed")
	cmd.Flags().BoolVar(&tui, "tui", false, "use the full-screen text UI instead of the line-oriented REPL")
	return cmd
}

// loadedConfig resolves persisted settings for subcommand flag defaults,
// falling back silently to DefaultConfig on any load error.
func loadedConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}
