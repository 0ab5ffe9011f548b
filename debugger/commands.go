package debugger

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// REPL is the line-oriented command loop: "step", "continue", "break
// <addr|label>", "delete <id>", "list", "regs", "mem <addr> [count]",
// "quit".
type REPL struct {
	Debugger *Debugger
	In       *bufio.Scanner
	Out      io.Writer
}

// NewREPL wires a Debugger to an input/output stream pair.
func NewREPL(d *Debugger, in io.Reader, out io.Writer) *REPL {
	return &REPL{Debugger: d, In: bufio.NewScanner(in), Out: out}
}

// Run reads commands until EOF or "quit"; a halted machine does not end
// the loop.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.Out, "(rv32i) ")
		if !r.In.Scan() {
			return nil
		}
		line := strings.TrimSpace(r.In.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		quit, err := r.Dispatch(cmd, args)
		if err != nil {
			fmt.Fprintln(r.Out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) Dispatch(cmd string, args []string) (quit bool, err error) {
	switch cmd {
	case "quit", "q", "exit":
		return true, nil
	case "step", "s":
		return false, r.cmdStep()
	case "continue", "c":
		return false, r.cmdContinue()
	case "break", "b":
		return false, r.cmdBreak(args)
	case "delete", "d":
		return false, r.cmdDelete(args)
	case "list", "info", "l":
		return false, r.cmdList()
	case "regs", "r":
		return false, r.cmdRegs()
	case "mem", "m":
		return false, r.cmdMem(args)
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
}

func (r *REPL) cmdStep() error {
	bp, err := r.Debugger.Step()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "pc=0x%08x\n", r.Debugger.VM.PC)
	if bp != nil {
		fmt.Fprintf(r.Out, "breakpoint %d hit\n", bp.ID)
	}
	return nil
}

func (r *REPL) cmdContinue() error {
	bp, err := r.Debugger.Continue()
	if err != nil {
		return err
	}
	if r.Debugger.VM.Halted {
		fmt.Fprintln(r.Out, "halted")
	} else if bp != nil {
		fmt.Fprintf(r.Out, "breakpoint %d hit at pc=0x%08x\n", bp.ID, r.Debugger.VM.PC)
	}
	return nil
}

func (r *REPL) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <address|label>")
	}
	addr, err := r.resolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := r.Debugger.Breakpoints.Add(addr, false)
	fmt.Fprintf(r.Out, "breakpoint %d at 0x%08x\n", bp.ID, bp.Address)
	return nil
}

func (r *REPL) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id %q", args[0])
	}
	return r.Debugger.Breakpoints.Delete(id)
}

func (r *REPL) cmdList() error {
	breakpoints := r.Debugger.Breakpoints.All()
	if len(breakpoints) == 0 {
		fmt.Fprintln(r.Out, "no breakpoints set")
		return nil
	}
	sort.Slice(breakpoints, func(i, j int) bool { return breakpoints[i].ID < breakpoints[j].ID })
	for _, bp := range breakpoints {
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(r.Out, "%d: 0x%08x %s, hit %d time(s)\n", bp.ID, bp.Address, state, bp.HitCount)
	}
	return nil
}

// resolveAddress accepts either a hex address or a label bound in the
// debugger's symbol table, matching the assembler's own use of labels
// as address references.
func (r *REPL) resolveAddress(s string) (uint32, error) {
	if addr, err := parseAddress(s); err == nil {
		return addr, nil
	}
	if r.Debugger.Symbols != nil {
		if addr, err := r.Debugger.Symbols.Get(s); err == nil {
			return addr, nil
		}
	}
	return 0, fmt.Errorf("unresolved address or label %q", s)
}

func (r *REPL) cmdRegs() error {
	snapshot := r.Debugger.VM.Regs.Snapshot()
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(r.Out, "x%-2d=0x%08x  x%-2d=0x%08x  x%-2d=0x%08x  x%-2d=0x%08x\n",
			i, snapshot[i], i+1, snapshot[i+1], i+2, snapshot[i+2], i+3, snapshot[i+3])
	}
	fmt.Fprintf(r.Out, "pc=0x%08x halted=%v\n", r.Debugger.VM.PC, r.Debugger.VM.Halted)
	return nil
}

func (r *REPL) cmdMem(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mem <address> [word-count]")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	count := 1
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[1])
		}
		count = n
	}
	for i := 0; i < count; i++ {
		a := addr + uint32(i*4)
		v, err := r.Debugger.VM.Memory.ReadWord(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "0x%08x: 0x%08x\n", a, v)
	}
	return nil
}

func parseAddress(s string) (uint32, error) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint32(v), nil
}
