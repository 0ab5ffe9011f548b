package debugger

import (
	"fmt"

	"github.com/lookbusy1344/rv32i-toolchain/parser"
	"github.com/lookbusy1344/rv32i-toolchain/vm"
)

// Debugger drives a vm.VM one instruction (or one breakpoint-to-breakpoint
// run) at a time, for the command loop and the TUI to sit on top of.
type Debugger struct {
	VM          *vm.VM
	Breakpoints *BreakpointManager
	Symbols     *parser.SymbolTable // may be nil; enables breakpoints by label
	MaxCycles   int
	cyclesRun   int
}

// New wraps machine for interactive debugging. symbols may be nil, in
// which case breakpoints can only be set by address.
func New(machine *vm.VM, maxCycles int, symbols *parser.SymbolTable) *Debugger {
	return &Debugger{VM: machine, Breakpoints: NewBreakpointManager(), Symbols: symbols, MaxCycles: maxCycles}
}

// Step executes exactly one instruction, reporting a breakpoint hit (if
// any) at the address it lands on.
func (d *Debugger) Step() (*Breakpoint, error) {
	if d.VM.Halted {
		return nil, nil
	}
	if d.cyclesRun >= d.MaxCycles {
		return nil, fmt.Errorf("cycle cap (%d) reached", d.MaxCycles)
	}
	if err := d.VM.Step(); err != nil {
		return nil, err
	}
	d.cyclesRun++
	return d.Breakpoints.ProcessHit(d.VM.PC), nil
}

// Continue steps until halt, a cycle cap, or a breakpoint is hit at the
// address the machine lands on after a step.
func (d *Debugger) Continue() (*Breakpoint, error) {
	for !d.VM.Halted {
		if d.cyclesRun >= d.MaxCycles {
			return nil, fmt.Errorf("cycle cap (%d) reached", d.MaxCycles)
		}
		if err := d.VM.Step(); err != nil {
			return nil, err
		}
		d.cyclesRun++
		if bp := d.Breakpoints.ProcessHit(d.VM.PC); bp != nil {
			return bp, nil
		}
	}
	return nil, nil
}

// CyclesRun returns the number of steps executed so far in this session.
func (d *Debugger) CyclesRun() int {
	return d.cyclesRun
}
