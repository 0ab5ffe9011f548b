// Package vm implements the RV32I instruction-set simulator: a register
// file, little-endian data memory, and a fetch-decode-execute loop with
// exact RV32I arithmetic, shift, branch, and memory semantics.
package vm

import (
	"fmt"

	"github.com/lookbusy1344/rv32i-toolchain/isa"
)

// VM is one RV32I machine: registers, data memory, a read-only program
// image, and the instrumentation hooks the CLI's iss and debug commands opt into.
type VM struct {
	Regs    Registers
	PC      uint32
	Halted  bool
	Memory  *Memory
	Program []uint32 // instruction memory, one word per index (byte address = index*4)

	// Instrumentation. Each is nil until a caller explicitly enables it;
	// Step checks for nil before recording, so the hot path pays nothing
	// when nobody is watching.
	ExecutionTrace        *ExecutionTrace
	PerformanceStatistics *PerformanceStatistics
	CodeCoverage          *CodeCoverage

	cycle int
}

// New creates a VM with the given instruction image and data memory size.
func New(program []uint32, dataMemorySize int) *VM {
	return &VM{
		Program: program,
		Memory:  NewMemory(dataMemorySize),
	}
}

// fetch returns the word at the current PC, or the canonical NOP if PC
// has run past the end of the program image.
func (vm *VM) fetch() uint32 {
	idx := vm.PC >> 2
	if int(idx) < len(vm.Program) {
		return vm.Program[idx]
	}
	return isa.WordNOP
}

// Step executes exactly one instruction. It is a no-op once Halted is set.
func (vm *VM) Step() error {
	if vm.Halted {
		return nil
	}

	word := vm.fetch()
	f := isa.DecodeFields(word)

	iimm := isa.DecodeIImm(word)
	simm := isa.DecodeSImm(word)
	bimm := isa.DecodeBImm(word)
	uimm := isa.DecodeUImm(word)
	jimm := isa.DecodeJImm(word)

	next := vm.PC + 4

	r1 := vm.Regs.Get(f.Rs1)
	r2 := vm.Regs.Get(f.Rs2)

	var writeback uint32
	var hasWriteback bool

	switch f.Opcode {
	case isa.OpOP:
		writeback, hasWriteback = execOP(f, r1, r2)
	case isa.OpOPIMM:
		writeback, hasWriteback = execOPIMM(f, r1, iimm, word)
	case isa.OpLOAD:
		var err error
		writeback, err = execLoad(vm.Memory, f.Funct3, r1, iimm)
		if err != nil {
			return fmt.Errorf("pc=0x%08x: %w", vm.PC, err)
		}
		hasWriteback = true
	case isa.OpSTORE:
		addr := uint32(int64(r1) + int64(simm))
		if err := execStore(vm.Memory, f.Funct3, addr, r2); err != nil {
			return fmt.Errorf("pc=0x%08x: %w", vm.PC, err)
		}
	case isa.OpBRANCH:
		if branchTaken(f.Funct3, r1, r2) {
			next = uint32(int64(vm.PC) + int64(bimm))
		}
	case isa.OpJAL:
		writeback, hasWriteback = next, true
		next = uint32(int64(vm.PC) + int64(jimm))
	case isa.OpJALR:
		writeback, hasWriteback = next, true
		next = uint32(int64(r1)+int64(iimm)) &^ 1
	case isa.OpLUI:
		writeback, hasWriteback = uimm, true
	case isa.OpAUIPC:
		writeback, hasWriteback = vm.PC+uimm, true
	case isa.OpSYSTEM:
		if word == isa.WordEBreak {
			vm.Halted = true
		}
	}

	if hasWriteback && f.Rd != 0 {
		vm.Regs.Set(f.Rd, writeback)
	}

	vm.instrument(word, f)
	vm.PC = next
	return nil
}

func (vm *VM) instrument(word uint32, f isa.Fields) {
	if vm.ExecutionTrace != nil {
		vm.ExecutionTrace.Entries = append(vm.ExecutionTrace.Entries, TraceEntry{PC: vm.PC, Word: word, Cycle: vm.cycle})
	}
	if vm.PerformanceStatistics != nil {
		vm.PerformanceStatistics.record(mnemonicFor(f, word))
	}
	if vm.CodeCoverage != nil {
		vm.CodeCoverage.record(vm.PC)
	}
	vm.cycle++
}

// Run steps the machine until it halts or maxCycles is reached,
// returning the number of cycles actually executed.
func (vm *VM) Run(maxCycles int) (int, error) {
	executed := 0
	for !vm.Halted && executed < maxCycles {
		if err := vm.Step(); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}
