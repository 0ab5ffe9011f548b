package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/debugger"
	"github.com/lookbusy1344/rv32i-toolchain/encoder"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
	"github.com/lookbusy1344/rv32i-toolchain/vm"
)

func assemble(t *testing.T, src string) []uint32 {
	t.Helper()
	prog, err := parser.Parse(src, "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	words := make([]uint32, 0, len(prog.Items))
	for _, item := range prog.Items {
		if item.Kind != parser.ItemInstruction {
			continue
		}
		w, err := encoder.Encode(item, prog.Symbols)
		if err != nil {
			t.Fatalf("encode error: %v", err)
		}
		words = append(words, w)
	}
	return words
}

func TestBreakpointStopsContinue(t *testing.T) {
	words := assemble(t, "addi t0, x0, 1\naddi t0, t0, 1\naddi t0, t0, 1\nebreak\n")
	machine := vm.New(words, 64)
	d := debugger.New(machine, 1000, nil)
	d.Breakpoints.Add(8, false) // third instruction's address

	bp, err := d.Continue()
	if err != nil {
		t.Fatalf("continue error: %v", err)
	}
	if bp == nil {
		t.Fatal("expected breakpoint hit")
	}
	if machine.PC != 8 {
		t.Errorf("pc = 0x%x, want 0x8", machine.PC)
	}
	if machine.Halted {
		t.Error("machine should not be halted yet")
	}
}

func TestTemporaryBreakpointDeletesAfterHit(t *testing.T) {
	words := assemble(t, "nop\nnop\nebreak\n")
	machine := vm.New(words, 64)
	d := debugger.New(machine, 1000, nil)
	d.Breakpoints.Add(4, true)

	if _, err := d.Continue(); err != nil {
		t.Fatalf("continue error: %v", err)
	}
	if d.Breakpoints.Has(4) {
		t.Error("temporary breakpoint should have been removed after hit")
	}
}

func TestStepReportsHalted(t *testing.T) {
	words := assemble(t, "ebreak\n")
	machine := vm.New(words, 64)
	d := debugger.New(machine, 10, nil)
	if _, err := d.Step(); err != nil {
		t.Fatalf("step error: %v", err)
	}
	if !machine.Halted {
		t.Error("expected machine halted after stepping over ebreak")
	}
}

func TestREPLMemShowsStoredWord(t *testing.T) {
	words := assemble(t, "addi a0, x0, 7\nsw a0, 0(x0)\nebreak\n")
	machine := vm.New(words, 64)
	d := debugger.New(machine, 1000, nil)
	if _, err := d.Continue(); err != nil {
		t.Fatalf("continue error: %v", err)
	}

	var out bytes.Buffer
	repl := debugger.NewREPL(d, strings.NewReader(""), &out)
	if _, err := repl.Dispatch("mem", []string{"0x0", "1"}); err != nil {
		t.Fatalf("mem command error: %v", err)
	}
	if !strings.Contains(out.String(), "0x00000007") {
		t.Errorf("expected memory output to show 7, got %q", out.String())
	}
}

func TestREPLBreakByLabelResolvesSymbol(t *testing.T) {
	src := "nop\nloop:\n  addi t0, t0, 1\n  ebreak\n"
	prog, err := parser.Parse(src, "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	words := assemble(t, src)
	machine := vm.New(words, 64)
	d := debugger.New(machine, 1000, prog.Symbols)

	var out bytes.Buffer
	repl := debugger.NewREPL(d, strings.NewReader(""), &out)
	if _, err := repl.Dispatch("break", []string{"loop"}); err != nil {
		t.Fatalf("break by label error: %v", err)
	}
	if !d.Breakpoints.Has(4) {
		t.Error("expected breakpoint at loop's address (4)")
	}

	bp, err := d.Continue()
	if err != nil {
		t.Fatalf("continue error: %v", err)
	}
	if bp == nil || bp.Address != 4 {
		t.Fatalf("expected breakpoint hit at address 4, got %+v", bp)
	}
}

func TestREPLListReportsBreakpoints(t *testing.T) {
	words := assemble(t, "nop\nnop\nebreak\n")
	machine := vm.New(words, 64)
	d := debugger.New(machine, 1000, nil)
	d.Breakpoints.Add(4, false)

	var out bytes.Buffer
	repl := debugger.NewREPL(d, strings.NewReader(""), &out)
	if _, err := repl.Dispatch("list", nil); err != nil {
		t.Fatalf("list command error: %v", err)
	}
	if !strings.Contains(out.String(), "0x00000004") {
		t.Errorf("expected list output to show breakpoint address, got %q", out.String())
	}
}

func TestCycleCapReturnsError(t *testing.T) {
	words := assemble(t, "loop:\n  j loop\n")
	machine := vm.New(words, 64)
	d := debugger.New(machine, 5, nil)
	for i := 0; i < 5; i++ {
		if _, err := d.Step(); err != nil {
			t.Fatalf("unexpected error on step %d: %v", i, err)
		}
	}
	if _, err := d.Step(); err == nil {
		t.Fatal("expected cycle cap error")
	}
}
