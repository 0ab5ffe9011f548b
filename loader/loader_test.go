package loader_test

import (
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/loader"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
)

func TestLoadWordDirectiveIntoMemory(t *testing.T) {
	src := ".word 0xdeadbeef\naddi t0, x0, 1\nebreak\n"
	prog, err := parser.Parse(src, "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	img, err := loader.Load(prog)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	machine := loader.NewVM(img, 64)
	v, err := machine.Memory.ReadWord(0)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if v != 0xdeadbeef {
		t.Errorf("got 0x%08x, want 0xdeadbeef", v)
	}
}

func TestLoadRunsInstructions(t *testing.T) {
	src := "addi a0, x0, 7\nebreak\n"
	prog, err := parser.Parse(src, "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	img, err := loader.Load(prog)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	machine := loader.NewVM(img, 64)
	if _, err := machine.Run(10); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if got := machine.Regs.Get(10); got != 7 {
		t.Errorf("a0 = %d, want 7", got)
	}
}

func TestLoadAscizDirective(t *testing.T) {
	src := `.asciz "hi"` + "\nnop\nebreak\n"
	prog, err := parser.Parse(src, "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	img, err := loader.Load(prog)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	machine := loader.NewVM(img, 64)
	b0, _ := machine.Memory.ReadByte(0)
	b1, _ := machine.Memory.ReadByte(1)
	b2, _ := machine.Memory.ReadByte(2)
	if b0 != 'h' || b1 != 'i' || b2 != 0 {
		t.Errorf("got bytes %d %d %d, want 'h' 'i' 0", b0, b1, b2)
	}
}

func TestLoadUndefinedLabelInWordDirectiveErrors(t *testing.T) {
	src := ".word missing\n"
	prog, err := parser.Parse(src, "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := loader.Load(prog); err == nil {
		t.Fatal("expected error for unresolved label in .word")
	}
}
