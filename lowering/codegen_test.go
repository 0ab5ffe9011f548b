package lowering_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/encoder"
	"github.com/lookbusy1344/rv32i-toolchain/lowering"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
	"github.com/lookbusy1344/rv32i-toolchain/vm"
)

func runLowered(t *testing.T, source string) *vm.VM {
	t.Helper()
	asm, err := lowering.Compile(source)
	if err != nil {
		t.Fatalf("compile error: %v\n%s", err, asm)
	}
	prog, err := parser.Parse(asm, "gen.s")
	if err != nil {
		t.Fatalf("parse error: %v\n%s", err, asm)
	}
	words := make([]uint32, 0, len(prog.Items))
	for _, item := range prog.Items {
		if item.Kind != parser.ItemInstruction {
			continue
		}
		w, err := encoder.Encode(item, prog.Symbols)
		if err != nil {
			t.Fatalf("encode error: %v\n%s", err, asm)
		}
		words = append(words, w)
	}
	machine := vm.New(words, 4096)
	if _, err := machine.Run(10000); err != nil {
		t.Fatalf("run error: %v", err)
	}
	return machine
}

func TestLowerConstantAssignment(t *testing.T) {
	machine := runLowered(t, "x = 42\n")
	v, _ := machine.Memory.ReadWord(0)
	if v != 42 {
		t.Errorf("mem[0] = %d, want 42", v)
	}
}

func TestLowerSumLoop(t *testing.T) {
	// First-use allocation order binds n -> s1 (x9), s -> s2 (x18).
	src := "n = 10\ns = 0\nwhile n > 0:\n  s += n\n  n -= 1\n"
	machine := runLowered(t, src)
	if got := machine.Regs.Get(18); got != 55 {
		t.Errorf("s (s2/x18) = %d, want 55", got)
	}
}

func TestLowerIfElse(t *testing.T) {
	src := "a = 1\nb = 0\nif a > 0:\n  b = 10\nelse:\n  b = 20\n"
	machine := runLowered(t, src)
	// a -> s1 (x9), b -> s2 (x18) by first-use order; the if-branch runs.
	if got := machine.Regs.Get(9); got != 1 {
		t.Errorf("a (s1/x9) = %d, want 1 (unmodified)", got)
	}
	if got := machine.Regs.Get(18); got != 10 {
		t.Errorf("b (s2/x18) = %d, want 10", got)
	}
}

func TestLowerGreaterThanTwoBranches(t *testing.T) {
	asm, err := lowering.Compile("a = 5\nb = 3\nif a > b:\n  a = 1\nelse:\n  a = 0\n")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if strings.Count(asm, "blt t0, t1,") != 1 {
		t.Errorf("expected exactly one blt for '>' lowering:\n%s", asm)
	}
	if strings.Count(asm, "beq t0, t1,") != 1 {
		t.Errorf("expected exactly one beq for '>' lowering:\n%s", asm)
	}
}

func TestLowerEpilogueShape(t *testing.T) {
	asm, err := lowering.Compile("x = 1\n")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if !strings.Contains(asm, "sw s1, 0(x0)") {
		t.Errorf("missing epilogue store:\n%s", asm)
	}
	if !strings.HasSuffix(strings.TrimRight(asm, "\n"), "ebreak") {
		t.Errorf("expected program to end with ebreak:\n%s", asm)
	}
}

func TestLowerRegisterPoolExhaustion(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("v")
		sb.WriteString(string(rune('a' + i)))
		sb.WriteString(" = 0\n")
	}
	if _, err := lowering.Compile(sb.String()); err == nil {
		t.Fatal("expected out-of-registers error for 12 distinct variables")
	}
}

func TestParseRejectsMultipleComparisons(t *testing.T) {
	_, err := lowering.Parse("while a == b == c:\n  x = 1\n")
	if err == nil {
		t.Fatal("expected error for chained comparison")
	}
}
