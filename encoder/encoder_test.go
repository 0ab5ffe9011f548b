package encoder_test

import (
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/encoder"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
)

func mustEncode(t *testing.T, src string) []uint32 {
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

func TestEncodeAddRType(t *testing.T) {
	words := mustEncode(t, "add t0, t1, t2\n")
	// add x5, x6, x7: funct7=0 rs2=7 rs1=6 funct3=0 rd=5 opcode=0110011
	want := uint32(0)<<25 | 7<<20 | 6<<15 | 0<<12 | 5<<7 | 0b0110011
	if words[0] != want {
		t.Errorf("got 0x%08x, want 0x%08x", words[0], want)
	}
}

func TestEncodeSubSetsFunct7(t *testing.T) {
	words := mustEncode(t, "sub t0, t1, t2\n")
	want := uint32(0x20)<<25 | 7<<20 | 6<<15 | 0<<12 | 5<<7 | 0b0110011
	if words[0] != want {
		t.Errorf("got 0x%08x, want 0x%08x", words[0], want)
	}
}

func TestEncodeAddiNegativeImmediate(t *testing.T) {
	words := mustEncode(t, "addi t0, x0, -1\n")
	want := uint32(0xfff)<<20 | 0<<15 | 0<<12 | 5<<7 | 0b0010011
	if words[0] != want {
		t.Errorf("got 0x%08x, want 0x%08x", words[0], want)
	}
}

func TestEncodeSraiSetsFunct7Bit(t *testing.T) {
	words := mustEncode(t, "srai t0, t0, 3\n")
	want := uint32(0x20)<<25 | 3<<20 | 5<<15 | 5<<12 | 5<<7 | 0b0010011
	if words[0] != want {
		t.Errorf("got 0x%08x, want 0x%08x", words[0], want)
	}
}

func TestEncodeLoadWithOffset(t *testing.T) {
	words := mustEncode(t, "lw t0, 4(sp)\n")
	want := uint32(4)<<20 | 2<<15 | 2<<12 | 5<<7 | 0b0000011
	if words[0] != want {
		t.Errorf("got 0x%08x, want 0x%08x", words[0], want)
	}
}

func TestEncodeStoreWithOffset(t *testing.T) {
	words := mustEncode(t, "sw t0, 8(sp)\n")
	if words[0]&0x7f != 0b0100011 {
		t.Errorf("expected STORE opcode, got word 0x%08x", words[0])
	}
}

func TestEncodeBranchBackward(t *testing.T) {
	words := mustEncode(t, "loop:\n  addi t0, t0, -1\n  bne t0, x0, loop\n")
	// bne at address 4, target address 0: displacement -4
	if words[1]&0x7f != 0b1100011 {
		t.Errorf("expected BRANCH opcode, got 0x%08x", words[1])
	}
}

func TestEncodeJalForward(t *testing.T) {
	words := mustEncode(t, "jal ra, end\nnop\nend:\nnop\n")
	if words[0]&0x7f != 0b1101111 {
		t.Errorf("expected JAL opcode, got 0x%08x", words[0])
	}
}

func TestEncodeLuiShiftsImmediate(t *testing.T) {
	words := mustEncode(t, "lui t0, 1\n")
	want := uint32(1)<<12 | 5<<7 | 0b0110111
	if words[0] != want {
		t.Errorf("got 0x%08x, want 0x%08x", words[0], want)
	}
}

func TestEncodeEbreakIsFixedWord(t *testing.T) {
	words := mustEncode(t, "ebreak\n")
	if words[0] != 0x00100073 {
		t.Errorf("got 0x%08x, want 0x00100073", words[0])
	}
}

func TestEncodeUndefinedLabelErrors(t *testing.T) {
	prog, err := parser.Parse("j nowhere\n", "test.s")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := encoder.Encode(prog.Items[0], prog.Symbols); err == nil {
		t.Fatal("expected error for undefined label")
	}
}

func TestEncodeDecodeRoundTripRegisters(t *testing.T) {
	words := mustEncode(t, "add a0, a1, a2\n")
	// Re-decoding the fields must reproduce the same register numbers.
	word := words[0]
	rd := (word >> 7) & 0x1f
	rs1 := (word >> 15) & 0x1f
	rs2 := (word >> 20) & 0x1f
	if rd != 10 || rs1 != 11 || rs2 != 12 {
		t.Errorf("decoded fields rd=%d rs1=%d rs2=%d", rd, rs1, rs2)
	}
}
