package tools_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/tools"
)

func TestFormatAlignsMnemonicAndOperands(t *testing.T) {
	out, err := tools.Format("addi t0,x0,1\n", "test.s", nil)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	if !strings.Contains(out, "addi") || !strings.Contains(out, "t0, x0, 1") {
		t.Errorf("unexpected formatted output: %q", out)
	}
	if !strings.HasPrefix(out, strings.Repeat(" ", 8)) {
		t.Errorf("expected instruction indented to column 8, got %q", out)
	}
}

func TestFormatEmitsLabelOnItsOwnLine(t *testing.T) {
	out, err := tools.Format("loop:\n  addi t0, t0, -1\n  bne t0, x0, loop\n", "test.s", nil)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "loop:" {
		t.Errorf("expected first line to be the label, got %q", lines[0])
	}
}

func TestFormatCompactOmitsColumnAlignment(t *testing.T) {
	out, err := tools.Format("addi t0, x0, 1\n", "test.s", tools.CompactFormatOptions())
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	if strings.HasPrefix(out, " ") {
		t.Errorf("expected no leading indentation in compact mode, got %q", out)
	}
}
