// Package tools provides source-level utilities over an assembled
// parser.Program: a column-aligned formatter, a lint pass, and a
// label cross-reference report.
package tools

import (
	"fmt"
	"sort"

	"github.com/lookbusy1344/rv32i-toolchain/isa"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
)

// LintLevel is the severity of a single lint finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintError {
		return "error"
	}
	return "warning"
}

// LintIssue is one finding tied to a source line.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// Lint checks prog for undefined label references and unreachable code
// immediately following an unconditional jump/return.
func Lint(prog *parser.Program) []*LintIssue {
	var issues []*LintIssue
	issues = append(issues, lintUndefinedLabels(prog)...)
	issues = append(issues, lintUnreachableCode(prog)...)
	sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

func lintUndefinedLabels(prog *parser.Program) []*LintIssue {
	var issues []*LintIssue
	for _, item := range prog.Items {
		if item.Kind != parser.ItemInstruction {
			continue
		}
		for _, op := range labelOperands(item) {
			if _, ok := isa.RegisterNumber(op); ok {
				continue
			}
			if _, err := parser.ParseImmediate(op); err == nil {
				continue
			}
			if _, err := prog.Symbols.Get(op); err != nil {
				issues = append(issues, &LintIssue{
					Level:   LintError,
					Line:    item.Pos.Line,
					Message: fmt.Sprintf("undefined label %q", op),
					Code:    "UNDEF_LABEL",
				})
			}
		}
	}
	return issues
}

// labelOperands returns the operand(s) of item that can name a label:
// the last operand of a branch/jal (the target).
func labelOperands(item *parser.Item) []string {
	switch item.Mnemonic {
	case "jal":
		if len(item.Operands) == 2 {
			return []string{item.Operands[1]}
		}
	default:
		if _, ok := isa.BranchFunct3[item.Mnemonic]; ok && len(item.Operands) == 3 {
			return []string{item.Operands[2]}
		}
	}
	return nil
}

// lintUnreachableCode flags any instruction immediately following an
// unconditional jump/return/halt that is not itself the target of any
// label (i.e. nothing can fall or jump into it).
func lintUnreachableCode(prog *parser.Program) []*LintIssue {
	targets := make(map[uint32]bool)
	for _, sym := range prog.Symbols.All() {
		targets[sym.Value] = true
	}

	var issues []*LintIssue
	prevWasTerminal := false
	for _, item := range prog.Items {
		if item.Kind != parser.ItemInstruction {
			prevWasTerminal = false
			continue
		}
		if prevWasTerminal && !targets[item.Address] {
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Line:    item.Pos.Line,
				Message: "unreachable code after unconditional control transfer",
				Code:    "UNREACHABLE",
			})
		}
		prevWasTerminal = isUnconditionalExit(item)
	}
	return issues
}

// isUnconditionalExit reports whether item never falls through to the
// next instruction: ebreak always halts, and jal/jalr only return here
// when rd is a link register (x0 as rd means the call site is never
// returned to, i.e. a tail jump).
func isUnconditionalExit(item *parser.Item) bool {
	switch item.Mnemonic {
	case "ebreak":
		return true
	case "jal", "jalr":
		return len(item.Operands) > 0 && item.Operands[0] == "x0"
	default:
		return false
	}
}
