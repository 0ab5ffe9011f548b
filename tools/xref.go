package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/rv32i-toolchain/isa"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
)

// RefType classifies how a label is used at a reference site.
type RefType int

const (
	RefBranch RefType = iota
	RefCall
	RefData
)

func (r RefType) String() string {
	switch r {
	case RefBranch:
		return "branch"
	case RefCall:
		return "call"
	default:
		return "data"
	}
}

// Reference is one use of a label.
type Reference struct {
	Type RefType
	Line int
}

// XRefSymbol is a label together with where it's defined and every
// place it's referenced.
type XRefSymbol struct {
	Name       string
	Defined    bool
	DefLine    int
	Value      uint32
	References []Reference
}

// CrossReference walks prog and builds one XRefSymbol per label that is
// either defined or referenced somewhere in the program.
func CrossReference(prog *parser.Program) map[string]*XRefSymbol {
	syms := make(map[string]*XRefSymbol)

	for name, sym := range prog.Symbols.All() {
		syms[name] = &XRefSymbol{Name: name, Defined: true, DefLine: sym.Pos.Line, Value: sym.Value}
	}

	for _, item := range prog.Items {
		if item.Kind != parser.ItemInstruction {
			continue
		}
		for _, target := range labelOperands(item) {
			if _, ok := isa.RegisterNumber(target); ok {
				continue
			}
			if _, err := parser.ParseImmediate(target); err == nil {
				continue
			}
			entry, ok := syms[target]
			if !ok {
				entry = &XRefSymbol{Name: target}
				syms[target] = entry
			}
			refType := RefBranch
			if item.Mnemonic == "jal" && len(item.Operands) == 2 && item.Operands[0] != "x0" {
				refType = RefCall
			}
			entry.References = append(entry.References, Reference{Type: refType, Line: item.Pos.Line})
		}
	}
	return syms
}

// XRefReport renders syms as a sorted, human-readable text report.
func XRefReport(syms map[string]*XRefSymbol) string {
	names := make([]string, 0, len(syms))
	for name := range syms {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")
	for _, name := range names {
		sym := syms[name]
		sb.WriteString(fmt.Sprintf("%-24s", sym.Name))
		if sym.Defined {
			sb.WriteString(fmt.Sprintf(" [defined line %d, addr 0x%08x]\n", sym.DefLine, sym.Value))
		} else {
			sb.WriteString(" [undefined]\n")
		}
		if len(sym.References) == 0 {
			sb.WriteString("  referenced: (never)\n")
			continue
		}
		lines := make([]string, len(sym.References))
		for i, ref := range sym.References {
			lines[i] = fmt.Sprintf("%d(%s)", ref.Line, ref.Type)
		}
		sb.WriteString(fmt.Sprintf("  referenced: %s\n", strings.Join(lines, ", ")))
	}
	return sb.String()
}
