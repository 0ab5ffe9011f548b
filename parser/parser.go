package parser

import (
	"fmt"
	"strings"
)

// ItemKind distinguishes a real instruction from a data directive in the
// fully-expanded, address-assigned program produced by Parse.
type ItemKind int

const (
	ItemInstruction ItemKind = iota
	ItemDirective
)

// Item is one fully-expanded, address-assigned unit of the program: a
// real (post pseudo-expansion) instruction, or a data directive. The
// encoder turns ItemInstruction entries into machine words; the loader
// turns ItemDirective entries into memory bytes.
type Item struct {
	Kind     ItemKind
	Pos      Position
	Address  uint32
	Mnemonic string   // instruction mnemonic, or directive name (".word", ...)
	Operands []string
	Size     int // byte size this item occupies (4 for every instruction)
}

// Program is the result of a complete pass 1: every pseudo-instruction
// expanded, every label bound to its final address, ready for the
// encoder and loader to consume in a single further pass each.
type Program struct {
	Items   []*Item
	Symbols *SymbolTable
}

// Parse runs pass 1 over source: tokenizing, expanding pseudo-instructions,
// assigning addresses, and binding labels. It stops at the first error.
func Parse(source, filename string) (*Program, error) {
	prog := &Program{Symbols: NewSymbolTable()}
	cursor := uint32(0)

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		pos := Position{Filename: filename, Line: i + 1}
		line := tokenizeLine(raw, pos)

		if line.Label != "" {
			if err := prog.Symbols.Define(line.Label, cursor, pos); err != nil {
				return nil, NewError(pos, err.Error(), raw)
			}
		}
		if line.Mnemonic == "" {
			continue
		}

		name := strings.ToLower(line.Mnemonic)
		switch name {
		case ".text", ".globl", ".global":
			continue
		case ".word", ".byte", ".half", ".ascii", ".asciz", ".space":
			size, err := directiveSize(name, line.Operands)
			if err != nil {
				return nil, NewError(pos, err.Error(), raw)
			}
			prog.Items = append(prog.Items, &Item{
				Kind:     ItemDirective,
				Pos:      pos,
				Address:  cursor,
				Mnemonic: name,
				Operands: line.Operands,
				Size:     size,
			})
			cursor += uint32(size)
			continue
		}

		expanded, err := expandPseudo(name, line.Operands, pos, raw)
		if err != nil {
			return nil, err
		}
		for _, inst := range expanded {
			inst.Address = cursor
			prog.Items = append(prog.Items, inst)
			cursor += 4
		}
	}

	return prog, nil
}

// expandPseudo turns a source mnemonic into one or more real-instruction
// Items. Mnemonics that are already real instructions pass through
// unchanged.
func expandPseudo(name string, ops []string, pos Position, raw string) ([]*Item, error) {
	real := func(mnemonic string, operands ...string) *Item {
		return &Item{Kind: ItemInstruction, Pos: pos, Mnemonic: mnemonic, Operands: operands, Size: 4}
	}

	switch name {
	case "nop":
		if len(ops) != 0 {
			return nil, NewError(pos, "nop takes no operands", raw)
		}
		return []*Item{real("addi", "x0", "x0", "0")}, nil

	case "mv":
		if len(ops) != 2 {
			return nil, NewError(pos, "mv requires 2 operands", raw)
		}
		return []*Item{real("addi", ops[0], ops[1], "0")}, nil

	case "j":
		if len(ops) != 1 {
			return nil, NewError(pos, "j requires 1 operand", raw)
		}
		return []*Item{real("jal", "x0", ops[0])}, nil

	case "ret":
		if len(ops) != 0 {
			return nil, NewError(pos, "ret takes no operands", raw)
		}
		return []*Item{real("jalr", "x0", "ra", "0")}, nil

	case "li":
		if len(ops) != 2 {
			return nil, NewError(pos, "li requires 2 operands", raw)
		}
		imm, err := ParseImmediate(ops[1])
		if err != nil {
			return nil, NewError(pos, fmt.Sprintf("li: %s", err), raw)
		}
		if imm >= -2048 && imm <= 2047 {
			return []*Item{real("addi", ops[0], "x0", ops[1])}, nil
		}
		lo := ((imm + 0x800) & 0xfff) - 0x800
		hi := imm - lo
		return []*Item{
			real("lui", ops[0], fmt.Sprintf("%d", (hi>>12)&0xfffff)),
			real("addi", ops[0], ops[0], fmt.Sprintf("%d", lo)),
		}, nil

	default:
		return []*Item{real(name, ops...)}, nil
	}
}

// directiveSize computes the number of bytes a data directive occupies,
// which pass 1 needs up front to keep address accounting exact.
func directiveSize(name string, operands []string) (int, error) {
	switch name {
	case ".word":
		if len(operands) == 0 {
			return 0, fmt.Errorf(".word requires at least one operand")
		}
		return 4 * len(operands), nil
	case ".byte":
		if len(operands) == 0 {
			return 0, fmt.Errorf(".byte requires at least one operand")
		}
		return len(operands), nil
	case ".half":
		if len(operands) == 0 {
			return 0, fmt.Errorf(".half requires at least one operand")
		}
		return 2 * len(operands), nil
	case ".space":
		if len(operands) != 1 {
			return 0, fmt.Errorf(".space requires exactly one operand")
		}
		n, err := ParseImmediate(operands[0])
		if err != nil || n < 0 {
			return 0, fmt.Errorf(".space: invalid size %q", operands[0])
		}
		return int(n), nil
	case ".ascii":
		if len(operands) != 1 {
			return 0, fmt.Errorf(".ascii requires a single string literal")
		}
		s, err := DecodeStringLiteral(operands[0])
		if err != nil {
			return 0, err
		}
		return len(s), nil
	case ".asciz":
		if len(operands) != 1 {
			return 0, fmt.Errorf(".asciz requires a single string literal")
		}
		s, err := DecodeStringLiteral(operands[0])
		if err != nil {
			return 0, err
		}
		return len(s) + 1, nil
	default:
		return 0, fmt.Errorf("unknown directive %q", name)
	}
}

// DecodeStringLiteral strips the surrounding quotes from a ".ascii"/
// ".asciz" operand and expands its backslash escapes.
func DecodeStringLiteral(lit string) ([]byte, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return nil, fmt.Errorf("expected a quoted string literal, got %q", lit)
	}
	return ProcessEscapeSequences(lit[1 : len(lit)-1]), nil
}
