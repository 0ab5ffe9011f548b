// Package encoder turns a fully-expanded, address-assigned parser.Item
// into its bit-exact RV32I machine word, resolving label operands
// against the symbol table pass 1 built.
package encoder

import (
	"github.com/lookbusy1344/rv32i-toolchain/isa"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
)

// Encode dispatches a single instruction item to its format-specific
// encoding, given the symbol table resolving any label operand.
func Encode(item *parser.Item, symbols *parser.SymbolTable) (uint32, error) {
	name := item.Mnemonic

	if word, ok := systemWord(name); ok {
		return word, nil
	}
	if fp, ok := isa.RTypeFuncs[name]; ok {
		return encodeR(item, fp)
	}
	if name == "slli" || name == "srli" || name == "srai" {
		return encodeShift(item, name)
	}
	if funct3, ok := isa.ITypeFunct3[name]; ok {
		return encodeIArith(item, funct3)
	}
	if funct3, ok := isa.LoadFunct3[name]; ok {
		return encodeLoad(item, funct3)
	}
	if funct3, ok := isa.StoreFunct3[name]; ok {
		return encodeStore(item, funct3)
	}
	if funct3, ok := isa.BranchFunct3[name]; ok {
		return encodeBranch(item, funct3, symbols)
	}
	switch name {
	case "jal":
		return encodeJAL(item, symbols)
	case "jalr":
		return encodeJALR(item)
	case "lui":
		return encodeUpper(item, isa.OpLUI)
	case "auipc":
		return encodeUpper(item, isa.OpAUIPC)
	}
	return 0, newError(item.Pos.Line, "unknown mnemonic %q", name)
}

func systemWord(name string) (uint32, bool) {
	switch name {
	case "ebreak":
		return isa.WordEBreak, true
	case "ecall":
		return isa.WordECall, true
	}
	return 0, false
}

func reg(item *parser.Item, idx int) (uint32, error) {
	if idx >= len(item.Operands) {
		return 0, newError(item.Pos.Line, "%s: missing operand %d", item.Mnemonic, idx+1)
	}
	n, ok := isa.RegisterNumber(item.Operands[idx])
	if !ok {
		return 0, newError(item.Pos.Line, "%s: unknown register %q", item.Mnemonic, item.Operands[idx])
	}
	return n, nil
}

func imm(item *parser.Item, idx int, symbols *parser.SymbolTable) (int64, error) {
	if idx >= len(item.Operands) {
		return 0, newError(item.Pos.Line, "%s: missing operand %d", item.Mnemonic, idx+1)
	}
	return resolveImm(item, item.Operands[idx], symbols)
}

func resolveImm(item *parser.Item, operand string, symbols *parser.SymbolTable) (int64, error) {
	if n, err := parser.ParseImmediate(operand); err == nil {
		return n, nil
	}
	if symbols != nil {
		if addr, err := symbols.Get(operand); err == nil {
			return int64(addr), nil
		}
	}
	return 0, newError(item.Pos.Line, "%s: cannot resolve operand %q", item.Mnemonic, operand)
}

func encodeR(item *parser.Item, fp isa.FuncPair) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	rs1, err := reg(item, 1)
	if err != nil {
		return 0, err
	}
	rs2, err := reg(item, 2)
	if err != nil {
		return 0, err
	}
	return isa.EncodeR(fp.Funct7, rs2, rs1, fp.Funct3, rd, isa.OpOP), nil
}

func encodeIArith(item *parser.Item, funct3 uint32) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	rs1, err := reg(item, 1)
	if err != nil {
		return 0, err
	}
	v, err := imm(item, 2, nil)
	if err != nil {
		return 0, err
	}
	immField := isa.EncodeIImm(int32(v))
	return isa.EncodeI(immField, rs1, funct3, rd, isa.OpOPIMM), nil
}

func encodeShift(item *parser.Item, name string) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	rs1, err := reg(item, 1)
	if err != nil {
		return 0, err
	}
	v, err := imm(item, 2, nil)
	if err != nil {
		return 0, err
	}
	funct7 := uint32(0)
	if name == "srai" {
		funct7 = 0x20
	}
	immField := (funct7&0x7f)<<25 | (uint32(v)&0x1f)<<20
	return isa.EncodeI(immField, rs1, isa.ITypeFunct3[name], rd, isa.OpOPIMM), nil
}

func encodeLoad(item *parser.Item, funct3 uint32) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	if len(item.Operands) < 2 {
		return 0, newError(item.Pos.Line, "%s: expected rd, offset(base)", item.Mnemonic)
	}
	offsetStr, base, ok := parser.SplitMemoryOperand(item.Operands[1])
	if !ok {
		return 0, newError(item.Pos.Line, "%s: expected offset(base) operand, got %q", item.Mnemonic, item.Operands[1])
	}
	rs1, ok := isa.RegisterNumber(base)
	if !ok {
		return 0, newError(item.Pos.Line, "%s: unknown base register %q", item.Mnemonic, base)
	}
	v, err := resolveImm(item, offsetStr, nil)
	if err != nil {
		return 0, err
	}
	immField := isa.EncodeIImm(int32(v))
	return isa.EncodeI(immField, rs1, funct3, rd, isa.OpLOAD), nil
}

func encodeStore(item *parser.Item, funct3 uint32) (uint32, error) {
	rs2, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	if len(item.Operands) < 2 {
		return 0, newError(item.Pos.Line, "%s: expected rs2, offset(base)", item.Mnemonic)
	}
	offsetStr, base, ok := parser.SplitMemoryOperand(item.Operands[1])
	if !ok {
		return 0, newError(item.Pos.Line, "%s: expected offset(base) operand, got %q", item.Mnemonic, item.Operands[1])
	}
	rs1, ok := isa.RegisterNumber(base)
	if !ok {
		return 0, newError(item.Pos.Line, "%s: unknown base register %q", item.Mnemonic, base)
	}
	v, err := resolveImm(item, offsetStr, nil)
	if err != nil {
		return 0, err
	}
	immField := isa.EncodeSImm(int32(v))
	return isa.EncodeS(immField, rs2, rs1, funct3, isa.OpSTORE), nil
}

func encodeBranch(item *parser.Item, funct3 uint32, symbols *parser.SymbolTable) (uint32, error) {
	rs1, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	rs2, err := reg(item, 1)
	if err != nil {
		return 0, err
	}
	target, err := imm(item, 2, symbols)
	if err != nil {
		return 0, err
	}
	disp := target - int64(item.Address)
	immField := isa.EncodeBImm(int32(disp))
	return isa.EncodeB(immField, rs2, rs1, funct3, isa.OpBRANCH), nil
}

func encodeJAL(item *parser.Item, symbols *parser.SymbolTable) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	target, err := imm(item, 1, symbols)
	if err != nil {
		return 0, err
	}
	disp := target - int64(item.Address)
	immField := isa.EncodeJImm(int32(disp))
	return isa.EncodeJ(immField, rd, isa.OpJAL), nil
}

func encodeJALR(item *parser.Item) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	if len(item.Operands) == 2 {
		offsetStr, base, ok := parser.SplitMemoryOperand(item.Operands[1])
		if !ok {
			return 0, newError(item.Pos.Line, "jalr: expected rd, offset(base), got %q", item.Operands[1])
		}
		rs1, ok := isa.RegisterNumber(base)
		if !ok {
			return 0, newError(item.Pos.Line, "jalr: unknown base register %q", base)
		}
		v, err := resolveImm(item, offsetStr, nil)
		if err != nil {
			return 0, err
		}
		return isa.EncodeI(isa.EncodeIImm(int32(v)), rs1, 0, rd, isa.OpJALR), nil
	}
	rs1, err := reg(item, 1)
	if err != nil {
		return 0, err
	}
	v, err := imm(item, 2, nil)
	if err != nil {
		return 0, err
	}
	return isa.EncodeI(isa.EncodeIImm(int32(v)), rs1, 0, rd, isa.OpJALR), nil
}

func encodeUpper(item *parser.Item, opcode uint32) (uint32, error) {
	rd, err := reg(item, 0)
	if err != nil {
		return 0, err
	}
	v, err := imm(item, 1, nil)
	if err != nil {
		return 0, err
	}
	immField := isa.EncodeUImm(uint32(v) << 12)
	return isa.EncodeU(immField, rd, opcode), nil
}
