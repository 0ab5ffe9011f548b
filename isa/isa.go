// Package isa holds the RV32I opcode and register tables shared by the
// assembler (encoder) and the simulator (vm), plus the bit-scrambled
// immediate codecs both sides must agree on bit-for-bit.
package isa

import (
	"strconv"
	"strings"
)

// Opcode values (bits [0:7] of an instruction word).
const (
	OpLUI    = 0b0110111
	OpAUIPC  = 0b0010111
	OpJAL    = 0b1101111
	OpJALR   = 0b1100111
	OpBRANCH = 0b1100011
	OpLOAD   = 0b0000011
	OpSTORE  = 0b0100011
	OpOPIMM  = 0b0010011
	OpOP     = 0b0110011
	OpSYSTEM = 0b1110011
)

// EBreak and ECall are the only two SYSTEM-opcode instructions in RV32I
// without the M/C extensions or CSR support.
const (
	WordEBreak = 0x00100073
	WordECall  = 0x00000073
	WordNOP    = 0x00000013 // addi x0, x0, 0 — canonical fetch-past-end filler
)

// Funct3/funct7 pair for OP (R-type) and OPIMM (I-type) arithmetic mnemonics.
type FuncPair struct {
	Funct3 uint32
	Funct7 uint32
}

// RTypeFuncs maps OP mnemonics to their (funct3, funct7) encoding.
var RTypeFuncs = map[string]FuncPair{
	"add": {0, 0}, "sub": {0, 0x20},
	"sll": {1, 0}, "slt": {2, 0}, "sltu": {3, 0},
	"xor": {4, 0}, "srl": {5, 0}, "sra": {5, 0x20},
	"or": {6, 0}, "and": {7, 0},
}

// ITypeFunct3 maps OPIMM mnemonics to their funct3 field. srai shares
// funct3=5 with srli, discriminated by bit 30 of the encoded immediate.
var ITypeFunct3 = map[string]uint32{
	"addi": 0, "slti": 2, "sltiu": 3, "xori": 4,
	"ori": 6, "andi": 7, "slli": 1, "srli": 5, "srai": 5,
}

// LoadFunct3 maps load mnemonics to their funct3 field.
var LoadFunct3 = map[string]uint32{
	"lb": 0, "lh": 1, "lw": 2, "lbu": 4, "lhu": 5,
}

// StoreFunct3 maps store mnemonics to their funct3 field.
var StoreFunct3 = map[string]uint32{
	"sb": 0, "sh": 1, "sw": 2,
}

// BranchFunct3 maps branch mnemonics to their funct3 field.
var BranchFunct3 = map[string]uint32{
	"beq": 0, "bne": 1, "blt": 4, "bge": 5, "bltu": 6, "bgeu": 7,
}

// abiRegisters maps ABI register names to architectural indices 0..31.
var abiRegisters = map[string]uint32{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

func init() {
	for i := 0; i < 32; i++ {
		abiRegisters["x"+strconv.Itoa(i)] = uint32(i)
	}
}

// RegisterNumber resolves a case-insensitive ABI name or x0..x31 to its
// architectural index. The second return value is false for unknown names.
func RegisterNumber(name string) (uint32, bool) {
	n, ok := abiRegisters[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}
