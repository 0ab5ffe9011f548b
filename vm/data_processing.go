package vm

import "github.com/lookbusy1344/rv32i-toolchain/isa"

// execOP executes an R-type (register-register) arithmetic instruction,
// returning the writeback value.
func execOP(f isa.Fields, r1, r2 uint32) (uint32, bool) {
	if f.Funct3 == 0 && f.Funct7 == 0x20 {
		return r1 - r2, true
	}
	switch f.Funct3 {
	case 0: // add
		return r1 + r2, true
	case 1: // sll
		return r1 << (r2 & 31), true
	case 2: // slt
		return boolToWord(int32(r1) < int32(r2)), true
	case 3: // sltu
		return boolToWord(r1 < r2), true
	case 4: // xor
		return r1 ^ r2, true
	case 5: // srl / sra
		if f.Funct7 == 0x20 {
			return uint32(int32(r1) >> (r2 & 31)), true
		}
		return r1 >> (r2 & 31), true
	case 6: // or
		return r1 | r2, true
	case 7: // and
		return r1 & r2, true
	}
	return 0, false
}

// execOPIMM executes an I-type arithmetic/shift instruction.
func execOPIMM(f isa.Fields, r1 uint32, iimm int32, word uint32) (uint32, bool) {
	shamt := f.Rs2 // shift amount occupies the same 5 bits as the rs2 field
	switch f.Funct3 {
	case 0: // addi
		return uint32(int32(r1) + iimm), true
	case 1: // slli
		return r1 << (shamt & 31), true
	case 2: // slti
		return boolToWord(int32(r1) < iimm), true
	case 3: // sltiu
		return boolToWord(r1 < uint32(iimm)), true
	case 4: // xori
		return r1 ^ uint32(iimm), true
	case 5: // srli / srai, discriminated by bit 30
		if (word>>30)&1 != 0 {
			return uint32(int32(r1) >> (shamt & 31)), true
		}
		return r1 >> (shamt & 31), true
	case 6: // ori
		return r1 | uint32(iimm), true
	case 7: // andi
		return r1 & uint32(iimm), true
	}
	return 0, false
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
