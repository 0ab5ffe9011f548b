package isa

// Fields groups the fixed bit-positions of an RV32I instruction word,
// decoded once per step in vm.
type Fields struct {
	Opcode uint32
	Rd     uint32
	Funct3 uint32
	Rs1    uint32
	Rs2    uint32
	Funct7 uint32
}

// DecodeFields extracts the fixed register/opcode fields from a word.
// Not every field is meaningful for every opcode (e.g. U/J formats have
// no rs1/rs2), but extracting them unconditionally keeps decode branch-free.
func DecodeFields(word uint32) Fields {
	return Fields{
		Opcode: word & 0x7f,
		Rd:     (word >> 7) & 0x1f,
		Funct3: (word >> 12) & 0x7,
		Rs1:    (word >> 15) & 0x1f,
		Rs2:    (word >> 20) & 0x1f,
		Funct7: (word >> 25) & 0x7f,
	}
}

// EncodeR assembles an R-type word.
func EncodeR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return (funct7&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (rd&0x1f)<<7 | (opcode & 0x7f)
}

// EncodeI assembles an I-type word from an already-encoded 12-bit immediate field.
func EncodeI(immField, rs1, funct3, rd, opcode uint32) uint32 {
	return (immField & (0xfff << 20)) | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (rd&0x1f)<<7 | (opcode & 0x7f)
}

// EncodeS assembles an S-type word from an already-encoded immediate field.
func EncodeS(immField, rs2, rs1, funct3, opcode uint32) uint32 {
	return immField | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (opcode & 0x7f)
}

// EncodeB assembles a B-type word from an already-encoded immediate field.
func EncodeB(immField, rs2, rs1, funct3, opcode uint32) uint32 {
	return immField | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (opcode & 0x7f)
}

// EncodeU assembles a U-type word from an already-encoded immediate field.
func EncodeU(immField, rd, opcode uint32) uint32 {
	return immField | (rd&0x1f)<<7 | (opcode & 0x7f)
}

// EncodeJ assembles a J-type word from an already-encoded immediate field.
func EncodeJ(immField, rd, opcode uint32) uint32 {
	return immField | (rd&0x1f)<<7 | (opcode & 0x7f)
}
