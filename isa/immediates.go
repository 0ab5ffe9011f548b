package isa

// The B- and J-immediate encodings scramble the displacement bits across
// the instruction word in a way that is easy to get subtly wrong if
// hand-inlined at every call site. Keep encode/decode as a paired,
// round-trip-tested unit (see the round-trip tests in immediates_test.go).

// SignExtend widens the low `bits` bits of v, treating bit (bits-1) as
// the sign bit, to a full 32-bit two's-complement value.
func SignExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// EncodeIImm packs a 12-bit signed immediate into I-type position (bits [20:32]).
func EncodeIImm(imm int32) uint32 {
	return (uint32(imm) & 0xfff) << 20
}

// DecodeIImm extracts and sign-extends the I-type immediate from a word.
func DecodeIImm(word uint32) int32 {
	return SignExtend(word>>20, 12)
}

// EncodeSImm packs a 12-bit signed immediate into S-type position
// (bits [31:25] | [11:7]).
func EncodeSImm(imm int32) uint32 {
	u := uint32(imm) & 0xfff
	return ((u >> 5) << 25) | ((u & 0x1f) << 7)
}

// DecodeSImm extracts and sign-extends the S-type immediate from a word.
func DecodeSImm(word uint32) int32 {
	raw := ((word >> 25) << 5) | ((word >> 7) & 0x1f)
	return SignExtend(raw, 12)
}

// EncodeBImm packs a 13-bit signed, even branch displacement into B-type
// position: [31|7|30:25|11:8], bit 0 of the displacement is implicit (always 0).
func EncodeBImm(imm int32) uint32 {
	u := uint32(imm) & 0x1fff
	var word uint32
	word |= ((u >> 12) & 0x1) << 31
	word |= ((u >> 11) & 0x1) << 7
	word |= ((u >> 5) & 0x3f) << 25
	word |= ((u >> 1) & 0xf) << 8
	return word
}

// DecodeBImm extracts and sign-extends the B-type immediate from a word.
func DecodeBImm(word uint32) int32 {
	bit12 := (word >> 31) & 0x1
	bit11 := (word >> 7) & 0x1
	bits10_5 := (word >> 25) & 0x3f
	bits4_1 := (word >> 8) & 0xf
	raw := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	return SignExtend(raw, 13)
}

// EncodeJImm packs a 21-bit signed, even displacement into J-type
// position: [31|19:12|20|30:21], bit 0 of the displacement is implicit.
func EncodeJImm(imm int32) uint32 {
	u := uint32(imm) & 0x1fffff
	var word uint32
	word |= ((u >> 20) & 0x1) << 31
	word |= ((u >> 12) & 0xff) << 12
	word |= ((u >> 11) & 0x1) << 20
	word |= ((u >> 1) & 0x3ff) << 21
	return word
}

// DecodeJImm extracts and sign-extends the J-type immediate from a word.
func DecodeJImm(word uint32) int32 {
	bit20 := (word >> 31) & 0x1
	bits19_12 := (word >> 12) & 0xff
	bit11 := (word >> 20) & 0x1
	bits10_1 := (word >> 21) & 0x3ff
	raw := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	return SignExtend(raw, 21)
}

// EncodeUImm packs a U-type immediate: the high 20 bits of imm occupy
// bits [31:12]; the caller supplies imm already shifted (e.g. hi<<12).
func EncodeUImm(imm uint32) uint32 {
	return imm & 0xfffff000
}

// DecodeUImm extracts the U-type immediate (bits [12:32] shifted left 12).
func DecodeUImm(word uint32) uint32 {
	return word & 0xfffff000
}
