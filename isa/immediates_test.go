package isa_test

import (
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/isa"
)

func TestBImmRoundTrip(t *testing.T) {
	values := []int32{0, 2, -2, 4094, -4096, 100, -100}
	for _, v := range values {
		word := isa.EncodeBImm(v)
		got := isa.DecodeBImm(word)
		if got != v {
			t.Errorf("B-imm round trip for %d: got %d (word=0x%08x)", v, got, word)
		}
	}
}

func TestJImmRoundTrip(t *testing.T) {
	values := []int32{0, 2, -2, 1048574, -1048576, 1000, -1000}
	for _, v := range values {
		word := isa.EncodeJImm(v)
		got := isa.DecodeJImm(word)
		if got != v {
			t.Errorf("J-imm round trip for %d: got %d (word=0x%08x)", v, got, word)
		}
	}
}

func TestSImmRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 2047, -2048}
	for _, v := range values {
		word := isa.EncodeSImm(v)
		got := isa.DecodeSImm(word)
		if got != v {
			t.Errorf("S-imm round trip for %d: got %d", v, got)
		}
	}
}

func TestIImmRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 2047, -2048}
	for _, v := range values {
		word := isa.EncodeIImm(v)
		got := isa.DecodeIImm(word)
		if got != v {
			t.Errorf("I-imm round trip for %d: got %d", v, got)
		}
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v    uint32
		bits uint
		want int32
	}{
		{0x7ff, 12, 2047},
		{0x800, 12, -2048},
		{0xfff, 12, -1},
		{0, 12, 0},
	}
	for _, tt := range tests {
		if got := isa.SignExtend(tt.v, tt.bits); got != tt.want {
			t.Errorf("SignExtend(0x%x, %d) = %d, want %d", tt.v, tt.bits, got, tt.want)
		}
	}
}

func TestRegisterNumber(t *testing.T) {
	tests := []struct {
		name string
		want uint32
		ok   bool
	}{
		{"zero", 0, true}, {"ZERO", 0, true}, {"x0", 0, true},
		{"ra", 1, true}, {"sp", 2, true}, {"fp", 8, true}, {"s0", 8, true},
		{"a0", 10, true}, {"a7", 17, true}, {"t6", 31, true}, {"x31", 31, true},
		{"bogus", 0, false},
	}
	for _, tt := range tests {
		got, ok := isa.RegisterNumber(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("RegisterNumber(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
