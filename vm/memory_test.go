package vm_test

import (
	"testing"

	"github.com/lookbusy1344/rv32i-toolchain/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_WordAccess_ValidRange(t *testing.T) {
	mem := vm.NewMemory(64)

	tests := []struct {
		name string
		addr uint32
	}{
		{"first word", 0},
		{"middle word", 32},
		{"last valid word", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mem.WriteWord(tt.addr, 0xdeadbeef)
			require.NoError(t, err, "write within bounds should not error")

			got, err := mem.ReadWord(tt.addr)
			require.NoError(t, err, "read within bounds should not error")
			assert.Equal(t, uint32(0xdeadbeef), got, "read should return exactly what was written")
		})
	}
}

func TestMemory_WordAccess_OutOfBounds(t *testing.T) {
	mem := vm.NewMemory(64)

	tests := []struct {
		name string
		addr uint32
	}{
		{"one byte past end", 61},
		{"word straddling end", 62},
		{"far past end", 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mem.ReadWord(tt.addr)
			assert.Error(t, err, "read past the end of memory should error")

			err = mem.WriteWord(tt.addr, 1)
			assert.Error(t, err, "write past the end of memory should error")
		})
	}
}

func TestMemory_LittleEndianByteOrder(t *testing.T) {
	mem := vm.NewMemory(16)
	require.NoError(t, mem.WriteWord(0, 0x01020304))

	b0, err := mem.ReadByte(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x04), b0, "least significant byte stored first")

	b3, err := mem.ReadByte(3)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b3, "most significant byte stored last")

	half, err := mem.ReadHalf(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0304), half)
}
