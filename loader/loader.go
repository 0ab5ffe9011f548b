// Package loader turns a parsed, encoded program into the instruction
// and data memories a vm.VM executes.
package loader

import (
	"fmt"

	"github.com/lookbusy1344/rv32i-toolchain/encoder"
	"github.com/lookbusy1344/rv32i-toolchain/parser"
	"github.com/lookbusy1344/rv32i-toolchain/vm"
)

// Image is the output of loading: a word-addressed instruction memory
// ready for vm.New, plus a byte image starting at address 0 holding the
// bytes any .word/.byte/.ascii/.space directive produced and the
// little-endian encoding of every instruction word (directives and
// instructions share one address space, per the parser's single byte
// cursor).
type Image struct {
	Words []uint32
	Data  []byte // directive and instruction bytes, indexed by address
}

// Load runs the encoder over every instruction item and lays out every
// directive's bytes, producing a program image ready to execute.
func Load(prog *parser.Program) (*Image, error) {
	var highWater uint32
	for _, item := range prog.Items {
		end := item.Address + uint32(item.Size)
		if end > highWater {
			highWater = end
		}
	}

	img := &Image{
		Words: make([]uint32, highWater/4+1),
		Data:  make([]byte, highWater),
	}

	for _, item := range prog.Items {
		switch item.Kind {
		case parser.ItemInstruction:
			word, err := encoder.Encode(item, prog.Symbols)
			if err != nil {
				return nil, err
			}
			img.Words[item.Address/4] = word
			writeBytes(img.Data, item.Address, encodeWordLE(word))
		case parser.ItemDirective:
			data, err := directiveBytes(item, prog.Symbols)
			if err != nil {
				return nil, err
			}
			writeBytes(img.Data, item.Address, data)
		}
	}

	return img, nil
}

// NewVM builds a vm.VM from a loaded image and the requested data memory
// size, seeding the VM's data memory with any directive-produced bytes
// that fall within it.
func NewVM(img *Image, dataMemorySize int) *vm.VM {
	machine := vm.New(img.Words, dataMemorySize)
	n := len(img.Data)
	if n > dataMemorySize {
		n = dataMemorySize
	}
	copy(machine.Memory.Bytes()[:n], img.Data[:n])
	return machine
}

func writeBytes(dst []byte, addr uint32, data []byte) {
	copy(dst[addr:], data)
}

func encodeWordLE(w uint32) []byte {
	return []byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
}

func directiveBytes(item *parser.Item, symbols *parser.SymbolTable) ([]byte, error) {
	switch item.Mnemonic {
	case ".word":
		out := make([]byte, 0, 4*len(item.Operands))
		for _, op := range item.Operands {
			v, err := resolveOperand(op, symbols)
			if err != nil {
				return nil, fmt.Errorf("line %d: .word: %w", item.Pos.Line, err)
			}
			out = append(out, encodeWordLE(uint32(v))...)
		}
		return out, nil
	case ".byte":
		out := make([]byte, 0, len(item.Operands))
		for _, op := range item.Operands {
			v, err := resolveOperand(op, symbols)
			if err != nil {
				return nil, fmt.Errorf("line %d: .byte: %w", item.Pos.Line, err)
			}
			out = append(out, byte(v))
		}
		return out, nil
	case ".half":
		out := make([]byte, 0, 2*len(item.Operands))
		for _, op := range item.Operands {
			v, err := resolveOperand(op, symbols)
			if err != nil {
				return nil, fmt.Errorf("line %d: .half: %w", item.Pos.Line, err)
			}
			out = append(out, byte(v), byte(v>>8))
		}
		return out, nil
	case ".ascii":
		return parser.DecodeStringLiteral(item.Operands[0])
	case ".asciz":
		s, err := parser.DecodeStringLiteral(item.Operands[0])
		if err != nil {
			return nil, err
		}
		return append(s, 0), nil
	case ".space":
		return make([]byte, item.Size), nil
	}
	return nil, fmt.Errorf("line %d: unknown directive %q", item.Pos.Line, item.Mnemonic)
}

func resolveOperand(op string, symbols *parser.SymbolTable) (int64, error) {
	if v, err := parser.ParseImmediate(op); err == nil {
		return v, nil
	}
	if addr, err := symbols.Get(op); err == nil {
		return int64(addr), nil
	}
	return 0, fmt.Errorf("cannot resolve operand %q", op)
}
