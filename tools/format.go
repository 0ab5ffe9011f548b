package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/rv32i-toolchain/parser"
)

// FormatOptions controls the formatter's column layout.
type FormatOptions struct {
	InstructionColumn int
	OperandColumn     int
	AlignOperands     bool
}

// DefaultFormatOptions matches the layout used throughout this project's
// own assembly sources: an 8-column mnemonic gutter, operands aligned at 16.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{InstructionColumn: 8, OperandColumn: 16, AlignOperands: true}
}

// CompactFormatOptions packs everything onto a single space-separated line.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{InstructionColumn: 0, OperandColumn: 0, AlignOperands: false}
}

// Format re-emits source as a column-aligned listing: one label-defining
// line per label at its own line, mnemonics aligned at InstructionColumn,
// operands aligned at OperandColumn.
func Format(source, filename string, opts *FormatOptions) (string, error) {
	if opts == nil {
		opts = DefaultFormatOptions()
	}
	prog, err := parser.Parse(source, filename)
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	labelAt := make(map[uint32][]string)
	for name, sym := range prog.Symbols.All() {
		labelAt[sym.Value] = append(labelAt[sym.Value], name)
	}
	for addr := range labelAt {
		sort.Strings(labelAt[addr])
	}

	var out strings.Builder
	emitted := make(map[uint32]bool)
	for _, item := range prog.Items {
		if !emitted[item.Address] {
			for _, name := range labelAt[item.Address] {
				out.WriteString(name)
				out.WriteString(":\n")
			}
			emitted[item.Address] = true
		}
		formatItem(&out, item, opts)
	}
	return out.String(), nil
}

func formatItem(out *strings.Builder, item *parser.Item, opts *FormatOptions) {
	var line strings.Builder
	padToColumn(&line, opts.InstructionColumn)

	name := item.Mnemonic
	if item.Kind == parser.ItemDirective {
		name = "." + strings.TrimPrefix(name, ".")
	}
	line.WriteString(name)

	if len(item.Operands) > 0 {
		if opts.AlignOperands {
			padToColumn(&line, opts.OperandColumn)
		} else {
			line.WriteString(" ")
		}
		line.WriteString(strings.Join(item.Operands, ", "))
	}

	out.WriteString(line.String())
	out.WriteString("\n")
}

func padToColumn(sb *strings.Builder, column int) {
	if sb.Len() >= column {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		return
	}
	sb.WriteString(strings.Repeat(" ", column-sb.Len()))
}
