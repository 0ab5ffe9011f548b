package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteHexObject writes words in the assembler's hex object format: one
// instruction per line, 8 lowercase hex digits, no prefix, one trailing
// newline per line. Address = line number * 4.
func WriteHexObject(w io.Writer, words []uint32) error {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%08x\n", word); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadHexObject parses the hex object format back into machine words.
func ReadHexObject(r io.Reader) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid hex word %q: %w", lineNo, line, err)
		}
		words = append(words, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
