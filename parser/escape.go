package parser

import "fmt"

// ParseEscapeChar parses a single backslash escape sequence starting at
// the beginning of s (e.g. `\n`, `\t`, `\\`, `\'`, `\x41`; octal escapes
// other than `\0` are not supported) and
// returns the decoded byte plus the number of runes of s it consumed.
func ParseEscapeChar(s string) (byte, int, error) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, 0, fmt.Errorf("not an escape sequence: %q", s)
	}
	switch s[1] {
	case 'n':
		return '\n', 2, nil
	case 't':
		return '\t', 2, nil
	case 'r':
		return '\r', 2, nil
	case '0':
		return 0, 2, nil
	case '\\':
		return '\\', 2, nil
	case '\'':
		return '\'', 2, nil
	case '"':
		return '"', 2, nil
	case 'x':
		if len(s) < 4 {
			return 0, 0, fmt.Errorf("truncated hex escape: %q", s)
		}
		var v int
		if _, err := fmt.Sscanf(s[2:4], "%x", &v); err != nil {
			return 0, 0, fmt.Errorf("invalid hex escape: %q", s)
		}
		return byte(v), 4, nil
	default:
		return 0, 0, fmt.Errorf("unsupported escape sequence: %q", s)
	}
}

// ProcessEscapeSequences expands every backslash escape in s and returns
// the resulting raw bytes (used for .ascii/.asciz directive bodies).
func ProcessEscapeSequences(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) {
			if b, n, err := ParseEscapeChar(s[i:]); err == nil {
				out = append(out, b)
				i += n
				continue
			}
		}
		out = append(out, s[i])
		i++
	}
	return out
}
