package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseImmediate parses a numeric literal operand: optionally-signed
// decimal, or 0x/0o/0b prefixed, or a single-quoted character literal
// (including backslash escapes). It does not consult a symbol table —
// callers resolve labels before falling back to ParseImmediate.
func ParseImmediate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty immediate")
	}

	if strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") && len(s) >= 3 {
		body := s[1 : len(s)-1]
		if strings.HasPrefix(body, "\\") {
			b, consumed, err := ParseEscapeChar(body)
			if err != nil || consumed != len(body) {
				return 0, fmt.Errorf("invalid character literal: %s", s)
			}
			return int64(b), nil
		}
		if len(body) != 1 {
			return 0, fmt.Errorf("character literal must contain exactly one character: %s", s)
		}
		return int64(body[0]), nil
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		v, err = strconv.ParseUint(s[2:], 8, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err = strconv.ParseUint(s[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid immediate value: %s", s)
	}

	result := int64(v)
	if neg {
		result = -result
	}
	return result, nil
}
