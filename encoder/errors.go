package encoder

import "fmt"

// Error is a fatal encoding error tied to one instruction item.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: error: %s", e.Line, e.Message)
}

func newError(line int, format string, args ...any) *Error {
	return &Error{Line: line, Message: fmt.Sprintf(format, args...)}
}
