package expression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyExpression is returned when an expression is empty or only whitespace.
var ErrEmptyExpression = errors.New("Expression is required")

// SyntaxError describes a malformed expression. Pos is the zero-based offset
// of the offending token in the input string, or -1 when the problem is at
// the end of the input.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func newSyntaxError(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// OutOfRangeError is returned when an expression references condition slots
// outside the valid range 1..Max.
type OutOfRangeError struct {
	Refs []int
	Max  int
}

func (e *OutOfRangeError) Error() string {
	refs := make([]string, len(e.Refs))
	for i, r := range e.Refs {
		refs[i] = strconv.Itoa(r)
	}
	return fmt.Sprintf("expression references conditions out of range: %s (valid range 1..%d)", strings.Join(refs, ", "), e.Max)
}
