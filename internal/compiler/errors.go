package compiler

import (
	"fmt"
	"strings"
)

// Error is a single compile error.
type Error struct {
	Line    int
	Where   string // "at 'lexeme'", "at end", or empty for scanner errors
	Message string
}

func (e *Error) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] error %s: %s", e.Line, e.Where, e.Message)
}

// ErrorList collects every error reported while compiling one source.
type ErrorList []*Error

func (l ErrorList) Error() string {
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
