package grammar

import (
	"errors"
	"fmt"
)

// ErrTooDeep is wrapped by the SyntaxError returned when parentheses nest
// deeper than the configured limit.
var ErrTooDeep = errors.New("grammar: expression nested too deeply")

// SyntaxError is a rejection of malformed input.
type SyntaxError struct {
	Pos Pos
	Msg string
	Err error
}

func syntaxErrorf(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
