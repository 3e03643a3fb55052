package parser

import (
	"errors"
	"fmt"

	"github.com/tuannm99/seedsql/internal/sql/grammar"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// KindGrammarRejection: the grammar rejected the text.
	KindGrammarRejection ErrorKind = iota + 1
	// KindContractViolation: a node did not have the tag or shape a builder requires.
	KindContractViolation
	// KindValue: a literal or keyword could not be converted.
	KindValue
	// KindDepthExceeded: a filter expression nests deeper than allowed.
	KindDepthExceeded
	// KindArityMismatch: an insertion names a different number of columns and values.
	KindArityMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindGrammarRejection:
		return "grammar rejection"
	case KindContractViolation:
		return "contract violation"
	case KindValue:
		return "value error"
	case KindDepthExceeded:
		return "depth exceeded"
	case KindArityMismatch:
		return "arity mismatch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is; an *Error matches the sentinel of its kind.
var (
	ErrGrammar       = errors.New("seedsql: grammar rejection")
	ErrContract      = errors.New("seedsql: contract violation")
	ErrValue         = errors.New("seedsql: value error")
	ErrDepthExceeded = errors.New("seedsql: depth exceeded")
	ErrArity         = errors.New("seedsql: arity mismatch")
)

var kindSentinels = map[ErrorKind]error{
	KindGrammarRejection:  ErrGrammar,
	KindContractViolation: ErrContract,
	KindValue:             ErrValue,
	KindDepthExceeded:     ErrDepthExceeded,
	KindArityMismatch:     ErrArity,
}

// Error is a failure located at a parse tree node.
type Error struct {
	Kind ErrorKind
	Rule grammar.Rule
	Span grammar.Span
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s (%s): %s", e.Kind, e.Span.Start, e.Rule, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

func errorf(kind ErrorKind, n *grammar.Node, format string, args ...any) *Error {
	e := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Rule = n.Rule
		e.Span = n.Span
	}
	return e
}

// expectRule asserts the node's tag before a builder consumes it.
func expectRule(n *grammar.Node, want grammar.Rule) error {
	if n == nil {
		return errorf(KindContractViolation, nil, "expected %s node, found nothing", want)
	}
	if n.Rule != want {
		return errorf(KindContractViolation, n, "expected %s node, found %s", want, n.Rule)
	}
	return nil
}

// fromSyntax converts an oracle rejection.
func fromSyntax(err error) error {
	var se *grammar.SyntaxError
	if !errors.As(err, &se) {
		return err
	}
	kind := KindGrammarRejection
	if errors.Is(se, grammar.ErrTooDeep) {
		kind = KindDepthExceeded
	}
	return &Error{
		Kind: kind,
		Span: grammar.Span{Start: se.Pos, End: se.Pos},
		Msg:  se.Msg,
		Err:  se,
	}
}
