// Package seedsql parses a small SQL dialect (CREATE TABLE, INSERT and
// SELECT with an optional WHERE filter) into the typed syntax tree of
// package ast. It checks structure only: table and column names are not
// resolved and types are not checked.
//
//	doc, err := seedsql.Parse("SELECT id FROM users WHERE age >= 18;")
//	if errors.Is(err, seedsql.ErrGrammar) { ... }
//
// Parsing is all-or-nothing and safe for concurrent use; every call returns
// a fresh Document.
package seedsql

import (
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/tuannm99/seedsql/internal/sql/parser"
	"github.com/tuannm99/seedsql/pkg/ast"
)

type (
	Option    = parser.Option
	Error     = parser.Error
	ErrorKind = parser.ErrorKind
)

const (
	KindGrammarRejection  = parser.KindGrammarRejection
	KindContractViolation = parser.KindContractViolation
	KindValue             = parser.KindValue
	KindDepthExceeded     = parser.KindDepthExceeded
	KindArityMismatch     = parser.KindArityMismatch
)

var (
	ErrGrammar       = parser.ErrGrammar
	ErrContract      = parser.ErrContract
	ErrValue         = parser.ErrValue
	ErrDepthExceeded = parser.ErrDepthExceeded
	ErrArity         = parser.ErrArity
)

// WithMaxDepth bounds parenthesis nesting in WHERE filters (default 128,
// at most 10000).
func WithMaxDepth(n int) Option { return parser.WithMaxDepth(n) }

// WithCollectErrors reports every failing statement instead of the first.
// Use Errors to split the result.
func WithCollectErrors() Option { return parser.WithCollectErrors() }

// WithLenientInsert accepts insertions whose column and value counts differ.
func WithLenientInsert() Option { return parser.WithLenientInsert() }

func Parse(src string, opts ...Option) (*ast.Document, error) {
	return parser.Parse(src, opts...)
}

func ParseFile(path string, opts ...Option) (*ast.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seedsql: %w", err)
	}
	return parser.Parse(string(b), opts...)
}

// ParseFilter parses a bare WHERE expression such as "a = 1 OR b < 2".
func ParseFilter(src string, opts ...Option) (ast.Expr, error) {
	return parser.ParseFilter(src, opts...)
}

// Errors splits an error returned with WithCollectErrors into its parts.
func Errors(err error) []error {
	return multierr.Errors(err)
}
