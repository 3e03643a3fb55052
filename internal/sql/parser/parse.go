// Package parser builds the typed AST of package ast from the tagged parse
// tree produced by package grammar.
//
// Every builder asserts the tag of the node it is handed before consuming
// it. Parsing is all-or-nothing: any error yields a nil result.
package parser

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

type Options struct {
	// MaxDepth bounds parenthesis nesting in filter expressions.
	MaxDepth int
	// CollectErrors keeps building the remaining statements after a builder
	// error and reports all of them. Grammar rejections still abort.
	CollectErrors bool
	// LenientInsert skips the column/value count check of insertions.
	LenientInsert bool
}

type Option func(*Options)

// WithMaxDepth sets the nesting limit, clamped to grammar.MaxDepthLimit.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

func WithCollectErrors() Option {
	return func(o *Options) { o.CollectErrors = true }
}

func WithLenientInsert() Option {
	return func(o *Options) { o.LenientInsert = true }
}

type builder struct {
	opts Options
}

func newBuilder(opts []Option) *builder {
	b := &builder{opts: Options{MaxDepth: grammar.DefaultMaxDepth}}
	for _, opt := range opts {
		opt(&b.opts)
	}
	switch {
	case b.opts.MaxDepth <= 0:
		b.opts.MaxDepth = grammar.DefaultMaxDepth
	case b.opts.MaxDepth > grammar.MaxDepthLimit:
		b.opts.MaxDepth = grammar.MaxDepthLimit
	}
	return b
}

func (b *builder) grammarOpts() []grammar.Option {
	return []grammar.Option{grammar.WithMaxDepth(b.opts.MaxDepth)}
}

// Parse parses every statement and comment of src, in source order.
func Parse(src string, opts ...Option) (*ast.Document, error) {
	b := newBuilder(opts)
	root, err := grammar.Parse(src, b.grammarOpts()...)
	if err != nil {
		return nil, fromSyntax(err)
	}
	return b.buildDocument(root)
}

// ParseTableDefinition parses a single CREATE TABLE statement.
func ParseTableDefinition(src string, opts ...Option) (*ast.TableDefinition, error) {
	b := newBuilder(opts)
	n, err := grammar.ParseRule(grammar.RuleTableDefinition, src, b.grammarOpts()...)
	if err != nil {
		return nil, fromSyntax(err)
	}
	return buildTable(n)
}

// ParseScalarType parses a lone type keyword such as "INT".
func ParseScalarType(src string) (ast.ScalarType, error) {
	n, err := grammar.ParseRule(grammar.RuleScalarType, src)
	if err != nil {
		return 0, fromSyntax(err)
	}
	return buildScalarType(n)
}

// ParseConstraint parses a lone constraint such as "PRIMARY KEY".
func ParseConstraint(src string) (ast.Constraint, error) {
	n, err := grammar.ParseRule(grammar.RuleConstraint, src)
	if err != nil {
		return 0, fromSyntax(err)
	}
	return buildConstraint(n)
}

// ParseValue parses a lone literal.
func ParseValue(src string) (ast.Value, error) {
	n, err := grammar.ParseRule(grammar.RuleLiteral, src)
	if err != nil {
		return nil, fromSyntax(err)
	}
	return buildValue(n)
}

// ParseFilter parses a bare filter expression, without the WHERE keyword.
func ParseFilter(src string, opts ...Option) (ast.Expr, error) {
	b := newBuilder(opts)
	n, err := grammar.ParseRule(grammar.RuleFilterExpr, src, b.grammarOpts()...)
	if err != nil {
		return nil, fromSyntax(err)
	}
	return b.buildFilter(n)
}

// ----- document -----

// buildDocument is strict: a root child that is neither a statement nor a
// comment is a contract violation, never skipped.
func (b *builder) buildDocument(n *grammar.Node) (*ast.Document, error) {
	if err := expectRule(n, grammar.RuleDocument); err != nil {
		return nil, err
	}

	doc := &ast.Document{Statements: make([]ast.Statement, 0, len(n.Children))}
	var errs error
	for _, c := range n.Children {
		s, err := b.buildStatement(c)
		if err != nil {
			if !b.opts.CollectErrors {
				return nil, err
			}
			errs = multierr.Append(errs, err)
			continue
		}
		doc.Statements = append(doc.Statements, s)
	}
	if errs != nil {
		return nil, errs
	}
	return doc, nil
}

// buildStatement classifies a top-level node.
func (b *builder) buildStatement(n *grammar.Node) (ast.Statement, error) {
	if n == nil {
		return nil, errorf(KindContractViolation, nil, "missing statement")
	}

	switch n.Rule {
	case grammar.RuleTableDefinition:
		t, err := buildTable(n)
		if err != nil {
			return nil, err
		}
		return t, nil
	case grammar.RuleInsertion:
		ins, err := b.buildInsertion(n)
		if err != nil {
			return nil, err
		}
		return ins, nil
	case grammar.RuleSelection:
		sel, err := b.buildSelection(n)
		if err != nil {
			return nil, err
		}
		return sel, nil
	case grammar.RuleComment:
		c, err := buildComment(n)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, errorf(KindContractViolation, n, "unexpected %s node at top level", n.Rule)
	}
}

// buildComment keeps the comment body, without delimiters and surrounding
// whitespace.
func buildComment(n *grammar.Node) (*ast.Comment, error) {
	if err := expectRule(n, grammar.RuleComment); err != nil {
		return nil, err
	}

	switch text := n.Text; {
	case strings.HasPrefix(text, "--"):
		return &ast.Comment{
			Style: ast.LineComment,
			Text:  strings.TrimSpace(strings.TrimPrefix(text, "--")),
		}, nil
	case strings.HasPrefix(text, "/*") && strings.HasSuffix(text, "*/") && len(text) >= 4:
		return &ast.Comment{
			Style: ast.BlockComment,
			Text:  strings.TrimSpace(text[2 : len(text)-2]),
		}, nil
	default:
		return nil, errorf(KindContractViolation, n, "malformed comment %q", text)
	}
}
