package parser

import (
	"strconv"
	"strings"

	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

// buildValue converts a literal node.
func buildValue(n *grammar.Node) (ast.Value, error) {
	if err := expectRule(n, grammar.RuleLiteral); err != nil {
		return nil, err
	}
	if len(n.Children) != 1 {
		return nil, errorf(KindContractViolation, n, "literal must have exactly one child, found %d", len(n.Children))
	}

	lit := n.Children[0]
	switch lit.Rule {
	case grammar.RuleNumber:
		v, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			e := errorf(KindValue, lit, "invalid integer %q", lit.Text)
			e.Err = err
			return nil, e
		}
		return ast.IntValue(v), nil

	case grammar.RuleString:
		// Only the delimiters go; there are no escape sequences.
		if len(lit.Text) < 2 {
			return nil, errorf(KindContractViolation, lit, "string literal %q is missing its quotes", lit.Text)
		}
		return ast.TextValue(lit.Text[1 : len(lit.Text)-1]), nil

	case grammar.RuleBoolean:
		switch strings.ToUpper(lit.Text) {
		case "TRUE":
			return ast.BoolValue(true), nil
		case "FALSE":
			return ast.BoolValue(false), nil
		default:
			return nil, errorf(KindValue, lit, "invalid boolean %q", lit.Text)
		}

	default:
		return nil, errorf(KindContractViolation, lit, "unexpected literal form %s", lit.Rule)
	}
}
