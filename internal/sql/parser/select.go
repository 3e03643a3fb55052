package parser

import (
	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

// ----- SELECT -----

func buildProjection(n *grammar.Node) (ast.Projection, error) {
	if err := expectRule(n, grammar.RuleProjection); err != nil {
		return nil, err
	}
	if n.Text == "*" {
		return ast.AllColumns{}, nil
	}

	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Rule != grammar.RuleIdent {
			continue
		}
		names = append(names, c.Text)
	}
	return ast.NamedColumns{Names: names}, nil
}

// buildSelection consumes projection, table name and an optional filter.
func (b *builder) buildSelection(n *grammar.Node) (*ast.Selection, error) {
	if err := expectRule(n, grammar.RuleSelection); err != nil {
		return nil, err
	}

	proj, err := buildProjection(n.Child(0))
	if err != nil {
		return nil, err
	}
	table, err := identText(n.Child(1))
	if err != nil {
		return nil, err
	}
	sel := &ast.Selection{Table: table, Projection: proj}

	switch len(n.Children) {
	case 2:
	case 3:
		where := n.Children[2]
		if err := expectRule(where, grammar.RuleFilter); err != nil {
			return nil, err
		}
		f, err := b.buildFilter(where)
		if err != nil {
			return nil, err
		}
		sel.Filter = f
	default:
		return nil, errorf(KindContractViolation, n, "selection must have 2 or 3 children, found %d", len(n.Children))
	}
	return sel, nil
}
