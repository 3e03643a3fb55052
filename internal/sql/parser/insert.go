package parser

import (
	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

// ----- INSERT -----

// buildInsertion routes ident children to Columns and literal children to
// Values by tag. The arity check only runs when a column list was given and
// the lenient option is off.
func (b *builder) buildInsertion(n *grammar.Node) (*ast.Insertion, error) {
	if err := expectRule(n, grammar.RuleInsertion); err != nil {
		return nil, err
	}
	table, err := identText(n.Child(0))
	if err != nil {
		return nil, err
	}

	ins := &ast.Insertion{Table: table}
	for _, c := range n.Children[1:] {
		switch c.Rule {
		case grammar.RuleIdent:
			ins.Columns = append(ins.Columns, c.Text)
		case grammar.RuleLiteral:
			v, err := buildValue(c)
			if err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, v)
		default:
			return nil, errorf(KindContractViolation, c, "unexpected %s node in insertion", c.Rule)
		}
	}

	if !b.opts.LenientInsert && len(ins.Columns) > 0 && len(ins.Columns) != len(ins.Values) {
		return nil, errorf(KindArityMismatch, n,
			"insert into %s names %d columns but supplies %d values", table, len(ins.Columns), len(ins.Values))
	}
	return ins, nil
}
