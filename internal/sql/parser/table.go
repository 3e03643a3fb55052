package parser

import (
	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

// ----- CREATE TABLE -----

// Type and constraint keywords match exactly; "int" is not "INT".
var (
	scalarTypes = map[string]ast.ScalarType{
		"INT":     ast.TypeInteger,
		"TEXT":    ast.TypeText,
		"BOOLEAN": ast.TypeBoolean,
	}
	constraints = map[string]ast.Constraint{
		"NOT NULL":    ast.NotNull,
		"PRIMARY KEY": ast.PrimaryKey,
		"UNIQUE":      ast.Unique,
	}
)

func buildScalarType(n *grammar.Node) (ast.ScalarType, error) {
	if err := expectRule(n, grammar.RuleScalarType); err != nil {
		return 0, err
	}
	t, ok := scalarTypes[n.Text]
	if !ok {
		return 0, errorf(KindValue, n, "unknown type %q", n.Text)
	}
	return t, nil
}

func buildConstraint(n *grammar.Node) (ast.Constraint, error) {
	if err := expectRule(n, grammar.RuleConstraint); err != nil {
		return 0, err
	}
	c, ok := constraints[n.Text]
	if !ok {
		return 0, errorf(KindValue, n, "unknown constraint %q", n.Text)
	}
	return c, nil
}

// buildColumn consumes name, type, then constraints, strictly in that order.
func buildColumn(n *grammar.Node) (ast.ColumnDefinition, error) {
	var col ast.ColumnDefinition
	if err := expectRule(n, grammar.RuleColumnDefinition); err != nil {
		return col, err
	}

	name, err := identText(n.Child(0))
	if err != nil {
		return col, err
	}
	typ, err := buildScalarType(n.Child(1))
	if err != nil {
		return col, err
	}
	col.Name, col.Type = name, typ

	for _, c := range n.Children[2:] {
		k, err := buildConstraint(c)
		if err != nil {
			return col, err
		}
		col.Constraints = append(col.Constraints, k)
	}
	return col, nil
}

func buildTable(n *grammar.Node) (*ast.TableDefinition, error) {
	if err := expectRule(n, grammar.RuleTableDefinition); err != nil {
		return nil, err
	}
	name, err := identText(n.Child(0))
	if err != nil {
		return nil, err
	}

	t := &ast.TableDefinition{Name: name}
	for _, c := range n.Children[1:] {
		col, err := buildColumn(c)
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

func identText(n *grammar.Node) (string, error) {
	if err := expectRule(n, grammar.RuleIdent); err != nil {
		return "", err
	}
	return n.Text, nil
}
