package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

func TestParseTableDefinition_ColumnsInDeclarationOrder(t *testing.T) {
	td, err := ParseTableDefinition("CREATE TABLE Sample (c1 INT, c2 TEXT, c3 BOOLEAN, c4 INT)")
	require.NoError(t, err)
	assert.Equal(t, "Sample", td.Name)

	require.Len(t, td.Columns, 4)
	names := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, names)
	assert.Equal(t, ast.TypeBoolean, td.Columns[2].Type)
}

func TestParseTableDefinition_Constraints(t *testing.T) {
	td, err := ParseTableDefinition(`CREATE TABLE t (
		id INT PRIMARY KEY,
		plain TEXT,
		email TEXT NOT NULL UNIQUE,
		twice INT UNIQUE UNIQUE
	);`)
	require.NoError(t, err)
	require.Len(t, td.Columns, 4)

	assert.Equal(t, []ast.Constraint{ast.PrimaryKey}, td.Columns[0].Constraints)
	assert.Empty(t, td.Columns[1].Constraints)
	assert.Equal(t, []ast.Constraint{ast.NotNull, ast.Unique}, td.Columns[2].Constraints)
	assert.Equal(t, []ast.Constraint{ast.Unique, ast.Unique}, td.Columns[3].Constraints)

	assert.True(t, td.Columns[0].HasConstraint(ast.PrimaryKey))
	assert.False(t, td.Columns[1].HasConstraint(ast.NotNull))
}

func TestParseScalarType(t *testing.T) {
	cases := []struct {
		src  string
		want ast.ScalarType
		ok   bool
	}{
		{"INT", ast.TypeInteger, true},
		{"TEXT", ast.TypeText, true},
		{"BOOLEAN", ast.TypeBoolean, true},
		{"VARCHAR", 0, false},
		{"int", 0, false},
		{"Text", 0, false},
		{"BOOL", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseScalarType(tc.src)
		if !tc.ok {
			requireKind(t, err, KindValue)
			assert.ErrorIs(t, err, ErrValue)
			continue
		}
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, got, tc.src)
	}
}

func TestParseConstraint(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Constraint
		ok   bool
	}{
		{"NOT NULL", ast.NotNull, true},
		{"PRIMARY KEY", ast.PrimaryKey, true},
		{"UNIQUE", ast.Unique, true},
		{"NOT   NULL", ast.NotNull, true},
		{"not null", 0, false},
		{"PRIMARY NULL", 0, false},
		{"CHECK", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseConstraint(tc.src)
		if !tc.ok {
			requireKind(t, err, KindValue)
			continue
		}
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, got, tc.src)
	}
}

func TestParse_UnknownTypeFails(t *testing.T) {
	doc, err := Parse("CREATE TABLE t (id INT, name VARCHAR)")
	assert.Nil(t, doc)
	requireKind(t, err, KindValue)
	assert.ErrorContains(t, err, "VARCHAR")
}

func TestParse_UnknownConstraintFails(t *testing.T) {
	_, err := Parse("CREATE TABLE t (id INT FOREIGN)")
	pe := requireKind(t, err, KindValue)
	assert.Equal(t, grammar.RuleConstraint, pe.Rule)
}

func TestBuildColumn_ShapeViolations(t *testing.T) {
	ident := &grammar.Node{Rule: grammar.RuleIdent, Text: "id"}
	typ := &grammar.Node{Rule: grammar.RuleScalarType, Text: "INT"}

	cases := []struct {
		name     string
		children []*grammar.Node
	}{
		{"missing type", []*grammar.Node{ident}},
		{"type first", []*grammar.Node{typ, ident}},
		{"ident after type", []*grammar.Node{ident, typ, ident}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildColumn(&grammar.Node{Rule: grammar.RuleColumnDefinition, Children: tc.children})
			requireKind(t, err, KindContractViolation)
		})
	}
}

func TestBuildTable_RejectsForeignChild(t *testing.T) {
	n := &grammar.Node{Rule: grammar.RuleTableDefinition, Children: []*grammar.Node{
		{Rule: grammar.RuleIdent, Text: "t"},
		{Rule: grammar.RuleLiteral},
	}}
	_, err := buildTable(n)
	requireKind(t, err, KindContractViolation)

	_, err = buildTable(&grammar.Node{Rule: grammar.RuleInsertion})
	requireKind(t, err, KindContractViolation)
}
