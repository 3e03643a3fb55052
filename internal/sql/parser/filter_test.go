package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

func ident(name string) ast.Expr { return &ast.Identifier{Name: name} }
func num(v int64) ast.Expr      { return &ast.Literal{Value: ast.IntValue(v)} }

func cmpOp(l ast.Expr, op ast.ComparisonOp, r ast.Expr) ast.Expr {
	return &ast.ComparisonExpr{Left: l, Op: op, Right: r}
}

func or(l, r ast.Expr) ast.Expr  { return &ast.OrExpr{Left: l, Right: r} }
func and(l, r ast.Expr) ast.Expr { return &ast.AndExpr{Left: l, Right: r} }
func paren(e ast.Expr) ast.Expr  { return &ast.ParenExpr{Inner: e} }

func TestParseFilter_Shapes(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want ast.Expr
	}{
		{
			name: "and binds tighter than or",
			src:  "a = 1 OR b = 2 AND c = 3",
			want: or(
				cmpOp(ident("a"), ast.OpEq, num(1)),
				and(cmpOp(ident("b"), ast.OpEq, num(2)), cmpOp(ident("c"), ast.OpEq, num(3))),
			),
		},
		{
			name: "or is left associative",
			src:  "a OR b OR c",
			want: or(or(ident("a"), ident("b")), ident("c")),
		},
		{
			name: "and is left associative",
			src:  "a AND b AND c AND d",
			want: and(and(and(ident("a"), ident("b")), ident("c")), ident("d")),
		},
		{
			name: "parentheses are kept",
			src:  "(a = 1)",
			want: paren(cmpOp(ident("a"), ast.OpEq, num(1))),
		},
		{
			name: "parentheses override precedence",
			src:  "(a = 1 OR b = 2) AND c = 3",
			want: and(
				paren(or(cmpOp(ident("a"), ast.OpEq, num(1)), cmpOp(ident("b"), ast.OpEq, num(2)))),
				cmpOp(ident("c"), ast.OpEq, num(3)),
			),
		},
		{
			name: "bare operand passes through",
			src:  "active",
			want: ident("active"),
		},
		{
			name: "literals on both sides",
			src:  "'x' <> FALSE",
			want: cmpOp(&ast.Literal{Value: ast.TextValue("x")}, ast.OpNeq, &ast.Literal{Value: ast.BoolValue(false)}),
		},
		{
			name: "negative number",
			src:  "balance >= -5",
			want: cmpOp(ident("balance"), ast.OpGte, num(-5)),
		},
		{
			name: "paren operand of comparison",
			src:  "(a) < (((b)))",
			want: cmpOp(paren(ident("a")), ast.OpLt, paren(paren(paren(ident("b"))))),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFilter(tc.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFilter_Operators(t *testing.T) {
	cases := map[string]ast.ComparisonOp{
		"=":  ast.OpEq,
		"<>": ast.OpNeq,
		"!=": ast.OpNeq,
		"<":  ast.OpLt,
		"<=": ast.OpLte,
		">":  ast.OpGt,
		">=": ast.OpGte,
	}
	for lexeme, want := range cases {
		got, err := ParseFilter("x " + lexeme + " 1")
		require.NoError(t, err, lexeme)
		c, ok := got.(*ast.ComparisonExpr)
		require.True(t, ok, "%s: want *ast.ComparisonExpr, got %T", lexeme, got)
		assert.Equal(t, want, c.Op, lexeme)
	}
}

func TestParseFilter_ParenthesizedIsDistinct(t *testing.T) {
	plain, err := ParseFilter("a = 1")
	require.NoError(t, err)
	wrapped, err := ParseFilter("((a = 1))")
	require.NoError(t, err)

	assert.False(t, cmp.Equal(plain, wrapped))
	assert.True(t, cmp.Equal(plain, ast.StripParens(wrapped)))
}

func nested(depth int) string {
	return strings.Repeat("(", depth) + "a = 1" + strings.Repeat(")", depth)
}

func TestParseFilter_DepthLimit(t *testing.T) {
	_, err := ParseFilter(nested(grammar.DefaultMaxDepth))
	require.NoError(t, err)

	_, err = ParseFilter(nested(grammar.DefaultMaxDepth + 1))
	requireKind(t, err, KindDepthExceeded)
	assert.ErrorIs(t, err, ErrDepthExceeded)

	_, err = ParseFilter(nested(4), WithMaxDepth(3))
	requireKind(t, err, KindDepthExceeded)

	got, err := ParseFilter(nested(5000), WithMaxDepth(5000))
	require.NoError(t, err)
	assert.Equal(t, nested(5000), got.String())
}

func TestParseFilter_DepthLimitIsClamped(t *testing.T) {
	assert.Equal(t, grammar.MaxDepthLimit, newBuilder([]Option{WithMaxDepth(1 << 30)}).opts.MaxDepth)

	_, err := ParseFilter(nested(grammar.MaxDepthLimit+1), WithMaxDepth(1<<30))
	pe := requireKind(t, err, KindDepthExceeded)
	assert.Contains(t, pe.Error(), "10000")
}

func TestParse_DepthLimitInsideSelection(t *testing.T) {
	_, err := Parse("SELECT * FROM t WHERE "+nested(10), WithMaxDepth(9))
	requireKind(t, err, KindDepthExceeded)

	_, err = Parse("SELECT * FROM t WHERE "+nested(10), WithMaxDepth(10))
	require.NoError(t, err)
}

// The builder enforces its own ceiling even on trees the grammar accepted.
func TestBuildFilter_DepthLimit(t *testing.T) {
	n, err := grammar.ParseRule(grammar.RuleFilterExpr, nested(3))
	require.NoError(t, err)

	b := newBuilder([]Option{WithMaxDepth(2)})
	_, err = b.buildFilter(n)
	pe := requireKind(t, err, KindDepthExceeded)
	assert.Equal(t, grammar.RuleParenExpr, pe.Rule)

	b = newBuilder([]Option{WithMaxDepth(3)})
	_, err = b.buildFilter(n)
	require.NoError(t, err)
}

func TestBuildFilter_UnknownOperator(t *testing.T) {
	n, err := grammar.ParseRule(grammar.RuleFilterExpr, "a = 1")
	require.NoError(t, err)

	// filter_expr > or_expr > and_expr > comparison_expr > comp_op
	op := n.Child(0).Child(0).Child(0).Child(1)
	require.Equal(t, grammar.RuleCompOp, op.Rule)
	op.Text = "=="

	_, err = newBuilder(nil).buildFilter(n)
	requireKind(t, err, KindValue)
}

func TestBuildFilter_ContractViolations(t *testing.T) {
	leaf := func(r grammar.Rule, text string) *grammar.Node { return &grammar.Node{Rule: r, Text: text} }
	node := func(r grammar.Rule, children ...*grammar.Node) *grammar.Node {
		return &grammar.Node{Rule: r, Children: children}
	}

	cases := []struct {
		name string
		n    *grammar.Node
	}{
		{"filter_expr over ident", node(grammar.RuleFilterExpr, leaf(grammar.RuleIdent, "a"))},
		{"empty or", node(grammar.RuleFilterExpr, node(grammar.RuleOrExpr))},
		{"or over comparison", node(grammar.RuleOrExpr, node(grammar.RuleComparisonExpr))},
		{"two-child comparison", node(grammar.RuleComparisonExpr,
			node(grammar.RulePrimaryExpr, leaf(grammar.RuleIdent, "a")), leaf(grammar.RuleCompOp, "="))},
		{"primary over and", node(grammar.RulePrimaryExpr, node(grammar.RuleAndExpr))},
		{"stray rule", leaf(grammar.RuleProjection, "*")},
		{"nil", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newBuilder(nil).buildFilter(tc.n)
			requireKind(t, err, KindContractViolation)
		})
	}
}
