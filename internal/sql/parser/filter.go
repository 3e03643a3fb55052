package parser

import (
	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/pkg/ast"
)

// ----- WHERE -----

var operators = map[string]ast.ComparisonOp{
	"=":  ast.OpEq,
	"<>": ast.OpNeq,
	"!=": ast.OpNeq,
	"<":  ast.OpLt,
	"<=": ast.OpLte,
	">":  ast.OpGt,
	">=": ast.OpGte,
}

// childRules lists, per single-child rule, the tags its child may carry.
var childRules = map[grammar.Rule][]grammar.Rule{
	grammar.RuleFilter:      {grammar.RuleFilterExpr},
	grammar.RuleFilterExpr:  {grammar.RuleOrExpr},
	grammar.RuleParenExpr:   {grammar.RuleFilterExpr},
	grammar.RulePrimaryExpr: {grammar.RuleIdent, grammar.RuleLiteral, grammar.RuleParenExpr},
}

func buildOperator(n *grammar.Node) (ast.ComparisonOp, error) {
	if err := expectRule(n, grammar.RuleCompOp); err != nil {
		return 0, err
	}
	op, ok := operators[n.Text]
	if !ok {
		return 0, errorf(KindValue, n, "unknown comparison operator %q", n.Text)
	}
	return op, nil
}

// filterFrame is one pending node on the explicit work stack.
type filterFrame struct {
	node *grammar.Node
	next int
	// acc is the OR/AND accumulator, or the left operand of a comparison.
	acc    ast.Expr
	op     ast.ComparisonOp
	parens int
}

// buildFilter converts a filter (or any filter sub-rule) node. It walks the
// tree with an explicit stack and fails with KindDepthExceeded once
// parentheses nest deeper than the configured limit.
func (b *builder) buildFilter(n *grammar.Node) (ast.Expr, error) {
	if n == nil {
		return nil, errorf(KindContractViolation, nil, "missing filter expression")
	}

	root := &filterFrame{node: n}
	if n.Rule == grammar.RuleParenExpr {
		root.parens = 1
	}
	if root.parens > b.opts.MaxDepth {
		return nil, b.tooDeep(n)
	}

	stack := []*filterFrame{root}
	var res ast.Expr
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		child, out, err := f.step(res)
		if err != nil {
			return nil, err
		}
		res = nil

		if child == nil {
			stack = stack[:len(stack)-1]
			res = out
			continue
		}

		next := &filterFrame{node: child, parens: f.parens}
		if child.Rule == grammar.RuleParenExpr {
			next.parens++
			if next.parens > b.opts.MaxDepth {
				return nil, b.tooDeep(child)
			}
		}
		stack = append(stack, next)
	}
	return res, nil
}

func (b *builder) tooDeep(n *grammar.Node) error {
	return errorf(KindDepthExceeded, n, "parentheses nested deeper than %d", b.opts.MaxDepth)
}

// step advances f by one move. res is the expression of the child that just
// finished, nil on the first visit. step returns either the next child to
// build or, with child == nil, the finished expression for f.
func (f *filterFrame) step(res ast.Expr) (child *grammar.Node, out ast.Expr, err error) {
	n := f.node
	switch n.Rule {
	case grammar.RuleFilter, grammar.RuleFilterExpr, grammar.RulePrimaryExpr, grammar.RuleParenExpr:
		if res != nil {
			if n.Rule == grammar.RuleParenExpr {
				return nil, &ast.ParenExpr{Inner: res}, nil
			}
			return nil, res, nil
		}
		if len(n.Children) != 1 {
			return nil, nil, errorf(KindContractViolation, n, "%s must have exactly one child, found %d", n.Rule, len(n.Children))
		}
		c := n.Children[0]
		if !ruleIn(c.Rule, childRules[n.Rule]) {
			return nil, nil, errorf(KindContractViolation, c, "unexpected %s node under %s", c.Rule, n.Rule)
		}
		return c, nil, nil

	case grammar.RuleOrExpr, grammar.RuleAndExpr:
		// Left-associative fold: a OR b OR c is Or(Or(a, b), c).
		if res != nil {
			switch {
			case f.acc == nil:
				f.acc = res
			case n.Rule == grammar.RuleOrExpr:
				f.acc = &ast.OrExpr{Left: f.acc, Right: res}
			default:
				f.acc = &ast.AndExpr{Left: f.acc, Right: res}
			}
		}
		if f.next < len(n.Children) {
			c := n.Children[f.next]
			f.next++
			want := grammar.RuleAndExpr
			if n.Rule == grammar.RuleAndExpr {
				want = grammar.RuleComparisonExpr
			}
			if err := expectRule(c, want); err != nil {
				return nil, nil, err
			}
			return c, nil, nil
		}
		if f.acc == nil {
			return nil, nil, errorf(KindContractViolation, n, "%s has no operands", n.Rule)
		}
		return nil, f.acc, nil

	case grammar.RuleComparisonExpr:
		if len(n.Children) != 1 && len(n.Children) != 3 {
			return nil, nil, errorf(KindContractViolation, n, "comparison must have 1 or 3 children, found %d", len(n.Children))
		}
		switch {
		case res == nil:
			left := n.Children[0]
			if err := expectRule(left, grammar.RulePrimaryExpr); err != nil {
				return nil, nil, err
			}
			return left, nil, nil

		case f.acc == nil && len(n.Children) == 1:
			return nil, res, nil

		case f.acc == nil:
			op, err := buildOperator(n.Children[1])
			if err != nil {
				return nil, nil, err
			}
			right := n.Children[2]
			if err := expectRule(right, grammar.RulePrimaryExpr); err != nil {
				return nil, nil, err
			}
			f.acc, f.op = res, op
			return right, nil, nil

		default:
			return nil, &ast.ComparisonExpr{Left: f.acc, Op: f.op, Right: res}, nil
		}

	case grammar.RuleIdent:
		return nil, &ast.Identifier{Name: n.Text}, nil

	case grammar.RuleLiteral:
		v, err := buildValue(n)
		if err != nil {
			return nil, nil, err
		}
		return nil, &ast.Literal{Value: v}, nil

	default:
		return nil, nil, errorf(KindContractViolation, n, "unexpected %s node in filter expression", n.Rule)
	}
}

func ruleIn(r grammar.Rule, set []grammar.Rule) bool {
	for _, s := range set {
		if r == s {
			return true
		}
	}
	return false
}
