package ast

// Expr is a node of a filter expression tree. Trees are strictly
// tree-shaped: every node owns its children.
type Expr interface {
	exprNode()
	String() string
}

// ComparisonOp is a non-chaining binary comparison.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota + 1
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

type OrExpr struct {
	Left, Right Expr
}

type AndExpr struct {
	Left, Right Expr
}

type ComparisonExpr struct {
	Left  Expr
	Op    ComparisonOp
	Right Expr
}

type Identifier struct {
	Name string
}

type Literal struct {
	Value Value
}

// ParenExpr keeps the source grouping. (a) and a are different trees; use
// StripParens to compare them semantically.
type ParenExpr struct {
	Inner Expr
}

func (*OrExpr) exprNode()         {}
func (*AndExpr) exprNode()        {}
func (*ComparisonExpr) exprNode() {}
func (*Identifier) exprNode()     {}
func (*Literal) exprNode()        {}
func (*ParenExpr) exprNode()      {}

// Value is a scalar literal.
type Value interface {
	valueNode()
	String() string
}

type IntValue int64

type TextValue string

type BoolValue bool

func (IntValue) valueNode()  {}
func (TextValue) valueNode() {}
func (BoolValue) valueNode() {}

// StripParens returns a copy of e with every ParenExpr replaced by its inner
// expression. The walk uses an explicit stack so adversarial nesting cannot
// overflow the goroutine stack.
func StripParens(e Expr) Expr {
	if e == nil {
		return nil
	}

	type task struct {
		src Expr
		dst *Expr
	}

	var out Expr
	stack := []task{{src: e, dst: &out}}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		src := t.src
		for {
			p, ok := src.(*ParenExpr)
			if !ok {
				break
			}
			src = p.Inner
		}

		switch n := src.(type) {
		case *OrExpr:
			c := &OrExpr{}
			*t.dst = c
			stack = append(stack, task{n.Right, &c.Right}, task{n.Left, &c.Left})
		case *AndExpr:
			c := &AndExpr{}
			*t.dst = c
			stack = append(stack, task{n.Right, &c.Right}, task{n.Left, &c.Left})
		case *ComparisonExpr:
			c := &ComparisonExpr{Op: n.Op}
			*t.dst = c
			stack = append(stack, task{n.Right, &c.Right}, task{n.Left, &c.Left})
		case *Identifier:
			*t.dst = &Identifier{Name: n.Name}
		case *Literal:
			*t.dst = &Literal{Value: n.Value}
		}
	}
	return out
}
