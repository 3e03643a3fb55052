// Package grammar turns source text into a tagged parse tree.
//
// The tree is untyped: every node carries the Rule that produced it, the
// matched source text, its span and its children. Turning the tree into the
// typed AST is the job of package parser, which is coupled to the rule
// shapes documented on each Rule constant.
package grammar

import "fmt"

// Rule tags a parse tree node.
type Rule int

const (
	RuleInvalid Rule = iota

	// RuleDocument: (RuleTableDefinition | RuleInsertion | RuleSelection | RuleComment)*
	RuleDocument
	// RuleTableDefinition: RuleIdent RuleColumnDefinition+
	RuleTableDefinition
	// RuleInsertion: RuleIdent (RuleIdent | RuleLiteral)*, names first.
	RuleInsertion
	// RuleSelection: RuleProjection RuleIdent RuleFilter?
	RuleSelection
	// RuleComment: leaf, Text is the raw comment including delimiters.
	RuleComment

	// RuleColumnDefinition: RuleIdent RuleScalarType RuleConstraint*
	RuleColumnDefinition
	// RuleScalarType: leaf, the type word as written.
	RuleScalarType
	// RuleConstraint: leaf, Text holds the keywords joined by one space.
	RuleConstraint

	// RuleLiteral: exactly one of RuleNumber | RuleString | RuleBoolean
	RuleLiteral
	RuleNumber
	RuleString
	RuleBoolean

	// RuleProjection: Text "*" and no children, or RuleIdent+
	RuleProjection
	RuleIdent

	// RuleFilter: RuleFilterExpr (the WHERE clause)
	RuleFilter
	// RuleFilterExpr: RuleOrExpr
	RuleFilterExpr
	// RuleOrExpr: RuleAndExpr+
	RuleOrExpr
	// RuleAndExpr: RuleComparisonExpr+
	RuleAndExpr
	// RuleComparisonExpr: RulePrimaryExpr (RuleCompOp RulePrimaryExpr)?
	RuleComparisonExpr
	// RulePrimaryExpr: exactly one of RuleIdent | RuleLiteral | RuleParenExpr
	RulePrimaryExpr
	// RuleParenExpr: RuleFilterExpr
	RuleParenExpr
	// RuleCompOp: leaf, the operator lexeme.
	RuleCompOp
)

var ruleNames = [...]string{
	RuleInvalid:          "invalid",
	RuleDocument:         "document",
	RuleTableDefinition:  "table_definition",
	RuleInsertion:        "insertion",
	RuleSelection:        "selection",
	RuleComment:          "comment",
	RuleColumnDefinition: "column_definition",
	RuleScalarType:       "scalar_type",
	RuleConstraint:       "constraint",
	RuleLiteral:          "literal",
	RuleNumber:           "number",
	RuleString:           "string",
	RuleBoolean:          "boolean",
	RuleProjection:       "projection",
	RuleIdent:            "ident",
	RuleFilter:           "filter",
	RuleFilterExpr:       "filter_expr",
	RuleOrExpr:           "or_expr",
	RuleAndExpr:          "and_expr",
	RuleComparisonExpr:   "comparison_expr",
	RulePrimaryExpr:      "primary_expr",
	RuleParenExpr:        "paren_expr",
	RuleCompOp:           "comp_op",
}

func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Pos is a location in the source. Line and Column are 1-based; Column
// counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Span is the half-open source range [Start, End).
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return s.Start.String() + "-" + s.End.String() }

type Node struct {
	Rule     Rule
	Text     string
	Span     Span
	Children []*Node
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}
