// Package ast holds the typed syntax tree produced by the seedsql parser.
//
// All variants are closed: each family (Statement, Expr, Value, Projection)
// is an interface with an unexported marker method, so only this package can
// add cases and a type switch over a family is exhaustive by construction.
package ast

// Document is the root of a parse: every statement in source order.
type Document struct {
	Statements []Statement
}

// Statement is one top-level entry of a Document.
type Statement interface {
	stmtNode()
	String() string
}

// ----- CREATE TABLE -----

// ScalarType is the value domain of a column.
type ScalarType int

const (
	TypeInteger ScalarType = iota + 1
	TypeText
	TypeBoolean
)

// Constraint is a column-level property.
type Constraint int

const (
	NotNull Constraint = iota + 1
	PrimaryKey
	Unique
)

type ColumnDefinition struct {
	Name        string
	Type        ScalarType
	Constraints []Constraint
}

// HasConstraint reports whether c appears in the column's constraint list.
func (c ColumnDefinition) HasConstraint(want Constraint) bool {
	for _, got := range c.Constraints {
		if got == want {
			return true
		}
	}
	return false
}

// TableDefinition keeps columns in declaration order; insertions without a
// column list rely on that order.
type TableDefinition struct {
	Name    string
	Columns []ColumnDefinition
}

func (*TableDefinition) stmtNode() {}

// ----- INSERT -----

// Insertion is not guaranteed to have len(Columns) == len(Values) when the
// parser runs in lenient mode.
type Insertion struct {
	Table   string
	Columns []string
	Values  []Value
}

func (*Insertion) stmtNode() {}

// ----- SELECT -----

// Selection has a nil Filter when no WHERE clause was given.
type Selection struct {
	Table      string
	Projection Projection
	Filter     Expr
}

func (*Selection) stmtNode() {}

// Projection is either AllColumns or NamedColumns.
type Projection interface {
	projectionNode()
	String() string
}

type AllColumns struct{}

func (AllColumns) projectionNode() {}

// NamedColumns preserves order and duplicates.
type NamedColumns struct {
	Names []string
}

func (NamedColumns) projectionNode() {}

// ----- Comments -----

type CommentStyle int

const (
	LineComment CommentStyle = iota + 1
	BlockComment
)

// Comment carries the comment body without its delimiters.
type Comment struct {
	Style CommentStyle
	Text  string
}

func (*Comment) stmtNode() {}
