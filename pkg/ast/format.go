package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the document as SQL. Statements end with ';', comments
// are emitted verbatim, one entry per line.
func (d *Document) String() string {
	var b strings.Builder
	for i, s := range d.Statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.String())
		if _, ok := s.(*Comment); !ok {
			b.WriteByte(';')
		}
	}
	return b.String()
}

func (t ScalarType) String() string {
	switch t {
	case TypeInteger:
		return "INT"
	case TypeText:
		return "TEXT"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("ScalarType(%d)", int(t))
	}
}

func (c Constraint) String() string {
	switch c {
	case NotNull:
		return "NOT NULL"
	case PrimaryKey:
		return "PRIMARY KEY"
	case Unique:
		return "UNIQUE"
	default:
		return fmt.Sprintf("Constraint(%d)", int(c))
	}
}

func (op ComparisonOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return fmt.Sprintf("ComparisonOp(%d)", int(op))
	}
}

func (c ColumnDefinition) String() string {
	parts := []string{c.Name, c.Type.String()}
	for _, k := range c.Constraints {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, " ")
}

func (t *TableDefinition) String() string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.String()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", t.Name, strings.Join(cols, ", "))
}

func (in *Insertion) String() string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(in.Table)
	if len(in.Columns) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(in.Columns, ", "))
		b.WriteByte(')')
	}
	vals := make([]string, len(in.Values))
	for i, v := range in.Values {
		vals[i] = v.String()
	}
	b.WriteString(" VALUES (")
	b.WriteString(strings.Join(vals, ", "))
	b.WriteByte(')')
	return b.String()
}

func (s *Selection) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Projection != nil {
		b.WriteString(s.Projection.String())
	}
	b.WriteString(" FROM ")
	b.WriteString(s.Table)
	if s.Filter != nil {
		b.WriteString(" WHERE ")
		b.WriteString(s.Filter.String())
	}
	return b.String()
}

func (AllColumns) String() string { return "*" }

func (p NamedColumns) String() string { return strings.Join(p.Names, ", ") }

func (c *Comment) String() string {
	if c.Style == BlockComment {
		return "/* " + c.Text + " */"
	}
	return "-- " + c.Text
}

// ----- Expressions -----

func (e *OrExpr) String() string  { return e.Left.String() + " OR " + e.Right.String() }
func (e *AndExpr) String() string { return e.Left.String() + " AND " + e.Right.String() }

func (e *ComparisonExpr) String() string {
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}

func (e *Identifier) String() string { return e.Name }
func (e *Literal) String() string    { return e.Value.String() }
func (e *ParenExpr) String() string  { return "(" + e.Inner.String() + ")" }

func (v IntValue) String() string { return strconv.FormatInt(int64(v), 10) }

// String quotes the text without escaping; the dialect has no escapes.
func (v TextValue) String() string { return "'" + string(v) + "'" }

func (v BoolValue) String() string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
