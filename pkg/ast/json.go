package ast

import (
	"encoding/json"
	"fmt"
)

// Wire names. These are part of the interchange format and must not change.
var (
	typeNames = map[ScalarType]string{
		TypeInteger: "integer",
		TypeText:    "text",
		TypeBoolean: "boolean",
	}
	constraintNames = map[Constraint]string{
		NotNull:    "not_null",
		PrimaryKey: "primary_key",
		Unique:     "unique",
	}
	opNames = map[ComparisonOp]string{
		OpEq:  "eq",
		OpNeq: "neq",
		OpLt:  "lt",
		OpLte: "lte",
		OpGt:  "gt",
		OpGte: "gte",
	}
	commentStyleNames = map[CommentStyle]string{
		LineComment:  "line",
		BlockComment: "block",
	}
)

func lookup[K comparable](m map[K]string, name, what string) (K, error) {
	for k, v := range m {
		if v == name {
			return k, nil
		}
	}
	var zero K
	return zero, fmt.Errorf("ast: unknown %s %q", what, name)
}

func wireName[K comparable](m map[K]string, k K, what string) (string, error) {
	s, ok := m[k]
	if !ok {
		return "", fmt.Errorf("ast: invalid %s %v", what, k)
	}
	return s, nil
}

type documentJSON struct {
	Statements []json.RawMessage `json:"statements"`
}

type kindJSON struct {
	Kind string `json:"kind"`
}

type tableJSON struct {
	Kind    string       `json:"kind"`
	Name    string       `json:"name"`
	Columns []columnJSON `json:"columns"`
}

type columnJSON struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Constraints []string `json:"constraints"`
}

type insertionJSON struct {
	Kind    string      `json:"kind"`
	Table   string      `json:"table"`
	Columns []string    `json:"columns"`
	Values  []valueJSON `json:"values"`
}

type selectionJSON struct {
	Kind       string         `json:"kind"`
	Table      string         `json:"table"`
	Projection projectionJSON `json:"projection"`
	Filter     *exprJSON      `json:"filter"`
}

type projectionJSON struct {
	Kind  string   `json:"kind"`
	Names []string `json:"names,omitempty"`
}

type commentJSON struct {
	Kind  string `json:"kind"`
	Style string `json:"style"`
	Text  string `json:"text"`
}

type exprJSON struct {
	Kind  string     `json:"kind"`
	Left  *exprJSON  `json:"left,omitempty"`
	Op    string     `json:"op,omitempty"`
	Right *exprJSON  `json:"right,omitempty"`
	Name  string     `json:"name,omitempty"`
	Value *valueJSON `json:"value,omitempty"`
	Inner *exprJSON  `json:"inner,omitempty"`
}

type valueJSON struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

const (
	kindTable      = "table_definition"
	kindInsertion  = "insertion"
	kindSelection  = "selection"
	kindComment    = "comment"
	kindAll        = "all"
	kindNamed      = "named"
	kindOr         = "or"
	kindAnd        = "and"
	kindComparison = "comparison"
	kindIdentifier = "identifier"
	kindLiteral    = "literal"
	kindParen      = "parenthesized"
	kindInteger    = "integer"
	kindText       = "text"
	kindBoolean    = "boolean"
)

// MarshalJSON encodes the document with a "kind" tag on every variant.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{Statements: make([]json.RawMessage, 0, len(d.Statements))}
	for i, s := range d.Statements {
		v, err := encodeStatement(s)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (d *Document) UnmarshalJSON(b []byte) error {
	var in documentJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	stmts := make([]Statement, 0, len(in.Statements))
	for i, raw := range in.Statements {
		s, err := decodeStatement(raw)
		if err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
		stmts = append(stmts, s)
	}
	d.Statements = stmts
	return nil
}

func encodeStatement(s Statement) (any, error) {
	switch s := s.(type) {
	case *TableDefinition:
		out := tableJSON{Kind: kindTable, Name: s.Name, Columns: make([]columnJSON, 0, len(s.Columns))}
		for _, c := range s.Columns {
			typ, err := wireName(typeNames, c.Type, "scalar type")
			if err != nil {
				return nil, err
			}
			col := columnJSON{Name: c.Name, Type: typ, Constraints: make([]string, 0, len(c.Constraints))}
			for _, k := range c.Constraints {
				n, err := wireName(constraintNames, k, "constraint")
				if err != nil {
					return nil, err
				}
				col.Constraints = append(col.Constraints, n)
			}
			out.Columns = append(out.Columns, col)
		}
		return out, nil

	case *Insertion:
		out := insertionJSON{
			Kind:    kindInsertion,
			Table:   s.Table,
			Columns: append(make([]string, 0, len(s.Columns)), s.Columns...),
			Values:  make([]valueJSON, 0, len(s.Values)),
		}
		for _, v := range s.Values {
			vj, err := encodeValue(v)
			if err != nil {
				return nil, err
			}
			out.Values = append(out.Values, *vj)
		}
		return out, nil

	case *Selection:
		out := selectionJSON{Kind: kindSelection, Table: s.Table}
		switch p := s.Projection.(type) {
		case AllColumns:
			out.Projection = projectionJSON{Kind: kindAll}
		case NamedColumns:
			out.Projection = projectionJSON{Kind: kindNamed, Names: p.Names}
		default:
			return nil, fmt.Errorf("ast: invalid projection %T", s.Projection)
		}
		if s.Filter != nil {
			f, err := encodeExpr(s.Filter)
			if err != nil {
				return nil, err
			}
			out.Filter = f
		}
		return out, nil

	case *Comment:
		style, err := wireName(commentStyleNames, s.Style, "comment style")
		if err != nil {
			return nil, err
		}
		return commentJSON{Kind: kindComment, Style: style, Text: s.Text}, nil

	default:
		return nil, fmt.Errorf("ast: invalid statement %T", s)
	}
}

func decodeStatement(raw json.RawMessage) (Statement, error) {
	var k kindJSON
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, err
	}

	switch k.Kind {
	case kindTable:
		var in tableJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
		t := &TableDefinition{Name: in.Name}
		for _, c := range in.Columns {
			typ, err := lookup(typeNames, c.Type, "scalar type")
			if err != nil {
				return nil, err
			}
			col := ColumnDefinition{Name: c.Name, Type: typ}
			for _, cn := range c.Constraints {
				con, err := lookup(constraintNames, cn, "constraint")
				if err != nil {
					return nil, err
				}
				col.Constraints = append(col.Constraints, con)
			}
			t.Columns = append(t.Columns, col)
		}
		return t, nil

	case kindInsertion:
		var in insertionJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
		ins := &Insertion{Table: in.Table, Columns: in.Columns}
		for i := range in.Values {
			v, err := decodeValue(&in.Values[i])
			if err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, v)
		}
		return ins, nil

	case kindSelection:
		var in selectionJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
		sel := &Selection{Table: in.Table}
		switch in.Projection.Kind {
		case kindAll:
			sel.Projection = AllColumns{}
		case kindNamed:
			sel.Projection = NamedColumns{Names: in.Projection.Names}
		default:
			return nil, fmt.Errorf("ast: unknown projection kind %q", in.Projection.Kind)
		}
		if in.Filter != nil {
			f, err := decodeExpr(in.Filter)
			if err != nil {
				return nil, err
			}
			sel.Filter = f
		}
		return sel, nil

	case kindComment:
		var in commentJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
		style, err := lookup(commentStyleNames, in.Style, "comment style")
		if err != nil {
			return nil, err
		}
		return &Comment{Style: style, Text: in.Text}, nil

	default:
		return nil, fmt.Errorf("ast: unknown statement kind %q", k.Kind)
	}
}

// ----- Expressions -----

func encodeExpr(e Expr) (*exprJSON, error) {
	switch e := e.(type) {
	case *OrExpr:
		return encodeBinary(kindOr, e.Left, "", e.Right)
	case *AndExpr:
		return encodeBinary(kindAnd, e.Left, "", e.Right)
	case *ComparisonExpr:
		op, err := wireName(opNames, e.Op, "comparison operator")
		if err != nil {
			return nil, err
		}
		return encodeBinary(kindComparison, e.Left, op, e.Right)
	case *Identifier:
		return &exprJSON{Kind: kindIdentifier, Name: e.Name}, nil
	case *Literal:
		v, err := encodeValue(e.Value)
		if err != nil {
			return nil, err
		}
		return &exprJSON{Kind: kindLiteral, Value: v}, nil
	case *ParenExpr:
		inner, err := encodeExpr(e.Inner)
		if err != nil {
			return nil, err
		}
		return &exprJSON{Kind: kindParen, Inner: inner}, nil
	default:
		return nil, fmt.Errorf("ast: invalid expression %T", e)
	}
}

func encodeBinary(kind string, l Expr, op string, r Expr) (*exprJSON, error) {
	left, err := encodeExpr(l)
	if err != nil {
		return nil, err
	}
	right, err := encodeExpr(r)
	if err != nil {
		return nil, err
	}
	return &exprJSON{Kind: kind, Left: left, Op: op, Right: right}, nil
}

func decodeExpr(in *exprJSON) (Expr, error) {
	if in == nil {
		return nil, fmt.Errorf("ast: missing expression")
	}
	switch in.Kind {
	case kindOr, kindAnd, kindComparison:
		left, err := decodeExpr(in.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(in.Right)
		if err != nil {
			return nil, err
		}
		switch in.Kind {
		case kindOr:
			return &OrExpr{Left: left, Right: right}, nil
		case kindAnd:
			return &AndExpr{Left: left, Right: right}, nil
		}
		op, err := lookup(opNames, in.Op, "comparison operator")
		if err != nil {
			return nil, err
		}
		return &ComparisonExpr{Left: left, Op: op, Right: right}, nil
	case kindIdentifier:
		return &Identifier{Name: in.Name}, nil
	case kindLiteral:
		if in.Value == nil {
			return nil, fmt.Errorf("ast: literal without value")
		}
		v, err := decodeValue(in.Value)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: v}, nil
	case kindParen:
		inner, err := decodeExpr(in.Inner)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("ast: unknown expression kind %q", in.Kind)
	}
}

// ----- Values -----

func encodeValue(v Value) (*valueJSON, error) {
	var (
		kind string
		raw  any
	)
	switch v := v.(type) {
	case IntValue:
		kind, raw = kindInteger, int64(v)
	case TextValue:
		kind, raw = kindText, string(v)
	case BoolValue:
		kind, raw = kindBoolean, bool(v)
	default:
		return nil, fmt.Errorf("ast: invalid value %T", v)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return &valueJSON{Kind: kind, Value: b}, nil
}

func decodeValue(in *valueJSON) (Value, error) {
	switch in.Kind {
	case kindInteger:
		var n int64
		if err := json.Unmarshal(in.Value, &n); err != nil {
			return nil, fmt.Errorf("ast: integer value: %w", err)
		}
		return IntValue(n), nil
	case kindText:
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return nil, fmt.Errorf("ast: text value: %w", err)
		}
		return TextValue(s), nil
	case kindBoolean:
		var b bool
		if err := json.Unmarshal(in.Value, &b); err != nil {
			return nil, fmt.Errorf("ast: boolean value: %w", err)
		}
		return BoolValue(b), nil
	default:
		return nil, fmt.Errorf("ast: unknown value kind %q", in.Kind)
	}
}
