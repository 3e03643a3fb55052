package grammar

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxDepth bounds parenthesis nesting in filter expressions.
	DefaultMaxDepth = 128

	// MaxDepthLimit caps any configured nesting limit. Each level of
	// parentheses costs a fixed number of native stack frames here.
	MaxDepthLimit = 10000
)

type Option func(*parser)

// WithMaxDepth sets the parenthesis nesting limit. Values < 1 keep the
// default; values above MaxDepthLimit are clamped to it.
func WithMaxDepth(n int) Option {
	return func(p *parser) {
		if n > 0 {
			p.maxDepth = min(n, MaxDepthLimit)
		}
	}
}

// reserved words cannot be used as identifiers.
var reserved = map[string]bool{
	"CREATE": true, "TABLE": true,
	"INSERT": true, "INTO": true, "VALUES": true,
	"SELECT": true, "FROM": true, "WHERE": true,
	"AND": true, "OR": true,
	"TRUE": true, "FALSE": true,
}

type parser struct {
	src      string
	toks     []token
	pos      int
	lastEnd  Pos
	depth    int
	maxDepth int
}

// Parse parses a whole source text. The root node has rule RuleDocument.
func Parse(src string, opts ...Option) (*Node, error) {
	return ParseRule(RuleDocument, src, opts...)
}

// ParseRule parses src as exactly one instance of rule, optionally followed
// by ';'. Supported rules: document, table_definition, insertion,
// selection, column_definition, scalar_type, constraint, literal,
// projection and filter_expr.
func ParseRule(rule Rule, src string, opts ...Option) (*Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}

	if rule == RuleDocument {
		return p.document()
	}

	var n *Node
	switch rule {
	case RuleTableDefinition:
		n, err = p.tableDefinition()
	case RuleInsertion:
		n, err = p.insertion()
	case RuleSelection:
		n, err = p.selection()
	case RuleColumnDefinition:
		n, err = p.columnDefinition()
	case RuleScalarType:
		n, err = p.scalarType()
	case RuleConstraint:
		n, err = p.constraint()
	case RuleLiteral:
		n, err = p.literal()
	case RuleProjection:
		n, err = p.projection()
	case RuleFilterExpr:
		n, err = p.filterExpr()
	default:
		return nil, fmt.Errorf("grammar: rule %s cannot be parsed on its own", rule)
	}
	if err != nil {
		return nil, err
	}

	if i := p.peekIndex(); p.toks[i].kind == tokSemicolon {
		p.pos = i + 1
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t, "end of input")
	}
	return n, nil
}

// ----- token helpers -----

// peekIndex returns the index of the next non-comment token.
func (p *parser) peekIndex() int {
	i := p.pos
	for p.toks[i].isComment() {
		i++
	}
	return i
}

// peek looks past comments without consuming them, so a comment that
// trails the last statement is still seen by document.
func (p *parser) peek() token {
	return p.toks[p.peekIndex()]
}

// next consumes the next non-comment token along with any comments before it.
func (p *parser) next() token {
	i := p.peekIndex()
	t := p.toks[i]
	if t.kind != tokEOF {
		i++
	}
	p.pos = i
	p.lastEnd = t.span.End
	return t
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.unexpected(t, kind.String())
	}
	return p.next(), nil
}

func (p *parser) expectKeyword(kw string) (token, error) {
	t := p.peek()
	if !t.keyword(kw) {
		return t, p.unexpected(t, kw)
	}
	return p.next(), nil
}

func (p *parser) unexpected(t token, want string) error {
	found := "end of input"
	if t.kind != tokEOF {
		found = fmt.Sprintf("%q", t.text)
	}
	return syntaxErrorf(t.span.Start, "expected %s, found %s", want, found)
}

func (p *parser) node(rule Rule, start Pos, children ...*Node) *Node {
	end := p.lastEnd
	return &Node{
		Rule:     rule,
		Text:     p.src[start.Offset:end.Offset],
		Span:     Span{Start: start, End: end},
		Children: children,
	}
}

func (p *parser) leaf(rule Rule, t token) *Node {
	return &Node{Rule: rule, Text: t.text, Span: t.span}
}

// ----- document -----

func (p *parser) document() (*Node, error) {
	root := &Node{Rule: RuleDocument, Text: p.src}
	for {
		t := p.toks[p.pos]
		switch {
		case t.kind == tokEOF:
			root.Span = Span{Start: Pos{Line: 1, Column: 1}, End: t.span.End}
			return root, nil

		case t.isComment():
			p.pos++
			root.Children = append(root.Children, p.leaf(RuleComment, t))

		default:
			stmt, err := p.statement()
			if err != nil {
				return nil, err
			}
			root.Children = append(root.Children, stmt)

			// Statements are separated by ';'; the last one may omit it.
			// Comments after the terminator stay top-level.
			i := p.peekIndex()
			switch p.toks[i].kind {
			case tokSemicolon:
				p.pos = i + 1
			case tokEOF:
			default:
				return nil, p.unexpected(p.toks[i], "';'")
			}
		}
	}
}

func (p *parser) statement() (*Node, error) {
	t := p.peek()
	switch {
	case t.keyword("CREATE"):
		return p.tableDefinition()
	case t.keyword("INSERT"):
		return p.insertion()
	case t.keyword("SELECT"):
		return p.selection()
	default:
		return nil, p.unexpected(t, "CREATE TABLE, INSERT or SELECT")
	}
}

func (p *parser) ident() (*Node, error) {
	t := p.peek()
	if t.kind != tokWord {
		return nil, p.unexpected(t, "identifier")
	}
	if reserved[strings.ToUpper(t.text)] {
		return nil, syntaxErrorf(t.span.Start, "expected identifier, found keyword %q", t.text)
	}
	p.next()
	return p.leaf(RuleIdent, t), nil
}

// ----- CREATE TABLE -----

func (p *parser) tableDefinition() (*Node, error) {
	start, err := p.expectKeyword("CREATE")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	children := []*Node{name}
	for {
		col, err := p.columnDefinition()
		if err != nil {
			return nil, err
		}
		children = append(children, col)
		if p.accept(tokComma) {
			continue
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		break
	}
	return p.node(RuleTableDefinition, start.span.Start, children...), nil
}

func (p *parser) columnDefinition() (*Node, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	typ, err := p.scalarType()
	if err != nil {
		return nil, err
	}

	children := []*Node{name, typ}
	for p.peek().kind == tokWord {
		c, err := p.constraint()
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return p.node(RuleColumnDefinition, name.Span.Start, children...), nil
}

// scalarType accepts any word; the builder decides whether it names a type.
func (p *parser) scalarType() (*Node, error) {
	t := p.peek()
	if t.kind != tokWord {
		return nil, p.unexpected(t, "column type")
	}
	p.next()
	return p.leaf(RuleScalarType, t), nil
}

// constraint accepts NOT <word>, PRIMARY <word> or a single word.
func (p *parser) constraint() (*Node, error) {
	t := p.peek()
	if t.kind != tokWord {
		return nil, p.unexpected(t, "column constraint")
	}
	p.next()

	n := p.leaf(RuleConstraint, t)
	if up := strings.ToUpper(t.text); up == "NOT" || up == "PRIMARY" {
		t2 := p.peek()
		if t2.kind != tokWord {
			return nil, p.unexpected(t2, "column constraint")
		}
		p.next()
		n.Text = t.text + " " + t2.text
		n.Span.End = t2.span.End
	}
	return n, nil
}

// ----- INSERT -----

func (p *parser) insertion() (*Node, error) {
	start, err := p.expectKeyword("INSERT")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}

	children := []*Node{table}
	if p.accept(tokLParen) {
		for {
			col, err := p.ident()
			if err != nil {
				return nil, err
			}
			children = append(children, col)
			if !p.accept(tokComma) {
				break
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	for {
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		children = append(children, lit)
		if !p.accept(tokComma) {
			break
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return p.node(RuleInsertion, start.span.Start, children...), nil
}

func (p *parser) literal() (*Node, error) {
	t := p.peek()
	var rule Rule
	switch {
	case t.kind == tokNumber:
		rule = RuleNumber
	case t.kind == tokString:
		rule = RuleString
	case t.keyword("TRUE"), t.keyword("FALSE"):
		rule = RuleBoolean
	default:
		return nil, p.unexpected(t, "literal")
	}
	p.next()
	return p.node(RuleLiteral, t.span.Start, p.leaf(rule, t)), nil
}

// ----- SELECT -----

func (p *parser) selection() (*Node, error) {
	start, err := p.expectKeyword("SELECT")
	if err != nil {
		return nil, err
	}
	proj, err := p.projection()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}

	children := []*Node{proj, table}
	if where := p.peek(); where.keyword("WHERE") {
		p.next()
		expr, err := p.filterExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, p.node(RuleFilter, where.span.Start, expr))
	}
	return p.node(RuleSelection, start.span.Start, children...), nil
}

func (p *parser) projection() (*Node, error) {
	t := p.peek()
	if t.kind == tokStar {
		p.next()
		return p.leaf(RuleProjection, t), nil
	}

	var cols []*Node
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if !p.accept(tokComma) {
			break
		}
	}
	return p.node(RuleProjection, t.span.Start, cols...), nil
}

// ----- WHERE -----

func (p *parser) filterExpr() (*Node, error) {
	start := p.peek().span.Start
	or, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	return p.node(RuleFilterExpr, start, or), nil
}

func (p *parser) orExpr() (*Node, error) {
	start := p.peek().span.Start
	var operands []*Node
	for {
		and, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		operands = append(operands, and)
		if !p.peek().keyword("OR") {
			break
		}
		p.next()
	}
	return p.node(RuleOrExpr, start, operands...), nil
}

func (p *parser) andExpr() (*Node, error) {
	start := p.peek().span.Start
	var operands []*Node
	for {
		cmp, err := p.comparisonExpr()
		if err != nil {
			return nil, err
		}
		operands = append(operands, cmp)
		if !p.peek().keyword("AND") {
			break
		}
		p.next()
	}
	return p.node(RuleAndExpr, start, operands...), nil
}

func (p *parser) comparisonExpr() (*Node, error) {
	start := p.peek().span.Start
	left, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp {
		p.next()
		right, err := p.primaryExpr()
		if err != nil {
			return nil, err
		}
		return p.node(RuleComparisonExpr, start, left, p.leaf(RuleCompOp, t), right), nil
	}
	return p.node(RuleComparisonExpr, start, left), nil
}

func (p *parser) primaryExpr() (*Node, error) {
	t := p.peek()

	var (
		inner *Node
		err   error
	)
	switch {
	case t.kind == tokLParen:
		inner, err = p.parenExpr()
	case t.kind == tokNumber, t.kind == tokString, t.keyword("TRUE"), t.keyword("FALSE"):
		inner, err = p.literal()
	case t.kind == tokWord:
		inner, err = p.ident()
	default:
		return nil, p.unexpected(t, "expression")
	}
	if err != nil {
		return nil, err
	}
	return p.node(RulePrimaryExpr, t.span.Start, inner), nil
}

func (p *parser) parenExpr() (*Node, error) {
	open, err := p.expect(tokLParen)
	if err != nil {
		return nil, err
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, &SyntaxError{
			Pos: open.span.Start,
			Msg: fmt.Sprintf("parentheses nested deeper than %d", p.maxDepth),
			Err: ErrTooDeep,
		}
	}

	inner, err := p.filterExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return p.node(RuleParenExpr, open.span.Start, inner), nil
}
