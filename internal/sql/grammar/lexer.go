package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokNumber
	tokString
	tokStar
	tokComma
	tokLParen
	tokRParen
	tokSemicolon
	tokOp
	tokLineComment
	tokBlockComment
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "word"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokStar:
		return "'*'"
	case tokComma:
		return "','"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokSemicolon:
		return "';'"
	case tokOp:
		return "operator"
	default:
		return "comment"
	}
}

type token struct {
	kind tokenKind
	text string
	span Span
}

func (t token) isComment() bool {
	return t.kind == tokLineComment || t.kind == tokBlockComment
}

// lexer scans the whole input up front; the grammar needs arbitrary
// lookahead only over an in-memory slice.
type lexer struct {
	src string
	off int
	pos Pos
}

func tokenize(src string) ([]token, error) {
	l := &lexer{src: src, pos: Pos{Line: 1, Column: 1}}
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peekRune(ahead int) rune {
	off := l.off
	for i := 0; ; i++ {
		if off >= len(l.src) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(l.src[off:])
		if i == ahead {
			return r
		}
		off += size
	}
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	l.pos.Offset = l.off
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return r
}

// badByte reports whether the input at the current offset is not valid UTF-8.
func (l *lexer) badByte() bool {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	return r == utf8.RuneError && size == 1
}

func (l *lexer) emit(kind tokenKind, start Pos) token {
	return token{
		kind: kind,
		text: l.src[start.Offset:l.off],
		span: Span{Start: start, End: l.pos},
	}
}

func (l *lexer) next() (token, error) {
	for l.off < len(l.src) && unicode.IsSpace(l.peekRune(0)) {
		l.advance()
	}

	start := l.pos
	if l.off >= len(l.src) {
		return token{kind: tokEOF, span: Span{Start: start, End: start}}, nil
	}

	r := l.peekRune(0)
	switch {
	case r == '-' && l.peekRune(1) == '-':
		for l.off < len(l.src) && l.peekRune(0) != '\n' {
			if l.badByte() {
				return token{}, syntaxErrorf(l.pos, "invalid UTF-8 in comment")
			}
			l.advance()
		}
		return l.emit(tokLineComment, start), nil

	case r == '/' && l.peekRune(1) == '*':
		l.advance()
		l.advance()
		for {
			if l.off >= len(l.src) {
				return token{}, syntaxErrorf(start, "unterminated block comment")
			}
			if l.peekRune(0) == '*' && l.peekRune(1) == '/' {
				l.advance()
				l.advance()
				return l.emit(tokBlockComment, start), nil
			}
			if l.badByte() {
				return token{}, syntaxErrorf(l.pos, "invalid UTF-8 in comment")
			}
			l.advance()
		}

	case r == '\'':
		l.advance()
		for {
			if l.off >= len(l.src) {
				return token{}, syntaxErrorf(start, "unterminated string literal")
			}
			if l.badByte() {
				return token{}, syntaxErrorf(l.pos, "invalid UTF-8 in string literal")
			}
			if l.advance() == '\'' {
				return l.emit(tokString, start), nil
			}
		}

	case isDigit(r) || (r == '-' && isDigit(l.peekRune(1))):
		l.advance()
		for isDigit(l.peekRune(0)) {
			l.advance()
		}
		if isWordStart(l.peekRune(0)) {
			return token{}, syntaxErrorf(start, "identifier cannot start with a digit")
		}
		return l.emit(tokNumber, start), nil

	case isWordStart(r):
		for isWordPart(l.peekRune(0)) {
			l.advance()
		}
		return l.emit(tokWord, start), nil

	case r == '*':
		l.advance()
		return l.emit(tokStar, start), nil
	case r == ',':
		l.advance()
		return l.emit(tokComma, start), nil
	case r == '(':
		l.advance()
		return l.emit(tokLParen, start), nil
	case r == ')':
		l.advance()
		return l.emit(tokRParen, start), nil
	case r == ';':
		l.advance()
		return l.emit(tokSemicolon, start), nil

	case r == '=':
		l.advance()
		return l.emit(tokOp, start), nil
	case r == '<':
		l.advance()
		if n := l.peekRune(0); n == '=' || n == '>' {
			l.advance()
		}
		return l.emit(tokOp, start), nil
	case r == '>':
		l.advance()
		if l.peekRune(0) == '=' {
			l.advance()
		}
		return l.emit(tokOp, start), nil
	case r == '!' && l.peekRune(1) == '=':
		l.advance()
		l.advance()
		return l.emit(tokOp, start), nil
	}

	return token{}, syntaxErrorf(start, "unexpected character %q", r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isWordPart(r rune) bool { return isWordStart(r) || unicode.IsDigit(r) }

// keyword reports whether t is the given keyword, case-insensitively.
func (t token) keyword(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}
