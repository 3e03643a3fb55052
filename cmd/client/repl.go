package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tuannm99/seedsql/pkg/ast"
)

// statementComplete reports whether buf holds a ';' outside string literals
// and comments.
func statementComplete(buf string) bool {
	const (
		plain = iota
		quoted
		lineComment
		blockComment
	)

	state := plain
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		switch state {
		case quoted:
			if c == '\'' {
				state = plain
			}
		case lineComment:
			if c == '\n' {
				state = plain
			}
		case blockComment:
			if c == '*' && i+1 < len(buf) && buf[i+1] == '/' {
				state = plain
				i++
			}
		default:
			switch {
			case c == '\'':
				state = quoted
			case c == '-' && i+1 < len(buf) && buf[i+1] == '-':
				state = lineComment
				i++
			case c == '/' && i+1 < len(buf) && buf[i+1] == '*':
				state = blockComment
				i++
			case c == ';':
				return true
			}
		}
	}
	return false
}

func compactOneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isMetaCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "\\") ||
		line == "quit" || line == "exit"
}

// printDocument writes doc as canonical SQL ("sql") or as a tree encoding.
func printDocument(w io.Writer, doc *ast.Document, format string) error {
	if format == "sql" {
		_, err := fmt.Fprintln(w, doc.String())
		if err != nil {
			return err
		}
	} else {
		f, err := ast.ParseFormat(format)
		if err != nil {
			return err
		}
		if err := ast.Encode(w, doc, f); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "(%d statements)\n", len(doc.Statements))
	return err
}

func validFormat(format string) bool {
	if format == "sql" {
		return true
	}
	_, err := ast.ParseFormat(format)
	return err == nil
}
