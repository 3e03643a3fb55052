package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/seedsql/pkg/ast"
)

func TestStatementComplete(t *testing.T) {
	cases := map[string]bool{
		"SELECT * FROM t;":                  true,
		"SELECT * FROM t":                   false,
		"INSERT INTO t VALUES ('a;b')":      false,
		"INSERT INTO t VALUES ('a;b');":     true,
		"SELECT * FROM t -- done;":          false,
		"SELECT * FROM t -- done;\n;":       true,
		"SELECT /* ; */ * FROM t":           false,
		"SELECT * FROM t WHERE x > -1;":     true,
		"/* unterminated ; comment":         false,
		"SELECT * FROM t WHERE a = 'x--y';": true,
	}
	for src, want := range cases {
		assert.Equal(t, want, statementComplete(src), src)
	}
}

func TestCompactOneLine(t *testing.T) {
	assert.Equal(t, "SELECT * FROM t;", compactOneLine("  SELECT *\n\tFROM   t;\r\n"))
}

func TestIsMetaCommand(t *testing.T) {
	assert.True(t, isMetaCommand(`\q`))
	assert.True(t, isMetaCommand(" exit "))
	assert.False(t, isMetaCommand("SELECT 1"))
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")

	h := NewHistory(path)
	require.NoError(t, h.Load(10))
	require.NoError(t, h.Append("SELECT *\nFROM a;"))
	require.NoError(t, h.Append("   "))
	require.NoError(t, h.Append("SELECT * FROM b;"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM a;\nSELECT * FROM b;\n", string(b))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load(1))
	assert.Equal(t, []string{"SELECT * FROM b;"}, reloaded.Lines())

	var out bytes.Buffer
	h.Print(&out, 1)
	assert.Equal(t, "    2  SELECT * FROM b;\n", out.String())
}

func TestPrintDocument(t *testing.T) {
	doc := &ast.Document{Statements: []ast.Statement{
		&ast.Selection{Table: "t", Projection: ast.AllColumns{}},
	}}

	var out bytes.Buffer
	require.NoError(t, printDocument(&out, doc, "sql"))
	assert.Equal(t, "SELECT * FROM t;\n(1 statements)\n", out.String())

	out.Reset()
	require.NoError(t, printDocument(&out, doc, "yaml"))
	assert.Contains(t, out.String(), "kind: selection")

	assert.Error(t, printDocument(&out, doc, "xml"))
	assert.True(t, validFormat("json"))
	assert.False(t, validFormat("xml"))
}
