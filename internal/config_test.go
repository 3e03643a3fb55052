package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/seedsql/internal/sql/parser"
	"github.com/tuannm99/seedsql/pkg/ast"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seedsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "seedsql", cfg.AppName)
	assert.Equal(t, 128, cfg.Parser.MaxDepth)
	assert.False(t, cfg.Parser.CollectErrors)
	assert.Equal(t, "127.0.0.1:8867", cfg.Server.Addr)
	assert.Equal(t, 256, cfg.Server.CacheSize)
	assert.Equal(t, 8<<20, cfg.Server.MaxFrameSize)
	assert.Equal(t, ast.FormatJSON, cfg.OutputFormat())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
app_name: seed-test
parser:
  max_depth: 16
  lenient_insert: true
server:
  addr: ":9000"
  debug: true
output:
  format: yaml
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "seed-test", cfg.AppName)
	assert.Equal(t, 16, cfg.Parser.MaxDepth)
	assert.True(t, cfg.Parser.LenientInsert)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Debug)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 256, cfg.Server.CacheSize)
	assert.Equal(t, ast.FormatYAML, cfg.OutputFormat())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SEEDSQL_SERVER_ADDR", "0.0.0.0:7000")
	t.Setenv("SEEDSQL_PARSER_MAX_DEPTH", "8")

	cfg, err := LoadConfig(writeConfig(t, "server:\n  addr: \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Parser.MaxDepth)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = LoadConfig(writeConfig(t, "parser:\n  max_depth: 0\n"))
	assert.ErrorContains(t, err, "max_depth")

	_, err = LoadConfig(writeConfig(t, "parser:\n  max_depth: 20000\n"))
	assert.ErrorContains(t, err, "max_depth")

	_, err = LoadConfig(writeConfig(t, "server:\n  max_frame_size: 0\n"))
	assert.ErrorContains(t, err, "max_frame_size")

	_, err = LoadConfig(writeConfig(t, "output:\n  format: toml\n"))
	assert.ErrorContains(t, err, "output.format")
}

func TestParseOptions(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "parser:\n  max_depth: 2\n  collect_errors: true\n"))
	require.NoError(t, err)

	_, err = parser.Parse("SELECT * FROM t WHERE (((a)))", cfg.ParseOptions()...)
	assert.ErrorIs(t, err, parser.ErrDepthExceeded)

	_, err = parser.Parse("CREATE TABLE a (x VARCHAR); CREATE TABLE b (y FLOAT)", cfg.ParseOptions()...)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrValue)
	assert.Contains(t, err.Error(), "FLOAT")
}
