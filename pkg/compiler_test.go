package minipas

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerCompile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.pas")
	require.NoError(t, os.WriteFile(path, []byte("program main;\nvar x: integer;\nbegin\n  x := 1\nend.\n"), 0o644))

	ast, err := NewCompiler().Compile(path)
	require.NoError(t, err)

	assert.Equal(t, path, ast.Filename)
	assert.Empty(t, ast.Errors)
	assert.Equal(t, "main", ast.Program.Name.Name)
	assert.Len(t, ast.Program.Body.Statements, 1)
}

func TestCompilerMissingFile(t *testing.T) {
	ast, err := NewCompiler().Compile(filepath.Join(t.TempDir(), "missing.pas"))

	assert.Error(t, err)
	assert.Nil(t, ast)
}

func TestCompilerLogsSession(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ast := NewCompilerWithLogger(logger).CompileFromReader("test.pas",
		strings.NewReader("program t; var x: integer; begin x := 'a'; x := 2 end."))

	require.Len(t, ast.Errors, 1)

	out := buf.String()
	assert.Contains(t, out, "session started")
	assert.Contains(t, out, "session finished")
	assert.Contains(t, out, "file=test.pas")
	assert.Contains(t, out, "diagnostics=1")
	assert.Contains(t, out, "statements=1")
}
