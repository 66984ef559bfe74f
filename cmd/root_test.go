package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	minipas "go.minipas.dev/pkg"
)

func TestPrintDiagnostics(t *testing.T) {
	ast := minipas.NewCompiler().CompileFromReader("test.pas",
		strings.NewReader("program t; begin a := 1; b := 2; c := 3 end."))
	require.Len(t, ast.Errors, 3)

	var buf bytes.Buffer
	printDiagnostics(&buf, ast.Errors, minipas.OutputConfig{MaxErrors: 2})

	assert.Equal(t, "Semantic Error [1:18] unknown identifier a\n"+
		"Semantic Error [1:26] unknown identifier b\n"+
		"... and 1 more errors\n", buf.String())
}

func TestPrintDiagnosticsColor(t *testing.T) {
	ast := minipas.NewCompiler().CompileFromReader("test.pas",
		strings.NewReader("program t; begin a := 1 end."))

	var buf bytes.Buffer
	printDiagnostics(&buf, ast.Errors, minipas.OutputConfig{Color: true})

	assert.Contains(t, buf.String(), "[1:18] unknown identifier a")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pas")
	bad := filepath.Join(dir, "bad.pas")
	require.NoError(t, os.WriteFile(good, []byte("program good; var x: integer; begin x := 1 end."), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("program bad; begin x := 1 end."), 0o644))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)

	rootCmd.SetArgs([]string{"--format", "pascal", "--no-color", good})
	require.NoError(t, Execute())
	assert.Equal(t, "program good;\nvar\n  x: integer;\nbegin\n  x := 1\nend.\n", out.String())

	out.Reset()
	errOut.Reset()

	rootCmd.SetArgs([]string{"--format", "text", "--no-color", bad})
	err := Execute()
	assert.True(t, errors.Is(err, errHasDiagnostics))
	assert.Contains(t, errOut.String(), "Semantic Error [1:20] unknown identifier x")
	assert.Empty(t, out.String())

	errOut.Reset()

	rootCmd.SetArgs([]string{"--format", "xml", good})
	err = Execute()
	assert.Error(t, err)
	assert.Contains(t, errOut.String(), "invalid output format")

	errOut.Reset()

	cfgPath := filepath.Join(dir, "minipas.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"loud\"\n"), 0o644))

	rootCmd.SetArgs([]string{"--format", "text", "--config", cfgPath, good})
	err = Execute()
	assert.Error(t, err)
	assert.Contains(t, errOut.String(), "invalid log level")
}
