package minipas

import (
	"io"
	"log/slog"
)

// Compiler runs front-end sessions. Code generation is not part of minipas; a
// session ends with the annotated tree.
type Compiler struct {
	logger *slog.Logger
}

func NewCompiler() *Compiler {
	return &Compiler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func NewCompilerWithLogger(logger *slog.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile parses and checks filename. The error is only non-nil when the file
// cannot be opened; problems in the program itself are in AST.Errors.
func (c *Compiler) Compile(filename string) (*AST, error) {
	lexer, err := NewLexer(filename)
	if err != nil {
		c.logger.Error("cannot open source", "file", filename, "error", err)
		return nil, err
	}

	return c.compile(NewParser(lexer)), nil
}

func (c *Compiler) CompileFromReader(filename string, reader io.Reader) *AST {
	lexer := NewLexerFromReader(filename, reader)
	return c.compile(NewParser(lexer))
}

func (c *Compiler) compile(p SyntacticAnalyzer) *AST {
	c.logger.Debug("session started", "file", p.GetFilename())

	ast := p.Run()

	c.logger.Info("session finished",
		"file", ast.Filename,
		"diagnostics", len(ast.Errors),
		"statements", countStatements(ast.Program),
	)

	return ast
}

func countStatements(prog *Program) int {
	if prog == nil || prog.Body == nil {
		return 0
	}

	return len(prog.Body.Statements)
}
