package minipas

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	LexicalErrorKind ErrorKind = iota
	SyntaxErrorKind
	SemanticErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalErrorKind:
		return "Lexical"
	case SyntaxErrorKind:
		return "Syntax"
	case SemanticErrorKind:
		return "Semantic"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrInvalidLiteral     = errors.New("invalid literal")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrUnsupportedSymbol  = errors.New("unsupported symbol")

	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrIllegalStatement = errors.New("illegal statement")

	ErrRedeclaration      = errors.New("redeclaration")
	ErrUnknownIdentifier  = errors.New("unknown identifier")
	ErrNotAType           = errors.New("not a type")
	ErrNotAValue          = errors.New("not a value")
	ErrNotAssignable      = errors.New("not assignable")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrUndefinedOperation = errors.New("undefined operation")
	ErrExpectedBoolean    = errors.New("expected boolean type")
)

// detailError carries a human readable message while still matching its sentinel
// cause through errors.Is.
type detailError struct {
	cause error
	msg   string
}

func newError(cause error, format string, args ...interface{}) error {
	return &detailError{
		cause: cause,
		msg:   fmt.Sprintf(format, args...),
	}
}

func (e *detailError) Error() string {
	return e.msg
}

func (e *detailError) Unwrap() error {
	return e.cause
}

// Diagnostic is a single lexical, syntax or semantic error. Diagnostics are never
// modified once created.
type Diagnostic struct {
	Kind ErrorKind
	Loc  *Location
	Err  error
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s Error [%s] %s", d.Kind, d.Loc, d.Err)
}

func (d *Diagnostic) String() string {
	return d.Error()
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

func lexicalError(tok Token) *Diagnostic {
	err := tok.Err
	if err == nil {
		err = newError(ErrUnsupportedSymbol, "%s", tok.Value)
	}

	return &Diagnostic{Kind: LexicalErrorKind, Loc: tok.Loc, Err: err}
}

func syntaxErrorf(loc *Location, cause error, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: SyntaxErrorKind, Loc: loc, Err: newError(cause, format, args...)}
}

func semanticErrorf(loc *Location, cause error, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: SemanticErrorKind, Loc: loc, Err: newError(cause, format, args...)}
}

// Diagnostics is the ordered error buffer of one parsing session.
type Diagnostics struct {
	list []*Diagnostic
}

func (d *Diagnostics) Add(diag *Diagnostic) {
	d.list = append(d.list, diag)
}

func (d *Diagnostics) Len() int {
	return len(d.list)
}

// List returns the diagnostics in discovery order.
func (d *Diagnostics) List() []*Diagnostic {
	return d.list
}

// Err joins every diagnostic into a single error, or returns nil when there are none.
func (d *Diagnostics) Err() error {
	if len(d.list) == 0 {
		return nil
	}

	errs := make([]error, len(d.list))
	for i, diag := range d.list {
		errs[i] = diag
	}

	return errors.Join(errs...)
}
