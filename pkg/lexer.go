package minipas

import (
	"io"
	"strconv"
	"strings"
	"unicode"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	TokenError TokenType = iota
	TokenEOF
	TokenInteger
	TokenReal
	TokenString
	TokenIdentifier

	TokenDiv
	TokenMod
	TokenIf
	TokenElse
	TokenThen
	TokenOr
	TokenAnd
	TokenWhile
	TokenDo
	TokenTypeKeyword
	TokenProgram
	TokenBegin
	TokenEnd
	TokenVar

	TokenPlus
	TokenMinus
	TokenMulti
	TokenColon
	TokenAssign
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual

	TokenSemicolon
	TokenPeriod
	TokenComma
	TokenOpenParentheses
	TokenCloseParentheses
)

var tokenNames = [...]string{
	TokenError:            "Error",
	TokenEOF:              "EOF",
	TokenInteger:          "Integer",
	TokenReal:             "Real",
	TokenString:           "String",
	TokenIdentifier:       "Identifier",
	TokenDiv:              "div",
	TokenMod:              "mod",
	TokenIf:               "if",
	TokenElse:             "else",
	TokenThen:             "then",
	TokenOr:               "or",
	TokenAnd:              "and",
	TokenWhile:            "while",
	TokenDo:               "do",
	TokenTypeKeyword:      "type",
	TokenProgram:          "program",
	TokenBegin:            "begin",
	TokenEnd:              "end",
	TokenVar:              "var",
	TokenPlus:             "+",
	TokenMinus:            "-",
	TokenMulti:            "*",
	TokenColon:            ":",
	TokenAssign:           ":=",
	TokenEqual:            "=",
	TokenNotEqual:         "<>",
	TokenLess:             "<",
	TokenLessEqual:        "<=",
	TokenGreater:          ">",
	TokenGreaterEqual:     ">=",
	TokenSemicolon:        ";",
	TokenPeriod:           ".",
	TokenComma:            ",",
	TokenOpenParentheses:  "(",
	TokenCloseParentheses: ")",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}

	return "TokenType(" + strconv.FormatUint(uint64(t), 10) + ")"
}

var keywordTable = map[string]TokenType{
	"div":     TokenDiv,
	"mod":     TokenMod,
	"if":      TokenIf,
	"else":    TokenElse,
	"then":    TokenThen,
	"or":      TokenOr,
	"and":     TokenAnd,
	"while":   TokenWhile,
	"do":      TokenDo,
	"type":    TokenTypeKeyword,
	"program": TokenProgram,
	"begin":   TokenBegin,
	"end":     TokenEnd,
	"var":     TokenVar,
}

var operatorTable = map[string]TokenType{
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenMulti,
	":":  TokenColon,
	":=": TokenAssign,
	"=":  TokenEqual,
	"<>": TokenNotEqual,
	"<":  TokenLess,
	"<=": TokenLessEqual,
	">":  TokenGreater,
	">=": TokenGreaterEqual,
}

var symbolTable = map[rune]TokenType{
	';': TokenSemicolon,
	'.': TokenPeriod,
	',': TokenComma,
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
}

// Token is an immutable lexeme. Value holds the payload (identifier name, string
// contents or literal digits) and Lexeme the exact source text. Int and Real are
// only meaningful for TokenInteger and TokenReal; Err only for TokenError.
type Token struct {
	Typ    TokenType
	Value  string
	Loc    *Location
	Lexeme string
	Int    int32
	Real   float32
	Err    error
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

// String describes the token the way diagnostics refer to it.
func (t Token) String() string {
	switch t.Typ {
	case TokenEOF:
		return "end of file"
	case TokenError:
		return "invalid token"
	case TokenIdentifier:
		return "identifier " + t.Value
	case TokenInteger:
		return "integer " + t.Value
	case TokenReal:
		return "real " + t.Value
	case TokenString:
		return "string '" + t.Value + "'"
	default:
		return "'" + t.Typ.String() + "'"
	}
}

type Tokenizer interface {
	Next() Token
	GetFilename() string
}

// Lexer is a pull-based tokenizer. Each call to Next runs the state machine until
// one token is produced, so at most one token is materialised at a time.
type Lexer struct {
	src   Source
	state stateFunc
	out   *Token
}

func NewLexer(filename string) (*Lexer, error) {
	src, err := OpenSource(filename)
	if err != nil {
		return nil, err
	}

	return NewLexerFromSource(src), nil
}

func NewLexerFromReader(filename string, reader io.Reader) *Lexer {
	return NewLexerFromSource(NewSource(filename, reader))
}

func NewLexerFromSource(src Source) *Lexer {
	return &Lexer{
		src:   src,
		state: defaultState,
	}
}

func (l *Lexer) GetFilename() string {
	return l.src.GetFilename()
}

// Next returns the following token. Once the input is exhausted it keeps
// returning TokenEOF.
func (l *Lexer) Next() Token {
	for l.out == nil {
		if l.state == nil {
			return Token{Typ: TokenEOF, Loc: l.src.Position()}
		}

		l.state = l.state(l)
	}

	tok := *l.out
	l.out = nil

	return tok
}

// RunBlocking drains the lexer, returning every valid token and the lexical
// errors found along the way, in order.
func (l *Lexer) RunBlocking() ([]Token, []*Diagnostic) {
	var (
		tokens []Token
		errs   []*Diagnostic
	)

	for {
		switch t := l.Next(); t.Typ {
		case TokenEOF:
			return tokens, errs
		case TokenError:
			errs = append(errs, lexicalError(t))
		default:
			tokens = append(tokens, t)
		}
	}
}

func defaultState(l *Lexer) stateFunc {
	r := l.src.Current()
	for r != EOF && unicode.IsSpace(r) {
		r = l.src.Next()
	}

	switch {
	case r == EOF:
		l.out = &Token{Typ: TokenEOF, Loc: l.src.Position()}
		return nil
	case isDigit(r):
		return numberState
	case unicode.IsLetter(r):
		return identifierState
	case isOperatorStart(r):
		return operatorState
	default:
		return symbolState
	}
}

func numberState(l *Lexer) stateFunc {
	start := l.src.Position()

	var num strings.Builder
	isReal, malformed := false, false

scan:
	for r := l.src.Current(); ; r = l.src.Next() {
		switch {
		case isDigit(r):
		case r == '.':
			isReal = true
		case unicode.IsLetter(r):
			// Swallowed so that "12ab" is one bad literal instead of two tokens
			malformed = true
		default:
			break scan
		}

		num.WriteRune(r)
	}

	text := num.String()
	tok := Token{Value: text, Lexeme: text, Loc: start}

	if isReal {
		f, err := strconv.ParseFloat(text, 32)
		if err != nil || malformed {
			return l.errorf(start, ErrInvalidLiteral, "invalid real literal %s", text)
		}

		tok.Typ = TokenReal
		tok.Real = float32(f)
	} else {
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil || malformed {
			return l.errorf(start, ErrInvalidLiteral, "invalid int literal %s", text)
		}

		tok.Typ = TokenInteger
		tok.Int = int32(i)
	}

	return l.emit(tok)
}

func identifierState(l *Lexer) stateFunc {
	start := l.src.Position()

	var id strings.Builder
	for r := l.src.Current(); unicode.IsLetter(r) || unicode.IsDigit(r); r = l.src.Next() {
		id.WriteRune(r)
	}

	text := id.String()
	if t, ok := keywordTable[strings.ToLower(text)]; ok {
		return l.emitValue(t, text, text, start)
	}

	return l.emitValue(TokenIdentifier, text, text, start)
}

func operatorState(l *Lexer) stateFunc {
	start := l.src.Position()
	r := l.src.Current()

	if next := l.src.Peek(); next != EOF {
		op := string(r) + string(next)
		if tok, ok := operatorTable[op]; ok {
			l.src.Next()
			l.src.Next()

			return l.emitValue(tok, op, op, start)
		}
	}

	l.src.Next()

	return l.emitValue(operatorTable[string(r)], string(r), string(r), start)
}

func symbolState(l *Lexer) stateFunc {
	start := l.src.Position()
	r := l.src.Current()

	if r == '\'' {
		return stringState
	}

	l.src.Next()

	if tok, ok := symbolTable[r]; ok {
		return l.emitValue(tok, string(r), string(r), start)
	}

	return l.errorf(start, ErrUnsupportedSymbol, "unsupported symbol %c", r)
}

// stringState scans a quoted literal. Literals may not span lines; reaching the end
// of the line first is a lexical error and scanning resumes right after the quote.
func stringState(l *Lexer) stateFunc {
	start := l.src.Position()

	var (
		str strings.Builder
		n   int
	)
	for r := l.src.Next(); r != '\''; r = l.src.Next() {
		if r == '\n' || r == EOF {
			l.src.Unread(n)
			return l.errorf(start, ErrUnterminatedString, "unterminated string literal")
		}

		str.WriteRune(r)
		n++
	}

	l.src.Next() // Skip the closing quote

	return l.emitValue(TokenString, str.String(), "'"+str.String()+"'", start)
}

func (l *Lexer) errorf(loc *Location, cause error, format string, args ...interface{}) stateFunc {
	err := newError(cause, format, args...)
	l.out = &Token{
		Typ:   TokenError,
		Value: err.Error(),
		Loc:   loc,
		Err:   err,
	}

	return defaultState
}

func (l *Lexer) emitValue(t TokenType, val, lexeme string, loc *Location) stateFunc {
	return l.emit(Token{
		Typ:    t,
		Value:  val,
		Lexeme: lexeme,
		Loc:    loc,
	})
}

func (l *Lexer) emit(tok Token) stateFunc {
	l.out = &tok

	return defaultState
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', ':', '=', '<', '>':
		return true
	}

	return false
}
