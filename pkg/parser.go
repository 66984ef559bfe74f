package minipas

import "unicode/utf8"

type SyntacticAnalyzer interface {
	Run() *AST
	GetFilename() string
}

type tokenSet map[TokenType]bool

func newTokenSet(types ...TokenType) tokenSet {
	set := make(tokenSet, len(types))
	for _, t := range types {
		set[t] = true
	}

	return set
}

var (
	headerSync      = newTokenSet(TokenTypeKeyword, TokenVar, TokenBegin)
	declarationSync = newTokenSet(TokenSemicolon, TokenTypeKeyword, TokenVar, TokenBegin, TokenPeriod)
	statementSync   = newTokenSet(TokenSemicolon, TokenEnd, TokenBegin, TokenIf, TokenWhile, TokenElse, TokenPeriod)
)

var relationalOps = map[TokenType]RelationalOp{
	TokenEqual:        RelationalEqual,
	TokenNotEqual:     RelationalNotEqual,
	TokenLess:         RelationalLess,
	TokenLessEqual:    RelationalLessEqual,
	TokenGreater:      RelationalGreater,
	TokenGreaterEqual: RelationalGreaterEqual,
}

var additiveOps = map[TokenType]AdditiveOp{
	TokenPlus:  AdditivePlus,
	TokenMinus: AdditiveMinus,
	TokenOr:    AdditiveOr,
}

var multiplicativeOps = map[TokenType]MultiplicativeOp{
	TokenMulti: MultiplicativeMul,
	TokenDiv:   MultiplicativeDiv,
	TokenMod:   MultiplicativeMod,
	TokenAnd:   MultiplicativeAnd,
}

// Parser is a predictive recursive-descent parser with one token of lookahead.
// Semantic checks run inline through the analyzer as nodes are completed.
type Parser struct {
	filename  string
	tokenizer Tokenizer
	buf       *Token

	diags    *Diagnostics
	analyzer *Analyzer

	// Number of diagnostics raised inside compounds parsed so far
	absorbed int
}

func NewParser(tokenizer Tokenizer) *Parser {
	diags := &Diagnostics{}

	return &Parser{
		filename:  tokenizer.GetFilename(),
		tokenizer: tokenizer,
		diags:     diags,
		analyzer:  NewAnalyzer(diags),
	}
}

func (p *Parser) GetFilename() string {
	return p.filename
}

// Run parses a whole program. It never fails: the returned tree may be missing
// the constructs that were reported as invalid.
func (p *Parser) Run() *AST {
	prog := p.program()

	return &AST{
		Filename: p.filename,
		Program:  prog,
		Errors:   p.diags.List(),
	}
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		tok := p.pull()
		p.buf = &tok
	}

	return *p.buf
}

// pull fetches the next token from the tokenizer, recording lexical errors on the
// way so the grammar rules never see them.
func (p *Parser) pull() Token {
	for {
		tok := p.tokenizer.Next()
		if tok.Typ != TokenError {
			return tok
		}

		p.diags.Add(lexicalError(tok))
	}
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.Typ != TokenEOF {
		// EOF stays buffered since no more tokens are expected
		p.buf = nil
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) expect(typ TokenType, what string) (Token, *Diagnostic) {
	tok := p.peek()
	if tok.Typ != typ {
		return tok, p.unexpected(tok, what)
	}

	return p.next(), nil
}

func (p *Parser) unexpected(tok Token, what string) *Diagnostic {
	return syntaxErrorf(tok.Loc, ErrUnexpectedToken, "expected %s, found %s", what, tok)
}

// synchronize discards tokens until one in set, or EOF, is next.
func (p *Parser) synchronize(set tokenSet) {
	for tok := p.peek(); tok.Typ != TokenEOF && !set[tok.Typ]; tok = p.peek() {
		p.next()
	}
}

func (p *Parser) identifier() (*Identifier, *Diagnostic) {
	tok, err := p.expect(TokenIdentifier, "identifier")
	if err != nil {
		return nil, err
	}

	return &Identifier{Name: tok.Value, Loc: tok.Loc}, nil
}

func (p *Parser) program() *Program {
	prog := &Program{}

	p.analyzer.EnterScope()
	defer p.analyzer.LeaveScope()

	if err := p.programHeader(prog); err != nil {
		p.diags.Add(err)
		p.synchronize(headerSync)
	}

	if p.check(TokenTypeKeyword) {
		prog.Types = p.typeSection()
	}

	if p.check(TokenVar) {
		prog.Vars = p.varSection()
	}

	prog.Body = p.compound()

	if _, err := p.expect(TokenPeriod, "'.'"); err != nil {
		p.diags.Add(err)
	} else if tok := p.peek(); tok.Typ != TokenEOF {
		p.diags.Add(syntaxErrorf(tok.Loc, ErrUnexpectedToken, "unexpected %s after end of program", tok))
	}

	return prog
}

func (p *Parser) programHeader(prog *Program) *Diagnostic {
	if _, err := p.expect(TokenProgram, "'program'"); err != nil {
		return err
	}

	name, err := p.identifier()
	if err != nil {
		return err
	}

	prog.Name = name
	p.analyzer.DeclareProgram(name)

	_, err = p.expect(TokenSemicolon, "';'")
	return err
}

// skipDeclaration recovers from a malformed declaration by skipping past the next
// ';' or up to the next section.
func (p *Parser) skipDeclaration() {
	p.synchronize(declarationSync)
	if p.check(TokenSemicolon) {
		p.next()
	}
}

func (p *Parser) typeSection() *TypeSection {
	p.next() // type keyword

	section := &TypeSection{}
	for {
		decl, err := p.typeDecl()
		if err != nil {
			p.diags.Add(err)
			p.skipDeclaration()
		} else if decl != nil {
			section.Declarations = append(section.Declarations, decl)
		}

		if !p.check(TokenIdentifier) {
			return section
		}
	}
}

func (p *Parser) typeDecl() (*TypeDecl, *Diagnostic) {
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Typ == TokenColon || tok.Typ == TokenEqual {
		p.next()
	} else {
		return nil, p.unexpected(tok, "':'")
	}

	aliased, err := p.identifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	t, ok := p.analyzer.DeclareType(name, aliased)
	if !ok {
		return nil, nil
	}

	return &TypeDecl{Name: name, Aliased: aliased, Type: t}, nil
}

func (p *Parser) varSection() *VarSection {
	p.next() // var keyword

	section := &VarSection{}
	for {
		decls, err := p.varDecl()
		if err != nil {
			p.diags.Add(err)
			p.skipDeclaration()
		} else {
			section.Declarations = append(section.Declarations, decls...)
		}

		if !p.check(TokenIdentifier) {
			return section
		}
	}
}

// varDecl parses "a, b: T;". Only the names that could be declared are returned.
func (p *Parser) varDecl() ([]*VarDecl, *Diagnostic) {
	names, err := p.identList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, err
	}

	typeName, err := p.identifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	t, ok := p.analyzer.ResolveType(typeName.Name, typeName.Loc)
	if !ok {
		return nil, nil
	}

	var decls []*VarDecl
	for _, name := range names {
		if p.analyzer.DeclareVariable(name, t) {
			decls = append(decls, &VarDecl{Name: name, TypeName: typeName, Type: t})
		}
	}

	return decls, nil
}

func (p *Parser) identList() ([]*Identifier, *Diagnostic) {
	first, err := p.identifier()
	if err != nil {
		return nil, err
	}

	ids := []*Identifier{first}
	for p.check(TokenComma) {
		p.next()

		id, err := p.identifier()
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// compound parses begin ... end. Everything reported while it is parsed counts as
// absorbed: the compound recovers on its own and never taints its parent.
func (p *Parser) compound() *Compound {
	c := &Compound{}

	before, absorbed := p.diags.Len(), p.absorbed
	defer func() {
		p.absorbed = absorbed + p.diags.Len() - before
	}()

	if _, err := p.expect(TokenBegin, "'begin'"); err != nil {
		p.diags.Add(err)
	}

	for {
		if stmt := p.statementOrRecover(); stmt != nil {
			c.Statements = append(c.Statements, stmt)
		}

		switch tok := p.peek(); tok.Typ {
		case TokenSemicolon:
			p.next()
		case TokenEnd:
			p.next()
			return c
		case TokenEOF, TokenPeriod:
			p.diags.Add(p.unexpected(tok, "'end'"))
			return c
		case TokenElse:
			// The if this else belonged to is gone; its branch is parsed and dropped
			p.diags.Add(syntaxErrorf(tok.Loc, ErrIllegalStatement, "illegal statement: else without if"))
			p.next()
			p.statementOrRecover()
		default:
			if startsStatement(tok.Typ) {
				p.diags.Add(p.unexpected(tok, "';'"))
				continue
			}

			p.diags.Add(p.unexpected(tok, "';' or 'end'"))
			p.synchronize(statementSync)
		}
	}
}

// statementOrRecover parses one statement, converting a syntax error into a
// diagnostic plus a skip to the next statement boundary. Statements that caused
// a diagnostic outside of a nested compound are discarded.
func (p *Parser) statementOrRecover() Statement {
	before := p.unabsorbed()

	stmt, err := p.statement()
	if err != nil {
		p.diags.Add(err)
		p.synchronize(statementSync)
		return nil
	}

	if p.unabsorbed() > before {
		return nil
	}

	return stmt
}

func (p *Parser) unabsorbed() int {
	return p.diags.Len() - p.absorbed
}

func startsStatement(typ TokenType) bool {
	switch typ {
	case TokenIdentifier, TokenIf, TokenWhile, TokenBegin:
		return true
	}

	return false
}

// statement returns a nil Statement for the empty statement and for statements
// that were semantically invalid.
func (p *Parser) statement() (Statement, *Diagnostic) {
	switch tok := p.peek(); tok.Typ {
	case TokenIdentifier:
		return p.assignment()
	case TokenIf:
		return p.ifStatement()
	case TokenWhile:
		return p.whileStatement()
	case TokenBegin:
		return p.compound(), nil
	case TokenSemicolon, TokenEnd, TokenElse, TokenPeriod, TokenEOF:
		return nil, nil
	default:
		return nil, syntaxErrorf(tok.Loc, ErrIllegalStatement, "illegal statement, found %s", tok)
	}
}

func (p *Parser) assignment() (Statement, *Diagnostic) {
	target, err := p.identifier()
	if err != nil {
		return nil, err
	}

	targetType, valid := p.analyzer.AssignTarget(target)

	assign, err := p.expect(TokenAssign, "':='")
	if err != nil {
		return nil, err
	}

	value, err := p.expr()
	if err != nil {
		return nil, err
	}

	if !valid || !p.analyzer.CheckAssignable(targetType, value.Type, assign.Loc) {
		return nil, nil
	}

	return &Assignment{Target: target, Value: value, Type: targetType}, nil
}

func (p *Parser) ifStatement() (Statement, *Diagnostic) {
	p.next() // if keyword

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	valid := p.analyzer.RequireBoolean(cond)

	if _, err := p.expect(TokenThen, "'then'"); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var els Statement
	if p.check(TokenElse) {
		p.next()

		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}

	if !valid {
		return nil, nil
	}

	return &IfStatement{Condition: cond, Then: then, Else: els}, nil
}

func (p *Parser) whileStatement() (Statement, *Diagnostic) {
	p.next() // while keyword

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	valid := p.analyzer.RequireBoolean(cond)

	if _, err := p.expect(TokenDo, "'do'"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if !valid {
		return nil, nil
	}

	return &WhileStatement{Condition: cond, Body: body}, nil
}

func (p *Parser) expr() (*Expression, *Diagnostic) {
	loc := p.peek().Loc

	left, err := p.simpleExpr()
	if err != nil {
		return nil, err
	}

	e := &Expression{Left: left, Type: left.Type, Loc: loc}

	if op, ok := relationalOps[p.peek().Typ]; ok {
		opTok := p.next()

		right, err := p.simpleExpr()
		if err != nil {
			return nil, err
		}

		e.Op = op
		e.Right = right
		e.Type = p.analyzer.Relational(left.Type, right.Type, opTok.Loc)
	}

	return e, nil
}

func (p *Parser) simpleExpr() (*SimpleExpression, *Diagnostic) {
	e := &SimpleExpression{Loc: p.peek().Loc}

	switch p.peek().Typ {
	case TokenPlus:
		p.next()
		e.Sign = SignPositive
	case TokenMinus:
		p.next()
		e.Sign = SignNegative
	}

	term, err := p.term()
	if err != nil {
		return nil, err
	}

	e.Term = term
	acc := p.analyzer.Sign(e.Sign, term.Type, e.Loc)

	// Chained operands (for example 1 - 3 + 1) are linked left to right
	tail := &e.Sub
	for {
		op, ok := additiveOps[p.peek().Typ]
		if !ok {
			break
		}

		opTok := p.next()

		rhs, err := p.term()
		if err != nil {
			return nil, err
		}

		acc = p.analyzer.Additive(op, acc, rhs.Type, opTok.Loc)

		link := &SubExpression{Op: op, Term: rhs, Type: acc, Loc: opTok.Loc}
		*tail = link
		tail = &link.Next
	}

	e.Type = acc
	return e, nil
}

func (p *Parser) term() (*Term, *Diagnostic) {
	t := &Term{Loc: p.peek().Loc}

	factor, err := p.factor()
	if err != nil {
		return nil, err
	}

	t.Factor = factor
	acc := factor.ValueType()

	tail := &t.Sub
	for {
		op, ok := multiplicativeOps[p.peek().Typ]
		if !ok {
			break
		}

		opTok := p.next()

		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}

		acc = p.analyzer.Multiplicative(op, acc, rhs.ValueType(), opTok.Loc)

		link := &SubTerm{Op: op, Factor: rhs, Type: acc, Loc: opTok.Loc}
		*tail = link
		tail = &link.Next
	}

	t.Type = acc
	return t, nil
}

func (p *Parser) factor() (Factor, *Diagnostic) {
	switch tok := p.peek(); tok.Typ {
	case TokenInteger:
		p.next()
		return &IntegerLiteral{Value: tok.Int, Loc: tok.Loc}, nil
	case TokenReal:
		p.next()
		return &RealLiteral{Value: tok.Real, Loc: tok.Loc}, nil
	case TokenString:
		p.next()

		typ := TypeString
		if utf8.RuneCountInString(tok.Value) == 1 {
			typ = TypeChar
		}

		return &StringLiteral{Value: tok.Value, Type: typ, Loc: tok.Loc}, nil
	case TokenIdentifier:
		p.next()

		id := &Identifier{Name: tok.Value, Loc: tok.Loc}
		return &VariableRef{Name: id.Name, Type: p.analyzer.ValueOf(id), Loc: id.Loc}, nil
	case TokenOpenParentheses:
		return p.parenthesisedExpression()
	default:
		return nil, p.unexpected(tok, "expression")
	}
}

func (p *Parser) parenthesisedExpression() (Factor, *Diagnostic) {
	open := p.next()

	inner, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	return &ParenExpr{Expr: inner, Loc: open.Loc}, nil
}
