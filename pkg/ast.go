package minipas

// AST is the result of one parsing session: the best tree that could be built and
// every diagnostic found while building it.
type AST struct {
	Filename string
	Program  *Program
	Errors   []*Diagnostic
}

type Identifier struct {
	Name string
	Loc  *Location
}

type Program struct {
	Name  *Identifier
	Types *TypeSection
	Vars  *VarSection
	Body  *Compound
}

type TypeSection struct {
	Declarations []*TypeDecl
}

// TypeDecl is an alias declaration. Type is the predeclared type the alias
// ultimately refers to.
type TypeDecl struct {
	Name    *Identifier
	Aliased *Identifier
	Type    TypeName
}

type VarSection struct {
	Declarations []*VarDecl
}

type VarDecl struct {
	Name     *Identifier
	TypeName *Identifier
	Type     TypeName
}

type Statement interface {
	statementNode()
}

type Compound struct {
	Statements []Statement
}

type Assignment struct {
	Target *Identifier
	Value  *Expression
	Type   TypeName
}

type IfStatement struct {
	Condition *Expression
	Then      Statement
	Else      Statement
}

type WhileStatement struct {
	Condition *Expression
	Body      Statement
}

func (*Compound) statementNode()       {}
func (*Assignment) statementNode()     {}
func (*IfStatement) statementNode()    {}
func (*WhileStatement) statementNode() {}

type RelationalOp string

const (
	RelationalNone         RelationalOp = ""
	RelationalEqual        RelationalOp = "="
	RelationalNotEqual     RelationalOp = "<>"
	RelationalLess         RelationalOp = "<"
	RelationalLessEqual    RelationalOp = "<="
	RelationalGreater      RelationalOp = ">"
	RelationalGreaterEqual RelationalOp = ">="
)

type AdditiveOp string

const (
	AdditivePlus  AdditiveOp = "+"
	AdditiveMinus AdditiveOp = "-"
	AdditiveOr    AdditiveOp = "or"
)

type MultiplicativeOp string

const (
	MultiplicativeMul MultiplicativeOp = "*"
	MultiplicativeDiv MultiplicativeOp = "div"
	MultiplicativeMod MultiplicativeOp = "mod"
	MultiplicativeAnd MultiplicativeOp = "and"
)

type SignOp string

const (
	SignNone     SignOp = ""
	SignPositive SignOp = "+"
	SignNegative SignOp = "-"
)

// Expression is the relational level. Right is nil when no relational operator
// follows Left, in which case Type is Left's type.
type Expression struct {
	Left  *SimpleExpression
	Op    RelationalOp
	Right *SimpleExpression
	Type  TypeName
	Loc   *Location
}

// SimpleExpression is a chain of terms joined by additive operators. The chain is
// stored as a right-linked list but typed and printed left to right.
type SimpleExpression struct {
	Sign SignOp
	Term *Term
	Sub  *SubExpression
	Type TypeName
	Loc  *Location
}

// SubExpression is one "op term" link. Type is the running result of the chain up
// to and including this link.
type SubExpression struct {
	Op   AdditiveOp
	Term *Term
	Next *SubExpression
	Type TypeName
	Loc  *Location
}

type Term struct {
	Factor Factor
	Sub    *SubTerm
	Type   TypeName
	Loc    *Location
}

type SubTerm struct {
	Op     MultiplicativeOp
	Factor Factor
	Next   *SubTerm
	Type   TypeName
	Loc    *Location
}

type Factor interface {
	ValueType() TypeName
}

type IntegerLiteral struct {
	Value int32
	Loc   *Location
}

type RealLiteral struct {
	Value float32
	Loc   *Location
}

// StringLiteral is typed char when it holds exactly one character.
type StringLiteral struct {
	Value string
	Type  TypeName
	Loc   *Location
}

// VariableRef is an identifier used as a value: a variable or a constant.
type VariableRef struct {
	Name string
	Type TypeName
	Loc  *Location
}

type ParenExpr struct {
	Expr *Expression
	Loc  *Location
}

func (*IntegerLiteral) ValueType() TypeName  { return TypeInteger }
func (*RealLiteral) ValueType() TypeName     { return TypeReal }
func (f *StringLiteral) ValueType() TypeName { return f.Type }
func (f *VariableRef) ValueType() TypeName   { return f.Type }
func (f *ParenExpr) ValueType() TypeName     { return f.Expr.Type }
