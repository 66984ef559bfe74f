package minipas

import "fmt"

type UsageKind int

const (
	UsageConstant UsageKind = iota
	UsageVariable
	UsageType
	UsageProgram
)

func (k UsageKind) String() string {
	switch k {
	case UsageConstant:
		return "constant"
	case UsageVariable:
		return "variable"
	case UsageType:
		return "type"
	case UsageProgram:
		return "program"
	default:
		return fmt.Sprintf("UsageKind(%d)", int(k))
	}
}

// Usage is what an identifier is bound to. For constants and variables Type is the
// value's type; for types it is the aliased predeclared type, empty for the
// predeclared types themselves; programs carry no type.
type Usage struct {
	Kind UsageKind
	Type TypeName
}

type Scope struct {
	Entries map[string]Usage
}

func NewScope() *Scope {
	return &Scope{
		Entries: make(map[string]Usage),
	}
}

// Add binds name unless it is already bound in this scope.
func (s *Scope) Add(name string, usage Usage) bool {
	if _, exists := s.Entries[name]; exists {
		return false
	}

	s.Entries[name] = usage
	return true
}

func (s *Scope) Get(name string) (Usage, bool) {
	u, ok := s.Entries[name]
	return u, ok
}

// Analyzer is the semantic half of the parser. The parser calls into it as each
// node is completed; every problem found is appended to the session's diagnostics.
type Analyzer struct {
	scopes []*Scope
	diags  *Diagnostics
}

func NewAnalyzer(diags *Diagnostics) *Analyzer {
	global := NewScope()
	defineBuiltins(global)

	return &Analyzer{
		scopes: []*Scope{global},
		diags:  diags,
	}
}

func (a *Analyzer) EnterScope() {
	a.scopes = append(a.scopes, NewScope())
}

// LeaveScope pops the innermost scope. The global scope is never popped.
func (a *Analyzer) LeaveScope() {
	if len(a.scopes) > 1 {
		a.scopes = a.scopes[:len(a.scopes)-1]
	}
}

func (a *Analyzer) Depth() int {
	return len(a.scopes)
}

func (a *Analyzer) errorf(loc *Location, cause error, format string, args ...interface{}) {
	a.diags.Add(semanticErrorf(loc, cause, format, args...))
}

// Declare binds name in the innermost scope. A name already bound there is
// reported and the first binding is kept.
func (a *Analyzer) Declare(name string, loc *Location, usage Usage) bool {
	if !a.scopes[len(a.scopes)-1].Add(name, usage) {
		a.errorf(loc, ErrRedeclaration, "redeclaration of %s", name)
		return false
	}

	return true
}

func (a *Analyzer) lookup(name string) (Usage, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if u, ok := a.scopes[i].Get(name); ok {
			return u, true
		}
	}

	return Usage{}, false
}

// Resolve searches the scopes from innermost to outermost.
func (a *Analyzer) Resolve(name string, loc *Location) (Usage, bool) {
	u, ok := a.lookup(name)
	if !ok {
		a.errorf(loc, ErrUnknownIdentifier, "unknown identifier %s", name)
	}

	return u, ok
}

// ResolveType resolves name and requires it to denote a type, returning the
// predeclared type it stands for.
func (a *Analyzer) ResolveType(name string, loc *Location) (TypeName, bool) {
	u, ok := a.Resolve(name, loc)
	if !ok {
		return TypeUnknown, false
	}

	if u.Kind != UsageType {
		a.errorf(loc, ErrNotAType, "%s is not a type", name)
		return TypeUnknown, false
	}

	if u.Type == TypeUnknown {
		return TypeName(name), true
	}

	return u.Type, true
}

func (a *Analyzer) DeclareProgram(id *Identifier) bool {
	return a.Declare(id.Name, id.Loc, Usage{Kind: UsageProgram})
}

// DeclareType registers the alias name for aliased. Nothing is declared when the
// aliased type cannot be resolved.
func (a *Analyzer) DeclareType(name, aliased *Identifier) (TypeName, bool) {
	t, ok := a.ResolveType(aliased.Name, aliased.Loc)
	if !ok {
		return TypeUnknown, false
	}

	return t, a.Declare(name.Name, name.Loc, Usage{Kind: UsageType, Type: t})
}

func (a *Analyzer) DeclareVariable(name *Identifier, t TypeName) bool {
	return a.Declare(name.Name, name.Loc, Usage{Kind: UsageVariable, Type: t})
}

// ValueOf types an identifier used inside an expression.
func (a *Analyzer) ValueOf(id *Identifier) TypeName {
	u, ok := a.Resolve(id.Name, id.Loc)
	if !ok {
		return TypeUnknown
	}

	if u.Kind != UsageVariable && u.Kind != UsageConstant {
		a.errorf(id.Loc, ErrNotAValue, "%s is not a value", id.Name)
		return TypeUnknown
	}

	return u.Type
}

// Unify returns the type of a binary operation over t1 and t2. Identical types
// unify to themselves; in strong mode integer and real widen to real. Unknown
// operands unify to unknown without an error since one was already reported.
func Unify(t1, t2 TypeName, strong bool) (TypeName, error) {
	if t1 == TypeUnknown || t2 == TypeUnknown {
		return TypeUnknown, nil
	}

	if t1 == t2 {
		return t1, nil
	}

	if strong && t1.isNumeric() && t2.isNumeric() {
		return TypeReal, nil
	}

	return TypeUnknown, newError(ErrTypeMismatch, "type mismatch: %s and %s", t1, t2)
}

func (a *Analyzer) unify(t1, t2 TypeName, strong bool, loc *Location) TypeName {
	t, err := Unify(t1, t2, strong)
	if err != nil {
		a.diags.Add(&Diagnostic{Kind: SemanticErrorKind, Loc: loc, Err: err})
	}

	return t
}

func (a *Analyzer) requireBooleans(op string, lhs, rhs TypeName, loc *Location) TypeName {
	if lhs != TypeBoolean || rhs != TypeBoolean {
		a.errorf(loc, ErrTypeMismatch, "type mismatch: operator %s expects boolean operands, found %s and %s", op, lhs, rhs)
		return TypeUnknown
	}

	return TypeBoolean
}

func (a *Analyzer) requireOperation(op string, t TypeName, loc *Location, defined bool) TypeName {
	if !defined {
		a.errorf(loc, ErrUndefinedOperation, "operator %s is not defined for %s", op, t)
		return TypeUnknown
	}

	return t
}

// Additive types "lhs op rhs" for +, - and or.
func (a *Analyzer) Additive(op AdditiveOp, lhs, rhs TypeName, loc *Location) TypeName {
	if lhs == TypeUnknown || rhs == TypeUnknown {
		return TypeUnknown
	}

	if op == AdditiveOr {
		return a.requireBooleans(string(op), lhs, rhs, loc)
	}

	t := a.unify(lhs, rhs, true, loc)
	if t == TypeUnknown {
		return t
	}

	defined := t.isNumeric() || (op == AdditivePlus && t == TypeString)
	return a.requireOperation(string(op), t, loc, defined)
}

// Multiplicative types "lhs op rhs" for *, div, mod and and.
func (a *Analyzer) Multiplicative(op MultiplicativeOp, lhs, rhs TypeName, loc *Location) TypeName {
	if lhs == TypeUnknown || rhs == TypeUnknown {
		return TypeUnknown
	}

	if op == MultiplicativeAnd {
		return a.requireBooleans(string(op), lhs, rhs, loc)
	}

	t := a.unify(lhs, rhs, true, loc)
	if t == TypeUnknown {
		return t
	}

	defined := t.isNumeric()
	if op == MultiplicativeDiv || op == MultiplicativeMod {
		defined = t == TypeInteger
	}

	return a.requireOperation(string(op), t, loc, defined)
}

// Relational compares two simple expressions of identical type; the result is
// always boolean when both sides type-check.
func (a *Analyzer) Relational(lhs, rhs TypeName, loc *Location) TypeName {
	if lhs == TypeUnknown || rhs == TypeUnknown {
		return TypeUnknown
	}

	if a.unify(lhs, rhs, false, loc) == TypeUnknown {
		return TypeUnknown
	}

	return TypeBoolean
}

func (a *Analyzer) Sign(sign SignOp, t TypeName, loc *Location) TypeName {
	if sign == SignNone || t == TypeUnknown {
		return t
	}

	return a.requireOperation("unary "+string(sign), t, loc, t.isNumeric())
}

// RequireBoolean checks an if or while condition.
func (a *Analyzer) RequireBoolean(e *Expression) bool {
	switch e.Type {
	case TypeBoolean:
		return true
	case TypeUnknown:
		return false
	default:
		a.errorf(e.Loc, ErrExpectedBoolean, "expected boolean type, found %s", e.Type)
		return false
	}
}

// AssignTarget resolves the left-hand side of an assignment, which must be a
// variable, and returns its type.
func (a *Analyzer) AssignTarget(target *Identifier) (TypeName, bool) {
	u, ok := a.Resolve(target.Name, target.Loc)
	if !ok {
		return TypeUnknown, false
	}

	switch u.Kind {
	case UsageVariable:
		return u.Type, true
	case UsageConstant:
		a.errorf(target.Loc, ErrNotAssignable, "cannot assign to constant %s", target.Name)
	default:
		a.errorf(target.Loc, ErrNotAssignable, "cannot assign to %s %s", u.Kind, target.Name)
	}

	return TypeUnknown, false
}

// CheckAssignable reports whether a value of type value may be stored in a
// variable of type target. Integers widen to real and chars to string.
func (a *Analyzer) CheckAssignable(target, value TypeName, loc *Location) bool {
	if target == TypeUnknown || value == TypeUnknown {
		return false
	}

	if !assignable(target, value) {
		a.errorf(loc, ErrTypeMismatch, "type mismatch: cannot assign %s to %s", value, target)
		return false
	}

	return true
}

func assignable(target, value TypeName) bool {
	switch {
	case target == value:
		return true
	case target == TypeReal && value == TypeInteger:
		return true
	case target == TypeString && value == TypeChar:
		return true
	}

	return false
}
