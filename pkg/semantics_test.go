package minipas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []TypeName{TypeInteger, TypeReal, TypeChar, TypeBoolean, TypeString}

func TestUnify(t *testing.T) {
	cases := []struct {
		t1, t2 TypeName
		strong bool
		expect TypeName
		fail   bool
	}{
		{TypeInteger, TypeInteger, true, TypeInteger, false},
		{TypeInteger, TypeReal, true, TypeReal, false},
		{TypeReal, TypeInteger, true, TypeReal, false},
		{TypeInteger, TypeReal, false, TypeUnknown, true},
		{TypeChar, TypeChar, false, TypeChar, false},
		{TypeChar, TypeString, true, TypeUnknown, true},
		{TypeBoolean, TypeInteger, true, TypeUnknown, true},
		{TypeUnknown, TypeInteger, true, TypeUnknown, false},
		{TypeString, TypeUnknown, false, TypeUnknown, false},
	}

	for _, c := range cases {
		got, err := Unify(c.t1, c.t2, c.strong)
		assert.Equal(t, c.expect, got, "%s %s", c.t1, c.t2)

		if c.fail {
			assert.True(t, errors.Is(err, ErrTypeMismatch))
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestUnifyProperties(t *testing.T) {
	for _, strong := range []bool{true, false} {
		for _, a := range allTypes {
			t1, err := Unify(a, a, strong)
			assert.NoError(t, err)
			assert.Equal(t, a, t1)

			for _, b := range allTypes {
				ab, errAB := Unify(a, b, strong)
				ba, errBA := Unify(b, a, strong)

				assert.Equal(t, ab, ba, "%s %s", a, b)
				assert.Equal(t, errAB == nil, errBA == nil, "%s %s", a, b)
			}
		}
	}
}

func TestUnifyMessage(t *testing.T) {
	_, err := Unify(TypeInteger, TypeChar, true)

	require.Error(t, err)
	assert.Equal(t, "type mismatch: integer and char", err.Error())
}

func TestAnalyzerBuiltins(t *testing.T) {
	a := NewAnalyzer(&Diagnostics{})

	for _, typ := range allTypes {
		got, ok := a.ResolveType(string(typ), nil)
		assert.True(t, ok)
		assert.Equal(t, typ, got)
	}

	assert.Equal(t, TypeBoolean, a.ValueOf(&Identifier{Name: "true"}))
	assert.Equal(t, TypeBoolean, a.ValueOf(&Identifier{Name: "false"}))
	assert.Equal(t, 1, a.Depth())
}

func TestAnalyzerRedeclaration(t *testing.T) {
	diags := &Diagnostics{}
	a := NewAnalyzer(diags)
	a.EnterScope()

	loc := &Location{Line: 2, Col: 5}
	assert.True(t, a.DeclareVariable(&Identifier{Name: "x"}, TypeInteger))
	assert.False(t, a.DeclareVariable(&Identifier{Name: "x", Loc: loc}, TypeReal))

	require.Equal(t, 1, diags.Len())
	assert.Equal(t, "Semantic Error [2:5] redeclaration of x", diags.List()[0].Error())
	assert.True(t, errors.Is(diags.List()[0], ErrRedeclaration))

	assert.Equal(t, TypeInteger, a.ValueOf(&Identifier{Name: "x"}))
}

func TestAnalyzerScopes(t *testing.T) {
	diags := &Diagnostics{}
	a := NewAnalyzer(diags)

	a.EnterScope()
	a.DeclareVariable(&Identifier{Name: "x"}, TypeInteger)

	a.EnterScope()
	assert.Equal(t, 3, a.Depth())
	assert.True(t, a.DeclareVariable(&Identifier{Name: "x"}, TypeChar))
	assert.Equal(t, TypeChar, a.ValueOf(&Identifier{Name: "x"}))

	a.LeaveScope()
	assert.Equal(t, TypeInteger, a.ValueOf(&Identifier{Name: "x"}))

	a.LeaveScope()
	a.LeaveScope()
	assert.Equal(t, 1, a.Depth())
	assert.Equal(t, TypeUnknown, a.ValueOf(&Identifier{Name: "x"}))

	require.Equal(t, 1, diags.Len())
	assert.True(t, errors.Is(diags.List()[0], ErrUnknownIdentifier))
}

func TestAnalyzerTypeAliases(t *testing.T) {
	diags := &Diagnostics{}
	a := NewAnalyzer(diags)
	a.EnterScope()

	typ, ok := a.DeclareType(&Identifier{Name: "num"}, &Identifier{Name: "real"})
	assert.True(t, ok)
	assert.Equal(t, TypeReal, typ)

	// Aliases of aliases resolve to the predeclared type
	typ, ok = a.DeclareType(&Identifier{Name: "amount"}, &Identifier{Name: "num"})
	assert.True(t, ok)
	assert.Equal(t, TypeReal, typ)

	a.DeclareVariable(&Identifier{Name: "v"}, TypeInteger)
	_, ok = a.DeclareType(&Identifier{Name: "bad"}, &Identifier{Name: "v"})
	assert.False(t, ok)

	_, ok = a.ResolveType("bad", nil)
	assert.False(t, ok)

	require.Equal(t, 2, diags.Len())
	assert.Equal(t, "v is not a type", diags.List()[0].Err.Error())
	assert.Equal(t, "unknown identifier bad", diags.List()[1].Err.Error())
}

func TestAnalyzerOperators(t *testing.T) {
	cases := []struct {
		name   string
		check  func(a *Analyzer) TypeName
		expect TypeName
		fail   error
	}{
		{"int plus int", func(a *Analyzer) TypeName {
			return a.Additive(AdditivePlus, TypeInteger, TypeInteger, nil)
		}, TypeInteger, nil},
		{"int minus real", func(a *Analyzer) TypeName {
			return a.Additive(AdditiveMinus, TypeInteger, TypeReal, nil)
		}, TypeReal, nil},
		{"string plus string", func(a *Analyzer) TypeName {
			return a.Additive(AdditivePlus, TypeString, TypeString, nil)
		}, TypeString, nil},
		{"bool or bool", func(a *Analyzer) TypeName {
			return a.Additive(AdditiveOr, TypeBoolean, TypeBoolean, nil)
		}, TypeBoolean, nil},
		{"int or bool", func(a *Analyzer) TypeName {
			return a.Additive(AdditiveOr, TypeInteger, TypeBoolean, nil)
		}, TypeUnknown, ErrTypeMismatch},
		{"char minus char", func(a *Analyzer) TypeName {
			return a.Additive(AdditiveMinus, TypeChar, TypeChar, nil)
		}, TypeUnknown, ErrUndefinedOperation},
		{"unknown plus char", func(a *Analyzer) TypeName {
			return a.Additive(AdditivePlus, TypeUnknown, TypeChar, nil)
		}, TypeUnknown, nil},
		{"real times int", func(a *Analyzer) TypeName {
			return a.Multiplicative(MultiplicativeMul, TypeReal, TypeInteger, nil)
		}, TypeReal, nil},
		{"int mod int", func(a *Analyzer) TypeName {
			return a.Multiplicative(MultiplicativeMod, TypeInteger, TypeInteger, nil)
		}, TypeInteger, nil},
		{"real div int", func(a *Analyzer) TypeName {
			return a.Multiplicative(MultiplicativeDiv, TypeReal, TypeInteger, nil)
		}, TypeUnknown, ErrUndefinedOperation},
		{"bool and bool", func(a *Analyzer) TypeName {
			return a.Multiplicative(MultiplicativeAnd, TypeBoolean, TypeBoolean, nil)
		}, TypeBoolean, nil},
		{"string times string", func(a *Analyzer) TypeName {
			return a.Multiplicative(MultiplicativeMul, TypeString, TypeString, nil)
		}, TypeUnknown, ErrUndefinedOperation},
		{"int less int", func(a *Analyzer) TypeName {
			return a.Relational(TypeInteger, TypeInteger, nil)
		}, TypeBoolean, nil},
		{"char equal char", func(a *Analyzer) TypeName {
			return a.Relational(TypeChar, TypeChar, nil)
		}, TypeBoolean, nil},
		{"int less real", func(a *Analyzer) TypeName {
			return a.Relational(TypeInteger, TypeReal, nil)
		}, TypeUnknown, ErrTypeMismatch},
		{"negative real", func(a *Analyzer) TypeName {
			return a.Sign(SignNegative, TypeReal, nil)
		}, TypeReal, nil},
		{"negative string", func(a *Analyzer) TypeName {
			return a.Sign(SignNegative, TypeString, nil)
		}, TypeUnknown, ErrUndefinedOperation},
		{"no sign on string", func(a *Analyzer) TypeName {
			return a.Sign(SignNone, TypeString, nil)
		}, TypeString, nil},
	}

	for _, c := range cases {
		diags := &Diagnostics{}
		a := NewAnalyzer(diags)

		assert.Equal(t, c.expect, c.check(a), c.name)

		if c.fail == nil {
			assert.Zero(t, diags.Len(), c.name)
			continue
		}

		if assert.Equal(t, 1, diags.Len(), c.name) {
			assert.True(t, errors.Is(diags.List()[0], c.fail), c.name)
			assert.Equal(t, SemanticErrorKind, diags.List()[0].Kind, c.name)
		}
	}
}

func TestAnalyzerAssignability(t *testing.T) {
	for _, target := range allTypes {
		for _, value := range allTypes {
			diags := &Diagnostics{}
			a := NewAnalyzer(diags)

			expect := target == value ||
				(target == TypeReal && value == TypeInteger) ||
				(target == TypeString && value == TypeChar)

			assert.Equal(t, expect, a.CheckAssignable(target, value, nil), "%s := %s", target, value)
			assert.Equal(t, !expect, diags.Len() == 1, "%s := %s", target, value)
		}
	}
}

func TestAnalyzerRequireBoolean(t *testing.T) {
	diags := &Diagnostics{}
	a := NewAnalyzer(diags)

	assert.True(t, a.RequireBoolean(&Expression{Type: TypeBoolean}))
	assert.False(t, a.RequireBoolean(&Expression{Type: TypeUnknown}))
	assert.Zero(t, diags.Len())

	assert.False(t, a.RequireBoolean(&Expression{Type: TypeReal, Loc: &Location{Line: 1, Col: 7}}))
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, "Semantic Error [1:7] expected boolean type, found real", diags.List()[0].Error())
}
