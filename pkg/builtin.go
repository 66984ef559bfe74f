package minipas

// TypeName is the type attribute written into value nodes. The zero value means the
// type could not be determined; an error has already been reported for it.
type TypeName string

const (
	TypeUnknown TypeName = ""
	TypeInteger TypeName = "integer"
	TypeReal    TypeName = "real"
	TypeChar    TypeName = "char"
	TypeBoolean TypeName = "boolean"
	TypeString  TypeName = "string"
)

func (t TypeName) String() string {
	if t == TypeUnknown {
		return "<unknown>"
	}

	return string(t)
}

func (t TypeName) isNumeric() bool {
	return t == TypeInteger || t == TypeReal
}

// defineBuiltins fills the outermost scope with the predeclared identifiers.
func defineBuiltins(s *Scope) {
	for _, t := range []TypeName{TypeInteger, TypeReal, TypeChar, TypeBoolean, TypeString} {
		defineBuiltinType(s, t)
	}

	defineBuiltinConst(s, "true", TypeBoolean)
	defineBuiltinConst(s, "false", TypeBoolean)
}

func defineBuiltinType(s *Scope, t TypeName) {
	s.Add(string(t), Usage{Kind: UsageType})
}

func defineBuiltinConst(s *Scope, name string, t TypeName) {
	s.Add(name, Usage{Kind: UsageConstant, Type: t})
}
