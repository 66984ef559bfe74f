package minipas

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Dump renders the annotated tree and its diagnostics as YAML. Every node is a
// mapping whose first key is its kind; value nodes carry their type attribute.
func Dump(ast *AST) ([]byte, error) {
	root := mapping("ast")
	setString(root, "filename", ast.Filename)
	set(root, "program", dumpProgram(ast.Program))

	errs := &yaml.Node{Kind: yaml.SequenceNode}
	for _, d := range ast.Errors {
		errs.Content = append(errs.Content, str(d.Error()))
	}
	set(root, "errors", errs)

	return yaml.Marshal(root)
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func mapping(kind string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	setString(n, "kind", kind)

	return n
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode}
}

func set(n *yaml.Node, key string, value *yaml.Node) {
	if value == nil {
		return
	}

	n.Content = append(n.Content, str(key), value)
}

func setString(n *yaml.Node, key, value string) {
	set(n, key, str(value))
}

func setType(n *yaml.Node, t TypeName) {
	setString(n, "type", t.String())
}

func setLoc(n *yaml.Node, loc *Location) {
	if loc != nil {
		setString(n, "at", loc.String())
	}
}

func dumpProgram(prog *Program) *yaml.Node {
	if prog == nil {
		return nil
	}

	n := mapping("program")
	if prog.Name != nil {
		setString(n, "name", prog.Name.Name)
	}

	if prog.Types != nil {
		types := sequence()
		for _, d := range prog.Types.Declarations {
			decl := mapping("type")
			setString(decl, "name", d.Name.Name)
			setString(decl, "aliased", d.Aliased.Name)
			setType(decl, d.Type)
			setLoc(decl, d.Name.Loc)
			types.Content = append(types.Content, decl)
		}
		set(n, "types", types)
	}

	if prog.Vars != nil {
		vars := sequence()
		for _, d := range prog.Vars.Declarations {
			decl := mapping("var")
			setString(decl, "name", d.Name.Name)
			setType(decl, d.Type)
			setLoc(decl, d.Name.Loc)
			vars.Content = append(vars.Content, decl)
		}
		set(n, "vars", vars)
	}

	if prog.Body != nil {
		set(n, "body", dumpStatement(prog.Body))
	}

	return n
}

func dumpStatement(stmt Statement) *yaml.Node {
	switch s := stmt.(type) {
	case *Compound:
		n := mapping("compound")
		list := sequence()
		for _, child := range s.Statements {
			list.Content = append(list.Content, dumpStatement(child))
		}
		set(n, "statements", list)
		return n
	case *Assignment:
		n := mapping("assignment")
		setString(n, "target", s.Target.Name)
		setType(n, s.Type)
		setLoc(n, s.Target.Loc)
		set(n, "value", dumpExpression(s.Value))
		return n
	case *IfStatement:
		n := mapping("if")
		set(n, "condition", dumpExpression(s.Condition))
		set(n, "then", dumpStatement(s.Then))
		set(n, "else", dumpStatement(s.Else))
		return n
	case *WhileStatement:
		n := mapping("while")
		set(n, "condition", dumpExpression(s.Condition))
		set(n, "body", dumpStatement(s.Body))
		return n
	default:
		return nil
	}
}

func dumpExpression(e *Expression) *yaml.Node {
	if e.Right == nil {
		return dumpSimpleExpression(e.Left)
	}

	n := mapping("relational")
	setString(n, "op", string(e.Op))
	setType(n, e.Type)
	setLoc(n, e.Loc)
	set(n, "left", dumpSimpleExpression(e.Left))
	set(n, "right", dumpSimpleExpression(e.Right))

	return n
}

func dumpSimpleExpression(e *SimpleExpression) *yaml.Node {
	if e.Sign == SignNone && e.Sub == nil {
		return dumpTerm(e.Term)
	}

	n := mapping("simple")
	if e.Sign != SignNone {
		setString(n, "sign", string(e.Sign))
	}
	setType(n, e.Type)
	setLoc(n, e.Loc)
	set(n, "first", dumpTerm(e.Term))

	rest := sequence()
	for link := e.Sub; link != nil; link = link.Next {
		item := mapping("link")
		setString(item, "op", string(link.Op))
		setType(item, link.Type)
		set(item, "operand", dumpTerm(link.Term))
		rest.Content = append(rest.Content, item)
	}
	set(n, "rest", rest)

	return n
}

func dumpTerm(t *Term) *yaml.Node {
	if t.Sub == nil {
		return dumpFactor(t.Factor)
	}

	n := mapping("term")
	setType(n, t.Type)
	setLoc(n, t.Loc)
	set(n, "first", dumpFactor(t.Factor))

	rest := sequence()
	for link := t.Sub; link != nil; link = link.Next {
		item := mapping("link")
		setString(item, "op", string(link.Op))
		setType(item, link.Type)
		set(item, "operand", dumpFactor(link.Factor))
		rest.Content = append(rest.Content, item)
	}
	set(n, "rest", rest)

	return n
}

func dumpFactor(f Factor) *yaml.Node {
	var n *yaml.Node

	switch v := f.(type) {
	case *IntegerLiteral:
		n = mapping("integer")
		set(n, "value", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v.Value), 10)})
	case *RealLiteral:
		n = mapping("real")
		set(n, "value", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatReal(v.Value)})
	case *StringLiteral:
		n = mapping("string")
		setString(n, "value", v.Value)
	case *VariableRef:
		n = mapping("ref")
		setString(n, "name", v.Name)
	case *ParenExpr:
		n = mapping("paren")
		set(n, "expr", dumpExpression(v.Expr))
	default:
		return nil
	}

	setType(n, f.ValueType())
	return n
}
