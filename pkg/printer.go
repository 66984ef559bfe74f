package minipas

import (
	"strconv"
	"strings"
)

const indentUnit = "  "

type printer struct {
	out    strings.Builder
	indent int
}

// Format renders a tree back into Pascal source. Declarations are printed one
// name per line, so the output of a parsed program parses to the same tree.
func Format(prog *Program) string {
	p := &printer{}
	p.program(prog)

	return p.out.String()
}

func FormatExpression(e *Expression) string {
	p := &printer{}
	p.expr(e)

	return p.out.String()
}

func (p *printer) line(s string) {
	p.out.WriteString(strings.Repeat(indentUnit, p.indent))
	p.out.WriteString(s)
	p.out.WriteByte('\n')
}

func (p *printer) program(prog *Program) {
	if prog == nil {
		return
	}

	if prog.Name != nil {
		p.line("program " + prog.Name.Name + ";")
	}

	if prog.Types != nil && len(prog.Types.Declarations) > 0 {
		p.line("type")
		p.indent++
		for _, d := range prog.Types.Declarations {
			p.line(d.Name.Name + ": " + d.Aliased.Name + ";")
		}
		p.indent--
	}

	if prog.Vars != nil && len(prog.Vars.Declarations) > 0 {
		p.line("var")
		p.indent++
		for _, d := range prog.Vars.Declarations {
			p.line(d.Name.Name + ": " + d.TypeName.Name + ";")
		}
		p.indent--
	}

	if prog.Body != nil {
		p.compound(prog.Body, ".")
	}
}

func (p *printer) compound(c *Compound, terminator string) {
	p.line("begin")
	p.indent++

	for i, stmt := range c.Statements {
		sep := ";"
		if i == len(c.Statements)-1 {
			sep = ""
		}

		p.statement(stmt, sep)
	}

	p.indent--
	p.line("end" + terminator)
}

func (p *printer) statement(stmt Statement, sep string) {
	switch s := stmt.(type) {
	case nil:
		if sep != "" {
			p.line(sep)
		}
	case *Compound:
		p.compound(s, sep)
	case *Assignment:
		p.line(s.Target.Name + " := " + FormatExpression(s.Value) + sep)
	case *IfStatement:
		p.line("if " + FormatExpression(s.Condition) + " then")
		if s.Else == nil {
			p.branch(s.Then, sep)
			return
		}

		p.branch(s.Then, "")
		p.line("else")
		p.branch(s.Else, sep)
	case *WhileStatement:
		p.line("while " + FormatExpression(s.Condition) + " do")
		p.branch(s.Body, sep)
	}
}

func (p *printer) branch(stmt Statement, sep string) {
	p.indent++
	p.statement(stmt, sep)
	p.indent--
}

func (p *printer) expr(e *Expression) {
	p.simpleExpr(e.Left)

	if e.Right != nil {
		p.out.WriteString(" " + string(e.Op) + " ")
		p.simpleExpr(e.Right)
	}
}

func (p *printer) simpleExpr(e *SimpleExpression) {
	p.out.WriteString(string(e.Sign))
	p.term(e.Term)

	for link := e.Sub; link != nil; link = link.Next {
		p.out.WriteString(" " + string(link.Op) + " ")
		p.term(link.Term)
	}
}

func (p *printer) term(t *Term) {
	p.factor(t.Factor)

	for link := t.Sub; link != nil; link = link.Next {
		p.out.WriteString(" " + string(link.Op) + " ")
		p.factor(link.Factor)
	}
}

func (p *printer) factor(f Factor) {
	switch v := f.(type) {
	case *IntegerLiteral:
		p.out.WriteString(strconv.FormatInt(int64(v.Value), 10))
	case *RealLiteral:
		p.out.WriteString(formatReal(v.Value))
	case *StringLiteral:
		p.out.WriteString("'" + v.Value + "'")
	case *VariableRef:
		p.out.WriteString(v.Name)
	case *ParenExpr:
		p.out.WriteByte('(')
		p.expr(v.Expr)
		p.out.WriteByte(')')
	}
}

// formatReal always keeps a decimal point so the literal reads back as a real.
func formatReal(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
