package ast

import (
	"fmt"
	"strings"

	"github.com/pontaoski/leanparse/types"
)

// Binding levels used to decide where parentheses are needed.
const (
	levelArrow   = -4
	levelOpen    = -3 // fun and if extend as far right as possible
	levelCompare = -1
	levelApply   = 0 // arguments are sums and products of atoms
	levelAdd     = 1
	levelMul     = 2
	levelAtom    = 4
)

func level(x Expression) int {
	switch x := x.(type) {
	case *FunctionType:
		return levelArrow
	case *Lambda, *Conditional:
		return levelOpen
	case *BinaryExpr:
		switch x.Op {
		case types.STAR:
			return levelMul
		case types.PLUS, types.MINUS:
			return levelAdd
		}
		return levelCompare
	case *Comparison:
		return levelCompare
	case *Apply:
		return levelApply
	}
	return levelAtom
}

type printer struct {
	buf    strings.Builder
	indent int
}

// Format renders n as canonical source text. Re-parsing the output yields a
// tree that differs from n only in spans.
func Format(n Node) string {
	p := &printer{}
	switch n := n.(type) {
	case *SourceFile:
		for _, c := range n.Commands {
			p.command(c)
		}
	case Command:
		p.command(n)
	case Expression:
		p.buf.WriteString(expr(n, levelOpen))
	case *Annotated:
		p.buf.WriteString(param(n))
	default:
		panic(fmt.Sprintf("ast.Format: unsupported node %T", n))
	}
	return p.buf.String()
}

func (p *printer) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) nested(f func()) {
	p.indent++
	f()
	p.indent--
}

func (p *printer) command(c Command) {
	switch c := c.(type) {
	case *HashCommand:
		p.line("%s %s", c.Kind, expr(c.X, levelOpen))
	case *Open:
		p.line("open %s", c.Name.Name)
	case *Namespace:
		p.block("namespace", c.Name, c.Body, c.EndName)
	case *Section:
		p.block("section", c.Name, c.Body, c.EndName)
	case *Def:
		p.withValue(head(c.Modifiers, "def", c.Name, c.Sig), c.Value)
	case *Abbrev:
		p.withValue(head(c.Modifiers, "abbrev", c.Name, c.Sig), c.Value)
	case *Theorem:
		p.line("%s := %s", head(c.Modifiers, "theorem", c.Name, c.Sig), c.Proof.Name)
	case *Constant:
		if c.Value != nil {
			p.line("%s := %s", head(c.Modifiers, "constant", c.Name, c.Sig), expr(c.Value, levelOpen))
		} else {
			p.line("%s", head(c.Modifiers, "constant", c.Name, c.Sig))
		}
	case *Axiom:
		p.line("%s", head(c.Modifiers, "axiom", c.Name, c.Sig))
	case *Example:
		p.withValue(head(c.Modifiers, "example", nil, c.Sig), c.Value)
	case *Instance:
		h := head(c.Modifiers, "instance", c.Name, c.Sig)
		if c.Value != nil {
			p.line("%s := %s", h, expr(c.Value, levelOpen))
			return
		}
		p.line("%s where", h)
		p.nested(func() {
			for _, f := range c.Fields {
				p.line("%s%s : %s := %s", f.Name.Name, params(f.Params), expr(f.ReturnType, levelArrow), expr(f.Impl, levelOpen))
			}
		})
	case *Inductive:
		keyword := "inductive"
		if c.Class {
			keyword = "class inductive"
		}
		p.line("%s where", head(c.Modifiers, keyword, c.Name, c.Sig))
		p.nested(func() {
			for _, ctor := range c.Constructors {
				p.line("| %s : %s", ctor.Name.Name, expr(ctor.Type, levelArrow))
			}
		})
	case *Class:
		p.structure(head(c.Modifiers, "class", c.Name, c.Sig), c.Extends, c.Fields)
	case *Structure:
		p.structure(head(c.Modifiers, "structure", c.Name, c.Sig), c.Extends, c.Fields)
	default:
		panic(fmt.Sprintf("ast.Format: unsupported command %T", c))
	}
}

func (p *printer) block(keyword string, name *Ident, body []Command, end *Ident) {
	p.line("%s %s", keyword, name.Name)
	p.nested(func() {
		for _, c := range body {
			p.command(c)
		}
	})
	p.line("end %s", end.Name)
}

func (p *printer) withValue(h string, v DeclValue) {
	switch v := v.(type) {
	case *SimpleValue:
		p.line("%s := %s", h, expr(v.X, levelOpen))
	case *Equations:
		p.line("%s", h)
		p.nested(func() {
			for _, pat := range v.Patterns {
				lhs := make([]string, len(pat.Lhs))
				for i, x := range pat.Lhs {
					lhs[i] = expr(x, levelOpen)
				}
				p.line("| %s => %s", strings.Join(lhs, ", "), expr(pat.Rhs, levelOpen))
			}
		})
	case *WhereBlock:
		p.line("%s where", h)
		p.fields(v.Fields)
	}
}

func (p *printer) structure(h string, extends []Expression, fs []*Field) {
	if len(extends) > 0 {
		parents := make([]string, len(extends))
		for i, x := range extends {
			parents[i] = expr(x, levelOpen)
		}
		h += " extends " + strings.Join(parents, ", ")
	}
	p.line("%s where", h)
	p.fields(fs)
}

func (p *printer) fields(fs []*Field) {
	p.nested(func() {
		for _, f := range fs {
			s := f.Name.Name + params(f.Params)
			if f.Type != nil {
				s += " : " + expr(f.Type, levelArrow)
			}
			if f.Default != nil {
				s += " := " + expr(f.Default, levelOpen)
			}
			p.line("%s", s)
		}
	})
}

func head(mods []*Modifier, keyword string, name *DeclName, sig Signature) string {
	var sb strings.Builder
	for _, m := range mods {
		sb.WriteString(m.Kind.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(keyword)
	if name != nil {
		sb.WriteByte(' ')
		sb.WriteString(name.String())
	}
	sb.WriteString(params(sig.Params))
	if sig.Type != nil {
		sb.WriteString(" : ")
		sb.WriteString(expr(sig.Type, levelArrow))
	}
	return sb.String()
}

// params renders a binder list with a leading space, or nothing.
func params(ps []Param) string {
	var sb strings.Builder
	for _, p := range ps {
		sb.WriteByte(' ')
		sb.WriteString(param(p))
	}
	return sb.String()
}

func param(p Param) string {
	switch p := p.(type) {
	case *Ident:
		return p.Name
	case *Annotated:
		return fmt.Sprintf("(%s : %s)", p.Name.Name, expr(p.Type, levelArrow))
	}
	panic(fmt.Sprintf("ast.Format: unsupported parameter %T", p))
}

// expr renders x, parenthesized when it binds looser than min.
func expr(x Expression, min int) string {
	s := exprString(x)
	if level(x) < min {
		return "(" + s + ")"
	}
	return s
}

func exprString(x Expression) string {
	switch x := x.(type) {
	case *Ident:
		return x.Name
	case *Number:
		return x.Value
	case *StringLit:
		var sb strings.Builder
		sb.WriteByte('"')
		for _, part := range x.Parts {
			switch part := part.(type) {
			case *StringContent:
				sb.WriteString(part.Text)
			case *Interpolation:
				sb.WriteByte('{')
				sb.WriteString(expr(part.X, levelOpen))
				sb.WriteByte('}')
			}
		}
		sb.WriteByte('"')
		return sb.String()
	case *Apply:
		parts := []string{expr(x.Fn, levelAtom)}
		for _, arg := range x.Args {
			parts = append(parts, expr(arg, levelAdd))
		}
		return strings.Join(parts, " ")
	case *BinaryExpr:
		l := level(x)
		return fmt.Sprintf("%s %s %s", expr(x.X, l), x.Op, expr(x.Y, l+1))
	case *Comparison:
		l := level(x)
		return fmt.Sprintf("%s %s %s", expr(x.X, l), x.Op, expr(x.Y, l+1))
	case *Conditional:
		return fmt.Sprintf("if %s then %s else %s", expr(x.Cond, levelOpen), expr(x.Then, levelOpen), expr(x.Else, levelOpen))
	case *Lambda:
		return fmt.Sprintf("fun%s => %s", params(x.Params), expr(x.Body, levelOpen))
	case *ElementOf:
		return expr(x.Type, levelAtom) + "." + x.Field.Name
	case *FunctionType:
		return fmt.Sprintf("%s → %s", expr(x.From, levelOpen), expr(x.To, levelArrow))
	}
	panic(fmt.Sprintf("ast.Format: unsupported expression %T", x))
}
