// Package parser turns the token stream of a Lean source file into an
// ast.SourceFile. It never recovers from errors: the first failure aborts
// the parse and is returned to the caller.
package parser

import (
	"io/ioutil"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/leanparse/ast"
	"github.com/pontaoski/leanparse/errors"
	"github.com/pontaoski/leanparse/lexer"
	"github.com/pontaoski/leanparse/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/leanparse", "parser")

type Parser struct {
	l    *lexer.Lexer
	done []ast.Command

	// floor is the column of the enclosing where-block item. Tokens at or
	// left of it never continue that item. Zero disables the check.
	floor int
}

func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse parses src as a whole file.
func Parse(src, filename string) (*ast.SourceFile, error) {
	return NewParser(lexer.NewLexer(src, filename)).Parse()
}

// ParseFile reads path into memory and parses it.
func ParseFile(path string) (*ast.SourceFile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return Parse(string(data), path)
}

// ParseExpression parses src as a single expression.
func ParseExpression(src, filename string) (x ast.Expression, err error) {
	p := NewParser(lexer.NewLexer(src, filename))
	defer p.recover(&err)

	x = p.parseExpression()
	p.l.LexExpecting(types.EOF)
	return x, nil
}

func (p *Parser) recover(err *error) {
	if r := recover(); r != nil {
		rerr, ok := r.(error)
		if ok {
			*err = tracerr.Wrap(rerr)
		} else {
			panic(r)
		}
	}
}

// Parse consumes the whole input. When it fails, the returned file holds the
// top-level commands that were completed before the failing one.
func (p *Parser) Parse() (file *ast.SourceFile, err error) {
	defer func() {
		if err != nil {
			plog.Debugf("parse failed after %d commands: %v", len(p.done), tracerr.Unwrap(err))
			file = &ast.SourceFile{Commands: p.done}
		}
	}()
	defer p.recover(&err)

	start := p.l.Peek().Location
	for !p.l.PeekIs(types.EOF) {
		p.done = append(p.done, p.parseCommand())
	}
	end := p.l.Lex().Location

	return &ast.SourceFile{
		Loc:      ast.Loc{Location: types.Join(start, end)},
		Commands: p.done,
	}, nil
}

// withFloor sets the layout floor and returns a function restoring the old one.
func (p *Parser) withFloor(column int) func() {
	old := p.floor
	p.floor = column
	return func() { p.floor = old }
}

// continues reports whether tok may extend the construct being parsed.
func (p *Parser) continues(tok types.Token) bool {
	return p.floor == 0 || tok.Location.From.Column > p.floor
}

// unexpected returns err for the caller to raise. When the lookahead did
// not lex, it raises that lex error instead.
func (p *Parser) unexpected(err error) error {
	if p.l.PeekIs(types.ILLEGAL) {
		p.l.Lex()
	}
	return err
}

func (p *Parser) ident() *ast.Ident {
	tok := p.l.LexExpecting(types.IDENT)
	return &ast.Ident{Loc: ast.Loc{Location: tok.Location}, Name: tok.Lit}
}

func (p *Parser) declName() *ast.DeclName {
	parts := []*ast.Ident{p.ident()}
	for p.l.PeekIs(types.PERIOD) {
		p.l.Lex()
		parts = append(parts, p.ident())
	}
	return &ast.DeclName{
		Loc:   ast.Loc{Location: types.Join(parts[0].Span(), parts[len(parts)-1].Span())},
		Parts: parts,
	}
}

func (p *Parser) parseCommand() ast.Command {
	tok := p.l.Peek()
	plog.Tracef("%s: command starting with %s", tok.Location.From, tok)

	switch tok.Kind {
	case types.CHECK, types.EVAL, types.REDUCE:
		p.l.Lex()
		x := p.parseExpression()
		return &ast.HashCommand{
			Loc:  ast.Loc{Location: types.Join(tok.Location, x.Span())},
			Kind: tok.Kind,
			X:    x,
		}
	case types.OPEN:
		p.l.Lex()
		name := p.ident()
		return &ast.Open{
			Loc:  ast.Loc{Location: types.Join(tok.Location, name.Span())},
			Name: name,
		}
	case types.NAMESPACE:
		p.l.Lex()
		name, body, endName := p.parseBlock()
		return &ast.Namespace{
			Loc:     ast.Loc{Location: types.Join(tok.Location, endName.Span())},
			Name:    name,
			Body:    body,
			EndName: endName,
		}
	case types.SECTION:
		p.l.Lex()
		name, body, endName := p.parseBlock()
		return &ast.Section{
			Loc:     ast.Loc{Location: types.Join(tok.Location, endName.Span())},
			Name:    name,
			Body:    body,
			EndName: endName,
		}
	}

	if tok.Kind.IsModifier() || declKeyword(tok.Kind) {
		decl := p.parseDeclaration()
		plog.Debugf("%s: parsed %T", decl.Span().From, decl)
		return decl
	}

	panic(p.unexpected(errors.ExpectedCommand{Got: tok}))
}

// parseBlock should be called past the namespace/section keyword. The closing
// name is kept as written; it is not compared with the opening one.
func (p *Parser) parseBlock() (*ast.Ident, []ast.Command, *ast.Ident) {
	name := p.ident()

	var body []ast.Command
	for !p.l.PeekIs(types.END, types.EOF) {
		body = append(body, p.parseCommand())
	}
	p.l.LexExpecting(types.END)

	return name, body, p.ident()
}

func declKeyword(k types.TokenKind) bool {
	switch k {
	case types.DEF, types.ABBREV, types.THEOREM, types.CONSTANT, types.AXIOM,
		types.EXAMPLE, types.INSTANCE, types.INDUCTIVE, types.CLASS, types.STRUCTURE:
		return true
	}
	return false
}

func (p *Parser) parseDeclaration() ast.Command {
	var mods []*ast.Modifier
	for p.l.Peek().Kind.IsModifier() {
		tok := p.l.Lex()
		mods = append(mods, &ast.Modifier{Loc: ast.Loc{Location: tok.Location}, Kind: tok.Kind})
	}

	tok := p.l.LexExpecting(
		types.DEF, types.ABBREV, types.THEOREM, types.CONSTANT, types.AXIOM,
		types.EXAMPLE, types.INSTANCE, types.INDUCTIVE, types.CLASS, types.STRUCTURE,
	)
	start := tok.Location
	if len(mods) > 0 {
		start = mods[0].Span()
	}
	span := func(end types.Span) ast.Loc {
		return ast.Loc{Location: types.Join(start, end)}
	}

	switch tok.Kind {
	case types.DEF:
		name := p.declName()
		sig := p.optSignature()
		val := p.declValue()
		return &ast.Def{Loc: span(val.Span()), Modifiers: mods, Name: name, Sig: sig, Value: val}
	case types.ABBREV:
		name := p.declName()
		sig := p.optSignature()
		val := p.declValue()
		return &ast.Abbrev{Loc: span(val.Span()), Modifiers: mods, Name: name, Sig: sig, Value: val}
	case types.THEOREM:
		name := p.declName()
		sig := p.signature()
		p.l.LexExpecting(types.ASSIGN)
		proof := p.ident()
		return &ast.Theorem{Loc: span(proof.Span()), Modifiers: mods, Name: name, Sig: sig, Proof: proof}
	case types.CONSTANT:
		name := p.declName()
		sig := p.signature()
		c := &ast.Constant{Loc: span(sig.Type.Span()), Modifiers: mods, Name: name, Sig: sig}
		if p.l.PeekIs(types.ASSIGN) {
			p.l.Lex()
			c.Value = p.parseExpression()
			c.Loc = span(c.Value.Span())
		}
		return c
	case types.AXIOM:
		name := p.declName()
		sig := p.signature()
		return &ast.Axiom{Loc: span(sig.Type.Span()), Modifiers: mods, Name: name, Sig: sig}
	case types.EXAMPLE:
		sig := p.signature()
		val := p.declValue()
		return &ast.Example{Loc: span(val.Span()), Modifiers: mods, Sig: sig, Value: val}
	case types.INSTANCE:
		return p.parseInstance(mods, span)
	case types.INDUCTIVE:
		return p.parseInductive(mods, false, span)
	case types.CLASS:
		if p.l.PeekIs(types.INDUCTIVE) {
			p.l.Lex()
			return p.parseInductive(mods, true, span)
		}
		name, sig, extends, fields := p.parseStructureBody()
		return &ast.Class{
			Loc:       span(fields[len(fields)-1].Span()),
			Modifiers: mods,
			Name:      name,
			Sig:       sig,
			Extends:   extends,
			Fields:    fields,
		}
	case types.STRUCTURE:
		name, sig, extends, fields := p.parseStructureBody()
		return &ast.Structure{
			Loc:       span(fields[len(fields)-1].Span()),
			Modifiers: mods,
			Name:      name,
			Sig:       sig,
			Extends:   extends,
			Fields:    fields,
		}
	}

	panic("unhandled")
}

// optSignature parses optional parameters followed by an optional `: type`.
func (p *Parser) optSignature() ast.Signature {
	sig := ast.Signature{Params: p.parameters()}
	if p.l.PeekIs(types.COLON) {
		p.l.Lex()
		sig.Type = p.parseType()
	}
	return sig
}

// signature parses optional parameters followed by a mandatory `: type`.
func (p *Parser) signature() ast.Signature {
	params := p.parameters()
	p.l.LexExpecting(types.COLON)
	return ast.Signature{Params: params, Type: p.parseType()}
}

func (p *Parser) declValue() ast.DeclValue {
	tok := p.l.Peek()
	switch tok.Kind {
	case types.ASSIGN:
		p.l.Lex()
		x := p.parseExpression()
		return &ast.SimpleValue{Loc: ast.Loc{Location: types.Join(tok.Location, x.Span())}, X: x}
	case types.BAR:
		var pats []*ast.Pattern
		for p.l.PeekIs(types.BAR) {
			pats = append(pats, p.parsePattern())
		}
		return &ast.Equations{
			Loc:      ast.Loc{Location: types.Join(pats[0].Span(), pats[len(pats)-1].Span())},
			Patterns: pats,
		}
	case types.WHERE:
		p.l.Lex()
		fields := p.parseFields()
		return &ast.WhereBlock{
			Loc:    ast.Loc{Location: types.Join(tok.Location, fields[len(fields)-1].Span())},
			Fields: fields,
		}
	}

	panic(p.unexpected(errors.ExpectedToken{
		Expected: []types.TokenKind{types.ASSIGN, types.BAR, types.WHERE},
		Got:      tok,
	}))
}

func (p *Parser) parsePattern() *ast.Pattern {
	bar := p.l.LexExpecting(types.BAR)
	lhs := []ast.Expression{p.parseExpression()}
	for p.l.PeekIs(types.COMMA) {
		p.l.Lex()
		lhs = append(lhs, p.parseExpression())
	}
	p.l.LexExpecting(types.FATARROW)
	rhs := p.parseExpression()
	return &ast.Pattern{Loc: ast.Loc{Location: types.Join(bar.Location, rhs.Span())}, Lhs: lhs, Rhs: rhs}
}

// parseFields parses one or more structure-style fields.
func (p *Parser) parseFields() []*ast.Field {
	fields := []*ast.Field{p.parseField()}
	for p.l.PeekIs(types.IDENT) {
		fields = append(fields, p.parseField())
	}
	return fields
}

func (p *Parser) parseField() *ast.Field {
	name := p.ident()
	defer p.withFloor(name.Span().From.Column)()

	f := &ast.Field{Loc: name.Loc, Name: name, Params: p.parameters()}
	end := name.Span()
	if len(f.Params) > 0 {
		end = f.Params[len(f.Params)-1].Span()
	}
	if p.l.PeekIs(types.COLON) {
		p.l.Lex()
		f.Type = p.parseType()
		end = f.Type.Span()
	}
	if p.l.PeekIs(types.ASSIGN) {
		p.l.Lex()
		f.Default = p.parseExpression()
		end = f.Default.Span()
	}
	f.Loc = ast.Loc{Location: types.Join(name.Span(), end)}
	return f
}

func (p *Parser) parseInstance(mods []*ast.Modifier, span func(types.Span) ast.Loc) *ast.Instance {
	inst := &ast.Instance{Modifiers: mods}
	if p.l.PeekIs(types.IDENT) {
		inst.Name = p.declName()
	}
	inst.Sig = p.signature()

	if tok := p.l.LexExpecting(types.WHERE, types.ASSIGN); tok.Kind == types.ASSIGN {
		inst.Value = p.parseExpression()
		inst.Loc = span(inst.Value.Span())
		return inst
	}

	inst.Fields = []*ast.InstanceField{p.parseInstanceField()}
	for p.l.PeekIs(types.IDENT) {
		inst.Fields = append(inst.Fields, p.parseInstanceField())
	}
	inst.Loc = span(inst.Fields[len(inst.Fields)-1].Span())
	return inst
}

func (p *Parser) parseInstanceField() *ast.InstanceField {
	name := p.ident()
	defer p.withFloor(name.Span().From.Column)()

	params := p.parameters()
	if len(params) == 0 {
		panic(p.unexpected(errors.ExpectedToken{
			Expected: []types.TokenKind{types.IDENT, types.LPAREN},
			Got:      p.l.Peek(),
		}))
	}
	p.l.LexExpecting(types.COLON)
	ret := p.parseType()
	p.l.LexExpecting(types.ASSIGN)
	impl := p.parseExpression()

	return &ast.InstanceField{
		Loc:        ast.Loc{Location: types.Join(name.Span(), impl.Span())},
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Impl:       impl,
	}
}

func (p *Parser) parseInductive(mods []*ast.Modifier, class bool, span func(types.Span) ast.Loc) *ast.Inductive {
	ind := &ast.Inductive{Modifiers: mods, Class: class, Name: p.declName()}
	ind.Sig = p.optSignature()
	p.l.LexExpecting(types.WHERE, types.ASSIGN)

	ind.Constructors = []*ast.Constructor{p.parseConstructor()}
	for p.l.PeekIs(types.BAR) {
		ind.Constructors = append(ind.Constructors, p.parseConstructor())
	}
	ind.Loc = span(ind.Constructors[len(ind.Constructors)-1].Span())
	return ind
}

func (p *Parser) parseConstructor() *ast.Constructor {
	bar := p.l.LexExpecting(types.BAR)
	name := p.ident()
	p.l.LexExpecting(types.COLON)
	typ := p.parseType()
	return &ast.Constructor{Loc: ast.Loc{Location: types.Join(bar.Location, typ.Span())}, Name: name, Type: typ}
}

// parseStructureBody parses what follows `structure` or `class`.
func (p *Parser) parseStructureBody() (*ast.DeclName, ast.Signature, []ast.Expression, []*ast.Field) {
	name := p.declName()
	sig := p.optSignature()

	var extends []ast.Expression
	if p.l.PeekIs(types.EXTENDS) {
		p.l.Lex()
		extends = append(extends, p.parseExpression())
		for p.l.PeekIs(types.COMMA) {
			p.l.Lex()
			extends = append(extends, p.parseExpression())
		}
	}

	p.l.LexExpecting(types.WHERE)
	return name, sig, extends, p.parseFields()
}

// parameters parses zero or more binders: bare identifiers or (name : type).
func (p *Parser) parameters() []ast.Param {
	var params []ast.Param
	for {
		tok := p.l.Peek()
		if !p.continues(tok) {
			return params
		}

		switch tok.Kind {
		case types.IDENT:
			params = append(params, p.ident())
		case types.LPAREN:
			p.l.Lex()
			name := p.ident()
			p.l.LexExpecting(types.COLON)
			restore := p.withFloor(0)
			typ := p.parseType()
			restore()
			rparen := p.l.LexExpecting(types.RPAREN)
			params = append(params, &ast.Annotated{
				Loc:  ast.Loc{Location: types.Join(tok.Location, rparen.Location)},
				Name: name,
				Type: typ,
			})
		default:
			return params
		}
	}
}
