package parser

import (
	"github.com/pontaoski/leanparse/ast"
	"github.com/pontaoski/leanparse/errors"
	"github.com/pontaoski/leanparse/types"
)

// Binding powers. Application shares the lowest tier with = < > but is
// always tried first, inside operand. Its arguments are parsed at the
// additive tier, so + - * bind inside an argument: f x + 1 is f (x + 1).
const (
	precLowest   = -1
	precAdditive = 1
	precMultiply = 2
)

func binaryPrec(k types.TokenKind) (int, bool) {
	switch k {
	case types.STAR:
		return precMultiply, true
	case types.PLUS, types.MINUS:
		return precAdditive, true
	case types.EQUALS, types.LESS, types.GREATER:
		return precLowest, true
	}
	return 0, false
}

func startsPrimary(k types.TokenKind) bool {
	switch k {
	case types.IDENT, types.NUMBER, types.QUOTE, types.LPAREN, types.IF, types.FUN:
		return true
	}
	return false
}

func (p *Parser) parseExpression() ast.Expression {
	return p.binaryExpr(precLowest, p.operand)
}

// parseType parses an expression optionally followed by a right-associative
// chain of arrows.
func (p *Parser) parseType() ast.Expression {
	x := p.parseExpression()
	if !p.l.PeekIs(types.ARROW) {
		return x
	}
	p.l.Lex()
	to := p.parseType()
	return &ast.FunctionType{Loc: ast.Loc{Location: types.Join(x.Span(), to.Span())}, From: x, To: to}
}

// binaryExpr parses a binary expression whose operators all have at least
// precedence prec, with operands produced by next. All operators are left
// associative.
func (p *Parser) binaryExpr(prec int, next func() ast.Expression) ast.Expression {
	x := next()

	for {
		tok := p.l.Peek()
		oprec, ok := binaryPrec(tok.Kind)
		if !ok || oprec < prec {
			return x
		}
		p.l.Lex()

		y := p.binaryExpr(oprec+1, next)
		loc := ast.Loc{Location: types.Join(x.Span(), y.Span())}
		if tok.Kind == types.LESS || tok.Kind == types.GREATER {
			x = &ast.Comparison{Loc: loc, Op: tok.Kind, X: x, Y: y}
		} else {
			x = &ast.BinaryExpr{Loc: loc, Op: tok.Kind, X: x, Y: y}
		}
	}
}

// operand parses a primary expression followed by any number of arguments.
// Stopping is never an error: `f x` ends before `)`, a keyword or = < >.
func (p *Parser) operand() ast.Expression {
	fn := p.primary()

	var args []ast.Expression
	for {
		tok := p.l.Peek()
		if !startsPrimary(tok.Kind) || !p.continues(tok) {
			break
		}
		args = append(args, p.argument())
	}

	if len(args) == 0 {
		return fn
	}
	return &ast.Apply{
		Loc:  ast.Loc{Location: types.Join(fn.Span(), args[len(args)-1].Span())},
		Fn:   fn,
		Args: args,
	}
}

// argument parses one application argument: primaries joined by + - *.
// Applications never nest inside an argument without parentheses.
func (p *Parser) argument() ast.Expression {
	return p.binaryExpr(precAdditive, p.primary)
}

func (p *Parser) primary() ast.Expression {
	tok := p.l.Peek()

	switch tok.Kind {
	case types.IDENT:
		var x ast.Expression = p.ident()
		for p.l.PeekIs(types.PERIOD) {
			p.l.Lex()
			field := p.ident()
			x = &ast.ElementOf{Loc: ast.Loc{Location: types.Join(x.Span(), field.Span())}, Type: x, Field: field}
		}
		return x
	case types.NUMBER:
		p.l.Lex()
		return &ast.Number{Loc: ast.Loc{Location: tok.Location}, Value: tok.Lit}
	case types.QUOTE:
		return p.stringLit()
	case types.LPAREN:
		p.l.Lex()
		defer p.withFloor(0)()
		x := p.parseType()
		p.l.LexExpecting(types.RPAREN)
		return x
	case types.IF:
		p.l.Lex()
		cond := p.parseExpression()
		p.l.LexExpecting(types.THEN)
		then := p.parseExpression()
		p.l.LexExpecting(types.ELSE)
		els := p.parseExpression()
		return &ast.Conditional{
			Loc:  ast.Loc{Location: types.Join(tok.Location, els.Span())},
			Cond: cond,
			Then: then,
			Else: els,
		}
	case types.FUN:
		p.l.Lex()
		params := p.parameters()
		if len(params) == 0 {
			panic(p.unexpected(errors.ExpectedToken{
				Expected: []types.TokenKind{types.IDENT, types.LPAREN},
				Got:      p.l.Peek(),
			}))
		}
		p.l.LexExpecting(types.FATARROW)
		body := p.parseExpression()
		return &ast.Lambda{
			Loc:    ast.Loc{Location: types.Join(tok.Location, body.Span())},
			Params: params,
			Body:   body,
		}
	}

	panic(p.unexpected(errors.ExpectedExpression{Got: tok}))
}

// stringLit parses a string literal. Raw runs and interpolations alternate
// as the lexer produces them.
func (p *Parser) stringLit() *ast.StringLit {
	open := p.l.LexExpecting(types.QUOTE)

	var parts []ast.StringPart
	for {
		tok := p.l.Lex()
		switch tok.Kind {
		case types.STRINGCONTENT:
			parts = append(parts, &ast.StringContent{Loc: ast.Loc{Location: tok.Location}, Text: tok.Lit})
		case types.LBRACE:
			restore := p.withFloor(0)
			x := p.parseExpression()
			restore()
			rbrace := p.l.LexExpecting(types.RBRACE)
			parts = append(parts, &ast.Interpolation{
				Loc: ast.Loc{Location: types.Join(tok.Location, rbrace.Location)},
				X:   x,
			})
		case types.QUOTE:
			return &ast.StringLit{Loc: ast.Loc{Location: types.Join(open.Location, tok.Location)}, Parts: parts}
		default:
			panic(errors.ExpectedToken{
				Expected: []types.TokenKind{types.STRINGCONTENT, types.LBRACE, types.QUOTE},
				Got:      tok,
			})
		}
	}
}
