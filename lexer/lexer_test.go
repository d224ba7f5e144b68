package lexer

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/leanparse/errors"
	"github.com/pontaoski/leanparse/types"
)

func kinds(t *testing.T, src string) []types.TokenKind {
	t.Helper()
	toks, err := NewLexer(src, "test.lean").Tokens()
	if err != nil {
		t.Fatalf("Tokens(%q) failed: %v", src, err)
	}
	var ret []types.TokenKind
	for _, tok := range toks {
		ret = append(ret, tok.Kind)
	}
	return ret
}

func sameKinds(a, b []types.TokenKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []types.TokenKind
	}{
		{"empty", "", []types.TokenKind{types.EOF}},
		{"keywords", "if then else fun", []types.TokenKind{types.IF, types.THEN, types.ELSE, types.FUN, types.EOF}},
		{"hash commands", "#check #eval #reduce", []types.TokenKind{types.CHECK, types.EVAL, types.REDUCE, types.EOF}},
		{"def", "def x := 1", []types.TokenKind{types.DEF, types.IDENT, types.ASSIGN, types.NUMBER, types.EOF}},
		{"punctuation", "( ) : , | . => →", []types.TokenKind{
			types.LPAREN, types.RPAREN, types.COLON, types.COMMA, types.BAR,
			types.PERIOD, types.FATARROW, types.ARROW, types.EOF,
		}},
		{"ascii arrow", "a -> b", []types.TokenKind{types.IDENT, types.ARROW, types.IDENT, types.EOF}},
		{"operators", "+ - * = < >", []types.TokenKind{
			types.PLUS, types.MINUS, types.STAR, types.EQUALS, types.LESS, types.GREATER, types.EOF,
		}},
		{"comment", "x -- the rest is ignored := 1\ny", []types.TokenKind{types.IDENT, types.IDENT, types.EOF}},
		{"comment at eof", "x --", []types.TokenKind{types.IDENT, types.EOF}},
		{"field access", "Nat.succ", []types.TokenKind{types.IDENT, types.PERIOD, types.IDENT, types.EOF}},
		{"keyword prefix is identifier", "defs ends", []types.TokenKind{types.IDENT, types.IDENT, types.EOF}},
		{"modifiers", "noncomputable partial private protected unsafe", []types.TokenKind{
			types.NONCOMPUTABLE, types.PARTIAL, types.PRIVATE, types.PROTECTED, types.UNSAFE, types.EOF,
		}},
		{"minus then number", "x-1", []types.TokenKind{types.IDENT, types.MINUS, types.NUMBER, types.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(t, tt.src)
			if !sameKinds(got, tt.want) {
				t.Errorf("kinds(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestIdentifierCharacterClass(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"foo", "foo"},
		{"Foo1!", "Foo1!"},
		{"_x", "_x"},
		{"a_b", "a_b"},
		{"^caret", "^caret"},
		{"[br]", "[br]"},
		{"x'", "x"},
	}

	for _, tt := range tests {
		tok := NewLexer(tt.src, "test.lean").Lex()
		if tok.Kind != types.IDENT || tok.Lit != tt.want {
			t.Errorf("Lex(%q) = %s, want IDENT %q", tt.src, tok, tt.want)
		}
	}
}

func TestStringInterpolation(t *testing.T) {
	got := kinds(t, `"a{1+1}b"`)
	want := []types.TokenKind{
		types.QUOTE, types.STRINGCONTENT, types.LBRACE, types.NUMBER, types.PLUS,
		types.NUMBER, types.RBRACE, types.STRINGCONTENT, types.QUOTE, types.EOF,
	}
	if !sameKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestStringContentIsRaw(t *testing.T) {
	toks, err := NewLexer(`"def -- x  y" z`, "test.lean").Tokens()
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Kind != types.STRINGCONTENT || toks[1].Lit != "def -- x  y" {
		t.Fatalf("content token = %s", repr.String(toks[1]))
	}
	if toks[3].Kind != types.IDENT || toks[3].Lit != "z" {
		t.Fatalf("token after string = %s", repr.String(toks[3]))
	}
}

func TestNestedStrings(t *testing.T) {
	got := kinds(t, `"x{f "y{z}"}w"`)
	want := []types.TokenKind{
		types.QUOTE, types.STRINGCONTENT, types.LBRACE, types.IDENT,
		types.QUOTE, types.STRINGCONTENT, types.LBRACE, types.IDENT, types.RBRACE, types.QUOTE,
		types.RBRACE, types.STRINGCONTENT, types.QUOTE, types.EOF,
	}
	if !sameKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestPositions(t *testing.T) {
	l := NewLexer("def\n  x := 1", "test.lean")
	l.Lex()
	tok := l.Lex()
	if tok.Location.From.Line != 2 || tok.Location.From.Column != 3 || tok.Location.From.Offset != 6 {
		t.Fatalf("x position = %s offset %d", tok.Location.From, tok.Location.From.Offset)
	}
	if tok.Location.To.Offset != 7 {
		t.Fatalf("x end offset = %d, want 7", tok.Location.To.Offset)
	}
}

func TestPeek(t *testing.T) {
	l := NewLexer("open Foo", "test.lean")
	if !l.PeekIs(types.OPEN) {
		t.Fatalf("Peek = %s, want open", l.Peek())
	}
	if tok := l.Lex(); tok.Kind != types.OPEN {
		t.Fatalf("Lex after Peek = %s", tok)
	}
	if tok := l.LexExpecting(types.IDENT); tok.Lit != "Foo" {
		t.Fatalf("LexExpecting = %s", tok)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
		check  func(error) bool
	}{
		{"illegal character", "x @ y", 2, func(err error) bool { _, ok := err.(errors.LexError); return ok }},
		{"unknown hash word", "#print x", 0, func(err error) bool { _, ok := err.(errors.LexError); return ok }},
		{"unterminated string", `x "abc`, 2, func(err error) bool { _, ok := err.(errors.UnterminatedString); return ok }},
		{"unterminated interpolation", `"ab{x + 1`, 3, func(err error) bool { _, ok := err.(errors.UnterminatedInterpolation); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.src, "test.lean").Tokens()
			if err == nil {
				t.Fatalf("Tokens(%q) succeeded", tt.src)
			}
			cause := tracerr.Unwrap(err)
			if !tt.check(cause) {
				t.Fatalf("error = %T %v", cause, cause)
			}
			if off, ok := errors.Offset(cause); !ok || off != tt.offset {
				t.Fatalf("offset = %d, want %d", off, tt.offset)
			}
		})
	}
}

func TestLexExpectingFailure(t *testing.T) {
	defer func() {
		r := recover()
		e, ok := r.(errors.ExpectedToken)
		if !ok {
			t.Fatalf("recovered %v, want ExpectedToken", r)
		}
		if e.Got.Kind != types.NUMBER {
			t.Fatalf("Got = %s", e.Got)
		}
	}()
	NewLexer("1", "test.lean").LexExpecting(types.IDENT)
}

func TestPeekDefersLexErrors(t *testing.T) {
	l := NewLexer("x @", "test.lean")
	l.Lex()
	if !l.PeekIs(types.ILLEGAL) {
		t.Fatalf("Peek = %s, want ILLEGAL", l.Peek())
	}
	if !l.PeekIs(types.ILLEGAL) {
		t.Fatal("second Peek lost the ILLEGAL token")
	}

	defer func() {
		e, ok := recover().(errors.LexError)
		if !ok {
			t.Fatal("Lex after a failed Peek did not raise LexError")
		}
		if off, _ := errors.Offset(e); off != 2 {
			t.Fatalf("offset = %d, want 2", off)
		}
	}()
	l.Lex()
}
