package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Offset   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	IDENT
	NUMBER

	// string literal pieces
	QUOTE
	STRINGCONTENT
	LBRACE
	RBRACE

	LPAREN
	RPAREN
	COLON
	ASSIGN
	COMMA
	BAR
	PERIOD
	FATARROW
	ARROW

	PLUS
	MINUS
	STAR
	EQUALS
	LESS
	GREATER

	OPEN
	NAMESPACE
	SECTION
	END
	INDUCTIVE
	WHERE
	INSTANCE
	DEF
	THEOREM
	EXAMPLE
	IF
	THEN
	ELSE
	FUN
	ABBREV
	CONSTANT
	AXIOM
	CLASS
	STRUCTURE
	EXTENDS
	NONCOMPUTABLE
	PARTIAL
	PRIVATE
	PROTECTED
	UNSAFE
	CHECK
	EVAL
	REDUCE

	tokenKindCount
)

var kindNames = [...]string{
	EOF:           "EOF",
	ILLEGAL:       "ILLEGAL",
	IDENT:         "IDENT",
	NUMBER:        "NUMBER",
	QUOTE:         `"`,
	STRINGCONTENT: "STRINGCONTENT",
	LBRACE:        "{",
	RBRACE:        "}",
	LPAREN:        "(",
	RPAREN:        ")",
	COLON:         ":",
	ASSIGN:        ":=",
	COMMA:         ",",
	BAR:           "|",
	PERIOD:        ".",
	FATARROW:      "=>",
	ARROW:         "→",
	PLUS:          "+",
	MINUS:         "-",
	STAR:          "*",
	EQUALS:        "=",
	LESS:          "<",
	GREATER:       ">",
	OPEN:          "open",
	NAMESPACE:     "namespace",
	SECTION:       "section",
	END:           "end",
	INDUCTIVE:     "inductive",
	WHERE:         "where",
	INSTANCE:      "instance",
	DEF:           "def",
	THEOREM:       "theorem",
	EXAMPLE:       "example",
	IF:            "if",
	THEN:          "then",
	ELSE:          "else",
	FUN:           "fun",
	ABBREV:        "abbrev",
	CONSTANT:      "constant",
	AXIOM:         "axiom",
	CLASS:         "class",
	STRUCTURE:     "structure",
	EXTENDS:       "extends",
	NONCOMPUTABLE: "noncomputable",
	PARTIAL:       "partial",
	PRIVATE:       "private",
	PROTECTED:     "protected",
	UNSAFE:        "unsafe",
	CHECK:         "#check",
	EVAL:          "#eval",
	REDUCE:        "#reduce",
}

func (t TokenKind) String() string {
	if t >= 0 && t < tokenKindCount {
		return kindNames[t]
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// IsKeyword reports whether t is one of the reserved words.
func (t TokenKind) IsKeyword() bool {
	return t >= OPEN && t <= REDUCE
}

// IsModifier reports whether t may prefix a declaration.
func (t TokenKind) IsModifier() bool {
	return t >= NONCOMPUTABLE && t <= UNSAFE
}

// Keywords maps every reserved lexeme to its kind. It is never written to.
var Keywords = map[string]TokenKind{}

func init() {
	for k := OPEN; k <= REDUCE; k++ {
		Keywords[kindNames[k]] = k
	}
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	from, to := a.From, b.To
	if b.From.Offset < from.Offset {
		from = b.From
	}
	if a.To.Offset > to.Offset {
		to = a.To
	}
	return Span{from, to}
}

type Token struct {
	Kind     TokenKind
	Lit      string
	Location Span
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, NUMBER, STRINGCONTENT:
		return fmt.Sprintf("%s %q", t.Kind, t.Lit)
	}
	return t.Kind.String()
}
