package lexer

import (
	"io"
	"io/ioutil"
	"unicode"
	"unicode/utf8"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/leanparse/errors"
	"github.com/pontaoski/leanparse/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/leanparse", "lexer")

type mode int

const (
	codeMode mode = iota
	stringMode
	interpolationMode
)

type frame struct {
	mode mode
	open types.Position
}

type Lexer struct {
	src    string
	pos    types.Position
	frames []frame
	peeked *types.Token

	// failed holds a lex error hit while peeking. The peeked token is then
	// ILLEGAL and the error is raised once that token is consumed.
	failed error
}

func NewLexer(src string, filename string) *Lexer {
	return &Lexer{
		src:    src,
		pos:    types.Position{Line: 1, Column: 1, Filename: filename},
		frames: []frame{{mode: codeMode}},
	}
}

// FromReader reads r to the end and lexes the result.
func FromReader(r io.Reader, filename string) (*Lexer, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewLexer(string(data), filename), nil
}

func (l *Lexer) top() frame {
	return l.frames[len(l.frames)-1]
}

func (l *Lexer) push(m mode, open types.Position) {
	plog.Tracef("%s: enter mode %d", open, m)
	l.frames = append(l.frames, frame{mode: m, open: open})
}

func (l *Lexer) pop() {
	plog.Tracef("%s: leave mode %d", l.pos, l.top().mode)
	l.frames = l.frames[:len(l.frames)-1]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos.Offset >= len(l.src) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos.Offset:])
}

func (l *Lexer) peekRuneAt(n int) rune {
	off := l.pos.Offset
	for i := 0; i < n; i++ {
		if off >= len(l.src) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	if size == 0 {
		return -1
	}
	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return r
}

func (l *Lexer) token(kind types.TokenKind, from types.Position) types.Token {
	return types.Token{
		Kind:     kind,
		Lit:      l.src[from.Offset:l.pos.Offset],
		Location: types.Span{From: from, To: l.pos},
	}
}

func identStart(r rune) bool {
	return r >= 'A' && r <= 'z'
}

func identPart(r rune) bool {
	return identStart(r) || isDigit(r) || r == '!'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) skipTrivia() {
	for {
		r, _ := l.peekRune()
		switch {
		case r == '-' && l.peekRuneAt(1) == '-':
			for r != '\n' && r != -1 {
				l.advance()
				r, _ = l.peekRune()
			}
		case r != -1 && unicode.IsSpace(r):
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) Peek() types.Token {
	if l.peeked != nil {
		return *l.peeked
	}

	tok := l.lexDeferred()
	l.peeked = &tok

	return tok
}

func (l *Lexer) lexDeferred() (tok types.Token) {
	from := l.pos
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				panic(r)
			}
			plog.Tracef("%s: deferring %v", from, err)
			l.failed = err
			tok = types.Token{Kind: types.ILLEGAL, Location: types.SingleCharSpan(from)}
		}
	}()
	return l.Lex()
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (l *Lexer) LexExpecting(k ...types.TokenKind) types.Token {
	token := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token
		}
	}

	panic(errors.ExpectedToken{
		Expected: k,
		Got:      token,
	})
}

// Lex returns the next token. Lexical errors are raised as panics carrying
// a value from the errors package. Peek never raises them: it returns an
// ILLEGAL token and the error surfaces when that token is lexed.
func (l *Lexer) Lex() types.Token {
	if l.peeked != nil {
		if l.failed != nil {
			panic(l.failed)
		}
		defer func() { l.peeked = nil }()
		return *l.peeked
	}

	if l.top().mode == stringMode {
		return l.lexStringPiece()
	}

	l.skipTrivia()
	from := l.pos
	r := l.advance()

	switch r {
	case -1:
		if f := l.top(); f.mode == interpolationMode {
			panic(errors.UnterminatedInterpolation{Location: f.open})
		}
		return l.token(types.EOF, from)
	case '"':
		l.push(stringMode, from)
		return l.token(types.QUOTE, from)
	case '}':
		if l.top().mode == interpolationMode {
			l.pop()
		}
		return l.token(types.RBRACE, from)
	case ':':
		if next, _ := l.peekRune(); next == '=' {
			l.advance()
			return l.token(types.ASSIGN, from)
		}
		return l.token(types.COLON, from)
	case '=':
		if next, _ := l.peekRune(); next == '>' {
			l.advance()
			return l.token(types.FATARROW, from)
		}
		return l.token(types.EQUALS, from)
	case '-':
		if next, _ := l.peekRune(); next == '>' {
			l.advance()
			return l.token(types.ARROW, from)
		}
		return l.token(types.MINUS, from)
	}

	data := map[rune]types.TokenKind{
		'{': types.LBRACE,
		'(': types.LPAREN,
		')': types.RPAREN,
		',': types.COMMA,
		'|': types.BAR,
		'.': types.PERIOD,
		'+': types.PLUS,
		'*': types.STAR,
		'<': types.LESS,
		'>': types.GREATER,
		'→': types.ARROW,
	}

	if kind, ok := data[r]; ok {
		return l.token(kind, from)
	}

	switch {
	case isDigit(r):
		for next, _ := l.peekRune(); isDigit(next); next, _ = l.peekRune() {
			l.advance()
		}
		return l.token(types.NUMBER, from)
	case identStart(r):
		for next, _ := l.peekRune(); identPart(next); next, _ = l.peekRune() {
			l.advance()
		}
		tok := l.token(types.IDENT, from)
		if kind, ok := types.Keywords[tok.Lit]; ok {
			tok.Kind = kind
		}
		return tok
	case r == '#':
		for next, _ := l.peekRune(); identPart(next); next, _ = l.peekRune() {
			l.advance()
		}
		tok := l.token(types.ILLEGAL, from)
		if kind, ok := types.Keywords[tok.Lit]; ok {
			tok.Kind = kind
			return tok
		}
	}

	panic(errors.LexError{Char: r, Location: from})
}

// lexStringPiece produces one token inside a string literal: the closing
// quote, an interpolation opener, or a maximal run of raw content.
func (l *Lexer) lexStringPiece() types.Token {
	from := l.pos

	switch r, _ := l.peekRune(); r {
	case -1:
		panic(errors.UnterminatedString{Location: l.top().open})
	case '"':
		l.advance()
		l.pop()
		return l.token(types.QUOTE, from)
	case '{':
		l.advance()
		l.push(interpolationMode, from)
		return l.token(types.LBRACE, from)
	}

	for r, _ := l.peekRune(); r != -1 && r != '"' && r != '{'; r, _ = l.peekRune() {
		l.advance()
	}
	return l.token(types.STRINGCONTENT, from)
}

// Tokens lexes the remaining input up to and including EOF.
func (l *Lexer) Tokens() (toks []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	for {
		tok := l.Lex()
		toks = append(toks, tok)
		if tok.Kind == types.EOF {
			return toks, nil
		}
	}
}
