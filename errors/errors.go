package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/leanparse/types"
)

// LexError is raised for a character that cannot start any token.
type LexError struct {
	Char     rune
	Location types.Position
}

func (e LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at offset %d. %s", e.Char, e.Location.Offset, e.Location)
}

// ExpectedToken is raised when a specific keyword or punctuation was required.
type ExpectedToken struct {
	Expected []types.TokenKind
	Got      types.Token
}

func (e ExpectedToken) Error() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = fmt.Sprintf("%q", k.String())
	}
	var want string
	if len(names) == 1 {
		want = names[0]
	} else {
		want = "one of " + strings.Join(names, ", ")
	}
	return fmt.Sprintf("got %s, expected %s at offset %d. %s", e.Got, want, e.Got.Location.From.Offset, e.Got.Location)
}

type ExpectedExpression struct {
	Got types.Token
}

func (e ExpectedExpression) Error() string {
	return fmt.Sprintf("got %s, expected an expression at offset %d. %s", e.Got, e.Got.Location.From.Offset, e.Got.Location)
}

type ExpectedCommand struct {
	Got types.Token
}

func (e ExpectedCommand) Error() string {
	return fmt.Sprintf("got %s, expected a command at offset %d. %s", e.Got, e.Got.Location.From.Offset, e.Got.Location)
}

// UnterminatedString points at the opening quote of the string.
type UnterminatedString struct {
	Location types.Position
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("string opened at offset %d is never closed. %s", e.Location.Offset, e.Location)
}

// UnterminatedInterpolation points at the '{' that was never matched.
type UnterminatedInterpolation struct {
	Location types.Position
}

func (e UnterminatedInterpolation) Error() string {
	return fmt.Sprintf("interpolation opened at offset %d is never closed. %s", e.Location.Offset, e.Location)
}

// Offset returns the byte offset carried by any error of this package.
func Offset(err error) (int, bool) {
	switch e := err.(type) {
	case LexError:
		return e.Location.Offset, true
	case ExpectedToken:
		return e.Got.Location.From.Offset, true
	case ExpectedExpression:
		return e.Got.Location.From.Offset, true
	case ExpectedCommand:
		return e.Got.Location.From.Offset, true
	case UnterminatedString:
		return e.Location.Offset, true
	case UnterminatedInterpolation:
		return e.Location.Offset, true
	}
	return 0, false
}
