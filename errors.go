package jsonpath

import (
	"errors"
	"fmt"
)

var (
	// ErrLexical indicates the query text contains an invalid character,
	// an unterminated or badly escaped string, or a malformed number.
	ErrLexical = errors.New("jsonpath: lexical error")

	// ErrSyntax indicates the token stream does not form a valid query.
	ErrSyntax = errors.New("jsonpath: syntax error")
)

func lexicalError(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", ErrLexical, fmt.Sprintf(format, args...), pos)
}

func syntaxError(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", ErrSyntax, fmt.Sprintf(format, args...), pos)
}
