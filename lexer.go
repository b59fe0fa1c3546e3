package jsonpath

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jacoelho/jsonpath/internal/number"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenRoot
	tokenCurrent
	tokenDot
	tokenDotDot
	tokenLBracket
	tokenRBracket
	tokenLParen
	tokenRParen
	tokenWildcard
	tokenQuestion
	tokenComma
	tokenColon
	tokenEqual
	tokenNotEqual
	tokenLess
	tokenLessEqual
	tokenGreater
	tokenGreaterEqual
	tokenAnd
	tokenOr
	tokenNot
	tokenString
	tokenInt
	tokenNumber
	tokenTrue
	tokenFalse
	tokenNull
	tokenName
)

var tokenNames = [...]string{
	tokenEOF:          "end of query",
	tokenRoot:         "'$'",
	tokenCurrent:      "'@'",
	tokenDot:          "'.'",
	tokenDotDot:       "'..'",
	tokenLBracket:     "'['",
	tokenRBracket:     "']'",
	tokenLParen:       "'('",
	tokenRParen:       "')'",
	tokenWildcard:     "'*'",
	tokenQuestion:     "'?'",
	tokenComma:        "','",
	tokenColon:        "':'",
	tokenEqual:        "'=='",
	tokenNotEqual:     "'!='",
	tokenLess:         "'<'",
	tokenLessEqual:    "'<='",
	tokenGreater:      "'>'",
	tokenGreaterEqual: "'>='",
	tokenAnd:          "'&&'",
	tokenOr:           "'||'",
	tokenNot:          "'!'",
	tokenString:       "string",
	tokenInt:          "integer",
	tokenNumber:       "number",
	tokenTrue:         "'true'",
	tokenFalse:        "'false'",
	tokenNull:         "'null'",
	tokenName:         "name",
}

func (t tokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// token is immutable once produced. literal holds the decoded text for
// strings and the raw text for names and numbers.
type token struct {
	typ     tokenType
	literal string
	pos     int
	spaced  bool // blank space precedes the token
}

var twoCharTokens = map[string]tokenType{
	"..": tokenDotDot,
	"&&": tokenAnd,
	"||": tokenOr,
	"==": tokenEqual,
	"!=": tokenNotEqual,
	"<=": tokenLessEqual,
	">=": tokenGreaterEqual,
}

var oneCharTokens = map[byte]tokenType{
	'$': tokenRoot,
	'@': tokenCurrent,
	'.': tokenDot,
	'[': tokenLBracket,
	']': tokenRBracket,
	'(': tokenLParen,
	')': tokenRParen,
	'*': tokenWildcard,
	'?': tokenQuestion,
	',': tokenComma,
	':': tokenColon,
	'<': tokenLess,
	'>': tokenGreater,
	'!': tokenNot,
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2+1)
	pos := 0
	spaced := false

	for pos < len(input) {
		if isBlank(input[pos]) {
			spaced = true
			pos++
			continue
		}

		if pos+1 < len(input) {
			if typ, ok := twoCharTokens[input[pos:pos+2]]; ok {
				tokens = append(tokens, token{typ: typ, pos: pos, spaced: spaced})
				pos += 2
				spaced = false
				continue
			}
		}

		if typ, ok := oneCharTokens[input[pos]]; ok {
			tokens = append(tokens, token{typ: typ, pos: pos, spaced: spaced})
			pos++
			spaced = false
			continue
		}

		var (
			tok     token
			nextPos int
			err     error
		)

		switch ch := input[pos]; {
		case ch == '\'' || ch == '"':
			tok, nextPos, err = lexString(input, pos)
		case ch == '-' || isDigit(ch):
			tok, nextPos, err = lexNumber(input, pos)
		default:
			r, width := utf8.DecodeRuneInString(input[pos:])
			if !isNameFirst(r) || (r == utf8.RuneError && width == 1) {
				return nil, lexicalError(pos, "unexpected character %q", r)
			}
			tok, nextPos = lexName(input, pos)
		}
		if err != nil {
			return nil, err
		}

		tok.spaced = spaced
		tokens = append(tokens, tok)
		pos = nextPos
		spaced = false
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input), spaced: spaced})
	return tokens, nil
}

func lexName(input string, start int) (token, int) {
	pos := start
	for pos < len(input) {
		r, width := utf8.DecodeRuneInString(input[pos:])
		if !isNameChar(r) || (r == utf8.RuneError && width == 1) {
			break
		}
		pos += width
	}

	literal := input[start:pos]
	switch literal {
	case "true":
		return token{typ: tokenTrue, literal: literal, pos: start}, pos
	case "false":
		return token{typ: tokenFalse, literal: literal, pos: start}, pos
	case "null":
		return token{typ: tokenNull, literal: literal, pos: start}, pos
	default:
		return token{typ: tokenName, literal: literal, pos: start}, pos
	}
}

// lexNumber accepts the RFC 9535 int and number productions:
//
//	int    = "0" / (["-"] DIGIT1 *DIGIT)
//	number = (int / "-0") [ frac ] [ exp ]
func lexNumber(input string, start int) (token, int, error) {
	pos := start
	if input[pos] == '-' {
		pos++
	}

	digitStart := pos
	for pos < len(input) && isDigit(input[pos]) {
		pos++
	}

	switch {
	case pos == digitStart:
		return token{}, 0, lexicalError(start, "expected digit after '-'")
	case input[digitStart] == '0' && pos-digitStart > 1:
		return token{}, 0, lexicalError(start, "leading zeros are not allowed")
	}

	typ := tokenInt
	if input[start:pos] == "-0" {
		typ = tokenNumber
	}

	if pos+1 < len(input) && input[pos] == '.' && isDigit(input[pos+1]) {
		typ = tokenNumber
		pos++
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
	}

	if pos < len(input) && (input[pos] == 'e' || input[pos] == 'E') {
		typ = tokenNumber
		pos++
		if pos < len(input) && (input[pos] == '+' || input[pos] == '-') {
			pos++
		}
		expStart := pos
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
		if pos == expStart {
			return token{}, 0, lexicalError(start, "expected digit in exponent")
		}
	}

	literal := input[start:pos]
	if typ == tokenInt {
		if _, err := number.ParseSafeInteger(literal); err != nil {
			return token{}, 0, lexicalError(start, "invalid integer %s: %v", literal, err)
		}
	} else {
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil || math.IsInf(f, 0) {
			if err == nil {
				err = errors.New("value out of range")
			}
			return token{}, 0, lexicalError(start, "invalid number %s: %v", literal, err)
		}
	}

	return token{typ: typ, literal: literal, pos: start}, pos, nil
}

func lexString(input string, start int) (token, int, error) {
	quote := input[start]
	var b strings.Builder

	pos := start + 1
	for pos < len(input) {
		ch := input[pos]
		if ch == quote {
			return token{typ: tokenString, literal: b.String(), pos: start}, pos + 1, nil
		}

		if ch == '\\' {
			next, err := lexEscape(input, pos, &b)
			if err != nil {
				return token{}, 0, err
			}
			pos = next
			continue
		}

		r, width := utf8.DecodeRuneInString(input[pos:])
		if r < 0x20 {
			return token{}, 0, lexicalError(pos, "control character %U in string", r)
		}
		if r == utf8.RuneError && width == 1 {
			return token{}, 0, lexicalError(pos, "invalid UTF-8 in string")
		}
		b.WriteRune(r)
		pos += width
	}

	return token{}, 0, lexicalError(start, "unterminated string")
}

// lexEscape decodes the escape sequence starting at the backslash in
// input[pos] and returns the offset after it.
func lexEscape(input string, pos int, b *strings.Builder) (int, error) {
	if pos+1 >= len(input) {
		return 0, lexicalError(pos, "unterminated escape sequence")
	}

	switch escaped := input[pos+1]; escaped {
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case '/', '\\', '"', '\'':
		b.WriteByte(escaped)
	case 'u':
		return lexUnicodeEscape(input, pos, b)
	default:
		return 0, lexicalError(pos, "invalid escape sequence \\%c", escaped)
	}

	return pos + 2, nil
}

func lexUnicodeEscape(input string, pos int, b *strings.Builder) (int, error) {
	high, ok := hex4(input, pos+2)
	if !ok {
		return 0, lexicalError(pos, "invalid unicode escape")
	}
	next := pos + 6

	switch {
	case !utf16.IsSurrogate(high):
		b.WriteRune(high)
		return next, nil
	case high >= 0xDC00:
		return 0, lexicalError(pos, "unpaired low surrogate")
	}

	if next+1 >= len(input) || input[next] != '\\' || input[next+1] != 'u' {
		return 0, lexicalError(pos, "unpaired high surrogate")
	}
	low, ok := hex4(input, next+2)
	if !ok || low < 0xDC00 || low > 0xDFFF {
		return 0, lexicalError(pos, "invalid low surrogate")
	}

	b.WriteRune(utf16.DecodeRune(high, low))
	return next + 6, nil
}

func hex4(input string, pos int) (rune, bool) {
	if pos+4 > len(input) {
		return 0, false
	}

	var r rune
	for _, ch := range []byte(input[pos : pos+4]) {
		var v byte
		switch {
		case ch >= '0' && ch <= '9':
			v = ch - '0'
		case ch >= 'a' && ch <= 'f':
			v = ch - 'a' + 10
		case ch >= 'A' && ch <= 'F':
			v = ch - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | rune(v)
	}
	return r, true
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isNameFirst follows RFC 9535:
//
//	name-first = ALPHA / "_" / %x80-D7FF / %xE000-10FFFF
func isNameFirst(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		r == '_' ||
		(r >= 0x80 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0x10FFFF)
}

func isNameChar(r rune) bool {
	return isNameFirst(r) || (r >= '0' && r <= '9')
}
