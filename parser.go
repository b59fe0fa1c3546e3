package jsonpath

import (
	"strconv"

	"github.com/jacoelho/jsonpath/internal/number"
)

// maxNestingDepth bounds parentheses, negations, nested filters and nested
// function calls so hostile input fails to parse instead of exhausting the
// call stack.
const maxNestingDepth = 128

var comparisonOps = map[tokenType]CompareOp{
	tokenEqual:        OpEqual,
	tokenNotEqual:     OpNotEqual,
	tokenLess:         OpLess,
	tokenLessEqual:    OpLessEqual,
	tokenGreater:      OpGreater,
	tokenGreaterEqual: OpGreaterEqual,
}

// parserState is a cursor over the token stream with one token of lookahead.
type parserState struct {
	tokens []token
	pos    int
	depth  int
}

// Parse parses an absolute JSONPath query. The whole input must be consumed.
// Errors wrap ErrLexical or ErrSyntax.
func Parse(text string) (*Query, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, err
	}

	if tokens[0].spaced {
		return nil, syntaxError(0, "leading blank space")
	}
	if last := tokens[len(tokens)-1]; last.spaced {
		return nil, syntaxError(last.pos, "trailing blank space")
	}

	state := parserState{tokens: tokens}
	query, err := state.parseQuery(tokenRoot)
	if err != nil {
		return nil, err
	}

	if tok := state.current(); tok.typ != tokenEOF {
		return nil, syntaxError(tok.pos, "unexpected %s after query", tok.typ)
	}

	return query, nil
}

func (p *parserState) parseQuery(root tokenType) (*Query, error) {
	tok := p.current()
	if tok.typ != root {
		return nil, syntaxError(tok.pos, "expected %s, got %s", root, tok.typ)
	}
	p.advance()

	query := &Query{Relative: root == tokenCurrent}
	for {
		seg, ok, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		if !ok {
			return query, nil
		}
		query.Segments = append(query.Segments, seg)
	}
}

// parseSegment reports ok=false without consuming anything when the current
// token cannot start a segment.
func (p *parserState) parseSegment() (Segment, bool, error) {
	switch tok := p.current(); tok.typ {
	case tokenDot:
		p.advance()
		sel, err := p.parseShorthand(tok)
		if err != nil {
			return Segment{}, false, err
		}
		return Segment{Selectors: []Selector{sel}}, true, nil
	case tokenDotDot:
		p.advance()
		if next := p.current(); next.typ == tokenLBracket && !next.spaced {
			sels, err := p.parseBracketedSelection()
			if err != nil {
				return Segment{}, false, err
			}
			return Segment{Descendant: true, Selectors: sels}, true, nil
		}
		sel, err := p.parseShorthand(tok)
		if err != nil {
			return Segment{}, false, err
		}
		return Segment{Descendant: true, Selectors: []Selector{sel}}, true, nil
	case tokenLBracket:
		sels, err := p.parseBracketedSelection()
		if err != nil {
			return Segment{}, false, err
		}
		return Segment{Selectors: sels}, true, nil
	default:
		return Segment{}, false, nil
	}
}

// parseShorthand parses the wildcard or member name directly after '.' or
// '..'; keywords are valid member names in this position.
func (p *parserState) parseShorthand(after token) (Selector, error) {
	tok := p.current()
	if tok.spaced {
		return nil, syntaxError(tok.pos, "blank space after %s", after.typ)
	}

	switch tok.typ {
	case tokenWildcard:
		p.advance()
		return WildcardSelector{}, nil
	case tokenName, tokenTrue, tokenFalse, tokenNull:
		p.advance()
		return NameSelector(tok.literal), nil
	default:
		return nil, syntaxError(tok.pos, "expected name or '*' after %s, got %s", after.typ, tok.typ)
	}
}

func (p *parserState) parseBracketedSelection() ([]Selector, error) {
	p.advance() // '['

	var sels []Selector
	for {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)

		switch tok := p.advance(); tok.typ {
		case tokenComma:
			continue
		case tokenRBracket:
			return sels, nil
		default:
			return nil, syntaxError(tok.pos, "expected ',' or ']', got %s", tok.typ)
		}
	}
}

func (p *parserState) parseSelector() (Selector, error) {
	switch tok := p.current(); tok.typ {
	case tokenString:
		p.advance()
		return NameSelector(tok.literal), nil
	case tokenWildcard:
		p.advance()
		return WildcardSelector{}, nil
	case tokenQuestion:
		p.advance()
		expr, err := p.parseLogicalOr()
		if err != nil {
			return nil, err
		}
		return FilterSelector{Expr: expr}, nil
	case tokenInt:
		p.advance()
		n, err := parseInteger(tok)
		if err != nil {
			return nil, err
		}
		if p.current().typ == tokenColon {
			return p.parseSlice(&n)
		}
		return IndexSelector(n), nil
	case tokenColon:
		return p.parseSlice(nil)
	default:
		return nil, syntaxError(tok.pos, "expected selector, got %s", tok.typ)
	}
}

// parseSlice parses the remainder of a slice selector; the cursor is at the
// first ':'.
func (p *parserState) parseSlice(start *int64) (Selector, error) {
	p.advance() // ':'
	slice := SliceSelector{Start: start}

	if tok := p.current(); tok.typ == tokenInt {
		p.advance()
		end, err := parseInteger(tok)
		if err != nil {
			return nil, err
		}
		slice.End = &end
	}

	if p.current().typ != tokenColon {
		return slice, nil
	}
	p.advance()

	if tok := p.current(); tok.typ == tokenInt {
		p.advance()
		step, err := parseInteger(tok)
		if err != nil {
			return nil, err
		}
		slice.Step = &step
	}

	return slice, nil
}

func (p *parserState) parseLogicalOr() (LogicalExpr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	if p.current().typ != tokenOr {
		return left, nil
	}

	operands := OrExpr{left}
	for p.current().typ == tokenOr {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}

	return operands, nil
}

func (p *parserState) parseLogicalAnd() (LogicalExpr, error) {
	left, err := p.parseBasic()
	if err != nil {
		return nil, err
	}
	if p.current().typ != tokenAnd {
		return left, nil
	}

	operands := AndExpr{left}
	for p.current().typ == tokenAnd {
		p.advance()
		right, err := p.parseBasic()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}

	return operands, nil
}

// parseBasic parses a parenthesized expression, a negation, a comparison or
// a test expression.
func (p *parserState) parseBasic() (LogicalExpr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch tok := p.current(); tok.typ {
	case tokenNot:
		p.advance()
		operand, err := p.parseNegated()
		if err != nil {
			return nil, err
		}
		return NotExpr{Expr: operand}, nil
	case tokenLParen:
		return p.parseParen()
	case tokenRoot, tokenCurrent:
		query, err := p.parseQuery(tok.typ)
		if err != nil {
			return nil, err
		}
		if _, ok := comparisonOps[p.current().typ]; !ok {
			return TestExpr{Query: query}, nil
		}
		if !query.IsSingular() {
			return nil, syntaxError(tok.pos, "comparison requires a singular query")
		}
		return p.parseComparison(QueryComparable{Query: query})
	case tokenName:
		call, err := p.parseFunctionCall()
		if err != nil {
			return nil, err
		}
		if _, ok := comparisonOps[p.current().typ]; !ok {
			if !call.Name.logical() {
				return nil, syntaxError(tok.pos, "result of %s() must be compared", call.Name)
			}
			return FunctionExpr{Call: call}, nil
		}
		if call.Name.logical() {
			return nil, syntaxError(tok.pos, "result of %s() cannot be compared", call.Name)
		}
		return p.parseComparison(FunctionComparable{Call: call})
	default:
		literal, ok := p.parseLiteral()
		if !ok {
			return nil, syntaxError(tok.pos, "expected filter expression, got %s", tok.typ)
		}
		if _, ok := comparisonOps[p.current().typ]; !ok {
			return nil, syntaxError(tok.pos, "literal must be compared")
		}
		return p.parseComparison(LiteralComparable{Value: literal})
	}
}

// parseNegated parses what follows '!': a parenthesized expression or a
// test expression.
func (p *parserState) parseNegated() (LogicalExpr, error) {
	switch tok := p.current(); tok.typ {
	case tokenLParen:
		return p.parseParen()
	case tokenRoot, tokenCurrent:
		query, err := p.parseQuery(tok.typ)
		if err != nil {
			return nil, err
		}
		return TestExpr{Query: query}, nil
	case tokenName:
		call, err := p.parseFunctionCall()
		if err != nil {
			return nil, err
		}
		if !call.Name.logical() {
			return nil, syntaxError(tok.pos, "result of %s() must be compared", call.Name)
		}
		return FunctionExpr{Call: call}, nil
	default:
		return nil, syntaxError(tok.pos, "expected '(' or test expression after '!', got %s", tok.typ)
	}
}

func (p *parserState) parseParen() (LogicalExpr, error) {
	p.advance() // '('
	expr, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if tok := p.advance(); tok.typ != tokenRParen {
		return nil, syntaxError(tok.pos, "missing closing ')', got %s", tok.typ)
	}
	return expr, nil
}

// parseComparison parses the operator and right operand; the cursor is at
// the operator.
func (p *parserState) parseComparison(left Comparable) (LogicalExpr, error) {
	op := comparisonOps[p.advance().typ]
	right, err := p.parseComparable()
	if err != nil {
		return nil, err
	}
	return ComparisonExpr{Op: op, Left: left, Right: right}, nil
}

func (p *parserState) parseComparable() (Comparable, error) {
	switch tok := p.current(); tok.typ {
	case tokenRoot, tokenCurrent:
		query, err := p.parseQuery(tok.typ)
		if err != nil {
			return nil, err
		}
		if !query.IsSingular() {
			return nil, syntaxError(tok.pos, "comparison requires a singular query")
		}
		return QueryComparable{Query: query}, nil
	case tokenName:
		call, err := p.parseFunctionCall()
		if err != nil {
			return nil, err
		}
		if call.Name.logical() {
			return nil, syntaxError(tok.pos, "result of %s() cannot be compared", call.Name)
		}
		return FunctionComparable{Call: call}, nil
	default:
		literal, ok := p.parseLiteral()
		if !ok {
			return nil, syntaxError(tok.pos, "expected comparable, got %s", tok.typ)
		}
		return LiteralComparable{Value: literal}, nil
	}
}

func (p *parserState) parseFunctionCall() (FunctionCall, error) {
	if err := p.enter(); err != nil {
		return FunctionCall{}, err
	}
	defer p.leave()

	nameTok := p.advance()
	fn, ok := functionsByName[nameTok.literal]
	if !ok {
		return FunctionCall{}, syntaxError(nameTok.pos, "unknown function %q", nameTok.literal)
	}

	if tok := p.advance(); tok.typ != tokenLParen || tok.spaced {
		return FunctionCall{}, syntaxError(tok.pos, "expected '(' directly after %s", fn)
	}

	call := FunctionCall{Name: fn}
	if p.current().typ == tokenRParen {
		p.advance()
	} else {
		for {
			arg, err := p.parseArgument()
			if err != nil {
				return FunctionCall{}, err
			}
			call.Args = append(call.Args, arg)

			tok := p.advance()
			if tok.typ == tokenRParen {
				break
			}
			if tok.typ != tokenComma {
				return FunctionCall{}, syntaxError(tok.pos, "expected ',' or ')', got %s", tok.typ)
			}
		}
	}

	if len(call.Args) != fn.arity() {
		return FunctionCall{}, syntaxError(nameTok.pos, "%s() takes %d argument(s), got %d", fn, fn.arity(), len(call.Args))
	}

	return call, nil
}

func (p *parserState) parseArgument() (Argument, error) {
	switch tok := p.current(); tok.typ {
	case tokenRoot, tokenCurrent:
		query, err := p.parseQuery(tok.typ)
		if err != nil {
			return nil, err
		}
		return QueryArgument{Query: query}, nil
	case tokenName:
		call, err := p.parseFunctionCall()
		if err != nil {
			return nil, err
		}
		return FunctionArgument{Call: call}, nil
	default:
		literal, ok := p.parseLiteral()
		if !ok {
			return nil, syntaxError(tok.pos, "expected function argument, got %s", tok.typ)
		}
		return LiteralArgument{Value: literal}, nil
	}
}

// parseLiteral consumes a string, number, boolean or null token.
func (p *parserState) parseLiteral() (any, bool) {
	tok := p.current()
	var value any
	switch tok.typ {
	case tokenString:
		value = tok.literal
	case tokenInt, tokenNumber:
		f, err := strconv.ParseFloat(tok.literal, 64)
		if err != nil {
			return nil, false
		}
		value = f
	case tokenTrue:
		value = true
	case tokenFalse:
		value = false
	case tokenNull:
		value = nil
	default:
		return nil, false
	}
	p.advance()
	return value, true
}

func (p *parserState) enter() error {
	p.depth++
	if p.depth > maxNestingDepth {
		return syntaxError(p.current().pos, "expression nested deeper than %d levels", maxNestingDepth)
	}
	return nil
}

func (p *parserState) leave() {
	p.depth--
}

func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// parseInteger converts an int token to an index or slice bound. Values stay
// int64 so the whole I-JSON range is usable on 32-bit platforms.
func parseInteger(tok token) (int64, error) {
	n, err := number.ParseSafeInteger(tok.literal)
	if err != nil {
		return 0, syntaxError(tok.pos, "invalid integer: %v", err)
	}
	return n, nil
}
