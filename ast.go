package jsonpath

import (
	"strconv"
	"strings"
)

// Query is a parsed JSONPath query. It is immutable and safe to evaluate
// concurrently against any number of documents.
type Query struct {
	// Relative is true for queries rooted at the current node '@', which
	// only occur inside filter expressions.
	Relative bool
	Segments []Segment
}

// Segment applies its selectors, in order, to every input node (child
// segment) or to every input node and all of its descendants (descendant
// segment).
type Segment struct {
	Descendant bool
	Selectors  []Selector
}

// Selector is one of NameSelector, WildcardSelector, IndexSelector,
// SliceSelector or FilterSelector.
type Selector interface {
	isSelector()
	String() string
}

type (
	// NameSelector selects the object member with the exact name.
	NameSelector string

	// WildcardSelector selects every array element or object member.
	WildcardSelector struct{}

	// IndexSelector selects one array element. Negative indices count from
	// the end of the array.
	IndexSelector int64

	// SliceSelector selects array elements from Start up to End, stepping by
	// Step. Nil bounds take the RFC 9535 defaults for the sign of Step.
	SliceSelector struct {
		Start *int64
		End   *int64
		Step  *int64
	}

	// FilterSelector selects the children for which Expr holds.
	FilterSelector struct {
		Expr LogicalExpr
	}
)

func (NameSelector) isSelector()     {}
func (WildcardSelector) isSelector() {}
func (IndexSelector) isSelector()    {}
func (SliceSelector) isSelector()    {}
func (FilterSelector) isSelector()   {}

// LogicalExpr is one of OrExpr, AndExpr, NotExpr, ComparisonExpr, TestExpr or
// FunctionExpr.
type LogicalExpr interface {
	isLogicalExpr()
	String() string
}

type (
	// OrExpr holds when any operand holds.
	OrExpr []LogicalExpr

	// AndExpr holds when every operand holds.
	AndExpr []LogicalExpr

	// NotExpr negates its operand.
	NotExpr struct {
		Expr LogicalExpr
	}

	// ComparisonExpr compares two comparables.
	ComparisonExpr struct {
		Op    CompareOp
		Left  Comparable
		Right Comparable
	}

	// TestExpr holds when Query selects at least one node.
	TestExpr struct {
		Query *Query
	}

	// FunctionExpr holds when a logical function returns true.
	FunctionExpr struct {
		Call FunctionCall
	}
)

func (OrExpr) isLogicalExpr()         {}
func (AndExpr) isLogicalExpr()        {}
func (NotExpr) isLogicalExpr()        {}
func (ComparisonExpr) isLogicalExpr() {}
func (TestExpr) isLogicalExpr()       {}
func (FunctionExpr) isLogicalExpr()   {}

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEqual CompareOp = iota + 1
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "CompareOp(" + strconv.Itoa(int(op)) + ")"
	}
}

// Comparable is one of LiteralComparable, QueryComparable or
// FunctionComparable.
type Comparable interface {
	isComparable()
	String() string
}

type (
	// LiteralComparable is a string, float64, bool or nil literal.
	LiteralComparable struct {
		Value any
	}

	// QueryComparable is a singular query; it resolves to its single node's
	// value or to nothing.
	QueryComparable struct {
		Query *Query
	}

	// FunctionComparable is a call to a value-returning function.
	FunctionComparable struct {
		Call FunctionCall
	}
)

func (LiteralComparable) isComparable()  {}
func (QueryComparable) isComparable()    {}
func (FunctionComparable) isComparable() {}

// Function names one of the built-in filter functions.
type Function int

const (
	FuncLength Function = iota + 1
	FuncCount
	FuncMatch
	FuncSearch
	FuncValue
)

var functionsByName = map[string]Function{
	"length": FuncLength,
	"count":  FuncCount,
	"match":  FuncMatch,
	"search": FuncSearch,
	"value":  FuncValue,
}

func (f Function) String() string {
	switch f {
	case FuncLength:
		return "length"
	case FuncCount:
		return "count"
	case FuncMatch:
		return "match"
	case FuncSearch:
		return "search"
	case FuncValue:
		return "value"
	default:
		return "Function(" + strconv.Itoa(int(f)) + ")"
	}
}

// arity is the number of arguments the function takes.
func (f Function) arity() int {
	switch f {
	case FuncMatch, FuncSearch:
		return 2
	default:
		return 1
	}
}

// logical reports whether the function returns a boolean and so may stand
// alone as a filter test; the others return values and must be compared.
func (f Function) logical() bool {
	return f == FuncMatch || f == FuncSearch
}

// FunctionCall is a call to a built-in function.
type FunctionCall struct {
	Name Function
	Args []Argument
}

// Argument is one of LiteralArgument, QueryArgument or FunctionArgument.
type Argument interface {
	isArgument()
	String() string
}

type (
	LiteralArgument struct {
		Value any
	}

	QueryArgument struct {
		Query *Query
	}

	FunctionArgument struct {
		Call FunctionCall
	}
)

func (LiteralArgument) isArgument()  {}
func (QueryArgument) isArgument()    {}
func (FunctionArgument) isArgument() {}

// IsSingular reports whether the query can select at most one node: it has
// only child segments holding a single name or index selector.
func (q *Query) IsSingular() bool {
	for _, seg := range q.Segments {
		if seg.Descendant || len(seg.Selectors) != 1 {
			return false
		}
		switch seg.Selectors[0].(type) {
		case NameSelector, IndexSelector:
		default:
			return false
		}
	}
	return true
}

// String renders the query in canonical bracket notation. Parsing the result
// yields an equal query.
func (q *Query) String() string {
	var b strings.Builder
	if q.Relative {
		b.WriteByte('@')
	} else {
		b.WriteByte('$')
	}
	for _, seg := range q.Segments {
		b.WriteString(seg.String())
	}
	return b.String()
}

func (s Segment) String() string {
	var b strings.Builder
	if s.Descendant {
		b.WriteString("..")
	}
	b.WriteByte('[')
	for i, sel := range s.Selectors {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(sel.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (n NameSelector) String() string {
	return quoteString(string(n))
}

func (WildcardSelector) String() string {
	return "*"
}

func (i IndexSelector) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (s SliceSelector) String() string {
	var b strings.Builder
	if s.Start != nil {
		b.WriteString(strconv.FormatInt(*s.Start, 10))
	}
	b.WriteByte(':')
	if s.End != nil {
		b.WriteString(strconv.FormatInt(*s.End, 10))
	}
	if s.Step != nil {
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(*s.Step, 10))
	}
	return b.String()
}

func (f FilterSelector) String() string {
	return "?" + f.Expr.String()
}

func (e OrExpr) String() string {
	return joinExprs(e, " || ")
}

func (e AndExpr) String() string {
	return joinExprs(e, " && ")
}

func (e NotExpr) String() string {
	return "!(" + e.Expr.String() + ")"
}

func (e ComparisonExpr) String() string {
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}

func (e TestExpr) String() string {
	return e.Query.String()
}

func (e FunctionExpr) String() string {
	return e.Call.String()
}

func (c LiteralComparable) String() string {
	return formatLiteral(c.Value)
}

func (c QueryComparable) String() string {
	return c.Query.String()
}

func (c FunctionComparable) String() string {
	return c.Call.String()
}

func (c FunctionCall) String() string {
	var b strings.Builder
	b.WriteString(c.Name.String())
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (a LiteralArgument) String() string {
	return formatLiteral(a.Value)
}

func (a QueryArgument) String() string {
	return a.Query.String()
}

func (a FunctionArgument) String() string {
	return a.Call.String()
}

// joinExprs parenthesizes nested or/and operands so precedence survives a
// round trip through the parser.
func joinExprs(exprs []LogicalExpr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		switch e.(type) {
		case OrExpr, AndExpr:
			parts[i] = "(" + e.String() + ")"
		default:
			parts[i] = e.String()
		}
	}
	return strings.Join(parts, sep)
}

func formatLiteral(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(value)
	case string:
		return quoteString(value)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	default:
		return "null"
	}
}

// quoteString renders s as a single-quoted string literal the lexer accepts.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789abcdef"[r>>4])
				b.WriteByte("0123456789abcdef"[r&0xF])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
