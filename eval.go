package jsonpath

import (
	"cmp"
	"fmt"
	"regexp"

	"github.com/jacoelho/jsonpath/internal/number"
	"github.com/jacoelho/jsonpath/internal/stack"
)

// Node is a value selected by a query together with its location in the
// document.
type Node struct {
	Value any
	Path  Path
}

// location links a node to its parent so descending into a document costs
// O(1) per step; a Path is only built for nodes that are returned.
type location struct {
	parent *location
	elem   PathElem
	depth  int
}

func (l *location) child(elem PathElem) *location {
	depth := 1
	if l != nil {
		depth = l.depth + 1
	}
	return &location{parent: l, elem: elem, depth: depth}
}

func (l *location) path() Path {
	if l == nil {
		return Path{}
	}
	p := make(Path, l.depth)
	for cur := l; cur != nil; cur = cur.parent {
		p[cur.depth-1] = cur.elem
	}
	return p
}

type node struct {
	value any
	loc   *location
}

type patternKey struct {
	pattern  string
	anchored bool
}

// evalContext is owned by one top-level evaluation. The regexp cache maps
// pattern text to its compiled form, or to nil when it does not compile.
type evalContext struct {
	root        any
	current     any
	currentPath *location
	patterns    map[patternKey]*regexp.Regexp
}

// Evaluate applies the query to document and returns the selected nodes in
// order. Duplicates are kept. The document is not modified.
func (q *Query) Evaluate(document any) []Node {
	ctx := &evalContext{
		root:     document,
		current:  document,
		patterns: make(map[patternKey]*regexp.Regexp),
	}

	nodes := ctx.evalQuery(q)
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{Value: n.value, Path: n.loc.path()}
	}
	return out
}

func (c *evalContext) evalQuery(q *Query) []node {
	nodes := []node{{value: c.root}}
	if q.Relative {
		nodes = []node{{value: c.current, loc: c.currentPath}}
	}

	for _, seg := range q.Segments {
		if len(nodes) == 0 {
			break
		}
		nodes = c.evalSegment(seg, nodes)
	}
	return nodes
}

func (c *evalContext) evalSegment(seg Segment, input []node) []node {
	var out []node
	if !seg.Descendant {
		for _, n := range input {
			out = c.applySelectors(seg.Selectors, n, out)
		}
		return out
	}

	// Preorder: a node, then its children in document order. The stack is
	// empty again after each input node.
	work := stack.NewWithCapacity[node](len(input))
	for _, n := range input {
		work.Push(n)
		for !work.IsEmpty() {
			visited, _ := work.Pop()
			out = c.applySelectors(seg.Selectors, visited, out)
			work.PushReversed(children(visited)...)
		}
	}
	return out
}

func (c *evalContext) applySelectors(sels []Selector, n node, out []node) []node {
	for _, sel := range sels {
		out = c.applySelector(sel, n, out)
	}
	return out
}

func (c *evalContext) applySelector(sel Selector, n node, out []node) []node {
	switch s := sel.(type) {
	case NameSelector:
		if v, ok := lookup(n.value, string(s)); ok {
			out = append(out, node{value: v, loc: n.loc.child(NameElem(string(s)))})
		}
	case WildcardSelector:
		out = append(out, children(n)...)
	case IndexSelector:
		arr, ok := n.value.([]any)
		if !ok {
			break
		}
		i := int64(s)
		if i < 0 {
			i += int64(len(arr))
		}
		if i >= 0 && i < int64(len(arr)) {
			out = append(out, node{value: arr[i], loc: n.loc.child(IndexElem(int(i)))})
		}
	case SliceSelector:
		arr, ok := n.value.([]any)
		if !ok {
			break
		}
		for _, i := range sliceIndices(s, len(arr)) {
			out = append(out, node{value: arr[i], loc: n.loc.child(IndexElem(i))})
		}
	case FilterSelector:
		for _, child := range children(n) {
			if c.filter(s.Expr, child) {
				out = append(out, child)
			}
		}
	default:
		panic(fmt.Sprintf("jsonpath: unhandled selector %T", sel))
	}
	return out
}

// children lists array elements in index order or object members in member
// order; scalars have none.
func children(n node) []node {
	if arr, ok := n.value.([]any); ok {
		out := make([]node, len(arr))
		for i, v := range arr {
			out[i] = node{value: v, loc: n.loc.child(IndexElem(i))}
		}
		return out
	}

	ms, ok := members(n.value)
	if !ok {
		return nil
	}
	out := make([]node, len(ms))
	for i, m := range ms {
		out[i] = node{value: m.value, loc: n.loc.child(NameElem(m.name))}
	}
	return out
}

// sliceIndices follows RFC 9535 section 2.3.4.2: defaults depend on the sign
// of step, negative bounds count from the end, bounds are clamped, and a zero
// step selects nothing.
func sliceIndices(s SliceSelector, length int) []int {
	step := int64(1)
	if s.Step != nil {
		step = *s.Step
	}
	if step == 0 || length == 0 {
		return nil
	}

	// Bounds may exceed the int range on 32-bit platforms, so clamp in int64.
	n := int64(length)
	normalize := func(i int64) int64 {
		if i < 0 {
			return n + i
		}
		return i
	}

	var indices []int
	if step > 0 {
		start, end := int64(0), n
		if s.Start != nil {
			start = normalize(*s.Start)
		}
		if s.End != nil {
			end = normalize(*s.End)
		}
		lower := min(max(start, 0), n)
		upper := min(max(end, 0), n)
		for i := lower; i < upper; i += step {
			indices = append(indices, int(i))
		}
		return indices
	}

	start, end := n-1, -n-1
	if s.Start != nil {
		start = normalize(*s.Start)
	}
	if s.End != nil {
		end = normalize(*s.End)
	}
	upper := min(max(start, -1), n-1)
	lower := min(max(end, -1), n-1)
	for i := upper; lower < i; i += step {
		indices = append(indices, int(i))
	}
	return indices
}

// filter binds the current node to child and evaluates expr.
func (c *evalContext) filter(expr LogicalExpr, child node) bool {
	inner := *c
	inner.current = child.value
	inner.currentPath = child.loc
	return inner.test(expr)
}

func (c *evalContext) test(expr LogicalExpr) bool {
	switch e := expr.(type) {
	case OrExpr:
		for _, sub := range e {
			if c.test(sub) {
				return true
			}
		}
		return false
	case AndExpr:
		for _, sub := range e {
			if !c.test(sub) {
				return false
			}
		}
		return true
	case NotExpr:
		return !c.test(e.Expr)
	case ComparisonExpr:
		return compare(e.Op, c.resolve(e.Left), c.resolve(e.Right))
	case TestExpr:
		return len(c.evalQuery(e.Query)) > 0
	case FunctionExpr:
		r := c.call(e.Call)
		b, ok := r.value.(bool)
		return r.ok && ok && b
	default:
		panic(fmt.Sprintf("jsonpath: unhandled expression %T", expr))
	}
}

// operand is the value of a comparable. ok is false when a singular query
// selected nothing, which equals only another absent operand.
type operand struct {
	value any
	ok    bool
}

func present(v any) operand {
	return operand{value: v, ok: true}
}

func (c *evalContext) resolve(comparable Comparable) operand {
	switch v := comparable.(type) {
	case LiteralComparable:
		return present(v.Value)
	case QueryComparable:
		return c.singular(v.Query)
	case FunctionComparable:
		return c.call(v.Call)
	default:
		panic(fmt.Sprintf("jsonpath: unhandled comparable %T", comparable))
	}
}

// singular resolves a query to the value of its only node.
func (c *evalContext) singular(q *Query) operand {
	nodes := c.evalQuery(q)
	if len(nodes) != 1 {
		return operand{}
	}
	return present(nodes[0].value)
}

func compare(op CompareOp, left, right operand) bool {
	switch op {
	case OpEqual:
		return equalOperands(left, right)
	case OpNotEqual:
		return !equalOperands(left, right)
	}

	if !left.ok || !right.ok {
		return false
	}

	if order, ok := number.Compare(left.value, right.value); ok {
		return orderHolds(op, order)
	}
	if number.IsNumber(left.value) {
		return false
	}

	ls, ok := left.value.(string)
	if !ok {
		return false
	}
	rs, ok := right.value.(string)
	if !ok {
		return false
	}
	return orderHolds(op, cmp.Compare(ls, rs))
}

func equalOperands(left, right operand) bool {
	if !left.ok || !right.ok {
		return left.ok == right.ok
	}
	return deepEqual(left.value, right.value)
}

func orderHolds(op CompareOp, order int) bool {
	switch op {
	case OpLess:
		return order < 0
	case OpLessEqual:
		return order <= 0
	case OpGreater:
		return order > 0
	case OpGreaterEqual:
		return order >= 0
	default:
		return false
	}
}
