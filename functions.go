package jsonpath

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// call evaluates a built-in function. Arity was checked by the parser.
// Invalid argument shapes never fail: length and value fall back to null,
// count to 0, match and search to false.
func (c *evalContext) call(call FunctionCall) operand {
	switch call.Name {
	case FuncLength:
		return present(lengthOf(c.argument(call.Args[0])))
	case FuncCount:
		return present(c.count(call.Args[0]))
	case FuncMatch:
		return present(c.matches(call.Args[0], call.Args[1], true))
	case FuncSearch:
		return present(c.matches(call.Args[0], call.Args[1], false))
	case FuncValue:
		return present(c.value(call.Args[0]))
	default:
		panic(fmt.Sprintf("jsonpath: unhandled function %v", call.Name))
	}
}

// argument resolves an argument to a single value; a query argument must
// select exactly one node.
func (c *evalContext) argument(arg Argument) operand {
	switch a := arg.(type) {
	case LiteralArgument:
		return present(a.Value)
	case QueryArgument:
		return c.singular(a.Query)
	case FunctionArgument:
		return c.call(a.Call)
	default:
		panic(fmt.Sprintf("jsonpath: unhandled argument %T", arg))
	}
}

func lengthOf(arg operand) any {
	if !arg.ok {
		return nil
	}

	switch v := arg.value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case []any:
		return len(v)
	}

	if size, ok := objectSize(arg.value); ok {
		return size
	}
	return nil
}

func (c *evalContext) count(arg Argument) int {
	q, ok := arg.(QueryArgument)
	if !ok {
		return 0
	}
	return len(c.evalQuery(q.Query))
}

func (c *evalContext) value(arg Argument) any {
	q, ok := arg.(QueryArgument)
	if !ok {
		return nil
	}
	nodes := c.evalQuery(q.Query)
	if len(nodes) != 1 {
		return nil
	}
	return nodes[0].value
}

func (c *evalContext) matches(subject, pattern Argument, anchored bool) bool {
	s := c.argument(subject)
	p := c.argument(pattern)
	if !s.ok || !p.ok {
		return false
	}

	text, ok := s.value.(string)
	if !ok {
		return false
	}
	expr, ok := p.value.(string)
	if !ok {
		return false
	}

	re := c.compilePattern(expr, anchored)
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

// compilePattern caches compiled patterns for the lifetime of the evaluation,
// including patterns that fail to compile.
func (c *evalContext) compilePattern(pattern string, anchored bool) *regexp.Regexp {
	key := patternKey{pattern: pattern, anchored: anchored}
	if re, ok := c.patterns[key]; ok {
		return re
	}

	re, err := regexp.Compile(pattern)
	if err == nil && anchored {
		re, err = regexp.Compile(`\A(?:` + pattern + `)\z`)
	}
	if err != nil {
		re = nil
	}

	c.patterns[key] = re
	return re
}
