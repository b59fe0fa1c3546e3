package jsonpath

// Result is a matched value and the normalized path locating it.
type Result struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

// SelectFunc evaluates a compiled query against a document.
type SelectFunc func(document any) []any

// Select returns the values of the nodes the query selects in document.
func (q *Query) Select(document any) []any {
	nodes := q.Evaluate(document)
	values := make([]any, len(nodes))
	for i, n := range nodes {
		values[i] = n.Value
	}
	return values
}

// SelectNodes returns the selected values paired with their normalized paths.
func (q *Query) SelectNodes(document any) []Result {
	nodes := q.Evaluate(document)
	results := make([]Result, len(nodes))
	for i, n := range nodes {
		results[i] = Result{Path: n.Path.String(), Value: n.Value}
	}
	return results
}

// IsValid reports whether text parses as a JSONPath query. It agrees with
// Parse by construction.
func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// Select parses text and evaluates it against document. On a parse error the
// values are nil.
//
// Example:
//
//	titles, err := jsonpath.Select("$.store.book[?@.price < 10].title", doc)
func Select(text string, document any) ([]any, error) {
	q, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return q.Select(document), nil
}

// MustSelect is like Select but panics if text does not parse.
func MustSelect(text string, document any) []any {
	values, err := Select(text, document)
	if err != nil {
		panic(err)
	}
	return values
}

// SelectNodes parses text and returns the selected values with their
// normalized paths.
func SelectNodes(text string, document any) ([]Result, error) {
	q, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return q.SelectNodes(document), nil
}

// Compile parses text once and returns a function evaluating it against any
// document, avoiding repeated parsing of the same query.
func Compile(text string) (SelectFunc, error) {
	q, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return q.Select, nil
}

// MustCompile is like Compile but panics if text does not parse.
func MustCompile(text string) SelectFunc {
	fn, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return fn
}
