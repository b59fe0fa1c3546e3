// Package jsonpath implements RFC 9535 JSONPath queries over decoded JSON
// documents.
//
// A query is lexed, parsed into an immutable [Query] and evaluated against a
// document built from map[string]any, yaml.MapSlice, []any, strings, numbers
// (any Go numeric type or json.Number), booleans and nil. Evaluation yields a
// node list: matched values in document order, each with the normalized path
// that locates it.
//
// Supported syntax:
//   - Root `$`, child `.name` / `['name']`, descendant `..`
//   - Name, wildcard `*`, index (negative counts from the end),
//     slice `start:end:step`, and multiple selectors `[a,b]`
//   - Filters `[?<expr>]` with `||`, `&&`, `!`, parentheses, the comparison
//     operators `== != < <= > >=`, existence tests and the functions
//     length, count, match, search and value
//
// Parsing reports errors wrapping [ErrLexical] or [ErrSyntax]. Evaluation never
// fails: type mismatches, absent operands and bad regular expressions yield
// false or empty results.
//
// Regular expressions given to match and search use Go's regexp syntax (RE2)
// rather than the I-Regexp dialect of RFC 9485.
package jsonpath
