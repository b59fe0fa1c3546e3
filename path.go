package jsonpath

import (
	"strconv"
	"strings"
)

// PathElem is one step of a node's location: an object member name or an
// array index.
type PathElem struct {
	Name    string
	Index   int
	IsIndex bool
}

// NameElem returns the path step for object member name.
func NameElem(name string) PathElem {
	return PathElem{Name: name}
}

// IndexElem returns the path step for array index i.
func IndexElem(i int) PathElem {
	return PathElem{Index: i, IsIndex: true}
}

// Path is the sequence of steps from the document root to a node.
type Path []PathElem

// String returns the normalized path.
func (p Path) String() string {
	return FormatNormalizedPath(p)
}

// FormatNormalizedPath renders a path in canonical bracket notation, for
// example $['store']['book'][0]. Member names are single-quoted with only
// backslash and apostrophe escaped.
func FormatNormalizedPath(path Path) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, elem := range path {
		if elem.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(elem.Index))
			b.WriteByte(']')
			continue
		}

		b.WriteString("['")
		for i := 0; i < len(elem.Name); i++ {
			if c := elem.Name[i]; c == '\\' || c == '\'' {
				b.WriteByte('\\')
			}
			b.WriteByte(elem.Name[i])
		}
		b.WriteString("']")
	}
	return b.String()
}
