package jsonpath

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jsonpath/internal/number"
)

type member struct {
	name  string
	value any
}

// members lists an object's members in iteration order. Go maps carry no
// insertion order, so their members are visited by sorted name; ordered maps
// decoded by go-yaml keep their stored order.
func members(value any) ([]member, bool) {
	switch obj := value.(type) {
	case map[string]any:
		out := make([]member, 0, len(obj))
		for _, name := range slices.Sorted(maps.Keys(obj)) {
			out = append(out, member{name: name, value: obj[name]})
		}
		return out, true
	case yaml.MapSlice:
		out := make([]member, 0, len(obj))
		for _, item := range obj {
			out = append(out, member{name: memberName(item.Key), value: item.Value})
		}
		return out, true
	default:
		return nil, false
	}
}

// memberName renders YAML keys such as integers the way a JSON object key
// would read.
func memberName(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

func lookup(value any, name string) (any, bool) {
	switch obj := value.(type) {
	case map[string]any:
		v, ok := obj[name]
		return v, ok
	case yaml.MapSlice:
		for _, item := range obj {
			if memberName(item.Key) == name {
				return item.Value, true
			}
		}
	}
	return nil, false
}

func objectSize(value any) (int, bool) {
	switch obj := value.(type) {
	case map[string]any:
		return len(obj), true
	case yaml.MapSlice:
		return len(obj), true
	default:
		return 0, false
	}
}

// deepEqual compares document values structurally: numbers by value
// regardless of Go type, arrays element-wise, objects by member set.
func deepEqual(a, b any) bool {
	if order, ok := number.Compare(a, b); ok {
		return order == 0
	}
	if number.IsNumber(a) {
		return false
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}

	am, ok := members(a)
	if !ok {
		return false
	}
	if size, ok := objectSize(b); !ok || size != len(am) {
		return false
	}
	for _, m := range am {
		bv, ok := lookup(b, m.name)
		if !ok || !deepEqual(m.value, bv) {
			return false
		}
	}
	// Equal sizes only imply equal member sets without repeated names.
	bm, _ := members(b)
	for _, m := range bm {
		if _, ok := lookup(a, m.name); !ok {
			return false
		}
	}
	return true
}
