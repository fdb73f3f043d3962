package document

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Project converts an arbitrary JSON value into host values: strings,
// bools, nil, float64, []any and map[string]any, recursing without a depth
// limit. Values outside the JSON value model are a programming error.
func Project(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case bool:
		return val
	case float64:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			panic(fmt.Sprintf("document: invalid number %q", string(val)))
		}
		return f
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Project(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Project(item)
		}
		return out
	}
	panic(fmt.Sprintf("document: %T is not a json value", v))
}

// ProjectObject projects every member of an object.
func ProjectObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = Project(v)
	}
	return out
}
