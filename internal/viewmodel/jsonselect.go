package viewmodel

import (
	"encoding/json"
	"strconv"
)

// ResolveJSONPath walks path against root (the decoded JSON value: a
// map[string]any, []any, or scalar) and returns the longest valid
// prefix of path along with the value found there. When the full path
// no longer resolves (e.g. a key was removed by a later payload),
// resolvedPath is the closest ancestor still present, per spec §9 "JSON
// selection by key path".
func ResolveJSONPath(root any, path JSONSelector) (resolvedPath JSONSelector, value any) {
	cur := root
	resolved := make(JSONSelector, 0, len(path))

	for _, key := range path {
		next, ok := descend(cur, key)
		if !ok {
			return resolved, cur
		}
		cur = next
		resolved = append(resolved, key)
	}
	return resolved, cur
}

func descend(v any, key string) (any, bool) {
	switch val := v.(type) {
	case map[string]any:
		child, ok := val[key]
		return child, ok
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(val) {
			return nil, false
		}
		return val[idx], true
	case json.Number, string, float64, bool, nil:
		return nil, false
	default:
		return nil, false
	}
}

// JSONKeys returns the ordered keys (or indices, as strings) available
// one level below v, for rendering the current drill-down level's
// children. Object keys are returned in the order json.Decoder's
// UseNumber produces them only when v was decoded with an
// order-preserving decoder; map iteration order in Go is otherwise
// randomized, so callers needing stable ordering should sort the result.
func JSONKeys(v any) []string {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		return keys
	case []any:
		keys := make([]string, len(val))
		for i := range val {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	default:
		return nil
	}
}
