package stages

import (
	"strings"
)

// alias fills Target from the first non-empty Sources path when Target is
// missing or empty. Paths are dot separated.
type alias struct {
	Target  string
	Sources []string
}

func applyAliases(m map[string]any, table []alias) {
	for _, a := range table {
		if v, ok := lookupPath(m, a.Target); ok && !isEmpty(v) {
			continue
		}
		for _, src := range a.Sources {
			if v, ok := lookupPath(m, src); ok && !isEmpty(v) {
				setPath(m, a.Target, v)
				break
			}
		}
	}
}

func lookupPath(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(m map[string]any, path string, v any) {
	keys := strings.Split(path, ".")
	cur := m
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = v
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// unwrap returns the object nested under key when the model wrapped its
// answer, otherwise m itself.
func unwrap(m map[string]any, key string) map[string]any {
	if inner, ok := m[key].(map[string]any); ok {
		return inner
	}
	return m
}

// objects returns the map elements of the list under key, dropping anything
// else, and writes the filtered list back.
func objects(m map[string]any, key string) []map[string]any {
	list, ok := m[key].([]any)
	if !ok {
		if _, present := m[key]; present {
			delete(m, key)
		}
		return nil
	}
	kept := make([]any, 0, len(list))
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			kept = append(kept, obj)
			out = append(out, obj)
		}
	}
	m[key] = kept
	return out
}

// stringValue reads a string field, "" when absent or not a string.
func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
