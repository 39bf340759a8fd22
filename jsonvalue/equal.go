package jsonvalue

import (
	"fmt"
	"reflect"

	j "github.com/goccy/go-json"
)

// CanonicalKey renders v as canonical JSON text: object keys sorted, every
// numeric kind normalised to float64 and undefined members dropped. Two values
// are structurally equal exactly when their canonical keys are equal, so
// "1" and 1 differ while {} and {} do not.
func CanonicalKey(v any) string {
	if IsUndefined(v) {
		return "undefined"
	}
	b, err := j.Marshal(normalize(v))
	if err != nil {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return string(b)
}

// Equal reports structural JSON equality.
func Equal(a, b any) bool {
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}
	return CanonicalKey(a) == CanonicalKey(b)
}

func normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool:
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			if IsUndefined(mv) {
				continue
			}
			out[k] = normalize(mv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = normalize(ev)
		}
		return out
	}
	if f, ok := Float(v); ok {
		return f
	}
	if IsObject(v) {
		out := map[string]any{}
		for _, k := range Keys(v) {
			out[k] = normalize(Member(v, k))
		}
		return out
	}
	if elems, ok := Elements(v); ok {
		return normalize(elems)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}
