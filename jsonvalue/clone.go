package jsonvalue

// Clone deep-copies the map[string]any / []any structure of v. Leaves and
// values of other types are shared.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			out[k] = Clone(mv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = Clone(ev)
		}
		return out
	default:
		return v
	}
}

// Compact returns a copy of v without undefined object members. Undefined
// array elements become null.
func Compact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			if IsUndefined(mv) {
				continue
			}
			out[k] = Compact(mv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			if IsUndefined(ev) {
				continue
			}
			out[i] = Compact(ev)
		}
		return out
	default:
		return v
	}
}
