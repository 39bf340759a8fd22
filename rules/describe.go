package rules

// Describe renders a rule tree as plain data for printing. Groups become
// objects, leaves become {"kind", "params"} and deferred groups are shown as
// {"kind": "deferred"} without being built.
func Describe(n Node) any {
	switch t := n.(type) {
	case *Rule:
		out := map[string]any{"kind": t.Kind}
		if params := PublicParams(t.Params); len(params) > 0 {
			out["params"] = params
		}
		if t.Attached {
			out["attached"] = true
		}
		if len(t.Parts) > 0 {
			parts := make([]any, len(t.Parts))
			for i, p := range t.Parts {
				parts[i] = Describe(p)
			}
			out["parts"] = parts
		}
		return out
	case Group:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = Describe(v)
		}
		return out
	case *Deferred:
		return map[string]any{"kind": "deferred"}
	default:
		return nil
	}
}
