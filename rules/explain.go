package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/schemaform/i18n"
	"github.com/reoring/schemaform/jsonvalue"
)

// pathRef builds JSON Pointer paths in a chain-safe way.
type pathRef struct {
	parts []string
}

func (p pathRef) Field(name string) pathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Explain evaluates the tree the way Validate does but reports every failing
// leaf instead of stopping at the first. Issues come out in a stable order:
// keys are visited sorted, parts of And rules in declaration order.
func Explain(n Node, value any) Issues {
	var e explainer
	e.node(n, value, jsonvalue.Undefined, pathRef{}, "")
	return e.issues
}

type explainer struct {
	issues Issues
}

func (e *explainer) node(n Node, subject, parent any, at pathRef, key string) {
	switch t := n.(type) {
	case *Rule:
		e.rule(t, subject, parent, at, key)
	case Group:
		e.group(t, subject, parent, at)
	case *Deferred:
		e.group(t.Resolve(), subject, parent, at)
	}
}

func (e *explainer) group(g Group, subject, parent any, at pathRef) {
	for _, key := range g.Keys() {
		child := g[key]
		if r, ok := child.(*Rule); ok {
			e.rule(r, subject, parent, at, key)
			continue
		}
		if !isGroupLike(child) {
			continue
		}
		if key == Each {
			elems, ok := jsonvalue.Elements(subject)
			if !ok {
				continue
			}
			for i, el := range elems {
				e.node(child, el, subject, at.Index(i), key)
			}
			continue
		}
		if jsonvalue.IsAbsent(subject) {
			continue
		}
		e.node(child, jsonvalue.Member(subject, key), subject, at.Field(key), key)
	}
}

func (e *explainer) rule(r *Rule, subject, parent any, at pathRef, key string) {
	if len(r.Parts) > 0 {
		for _, p := range r.Parts {
			e.rule(p, subject, parent, at, key)
		}
		return
	}
	if r.Check(subject, parent) {
		return
	}
	code := CodeFor(r.Kind)
	if r.Code != nil {
		code = r.Code(subject)
	}
	params := PublicParams(r.Params)
	e.issues = AppendIssues(e.issues, Issue{
		Path:    at.Pointer(),
		Code:    code,
		Message: i18n.T(code, messageData(params)),
		Params:  params,
		Rule:    key,
		Kind:    r.Kind,
	})
}

// PublicParams returns the rule parameters that are plain JSON data: the
// owning schema, nested rules and compiled matchers are left out.
func PublicParams(params map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range params {
		if k == "schema" || k == "rules" {
			continue
		}
		if plain(v) {
			out[k] = v
		}
	}
	return out
}

func plain(v any) bool {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int64, []string:
		return true
	case []any:
		for _, e := range t {
			if !plain(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range t {
			if !plain(e) {
				return false
			}
		}
		return true
	}
	return jsonvalue.IsNumber(v)
}

func messageData(params map[string]any) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case []string:
			out[k] = strings.Join(t, ", ")
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
