package rules

import (
	"sort"
	"sync"

	"github.com/reoring/schemaform/jsonvalue"
)

// Each is the reserved group key whose group applies to every element of an
// array value.
const Each = "$each"

// KindAnd is the kind of a rule combining parts of different kinds.
const KindAnd = "and"

// Node is one entry of a rule tree: a *Rule, a Group, a *Deferred, or the
// Delete tombstone (merge sources only).
type Node interface {
	isNode()
}

// Predicate reports whether a value satisfies one keyword. Predicates never
// panic on unexpected shapes; they pass or fail.
type Predicate func(v any) bool

// Rule is a leaf predicate tagged with the keyword it checks. Params always
// holds "schema", the schema node that produced the rule.
type Rule struct {
	Kind   string
	Params map[string]any
	// Attached rules are only enforced when the value containing the subject
	// is an object.
	Attached bool
	Test     Predicate
	// Parts is set on rules built by And; every part must hold.
	Parts []*Rule
	// Code, when set, picks the issue code for a failing value instead of
	// the code registered for Kind.
	Code func(v any) string
}

func (*Rule) isNode() {}

// Check evaluates r for subject v found inside parent.
func (r *Rule) Check(v, parent any) bool {
	if r == nil {
		return true
	}
	if len(r.Parts) > 0 {
		for _, p := range r.Parts {
			if !p.Check(v, parent) {
				return false
			}
		}
		return true
	}
	if r.Attached && !jsonvalue.IsObject(parent) {
		return true
	}
	if r.Test == nil {
		return true
	}
	return r.Test(v)
}

// Group maps rule names and property names to nested nodes.
type Group map[string]Node

func (Group) isNode() {}

// Keys lists the group's keys in sorted order.
func (g Group) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Deferred is a group built on first use. The compiler emits one where a
// schema refers back to a node on its own recursion path, so compiling a
// cyclic schema terminates and each level unfolds only when data reaches it.
type Deferred struct {
	once  sync.Once
	build func() Group
	group Group
}

func (*Deferred) isNode() {}

// Defer returns a group node whose content is produced by build on first use.
func Defer(build func() Group) *Deferred { return &Deferred{build: build} }

// Resolve builds the group if needed and returns it.
func (d *Deferred) Resolve() Group {
	d.once.Do(func() {
		if d.build != nil {
			d.group = d.build()
		}
		if d.group == nil {
			d.group = Group{}
		}
	})
	return d.group
}

type tombstone struct{}

func (tombstone) isNode() {}

// Delete marks a key for removal in Merge and Override sources.
var Delete Node = tombstone{}

// asGroup returns the group behind a Group or *Deferred.
func asGroup(n Node) (Group, bool) {
	switch t := n.(type) {
	case Group:
		return t, true
	case *Deferred:
		return t.Resolve(), true
	default:
		return nil, false
	}
}

func isGroupLike(n Node) bool {
	switch n.(type) {
	case Group, *Deferred:
		return true
	}
	return false
}

// And combines rules so that every part must hold. Parts of a single shared
// kind keep that kind; mixed parts get KindAnd. Nested And rules are flattened.
func And(parts ...*Rule) *Rule {
	var flat []*Rule
	for _, p := range parts {
		if p == nil {
			continue
		}
		if len(p.Parts) > 0 {
			flat = append(flat, p.Parts...)
			continue
		}
		flat = append(flat, p)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	kind := flat[0].Kind
	for _, p := range flat[1:] {
		if p.Kind != kind {
			kind = KindAnd
			break
		}
	}
	return &Rule{
		Kind:   kind,
		Params: map[string]any{"rules": flat, "schema": flat[0].Params["schema"]},
		Parts:  flat,
	}
}

// Or builds a rule of the given kind that holds when any part holds. Parts are
// tested directly against the subject; attachment is not consulted.
func Or(kind string, params map[string]any, parts ...*Rule) *Rule {
	return &Rule{
		Kind:   kind,
		Params: params,
		Test: func(v any) bool {
			for _, p := range parts {
				if p != nil && (p.Test == nil || p.Test(v)) {
					return true
				}
			}
			return false
		},
	}
}

// Lookup follows keys through nested groups and returns the node found there.
func Lookup(n Node, keys ...string) (Node, bool) {
	cur := n
	for _, k := range keys {
		g, ok := asGroup(cur)
		if !ok {
			return nil, false
		}
		cur, ok = g[k]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}
