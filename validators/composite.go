package validators

import (
	"regexp"
	"sort"

	"github.com/reoring/schemaform/jsonschema"
	"github.com/reoring/schemaform/jsonvalue"
	"github.com/reoring/schemaform/rules"
)

// CompileFunc compiles a nested schema into a rule node. The compiler passes
// one that tracks the recursion path, so nested compilation of cyclic schemas
// terminates.
type CompileFunc func(s *jsonschema.Schema) rules.Node

func holds(n rules.Node, v any) bool { return rules.Validate(n, v) }

// IsObjectItems reports whether items is a single object-typed schema whose
// element rules live under the Each key rather than in the items rule.
func IsObjectItems(s *jsonschema.Schema) bool {
	if s == nil || s.IsTuple() || s.Items == nil {
		return false
	}
	t, ok := s.Items.SingleType()
	return ok && t == jsonvalue.TypeObject
}

// Items checks array elements against `items`. For object items it only
// asserts that every element is an object; for any other single schema every
// element must satisfy it; for a tuple element i must satisfy items[i] and
// elements past the tuple are left to AdditionalItems.
func Items(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	var test rules.Predicate
	switch {
	case IsObjectItems(s):
		test = func(v any) bool {
			elems, ok := jsonvalue.Elements(v)
			if !ok {
				return true
			}
			for _, e := range elems {
				if !jsonvalue.IsObject(e) {
					return false
				}
			}
			return true
		}
	case s.IsTuple():
		tuple := make([]rules.Node, len(s.TupleItems))
		for i, item := range s.TupleItems {
			tuple[i] = compile(item)
		}
		test = func(v any) bool {
			elems, ok := jsonvalue.Elements(v)
			if !ok {
				return true
			}
			for i, e := range elems {
				if i >= len(tuple) {
					break
				}
				if !holds(tuple[i], e) {
					return false
				}
			}
			return true
		}
	default:
		item := compile(s.Items)
		test = func(v any) bool {
			elems, ok := jsonvalue.Elements(v)
			if !ok {
				return true
			}
			for _, e := range elems {
				if !holds(item, e) {
					return false
				}
			}
			return true
		}
	}
	return newRule(KindItems, s, test)
}

// AdditionalItems checks elements past a tuple `items`. It is inert when
// `items` is a single schema.
func AdditionalItems(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	extra := s.AdditionalItems
	var sub rules.Node
	if extra.Bool == nil {
		sub = compile(extra)
	}
	return newRule(KindAdditionalItems, s, func(v any) bool {
		if !s.IsTuple() {
			return true
		}
		elems, ok := jsonvalue.Elements(v)
		if !ok || len(elems) <= len(s.TupleItems) {
			return true
		}
		switch {
		case extra.IsFalse():
			return false
		case extra.IsTrue():
			return true
		}
		for _, e := range elems[len(s.TupleItems):] {
			if !holds(sub, e) {
				return false
			}
		}
		return true
	})
}

// Contains requires at least one element to satisfy the schema, so an empty
// array fails. Non-arrays pass.
func Contains(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	sub := compile(s.Contains)
	return newRule(KindContains, s, func(v any) bool {
		elems, ok := jsonvalue.Elements(v)
		if !ok {
			return true
		}
		for _, e := range elems {
			if holds(sub, e) {
				return true
			}
		}
		return false
	})
}

// Dependencies checks, for every present key with a dependency, that the
// listed names are present too or that the object satisfies the schema.
func Dependencies(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	schemas := map[string]rules.Node{}
	for key, dep := range s.Dependencies {
		if dep.IsSchema() {
			schemas[key] = compile(dep.Schema)
		}
	}
	return newRule(KindDependencies, s, func(v any) bool {
		if !jsonvalue.IsObject(v) {
			return true
		}
		for _, key := range jsonvalue.Keys(v) {
			dep, ok := s.Dependencies[key]
			if !ok {
				continue
			}
			if dep.IsSchema() {
				if !holds(schemas[key], v) {
					return false
				}
				continue
			}
			for _, name := range dep.Required {
				if !jsonvalue.HasKey(v, name) {
					return false
				}
			}
		}
		return true
	})
}

type patternSchema struct {
	pattern string
	re      *regexp.Regexp
	node    rules.Node
}

// compilePatterns compiles `patternProperties` in sorted pattern order.
// Patterns that do not compile match every key; their errors are returned.
func compilePatterns(s *jsonschema.Schema, compile CompileFunc) ([]patternSchema, []error) {
	keys := make([]string, 0, len(s.PatternProperties))
	for p := range s.PatternProperties {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	var errs []error
	out := make([]patternSchema, 0, len(keys))
	for _, p := range keys {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, err)
		}
		ps := patternSchema{pattern: p, re: re}
		if compile != nil {
			ps.node = compile(s.PatternProperties[p])
		}
		out = append(out, ps)
	}
	return out, errs
}

func (p patternSchema) matches(key string) bool {
	return p.re == nil || p.re.MatchString(key)
}

func declared(s *jsonschema.Schema, key string) bool {
	_, ok := s.Properties[key]
	return ok
}

// PatternProperties validates each key's value against every pattern the key
// matches. When `additionalProperties` is false, a key that is neither
// declared nor matched by a pattern fails the check as well.
func PatternProperties(s *jsonschema.Schema, compile CompileFunc) (*rules.Rule, []error) {
	patterns, errs := compilePatterns(s, compile)
	closed := s.AdditionalProperties.IsFalse()
	return newRule(KindPatternProperties, s, func(v any) bool {
		if !jsonvalue.IsObject(v) {
			return true
		}
		for _, key := range jsonvalue.Keys(v) {
			matched := false
			for _, p := range patterns {
				if !p.matches(key) {
					continue
				}
				matched = true
				if !holds(p.node, jsonvalue.Member(v, key)) {
					return false
				}
			}
			if closed && !matched && !declared(s, key) {
				return false
			}
		}
		return true
	}, "patterns", sortedPatterns(patterns)), errs
}

func sortedPatterns(ps []patternSchema) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.pattern
	}
	return out
}

// AdditionalProperties constrains keys that are neither declared in
// `properties` nor matched by a `patternProperties` pattern: false forbids
// them, a schema validates their values, true allows them.
func AdditionalProperties(s *jsonschema.Schema, compile CompileFunc) (*rules.Rule, []error) {
	patterns, errs := compilePatterns(s, nil)
	extra := s.AdditionalProperties
	var sub rules.Node
	if extra.Bool == nil {
		sub = compile(extra)
	}
	return newRule(KindAdditionalProperties, s, func(v any) bool {
		if extra.IsTrue() || !jsonvalue.IsObject(v) {
			return true
		}
		for _, key := range jsonvalue.Keys(v) {
			if declared(s, key) {
				continue
			}
			matched := false
			for _, p := range patterns {
				if p.matches(key) {
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if extra.IsFalse() || !holds(sub, jsonvalue.Member(v, key)) {
				return false
			}
		}
		return true
	}), errs
}

// PropertyNames validates every own key, as a string, against the schema.
func PropertyNames(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	sub := compile(s.PropertyNames)
	return newRule(KindPropertyNames, s, func(v any) bool {
		if !jsonvalue.IsObject(v) {
			return true
		}
		for _, key := range jsonvalue.Keys(v) {
			if !holds(sub, key) {
				return false
			}
		}
		return true
	})
}

// ownerAccepts reports whether v is a value the combinator rules judge: a
// defined value matching the owning schema's own type. Type mismatches are
// the type rule's concern.
func ownerAccepts(s *jsonschema.Schema, v any) bool {
	if jsonvalue.IsUndefined(v) {
		return false
	}
	if len(s.Type) == 0 {
		return true
	}
	for _, t := range s.Type {
		if jsonvalue.Is(t, v) {
			return true
		}
	}
	return false
}

func compileAll(branches []*jsonschema.Schema, compile CompileFunc) []rules.Node {
	out := make([]rules.Node, len(branches))
	for i, b := range branches {
		out[i] = compile(b)
	}
	return out
}

// AllOf passes when every listed branch holds. The compiler merges acyclic
// allOf branches into the owning group and only routes branches that refer
// back to an ancestor schema through this rule.
func AllOf(s *jsonschema.Schema, branches []*jsonschema.Schema, compile CompileFunc) *rules.Rule {
	nodes := compileAll(branches, compile)
	return newRule(KindAllOf, s, func(v any) bool {
		if !ownerAccepts(s, v) {
			return true
		}
		for _, b := range nodes {
			if !holds(b, v) {
				return false
			}
		}
		return true
	}, "count", len(nodes))
}

// AnyOf passes when at least one branch holds.
func AnyOf(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	branches := compileAll(s.AnyOf, compile)
	return newRule(KindAnyOf, s, func(v any) bool {
		if !ownerAccepts(s, v) {
			return true
		}
		for _, b := range branches {
			if holds(b, v) {
				return true
			}
		}
		return false
	}, "count", len(branches))
}

// OneOf passes when exactly one branch holds. Counting stops at the second
// match. A value matching no branch is reported as union_no_match, one
// matching several as union_ambiguous.
func OneOf(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	branches := compileAll(s.OneOf, compile)
	r := newRule(KindOneOf, s, func(v any) bool {
		return !ownerAccepts(s, v) || countMatches(branches, v) == 1
	}, "count", len(branches))
	r.Code = func(v any) string {
		if countMatches(branches, v) == 0 {
			return rules.CodeUnionNoMatch
		}
		return rules.CodeUnionAmbiguous
	}
	return r
}

// countMatches counts the branches holding for v, stopping at two.
func countMatches(branches []rules.Node, v any) int {
	matches := 0
	for _, b := range branches {
		if holds(b, v) {
			matches++
			if matches > 1 {
				break
			}
		}
	}
	return matches
}

// Not passes when the nested schema does not hold.
func Not(s *jsonschema.Schema, compile CompileFunc) *rules.Rule {
	sub := compile(s.Not)
	return newRule(KindNot, s, func(v any) bool {
		if !ownerAccepts(s, v) {
			return true
		}
		return !holds(sub, v)
	})
}
