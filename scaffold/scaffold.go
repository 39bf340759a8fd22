// Package scaffold builds initial data for JSON Schemas: a nested value that
// mirrors the declared properties, seeded with defaults.
//
// Optional properties without a default are present but Undefined. Required
// ones fall back to a zero value for their type. allOf branches are scaffolded
// deeply; anyOf, oneOf and not only contribute Undefined keys. A schema that is
// already on the recursion path is scaffolded one level deep with Undefined
// members, so cyclic schemas terminate.
package scaffold

import (
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/schemaform/jsonschema"
	"github.com/reoring/schemaform/jsonvalue"
)

// DefaultValue resolves the initial value of one schema node: an explicit
// `default`, else `const`, else for a required node the zero value of its
// first declared type, else Undefined. Maps and slices are fresh copies.
func DefaultValue(s *jsonschema.Schema, required bool) any {
	if s == nil || s.Bool != nil {
		return jsonvalue.Undefined
	}
	if s.Default != nil {
		return jsonvalue.Clone(s.Default.Value)
	}
	if s.Const != nil {
		return jsonvalue.Clone(s.Const.Value)
	}
	if !required || len(s.Type) == 0 {
		return jsonvalue.Undefined
	}
	return zeroValue(s.Type[0])
}

func zeroValue(typ string) any {
	switch typ {
	case jsonvalue.TypeString:
		return ""
	case jsonvalue.TypeNumber, jsonvalue.TypeInteger:
		return float64(0)
	case jsonvalue.TypeBoolean:
		return false
	case jsonvalue.TypeObject:
		return map[string]any{}
	case jsonvalue.TypeArray:
		return []any{}
	case jsonvalue.TypeNull:
		return nil
	}
	return jsonvalue.Undefined
}

// declared reports whether s carries an explicit literal for its value.
func declared(s *jsonschema.Schema) bool {
	return s != nil && (s.Default != nil || s.Const != nil)
}

// Builder accumulates the scaffold of several schemas into one root object.
// Within one merge, a schema's own property values win over its allOf
// branches and earlier explicit defaults win over later ones. Across merges a
// later explicit default replaces what is there, while zero values never
// replace an existing value.
type Builder struct {
	root map[string]any
	// explicit holds the JSON Pointers assigned from a declared default during
	// the current merge.
	explicit map[string]bool
	// owned holds the JSON Pointers resolved by a schema's own properties
	// during the current merge; allOf branches leave them alone.
	owned map[string]bool
}

// New returns a Builder with an empty root object.
func New() *Builder {
	b := &Builder{root: map[string]any{}}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.explicit = map[string]bool{}
	b.owned = map[string]bool{}
}

// Root returns the scaffolded root object.
func (b *Builder) Root() map[string]any { return b.root }

// Merge scaffolds s into the root object.
func (b *Builder) Merge(s *jsonschema.Schema) {
	b.reset()
	b.fill(b.root, s, "", nil, false)
}

// MergeAt scaffolds s under path, creating intermediate objects as needed. A
// schema with a `type` seeds the mount with its required default; an untyped
// one seeds an empty object.
func (b *Builder) MergeAt(path []string, s *jsonschema.Schema) {
	if len(path) == 0 {
		b.Merge(s)
		return
	}
	b.reset()
	parent, at := b.walk(path[:len(path)-1])
	key := path[len(path)-1]
	at = child(at, key)

	var seed any = map[string]any{}
	if s != nil && s.Type != nil {
		seed = DefaultValue(s, true)
	}
	b.set(parent, key, seed, declared(s), at)
	parent[key] = b.expand(parent[key], s, at, nil)
}

// MarkUndefined makes sure path exists, holding Undefined when nothing is
// there yet.
func (b *Builder) MarkUndefined(path []string) {
	if len(path) == 0 {
		return
	}
	parent, _ := b.walk(path[:len(path)-1])
	key := path[len(path)-1]
	if _, ok := parent[key]; !ok {
		parent[key] = jsonvalue.Undefined
	}
}

func (b *Builder) walk(path []string) (map[string]any, string) {
	cur, at := b.root, ""
	for _, seg := range path {
		at = child(at, seg)
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	return cur, at
}

// set stores val under key unless a value with higher precedence is there.
func (b *Builder) set(base map[string]any, key string, val any, explicit bool, at string) {
	cur, ok := base[key]
	switch {
	case !ok || jsonvalue.IsUndefined(cur):
		base[key] = val
	case b.owned[at]:
		return
	case explicit && !b.explicit[at]:
		dst, dstOK := cur.(map[string]any)
		src, srcOK := val.(map[string]any)
		if dstOK && srcOK {
			mergeInto(dst, src)
		} else {
			base[key] = val
		}
	default:
		return
	}
	if explicit {
		b.explicit[at] = true
	}
}

// mergeInto deep-merges src into dst; src wins on conflicts.
func mergeInto(dst, src map[string]any) {
	for k, sv := range src {
		dm, dOK := dst[k].(map[string]any)
		sm, sOK := sv.(map[string]any)
		if dOK && sOK {
			mergeInto(dm, sm)
			continue
		}
		dst[k] = sv
	}
}

// fill scaffolds the properties of s into base. In shallow mode only missing
// keys are added, as Undefined, and nothing is descended into.
func (b *Builder) fill(base map[string]any, s *jsonschema.Schema, at string, path []*jsonschema.Schema, shallow bool) {
	if s == nil || s.Bool != nil {
		return
	}
	if shallow {
		for _, name := range s.PropertyNamesSorted() {
			if _, ok := base[name]; !ok {
				base[name] = jsonvalue.Undefined
			}
		}
		return
	}
	if s.Default != nil {
		if m, ok := s.Default.Value.(map[string]any); ok {
			for _, k := range sortedKeys(m) {
				b.set(base, k, jsonvalue.Clone(m[k]), true, child(at, k))
			}
		}
		return
	}

	here := append(path[:len(path):len(path)], s)
	for _, name := range s.PropertyNamesSorted() {
		prop := s.Properties[name]
		ptr := child(at, name)
		val := DefaultValue(prop, s.IsRequired(name))
		b.set(base, name, val, declared(prop), ptr)
		if !jsonvalue.IsUndefined(val) {
			b.owned[ptr] = true
		}
		base[name] = b.expand(base[name], prop, ptr, here)
	}
	for _, branch := range s.AllOf {
		b.fill(base, branch, at, here, slices.Contains(here, branch))
	}
	for _, branch := range s.AnyOf {
		b.fill(base, branch, at, here, true)
	}
	for _, branch := range s.OneOf {
		b.fill(base, branch, at, here, true)
	}
	if s.Not != nil {
		b.fill(base, s.Not, at, here, true)
	}
}

// expand scaffolds the inside of an object or array value v described by s.
func (b *Builder) expand(v any, s *jsonschema.Schema, at string, path []*jsonschema.Schema) any {
	cyclic := s != nil && slices.Contains(path, s)
	switch t := v.(type) {
	case map[string]any:
		if s != nil && s.Default != nil && !cyclic {
			return t
		}
		b.fill(t, s, at, path, cyclic)
		return t
	case []any:
		if cyclic {
			return t
		}
		return b.fillArray(t, s, at, path)
	}
	return v
}

// fillArray pre-populates an empty array up to `minItems` from its item
// templates. Filling stops at the first template that carries no structure,
// rather than skipping it, so every filled entry keeps the index of the tuple
// template it came from.
func (b *Builder) fillArray(arr []any, s *jsonschema.Schema, at string, path []*jsonschema.Schema) []any {
	if len(arr) > 0 || s == nil || s.Default != nil || s.MinItems == nil || !s.HasItems() {
		return arr
	}
	here := append(path[:len(path):len(path)], s)
	for i := 0; i < *s.MinItems; i++ {
		tmpl := s.TupleItem(i)
		if !structural(tmpl) {
			break
		}
		v := DefaultValue(tmpl, true)
		if jsonvalue.IsUndefined(v) {
			v = map[string]any{}
		}
		arr = append(arr, b.expand(v, tmpl, child(at, strconv.Itoa(i)), here))
	}
	return arr
}

// structural reports whether an item template produces an entry of its own.
func structural(s *jsonschema.Schema) bool {
	if s == nil || s.Bool != nil {
		return false
	}
	return s.HasType(jsonvalue.TypeObject) || s.HasType(jsonvalue.TypeArray) ||
		s.Default != nil || s.Properties != nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func child(at, key string) string {
	return at + "/" + pointerEscaper.Replace(key)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
