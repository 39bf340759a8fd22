package scaffold

import (
	"errors"
	"fmt"

	"github.com/reoring/schemaform/jsonschema"
)

var (
	// ErrUnknownProperty is returned when a helper names a property the
	// schema does not declare.
	ErrUnknownProperty = errors.New("scaffold: unknown property")
	// ErrNotObject is returned when caller values are given for a branch that
	// does not scaffold to an object.
	ErrNotObject = errors.New("scaffold: branch is not an object")
)

// Build scaffolds a standalone value for s. A typed schema starts from its
// required default; an untyped one from an empty object.
func Build(s *jsonschema.Schema) any {
	const slot = "value"
	b := New()
	b.MergeAt([]string{slot}, s)
	return b.root[slot]
}

// Property scaffolds the branch for parent's property key on demand, copies
// values over it and stores it in parent. It serves branches left Undefined
// by a cyclic or optional schema.
func Property(parent map[string]any, parentSchema *jsonschema.Schema, key string, values map[string]any) (map[string]any, error) {
	var propSchema *jsonschema.Schema
	if parentSchema != nil {
		propSchema = parentSchema.Properties[key]
	}
	if propSchema == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, key)
	}
	branch, ok := Build(propSchema).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotObject, key)
	}
	for k, v := range values {
		branch[k] = v
	}
	parent[key] = branch
	return branch, nil
}

// Item scaffolds the next element of an array from the template for its
// position, copies values over it when the element is an object, and appends
// it. It returns the grown array and the new element.
func Item(arr []any, arraySchema *jsonschema.Schema, values map[string]any) ([]any, any, error) {
	tmpl := arraySchema.TupleItem(len(arr))
	if tmpl == nil {
		tmpl = &jsonschema.Schema{}
	}
	elem := Build(tmpl)
	if len(values) > 0 {
		obj, ok := elem.(map[string]any)
		if !ok {
			return arr, nil, fmt.Errorf("%w: item %d", ErrNotObject, len(arr))
		}
		for k, v := range values {
			obj[k] = v
		}
	}
	return append(arr, elem), elem, nil
}
