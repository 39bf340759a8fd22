package jsonschema

import "slices"

// Schema is a trusted, read-only JSON Schema node. Keyword presence is explicit:
// pointer, slice and map fields are nil when the keyword is absent, so a
// declared `"default": null` is distinguishable from no default at all.
//
// A boolean schema sets Bool and nothing else. Schemas may share nodes and form
// cycles; the compiler and the scaffold builder track the nodes on their
// recursion path.
type Schema struct {
	Bool *bool

	// Core
	Type        []string
	Title       string
	Description string
	Format      string
	Default     *Literal
	Const       *Literal
	Enum        []any

	// Object
	Properties           map[string]*Schema
	Required             []string
	MinProperties        *int
	MaxProperties        *int
	PatternProperties    map[string]*Schema
	AdditionalProperties *Schema
	Dependencies         map[string]Dependency
	PropertyNames        *Schema

	// Array
	Items           *Schema
	TupleItems      []*Schema
	AdditionalItems *Schema
	Contains        *Schema
	MinItems        *int
	MaxItems        *int
	UniqueItems     *bool

	// String
	MinLength *int
	MaxLength *int
	Pattern   *string

	// Number
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// Combinators
	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema
}

// Literal holds a declared `default` or `const` value, which may be null.
type Literal struct{ Value any }

// Lit wraps v as a declared literal.
func Lit(v any) *Literal { return &Literal{Value: v} }

// Dependency is one entry of the `dependencies` keyword: either a list of
// property names that must accompany the key, or a schema the whole object
// must satisfy.
type Dependency struct {
	Required []string
	Schema   *Schema
}

// IsSchema reports whether the dependency is the schema form.
func (d Dependency) IsSchema() bool { return d.Schema != nil }

// True returns the boolean schema that accepts everything.
func True() *Schema {
	b := true
	return &Schema{Bool: &b}
}

// False returns the boolean schema that forbids any present value.
func False() *Schema {
	b := false
	return &Schema{Bool: &b}
}

// Boolean reports the value of a boolean schema.
func (s *Schema) Boolean() (value, ok bool) {
	if s == nil || s.Bool == nil {
		return false, false
	}
	return *s.Bool, true
}

// IsTrue reports whether s is the boolean schema true.
func (s *Schema) IsTrue() bool {
	v, ok := s.Boolean()
	return ok && v
}

// IsFalse reports whether s is the boolean schema false.
func (s *Schema) IsFalse() bool {
	v, ok := s.Boolean()
	return ok && !v
}

// HasType reports whether t is the single declared type, or one of a declared
// type list.
func (s *Schema) HasType(t string) bool {
	return s != nil && slices.Contains(s.Type, t)
}

// SingleType returns the declared type when `type` is one name.
func (s *Schema) SingleType() (string, bool) {
	if s == nil || len(s.Type) != 1 {
		return "", false
	}
	return s.Type[0], true
}

// IsRequired reports whether name is listed in `required`.
func (s *Schema) IsRequired(name string) bool {
	return s != nil && slices.Contains(s.Required, name)
}

// HasItems reports whether `items` is declared in either form.
func (s *Schema) HasItems() bool {
	return s != nil && (s.Items != nil || s.TupleItems != nil)
}

// IsTuple reports whether `items` is declared as an array of schemas.
func (s *Schema) IsTuple() bool {
	return s != nil && s.TupleItems != nil
}

// Has reports whether keyword k is declared on s.
func (s *Schema) Has(k Keyword) bool {
	if s == nil || s.Bool != nil {
		return false
	}
	switch k {
	case KeywordType:
		return s.Type != nil
	case KeywordProperties:
		return s.Properties != nil
	case KeywordRequired:
		return s.Required != nil
	case KeywordItems:
		return s.HasItems()
	case KeywordAdditionalItems:
		return s.AdditionalItems != nil
	case KeywordContains:
		return s.Contains != nil
	case KeywordDefault:
		return s.Default != nil
	case KeywordConst:
		return s.Const != nil
	case KeywordEnum:
		return s.Enum != nil
	case KeywordMinLength:
		return s.MinLength != nil
	case KeywordMaxLength:
		return s.MaxLength != nil
	case KeywordMinItems:
		return s.MinItems != nil
	case KeywordMaxItems:
		return s.MaxItems != nil
	case KeywordMinimum:
		return s.Minimum != nil
	case KeywordMaximum:
		return s.Maximum != nil
	case KeywordExclusiveMinimum:
		return s.ExclusiveMinimum != nil
	case KeywordExclusiveMaximum:
		return s.ExclusiveMaximum != nil
	case KeywordMultipleOf:
		return s.MultipleOf != nil
	case KeywordPattern:
		return s.Pattern != nil
	case KeywordUniqueItems:
		return s.UniqueItems != nil
	case KeywordMinProperties:
		return s.MinProperties != nil
	case KeywordMaxProperties:
		return s.MaxProperties != nil
	case KeywordPatternProperties:
		return s.PatternProperties != nil
	case KeywordAdditionalProperties:
		return s.AdditionalProperties != nil
	case KeywordDependencies:
		return s.Dependencies != nil
	case KeywordPropertyNames:
		return s.PropertyNames != nil
	case KeywordAllOf:
		return s.AllOf != nil
	case KeywordAnyOf:
		return s.AnyOf != nil
	case KeywordOneOf:
		return s.OneOf != nil
	case KeywordNot:
		return s.Not != nil
	case KeywordTitle:
		return s.Title != ""
	case KeywordDescription:
		return s.Description != ""
	case KeywordFormat:
		return s.Format != ""
	}
	return false
}

// Keywords lists the keywords declared on s in a fixed order.
func (s *Schema) Keywords() []Keyword {
	var out []Keyword
	for _, k := range allKeywords {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// PropertyNamesSorted lists the keys of `properties` in sorted order.
func (s *Schema) PropertyNamesSorted() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TupleItem returns the template for array position i: the tuple entry when
// `items` is an array, else `additionalItems` when it is a schema object.
// The boolean schema false and an absent template both yield nil.
func (s *Schema) TupleItem(i int) *Schema {
	if s == nil {
		return nil
	}
	if !s.IsTuple() {
		return s.Items
	}
	if i < len(s.TupleItems) {
		return s.TupleItems[i]
	}
	if s.AdditionalItems != nil && s.AdditionalItems.Bool == nil {
		return s.AdditionalItems
	}
	return nil
}
