// Package validators builds the leaf and composite rules for JSON Schema
// keywords. Every predicate passes an undefined value except Required and
// NotPresent; absence is the required rule's concern.
package validators

import (
	"math"
	"regexp"

	"github.com/reoring/schemaform/jsonschema"
	"github.com/reoring/schemaform/jsonvalue"
	"github.com/reoring/schemaform/rules"
)

// Rule kinds.
const (
	KindType                 = "type"
	KindTypes                = "types"
	KindRequired             = "required"
	KindNotPresent           = "notPresent"
	KindMinLength            = "minLength"
	KindMaxLength            = "maxLength"
	KindMinItems             = "minItems"
	KindMaxItems             = "maxItems"
	KindMinimum              = "minimum"
	KindMaximum              = "maximum"
	KindBetween              = "between"
	KindExclusiveMinimum     = "exclusiveMinimum"
	KindExclusiveMaximum     = "exclusiveMaximum"
	KindMultipleOf           = "multipleOf"
	KindPattern              = "pattern"
	KindEnum                 = "enum"
	KindConst                = "const"
	KindUniqueItems          = "uniqueItems"
	KindMinProperties        = "minProperties"
	KindMaxProperties        = "maxProperties"
	KindItems                = "items"
	KindAdditionalItems      = "additionalItems"
	KindContains             = "contains"
	KindDependencies         = "dependencies"
	KindPatternProperties    = "patternProperties"
	KindAdditionalProperties = "additionalProperties"
	KindPropertyNames        = "propertyNames"
	KindAllOf                = "allOf"
	KindAnyOf                = "anyOf"
	KindOneOf                = "oneOf"
	KindNot                  = "not"
)

func newRule(kind string, s *jsonschema.Schema, test rules.Predicate, kv ...any) *rules.Rule {
	params := map[string]any{"schema": s}
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i].(string)] = kv[i+1]
	}
	return &rules.Rule{Kind: kind, Params: params, Test: test}
}

// Type checks that a defined value has the JSON type typ.
func Type(s *jsonschema.Schema, typ string) *rules.Rule {
	return newRule(KindType, s, func(v any) bool {
		return jsonvalue.IsUndefined(v) || jsonvalue.Is(typ, v)
	}, "type", typ)
}

// Types checks that a defined value has one of the listed JSON types.
func Types(s *jsonschema.Schema, types []string) *rules.Rule {
	parts := make([]*rules.Rule, len(types))
	for i, t := range types {
		parts[i] = Type(s, t)
	}
	return rules.Or(KindTypes, map[string]any{"schema": s, "type": types}, parts...)
}

// Required fails for an undefined value. An attached rule is only enforced
// when the containing value is an object.
func Required(s *jsonschema.Schema, attached bool) *rules.Rule {
	r := newRule(KindRequired, s, func(v any) bool { return !jsonvalue.IsUndefined(v) })
	r.Attached = attached
	return r
}

// NotPresent is the rule of the boolean schema false: only undefined passes.
func NotPresent(s *jsonschema.Schema) *rules.Rule {
	return newRule(KindNotPresent, s, jsonvalue.IsUndefined)
}

func lengthAtLeast(n int) rules.Predicate {
	return func(v any) bool {
		l, ok := jsonvalue.Length(v)
		return !ok || l >= n
	}
}

func lengthAtMost(n int) rules.Predicate {
	return func(v any) bool {
		l, ok := jsonvalue.Length(v)
		return !ok || l <= n
	}
}

// MinLength applies to strings (in code points) and arrays.
func MinLength(s *jsonschema.Schema, n int) *rules.Rule {
	return newRule(KindMinLength, s, lengthAtLeast(n), "min", n)
}

// MaxLength applies to strings (in code points) and arrays.
func MaxLength(s *jsonschema.Schema, n int) *rules.Rule {
	return newRule(KindMaxLength, s, lengthAtMost(n), "max", n)
}

// MinItems checks the length of arrays; other values pass.
func MinItems(s *jsonschema.Schema, n int) *rules.Rule {
	return newRule(KindMinItems, s, arrayOnly(lengthAtLeast(n)), "min", n)
}

// MaxItems checks the length of arrays; other values pass.
func MaxItems(s *jsonschema.Schema, n int) *rules.Rule {
	return newRule(KindMaxItems, s, arrayOnly(lengthAtMost(n)), "max", n)
}

func arrayOnly(p rules.Predicate) rules.Predicate {
	return func(v any) bool { return !jsonvalue.IsArray(v) || p(v) }
}

// numeric wraps a check over finite numbers; anything else passes.
func numeric(check func(f float64) bool) rules.Predicate {
	return func(v any) bool {
		f, ok := jsonvalue.Float(v)
		return !ok || check(f)
	}
}

// Minimum requires numbers to be at least limit.
func Minimum(s *jsonschema.Schema, limit float64) *rules.Rule {
	return newRule(KindMinimum, s, numeric(func(f float64) bool { return f >= limit }), "min", limit)
}

// Maximum requires numbers to be at most limit.
func Maximum(s *jsonschema.Schema, limit float64) *rules.Rule {
	return newRule(KindMaximum, s, numeric(func(f float64) bool { return f <= limit }), "max", limit)
}

// Between is minimum and maximum in one rule.
func Between(s *jsonschema.Schema, lo, hi float64) *rules.Rule {
	return newRule(KindBetween, s, numeric(func(f float64) bool { return f >= lo && f <= hi }), "min", lo, "max", hi)
}

// ExclusiveMinimum requires numbers to be greater than limit.
func ExclusiveMinimum(s *jsonschema.Schema, limit float64) *rules.Rule {
	return newRule(KindExclusiveMinimum, s, numeric(func(f float64) bool { return f > limit }), "min", limit)
}

// ExclusiveMaximum requires numbers to be less than limit.
func ExclusiveMaximum(s *jsonschema.Schema, limit float64) *rules.Rule {
	return newRule(KindExclusiveMaximum, s, numeric(func(f float64) bool { return f < limit }), "max", limit)
}

// MultipleOf checks that value/divider is integral, within a relative
// tolerance for binary floating point (0.3 is a multiple of 0.1).
func MultipleOf(s *jsonschema.Schema, divider float64) *rules.Rule {
	return newRule(KindMultipleOf, s, numeric(func(f float64) bool {
		if divider == 0 {
			return true
		}
		q := f / divider
		if math.IsInf(q, 0) || math.IsNaN(q) {
			return false
		}
		return math.Abs(q-math.Round(q)) <= 1e-9*math.Max(1, math.Abs(q))
	}), "divider", divider)
}

// Pattern matches strings against a regular expression. An undefined value
// passes; other non-strings fail unless nonStringPasses is set. A pattern that
// does not compile matches every string and is returned with its error.
func Pattern(s *jsonschema.Schema, pattern string, nonStringPasses bool) (*rules.Rule, error) {
	re, err := regexp.Compile(pattern)
	test := func(v any) bool {
		if jsonvalue.IsUndefined(v) {
			return true
		}
		str, ok := v.(string)
		if !ok {
			return nonStringPasses
		}
		return re == nil || re.MatchString(str)
	}
	return newRule(KindPattern, s, test, "pattern", pattern), err
}

// Enum checks structural equality with one of the choices.
func Enum(s *jsonschema.Schema, choices []any) *rules.Rule {
	keys := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		keys[jsonvalue.CanonicalKey(c)] = struct{}{}
	}
	return newRule(KindEnum, s, func(v any) bool {
		if jsonvalue.IsUndefined(v) {
			return true
		}
		_, ok := keys[jsonvalue.CanonicalKey(v)]
		return ok
	}, "values", choices)
}

// Const checks structural equality with one fixed value.
func Const(s *jsonschema.Schema, want any) *rules.Rule {
	key := jsonvalue.CanonicalKey(want)
	return newRule(KindConst, s, func(v any) bool {
		return jsonvalue.IsUndefined(v) || jsonvalue.CanonicalKey(v) == key
	}, "value", want)
}

// UniqueItems rejects arrays holding two structurally equal elements.
func UniqueItems(s *jsonschema.Schema) *rules.Rule {
	return newRule(KindUniqueItems, s, func(v any) bool {
		elems, ok := jsonvalue.Elements(v)
		if !ok || len(elems) < 2 {
			return true
		}
		seen := make(map[string]struct{}, len(elems))
		for _, e := range elems {
			k := jsonvalue.CanonicalKey(e)
			if _, dup := seen[k]; dup {
				return false
			}
			seen[k] = struct{}{}
		}
		return true
	})
}

// MinProperties counts the own keys of an object; non-objects pass.
func MinProperties(s *jsonschema.Schema, n int) *rules.Rule {
	return newRule(KindMinProperties, s, func(v any) bool {
		return !jsonvalue.IsObject(v) || len(jsonvalue.Keys(v)) >= n
	}, "min", n)
}

// MaxProperties counts the own keys of an object; non-objects pass.
func MaxProperties(s *jsonschema.Schema, n int) *rules.Rule {
	return newRule(KindMaxProperties, s, func(v any) bool {
		return !jsonvalue.IsObject(v) || len(jsonvalue.Keys(v)) <= n
	}, "max", n)
}
