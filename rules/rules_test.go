package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaform/jsonvalue"
	"github.com/reoring/schemaform/rules"
)

func required() *rules.Rule {
	return &rules.Rule{
		Kind:     "required",
		Params:   map[string]any{"schema": nil},
		Attached: true,
		Test:     func(v any) bool { return !jsonvalue.IsUndefined(v) },
	}
}

func minLength(n int) *rules.Rule {
	return &rules.Rule{
		Kind:   "minLength",
		Params: map[string]any{"min": n, "schema": nil},
		Test: func(v any) bool {
			l, ok := jsonvalue.Length(v)
			return !ok || l >= n
		},
	}
}

func isType(name string) *rules.Rule {
	return &rules.Rule{
		Kind:   "type",
		Params: map[string]any{"type": name, "schema": nil},
		Test: func(v any) bool {
			return jsonvalue.IsUndefined(v) || jsonvalue.Is(name, v)
		},
	}
}

func TestValidate_LeafTestsSubject(t *testing.T) {
	tree := rules.Group{"schemaMinLength": minLength(3)}
	assert.True(t, rules.Validate(tree, "abc"))
	assert.False(t, rules.Validate(tree, "ab"))
	assert.True(t, rules.Validate(tree, jsonvalue.Undefined))
}

func TestValidate_GroupDescends(t *testing.T) {
	tree := rules.Group{
		"name": rules.Group{
			"schemaRequired":  required(),
			"schemaMinLength": minLength(3),
		},
	}
	cases := []struct {
		name string
		in   any
		want bool
	}{
		{"valid", map[string]any{"name": "abc"}, true},
		{"too short", map[string]any{"name": "ab"}, false},
		{"missing", map[string]any{}, false},
		{"null is present", map[string]any{"name": nil}, true},
		{"absent root", nil, true},
		{"undefined root", jsonvalue.Undefined, true},
		{"non-object parent", "str", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rules.Validate(tree, tc.in))
		})
	}
}

func TestValidate_NestedGroupUnderAbsentValue(t *testing.T) {
	tree := rules.Group{
		"a": rules.Group{
			"b": rules.Group{"schemaRequired": required()},
		},
	}
	assert.True(t, rules.Validate(tree, map[string]any{}))
	assert.True(t, rules.Validate(tree, map[string]any{"a": nil}))
	assert.False(t, rules.Validate(tree, map[string]any{"a": map[string]any{}}))
}

func TestValidate_Each(t *testing.T) {
	tree := rules.Group{
		"tags": rules.Group{
			rules.Each: rules.Group{"schemaMinLength": minLength(2)},
		},
	}
	assert.True(t, rules.Validate(tree, map[string]any{"tags": []any{"ab", "cd"}}))
	assert.False(t, rules.Validate(tree, map[string]any{"tags": []any{"ab", "c"}}))
	assert.True(t, rules.Validate(tree, map[string]any{"tags": "x"}))
	assert.True(t, rules.Validate(tree, map[string]any{"tags": []string{"ok", "fine"}}))
}

func TestValidate_EachGroupsDescendIntoElements(t *testing.T) {
	tree := rules.Group{
		rules.Each: rules.Group{
			"id": rules.Group{"schemaRequired": required()},
		},
	}
	assert.True(t, rules.Validate(tree, []any{map[string]any{"id": 1}}))
	assert.False(t, rules.Validate(tree, []any{map[string]any{"id": 1}, map[string]any{}}))
}

func TestMerge_AndsSameNamedLeaves(t *testing.T) {
	a := rules.Group{"p": rules.Group{"schemaMinLength": minLength(5)}}
	b := rules.Group{"p": rules.Group{"schemaMinLength": minLength(8), "schemaType": isType("string")}}

	merged := rules.Merge(a, b)

	assert.False(t, rules.Validate(merged, map[string]any{"p": "abcdef"}))
	assert.True(t, rules.Validate(merged, map[string]any{"p": "abcdefghi"}))
	assert.False(t, rules.Validate(merged, map[string]any{"p": 12}))

	leaf, ok := rules.Lookup(merged, "p", "schemaMinLength")
	require.True(t, ok)
	r := leaf.(*rules.Rule)
	assert.Equal(t, "minLength", r.Kind)
	assert.Len(t, r.Parts, 2)

	// inputs untouched
	assert.Len(t, b["p"].(rules.Group), 2)
	assert.Len(t, a["p"].(rules.Group), 1)
}

func TestAnd(t *testing.T) {
	mixed := rules.And(minLength(1), isType("string"))
	assert.Equal(t, rules.KindAnd, mixed.Kind)

	flat := rules.And(mixed, minLength(3))
	assert.Len(t, flat.Parts, 3)

	assert.Nil(t, rules.And())
	single := minLength(2)
	assert.Same(t, single, rules.And(nil, single))
}

func TestMerge_DeleteTombstone(t *testing.T) {
	base := rules.Group{"schemaMinLength": minLength(5), "schemaType": isType("string")}
	out := rules.Merge(base, rules.Group{"schemaMinLength": rules.Delete, "extra": rules.Group{"x": rules.Delete}})

	g := out.(rules.Group)
	assert.NotContains(t, g, "schemaMinLength")
	assert.Contains(t, g, "schemaType")
	assert.Equal(t, rules.Group{}, g["extra"])
	assert.True(t, rules.Validate(out, "abc"))
}

func TestMerge_ShapeMismatchTakesSource(t *testing.T) {
	out := rules.Merge(rules.Group{"k": minLength(1)}, rules.Group{"k": rules.Group{}})
	_, isGroup := out.(rules.Group)["k"].(rules.Group)
	assert.True(t, isGroup)
}

func TestOverride_ReplacesLeaves(t *testing.T) {
	base := rules.Group{"p": rules.Group{"schemaMinLength": minLength(5)}}
	out := rules.Override(base, rules.Group{"p": rules.Group{"schemaMinLength": minLength(1)}})

	assert.True(t, rules.Validate(out, map[string]any{"p": "ab"}))
	assert.False(t, rules.Validate(base, map[string]any{"p": "ab"}))
}

func TestDeferred_BuildsOnce(t *testing.T) {
	calls := 0
	d := rules.Defer(func() rules.Group {
		calls++
		return rules.Group{"schemaMinLength": minLength(2)}
	})
	tree := rules.Group{"child": d}

	assert.Equal(t, 0, calls)
	assert.False(t, rules.Validate(tree, map[string]any{"child": "a"}))
	assert.True(t, rules.Validate(tree, map[string]any{"child": "ab"}))
	assert.Equal(t, 1, calls)
}

func TestMerge_WithDeferredIsLazy(t *testing.T) {
	built := false
	d := rules.Defer(func() rules.Group {
		built = true
		return rules.Group{"schemaMinLength": minLength(2)}
	})
	out := rules.Merge(rules.Group{"schemaType": isType("string")}, d)

	_, deferred := out.(*rules.Deferred)
	require.True(t, deferred)
	assert.False(t, built)
	assert.False(t, rules.Validate(out, 1))
	assert.False(t, rules.Validate(out, "a"))
	assert.True(t, built)
}

func TestOr(t *testing.T) {
	r := rules.Or("types", map[string]any{"types": []string{"string", "null"}}, isType("string"), isType("null"))
	assert.True(t, rules.Validate(r, "x"))
	assert.True(t, rules.Validate(r, nil))
	assert.False(t, rules.Validate(r, 1))
}

func TestExplain(t *testing.T) {
	tree := rules.Group{
		"name": rules.Group{"schemaRequired": required()},
		"tags": rules.Group{
			rules.Each: rules.Group{"schemaMinLength": minLength(2)},
		},
		"title": rules.Group{"schemaMinLength": rules.And(minLength(2), minLength(4))},
	}
	iss := rules.Explain(tree, map[string]any{
		"tags":  []any{"ok", "x"},
		"title": "abc",
	})
	require.Len(t, iss, 3)

	assert.Equal(t, "/name", iss[0].Path)
	assert.Equal(t, rules.CodeRequired, iss[0].Code)
	assert.Equal(t, "schemaRequired", iss[0].Rule)

	assert.Equal(t, "/tags/1", iss[1].Path)
	assert.Equal(t, rules.CodeTooShort, iss[1].Code)
	assert.Equal(t, map[string]any{"min": 2}, iss[1].Params)
	assert.Equal(t, "too short, minimum is 2", iss[1].Message)

	assert.Equal(t, "/title", iss[2].Path)
	assert.Equal(t, 4, iss[2].Params["min"])

	assert.EqualError(t, iss, "required at /name; too_short at /tags/1; too_short at /title")
	got, ok := rules.AsIssues(iss.Err())
	require.True(t, ok)
	assert.Len(t, got, 3)
}

func TestExplain_Valid(t *testing.T) {
	iss := rules.Explain(rules.Group{"schemaMinLength": minLength(1)}, "a")
	assert.Empty(t, iss)
	assert.NoError(t, iss.Err())
}

func TestExpr(t *testing.T) {
	r, err := rules.Expr("even", "value % 2 == 0")
	require.NoError(t, err)

	assert.True(t, rules.Validate(r, 4))
	assert.False(t, rules.Validate(r, 3))
	assert.True(t, rules.Validate(r, jsonvalue.Undefined))
	assert.False(t, rules.Validate(r, "text"))

	_, err = rules.Expr("broken", "value >")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	d := rules.Describe(rules.Group{
		"name":  rules.Group{"schemaRequired": required()},
		"child": rules.Defer(nil),
	})
	assert.Equal(t, map[string]any{
		"name": map[string]any{
			"schemaRequired": map[string]any{"kind": "required", "attached": true},
		},
		"child": map[string]any{"kind": "deferred"},
	}, d)
}
