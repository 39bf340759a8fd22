package scaffold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaform/jsonschema"
	"github.com/reoring/schemaform/jsonvalue"
	"github.com/reoring/schemaform/scaffold"
)

var undef = jsonvalue.Undefined

func parse(t *testing.T, src string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func build(s *jsonschema.Schema) map[string]any {
	b := scaffold.New()
	b.Merge(s)
	return b.Root()
}

func TestDefaultValue(t *testing.T) {
	cases := []struct {
		name     string
		schema   string
		required bool
		want     any
	}{
		{"default wins over required zero", `{"type":"string","default":"X"}`, true, "X"},
		{"const when no default", `{"type":"string","const":"C"}`, false, "C"},
		{"default over const", `{"default":1,"const":2}`, false, float64(1)},
		{"null default is declared", `{"type":"string","default":null}`, true, nil},
		{"required string", `{"type":"string"}`, true, ""},
		{"required integer", `{"type":"integer"}`, true, float64(0)},
		{"required boolean", `{"type":"boolean"}`, true, false},
		{"required null", `{"type":"null"}`, true, nil},
		{"required object", `{"type":"object"}`, true, map[string]any{}},
		{"required array", `{"type":"array"}`, true, []any{}},
		{"type list uses first", `{"type":["number","string"]}`, true, float64(0)},
		{"required untyped", `{}`, true, undef},
		{"optional", `{"type":"string"}`, false, undef},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scaffold.DefaultValue(parse(t, tc.schema), tc.required))
		})
	}
	assert.Equal(t, undef, scaffold.DefaultValue(jsonschema.True(), true))
	assert.Equal(t, undef, scaffold.DefaultValue(nil, true))
}

func TestDefaultValue_FreshCopies(t *testing.T) {
	s := parse(t, `{"default":{"list":[1,2]}}`)
	a := scaffold.DefaultValue(s, false).(map[string]any)
	b := scaffold.DefaultValue(s, false).(map[string]any)
	a["list"].([]any)[0] = "changed"
	assert.Equal(t, float64(1), b["list"].([]any)[0])
	assert.Equal(t, float64(1), s.Default.Value.(map[string]any)["list"].([]any)[0])
}

func TestBuild_RequiredAndOptional(t *testing.T) {
	props := `"properties":{"a":{"type":"string"},"b":{"type":"integer"}}`
	required := parse(t, `{"type":"object","required":["a","b"],`+props+`}`)
	assert.Equal(t, map[string]any{"a": "", "b": float64(0)}, build(required))

	optional := parse(t, `{"type":"object",`+props+`}`)
	assert.Equal(t, map[string]any{"a": undef, "b": undef}, build(optional))
}

func TestBuild_DefaultPrecedence(t *testing.T) {
	s := parse(t, `{"type":"object","required":["name"],"properties":{"name":{"type":"string","default":"X"}}}`)
	assert.Equal(t, map[string]any{"name": "X"}, build(s))
}

func TestBuild_NestedObjects(t *testing.T) {
	s := parse(t, `{
		"type":"object",
		"required":["user"],
		"properties":{
			"user":{
				"type":"object",
				"required":["name"],
				"properties":{
					"name":{"type":"string"},
					"address":{"type":"object","properties":{"city":{"type":"string"}}}
				}
			}
		}
	}`)
	assert.Equal(t, map[string]any{
		"user": map[string]any{"name": "", "address": undef},
	}, build(s))
}

func TestBuild_ObjectDefaultAssignsMembers(t *testing.T) {
	s := parse(t, `{
		"type":"object",
		"properties":{
			"conf":{"type":"object","default":{"a":1},"properties":{"a":{},"b":{"type":"string"}}}
		}
	}`)
	assert.Equal(t, map[string]any{"conf": map[string]any{"a": float64(1)}}, build(s))
}

func TestBuild_NoAliasing(t *testing.T) {
	s := parse(t, `{
		"type":"object",
		"required":["obj","list"],
		"properties":{
			"obj":{"type":"object","default":{"k":[1]}},
			"list":{"type":"array"}
		}
	}`)
	first := build(s)
	second := build(s)
	assert.Equal(t, first, second)

	first["obj"].(map[string]any)["k"].([]any)[0] = "changed"
	first["list"] = append(first["list"].([]any), 1)
	assert.Equal(t, []any{float64(1)}, second["obj"].(map[string]any)["k"])
	assert.Empty(t, second["list"])
}

func TestBuild_AllOfIsDeep(t *testing.T) {
	s := parse(t, `{
		"type":"object",
		"required":["name"],
		"properties":{"name":{"type":"string","default":"own"}},
		"allOf":[
			{"properties":{"name":{"default":"branch"},"count":{"type":"integer","default":3}}},
			{"required":["nested"],"properties":{"nested":{"type":"object","required":["x"],"properties":{"x":{"type":"boolean"}}}}},
			{"properties":{"count":{"default":9}}}
		]
	}`)
	assert.Equal(t, map[string]any{
		"name":   "own",
		"count":  float64(3),
		"nested": map[string]any{"x": false},
	}, build(s))
}

func TestBuild_OwnPropertiesBeatAllOf(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		want   map[string]any
	}{
		{
			name: "required zero value",
			schema: `{
				"type":"object",
				"required":["level"],
				"properties":{"level":{"type":"string"}},
				"allOf":[{"properties":{"level":{"default":"info"}}}]
			}`,
			want: map[string]any{"level": ""},
		},
		{
			name: "nested zero value",
			schema: `{
				"type":"object",
				"required":["log"],
				"properties":{"log":{"type":"object","required":["level"],"properties":{"level":{"type":"string"}}}},
				"allOf":[{"properties":{"log":{"properties":{"level":{"default":"info"},"color":{"default":true}}}}}]
			}`,
			want: map[string]any{"log": map[string]any{"level": "", "color": true}},
		},
		{
			name: "optional without default",
			schema: `{
				"type":"object",
				"properties":{"level":{"type":"string"}},
				"allOf":[{"properties":{"level":{"default":"info"}}}]
			}`,
			want: map[string]any{"level": "info"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, build(parse(t, tc.schema)))
		})
	}
}

func TestBuilder_LaterMountDefaultBeatsZeroValue(t *testing.T) {
	b := scaffold.New()
	b.MergeAt([]string{"cfg"}, parse(t, `{"type":"object","required":["level"],"properties":{"level":{"type":"string"}}}`))
	b.MergeAt([]string{"cfg"}, parse(t, `{"properties":{"level":{"default":"info"}}}`))
	assert.Equal(t, map[string]any{"cfg": map[string]any{"level": "info"}}, b.Root())
}

func TestBuild_AlternativesAreShallow(t *testing.T) {
	s := parse(t, `{
		"type":"object",
		"properties":{"kind":{"type":"string","default":"a"}},
		"anyOf":[{"required":["x"],"properties":{"x":{"type":"string","default":"dx"}}}],
		"oneOf":[{"properties":{"kind":{"default":"b"},"y":{"type":"object","required":["z"],"properties":{"z":{"type":"string"}}}}}],
		"not":{"properties":{"w":{"default":1}}}
	}`)
	assert.Equal(t, map[string]any{
		"kind": "a",
		"x":    undef,
		"y":    undef,
		"w":    undef,
	}, build(s))
}

func TestBuild_CyclicSchemaTerminates(t *testing.T) {
	node := map[string]any{"type": "object"}
	node["properties"] = map[string]any{"child": node}
	s, err := jsonschema.FromValue(node)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"child": undef}, build(s))

	node["required"] = []any{"child"}
	s, err = jsonschema.FromValue(node)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"child": map[string]any{"child": undef}}, build(s))
}

func TestBuild_MinItems(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		want   any
	}{
		{
			name:   "object items",
			schema: `{"type":"array","minItems":2,"items":{"type":"object","required":["id"],"properties":{"id":{"type":"string"}}}}`,
			want:   []any{map[string]any{"id": ""}, map[string]any{"id": ""}},
		},
		{
			name:   "scalar items are not filled",
			schema: `{"type":"array","minItems":2,"items":{"type":"string"}}`,
			want:   []any{},
		},
		{
			name:   "scalar items with default",
			schema: `{"type":"array","minItems":2,"items":{"type":"string","default":"x"}}`,
			want:   []any{"x", "x"},
		},
		{
			name:   "tuple falls back to additionalItems",
			schema: `{"type":"array","minItems":3,"items":[{"type":"array"},{"properties":{"a":{}}}],"additionalItems":{"type":"object"}}`,
			want:   []any{[]any{}, map[string]any{"a": undef}, map[string]any{}},
		},
		{
			name:   "tuple stops at a plain template",
			schema: `{"type":"array","minItems":3,"items":[{"type":"object"},{"type":"string"},{"type":"object"}]}`,
			want:   []any{map[string]any{}},
		},
		{
			name:   "nested arrays",
			schema: `{"type":"array","minItems":1,"items":{"type":"array","minItems":1,"items":{"type":"object"}}}`,
			want:   []any{[]any{map[string]any{}}},
		},
		{
			name:   "array default is copied",
			schema: `{"type":"array","minItems":3,"default":[1],"items":{"type":"object"}}`,
			want:   []any{float64(1)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scaffold.Build(parse(t, tc.schema)))
		})
	}
}

func TestBuilder_MountPrecedence(t *testing.T) {
	first := parse(t, `{"type":"object","required":["a","b"],"properties":{"a":{"type":"string"},"b":{"type":"string"}}}`)
	second := parse(t, `{"type":"object","required":["a"],"properties":{"a":{"type":"integer"},"b":{"type":"string","default":"explicit"},"c":{"type":"boolean"}}}`)

	b := scaffold.New()
	b.Merge(first)
	b.Merge(second)
	assert.Equal(t, map[string]any{"a": "", "b": "explicit", "c": undef}, b.Root())
}

func TestBuilder_MergeAt(t *testing.T) {
	b := scaffold.New()
	b.MergeAt([]string{"settings", "ui"}, parse(t, `{"type":"object","required":["theme"],"properties":{"theme":{"type":"string","default":"dark"}}}`))
	b.MergeAt([]string{"settings", "ui"}, parse(t, `{"properties":{"size":{"type":"integer","default":12}}}`))
	b.MergeAt([]string{"name"}, parse(t, `{"type":"string"}`))
	b.MarkUndefined([]string{"remote"})
	b.MarkUndefined([]string{"name"})

	assert.Equal(t, map[string]any{
		"settings": map[string]any{
			"ui": map[string]any{"theme": "dark", "size": float64(12)},
		},
		"name":   "",
		"remote": undef,
	}, b.Root())
}

func TestProperty(t *testing.T) {
	parentSchema := parse(t, `{
		"type":"object",
		"properties":{
			"address":{"type":"object","required":["city"],"properties":{"city":{"type":"string"},"zip":{"type":"string"}}},
			"name":{"type":"string"}
		}
	}`)
	parent := build(parentSchema)
	require.Equal(t, undef, parent["address"])

	got, err := scaffold.Property(parent, parentSchema, "address", map[string]any{"zip": "100"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "", "zip": "100"}, got)
	assert.Equal(t, got, parent["address"])

	_, err = scaffold.Property(parent, parentSchema, "missing", nil)
	assert.ErrorIs(t, err, scaffold.ErrUnknownProperty)
	_, err = scaffold.Property(parent, parentSchema, "name", nil)
	assert.ErrorIs(t, err, scaffold.ErrNotObject)
}

func TestItem(t *testing.T) {
	s := parse(t, `{"type":"array","items":[{"type":"object","required":["a"],"properties":{"a":{"type":"string"}}}],"additionalItems":{"type":"string"}}`)

	arr, elem, err := scaffold.Item(nil, s, map[string]any{"b": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "", "b": 1}, elem)
	assert.Len(t, arr, 1)

	arr, elem, err = scaffold.Item(arr, s, nil)
	require.NoError(t, err)
	assert.Equal(t, "", elem)
	assert.Len(t, arr, 2)

	_, _, err = scaffold.Item(arr, s, map[string]any{"x": 1})
	assert.ErrorIs(t, err, scaffold.ErrNotObject)
}
