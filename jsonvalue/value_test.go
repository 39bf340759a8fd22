package jsonvalue_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaform/jsonvalue"
)

type account struct {
	Name    string `json:"name"`
	Secret  string `json:"-"`
	Balance int
}

func TestIs_TypePredicates(t *testing.T) {
	cases := []struct {
		typ  string
		in   any
		want bool
	}{
		{jsonvalue.TypeString, "", true},
		{jsonvalue.TypeString, 1, false},
		{jsonvalue.TypeNumber, 1.5, true},
		{jsonvalue.TypeNumber, int64(3), true},
		{jsonvalue.TypeNumber, json.Number("2.5"), true},
		{jsonvalue.TypeNumber, math.NaN(), false},
		{jsonvalue.TypeNumber, math.Inf(1), false},
		{jsonvalue.TypeNumber, "1", false},
		{jsonvalue.TypeInteger, 1.0, true},
		{jsonvalue.TypeInteger, 1.1, false},
		{jsonvalue.TypeInteger, uint8(7), true},
		{jsonvalue.TypeBoolean, false, true},
		{jsonvalue.TypeBoolean, 0, false},
		{jsonvalue.TypeNull, nil, true},
		{jsonvalue.TypeNull, jsonvalue.Undefined, false},
		{jsonvalue.TypeObject, map[string]any{}, true},
		{jsonvalue.TypeObject, map[string]int{"a": 1}, true},
		{jsonvalue.TypeObject, account{}, true},
		{jsonvalue.TypeObject, &account{}, true},
		{jsonvalue.TypeObject, time.Time{}, true},
		{jsonvalue.TypeObject, []any{}, false},
		{jsonvalue.TypeObject, nil, false},
		{jsonvalue.TypeObject, (*account)(nil), false},
		{jsonvalue.TypeObject, map[int]string{}, false},
		{jsonvalue.TypeArray, []any{}, true},
		{jsonvalue.TypeArray, []string{"a"}, true},
		{jsonvalue.TypeArray, [2]int{}, true},
		{jsonvalue.TypeArray, "abc", false},
		{"unknown", "abc", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, jsonvalue.Is(tc.typ, tc.in), "%s(%#v)", tc.typ, tc.in)
	}
}

func TestMember(t *testing.T) {
	obj := map[string]any{"a": 1, "u": jsonvalue.Undefined}
	assert.Equal(t, 1, jsonvalue.Member(obj, "a"))
	assert.True(t, jsonvalue.IsUndefined(jsonvalue.Member(obj, "missing")))
	assert.True(t, jsonvalue.IsUndefined(jsonvalue.Member(obj, "u")))
	assert.True(t, jsonvalue.IsUndefined(jsonvalue.Member(nil, "a")))
	assert.True(t, jsonvalue.IsUndefined(jsonvalue.Member("str", "a")))

	arr := []any{"x", "y"}
	assert.Equal(t, "y", jsonvalue.Member(arr, "1"))
	assert.True(t, jsonvalue.IsUndefined(jsonvalue.Member(arr, "2")))

	acc := &account{Name: "n", Secret: "s", Balance: 3}
	assert.Equal(t, "n", jsonvalue.Member(acc, "name"))
	assert.Equal(t, 3, jsonvalue.Member(acc, "Balance"))
	assert.True(t, jsonvalue.IsUndefined(jsonvalue.Member(acc, "Secret")))
	assert.Equal(t, []string{"Balance", "name"}, jsonvalue.Keys(acc))

	typed := map[string]int{"b": 2, "a": 1}
	assert.Equal(t, 2, jsonvalue.Member(typed, "b"))
	assert.Equal(t, []string{"a", "b"}, jsonvalue.Keys(typed))
}

func TestKeys_SkipsUndefined(t *testing.T) {
	keys := jsonvalue.Keys(map[string]any{"b": 1, "a": nil, "c": jsonvalue.Undefined})
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Nil(t, jsonvalue.Keys([]any{1}))
	assert.True(t, jsonvalue.HasKey(map[string]any{"a": nil}, "a"))
	assert.False(t, jsonvalue.HasKey(map[string]any{"a": jsonvalue.Undefined}, "a"))
}

func TestLength(t *testing.T) {
	n, ok := jsonvalue.Length("héllo")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = jsonvalue.Length([]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = jsonvalue.Length(12)
	assert.False(t, ok)
	_, ok = jsonvalue.Length(nil)
	assert.False(t, ok)
}

func TestCanonicalKey_StructuralEquality(t *testing.T) {
	assert.Equal(t, jsonvalue.CanonicalKey(map[string]any{}), jsonvalue.CanonicalKey(map[string]any{}))
	assert.NotEqual(t, jsonvalue.CanonicalKey("1"), jsonvalue.CanonicalKey(1))
	assert.Equal(t, jsonvalue.CanonicalKey(1), jsonvalue.CanonicalKey(1.0))
	assert.Equal(t, jsonvalue.CanonicalKey(json.Number("2")), jsonvalue.CanonicalKey(int64(2)))
	assert.Equal(t,
		jsonvalue.CanonicalKey(map[string]any{"a": 1, "b": []any{true}}),
		jsonvalue.CanonicalKey(map[string]any{"b": []any{true}, "a": 1.0}),
	)
	assert.True(t, jsonvalue.Equal(account{Name: "x"}, map[string]any{"name": "x", "Balance": 0}))
	assert.False(t, jsonvalue.Equal(jsonvalue.Undefined, nil))
	assert.True(t, jsonvalue.Equal(jsonvalue.Undefined, jsonvalue.Undefined))
}

func TestClone_NoAliasing(t *testing.T) {
	src := map[string]any{"nested": map[string]any{"list": []any{1}}}
	cp := jsonvalue.Clone(src).(map[string]any)
	cp["nested"].(map[string]any)["list"].([]any)[0] = 2
	assert.Equal(t, 1, src["nested"].(map[string]any)["list"].([]any)[0])
}

func TestCompact(t *testing.T) {
	in := map[string]any{"a": jsonvalue.Undefined, "b": map[string]any{"c": jsonvalue.Undefined, "d": 1}}
	assert.Equal(t, map[string]any{"b": map[string]any{"d": 1}}, jsonvalue.Compact(in))
}
