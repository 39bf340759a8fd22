package jsonvalue

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Member returns v[key] or Undefined when v has no such member. Arrays accept
// decimal indexes.
func Member(v any, key string) any {
	switch t := v.(type) {
	case map[string]any:
		if mv, ok := t[key]; ok {
			return mv
		}
		return Undefined
	case []any:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(t) {
			return t[i]
		}
		return Undefined
	case nil, UndefinedType:
		return Undefined
	}
	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Undefined
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return Undefined
		}
		return mv.Interface()
	case reflect.Struct:
		for _, f := range structFields(rv.Type()) {
			if f.name == key {
				return rv.FieldByIndex(f.index).Interface()
			}
		}
		return Undefined
	case reflect.Slice, reflect.Array:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < rv.Len() {
			return rv.Index(i).Interface()
		}
	}
	return Undefined
}

// Keys lists the own keys of an object value in sorted order. Members holding
// Undefined are not own keys. Non-objects have no keys.
func Keys(v any) []string {
	var keys []string
	switch t := v.(type) {
	case map[string]any:
		keys = make([]string, 0, len(t))
		for k, mv := range t {
			if IsUndefined(mv) {
				continue
			}
			keys = append(keys, k)
		}
	default:
		rv := indirect(reflect.ValueOf(v))
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil
			}
			iter := rv.MapRange()
			for iter.Next() {
				if IsUndefined(iter.Value().Interface()) {
					continue
				}
				keys = append(keys, iter.Key().String())
			}
		case reflect.Struct:
			for _, f := range structFields(rv.Type()) {
				keys = append(keys, f.name)
			}
		default:
			return nil
		}
	}
	sort.Strings(keys)
	return keys
}

// HasKey reports whether key is an own key of the object value v.
func HasKey(v any, key string) bool {
	return !IsUndefined(Member(v, key)) && IsObject(v)
}

// Elements returns the elements of an array value.
func Elements(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case nil, UndefinedType, string:
		return nil, false
	}
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Length reports the length of strings (in code points) and arrays.
func Length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	if IsArray(v) {
		return indirect(reflect.ValueOf(v)).Len(), true
	}
	return 0, false
}

type fieldInfo struct {
	name  string
	index []int
}

// structFields lists exported fields under their JSON names, honouring
// `json:"name"` and `json:"-"`.
func structFields(t reflect.Type) []fieldInfo {
	fields := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tn, _, _ := strings.Cut(tag, ",")
			if tn == "-" {
				continue
			}
			if tn != "" {
				name = tn
			}
		}
		fields = append(fields, fieldInfo{name: name, index: sf.Index})
	}
	return fields
}
