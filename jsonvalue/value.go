package jsonvalue

import (
	"encoding/json"
	"math"
	"reflect"
)

// JSON type names as they appear in a schema's "type" keyword.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined marks an absent value. It is distinct from nil, which is JSON null.
// Scaffolds use it for properties that exist structurally but carry no value yet.
var Undefined = UndefinedType{}

func (UndefinedType) String() string { return "undefined" }

// MarshalJSON encodes Undefined as null so a scaffold can always be encoded;
// use Compact to drop undefined members instead.
func (UndefinedType) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// IsAbsent reports whether v is Undefined or null.
func IsAbsent(v any) bool {
	return v == nil || IsUndefined(v)
}

// Is reports whether v satisfies the named JSON type. Unknown type names never match.
func Is(typeName string, v any) bool {
	switch typeName {
	case TypeString:
		return IsString(v)
	case TypeNumber:
		return IsNumber(v)
	case TypeInteger:
		return IsInteger(v)
	case TypeBoolean:
		return IsBoolean(v)
	case TypeObject:
		return IsObject(v)
	case TypeArray:
		return IsArray(v)
	case TypeNull:
		return IsNull(v)
	default:
		return false
	}
}

func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

func IsBoolean(v any) bool {
	_, ok := v.(bool)
	return ok
}

func IsNull(v any) bool { return v == nil }

// IsNumber accepts finite values of any Go numeric kind and json.Number.
func IsNumber(v any) bool {
	_, ok := Float(v)
	return ok
}

// IsInteger accepts numbers without a fractional part.
func IsInteger(v any) bool {
	f, ok := Float(v)
	return ok && math.Trunc(f) == f
}

// IsObject accepts maps with string keys, structs and non-nil pointers to
// either. Arrays and slices are never objects.
func IsObject(v any) bool {
	switch t := v.(type) {
	case nil, UndefinedType:
		return false
	case map[string]any:
		return t != nil
	}
	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		return !rv.IsNil() && rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	default:
		return false
	}
}

// IsArray accepts slices and arrays of any element type.
func IsArray(v any) bool {
	switch v.(type) {
	case nil, UndefinedType, string:
		return false
	case []any:
		return true
	}
	rv := indirect(reflect.ValueOf(v))
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

// Float converts a finite numeric value to float64.
func Float(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
